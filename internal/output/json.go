package output

import (
	"encoding/json"

	"github.com/intakehq/intake/internal/core"
)

// JSONFormatter renders feedback as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatFeedback renders a feedback listing as JSON.
func (f *JSONFormatter) FormatFeedback(items []core.Feedback) (string, error) {
	if items == nil {
		items = []core.Feedback{}
	}

	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(items, "", "  ")
	} else {
		data, err = json.Marshal(items)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
