package core

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category classifies a feedback submission.
type Category string

const (
	CategoryBugReport      Category = "BUG_REPORT"
	CategoryFeatureRequest Category = "FEATURE_REQUEST"
	CategoryGeneral        Category = "GENERAL"
	CategoryComplaint      Category = "COMPLAINT"
)

// Status tracks the triage lifecycle of a feedback record.
type Status string

const (
	StatusNew      Status = "NEW"
	StatusInReview Status = "IN_REVIEW"
	StatusResolved Status = "RESOLVED"
	StatusClosed   Status = "CLOSED"
)

// Priority is assigned by admins during triage. It is optional on submission.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Feedback is a single feedback submission.
type Feedback struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Rating    int       `json:"rating"`
	Category  Category  `json:"category"`
	Status    Status    `json:"status"`
	Priority  Priority  `json:"priority,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewFeedback returns a feedback record with generated ID, NEW status and
// creation timestamp, mirroring the submission defaults.
func NewFeedback() Feedback {
	return Feedback{
		ID:        uuid.New(),
		Status:    StatusNew,
		CreatedAt: time.Now().UTC(),
	}
}

// AdminResponse is an admin reply attached to a feedback record.
type AdminResponse struct {
	ID         uuid.UUID `json:"id"`
	FeedbackID uuid.UUID `json:"feedbackId"`
	AdminID    string    `json:"adminId"`
	Response   string    `json:"response"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Attachment records metadata for a file attached to a feedback record.
// Byte storage lives outside this service; only metadata is tracked here.
type Attachment struct {
	ID          uuid.UUID `json:"id"`
	FeedbackID  uuid.UUID `json:"feedbackId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	FilePath    string    `json:"filePath"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// ParseCategory validates a raw category value.
func ParseCategory(raw string) (Category, bool) {
	switch Category(strings.ToUpper(strings.TrimSpace(raw))) {
	case CategoryBugReport:
		return CategoryBugReport, true
	case CategoryFeatureRequest:
		return CategoryFeatureRequest, true
	case CategoryGeneral:
		return CategoryGeneral, true
	case CategoryComplaint:
		return CategoryComplaint, true
	}
	return "", false
}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusNew:
		return StatusNew, true
	case StatusInReview:
		return StatusInReview, true
	case StatusResolved:
		return StatusResolved, true
	case StatusClosed:
		return StatusClosed, true
	}
	return "", false
}

// ParsePriority validates a raw priority value.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(strings.ToUpper(strings.TrimSpace(raw))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return "", false
}

// ValidateSubmission checks the fields a client controls on submission and
// returns a field -> reason map. An empty map means the submission is valid.
// The reason strings are part of the public API contract.
func (f *Feedback) ValidateSubmission() map[string]string {
	problems := make(map[string]string)

	if strings.TrimSpace(f.UserID) == "" {
		problems["userId"] = "userId is required"
	}
	if strings.TrimSpace(f.Message) == "" {
		problems["message"] = "message is required"
	}
	if f.Rating < 1 {
		problems["rating"] = "rating must be at least 1"
	}
	if f.Rating > 5 {
		problems["rating"] = "rating must be at most 5"
	}
	if f.Category == "" {
		problems["category"] = "category is required"
	} else if _, ok := ParseCategory(string(f.Category)); !ok {
		problems["category"] = "category is invalid"
	}
	if f.Priority != "" {
		if _, ok := ParsePriority(string(f.Priority)); !ok {
			problems["priority"] = "priority is invalid"
		}
	}

	return problems
}
