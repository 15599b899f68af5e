package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/intakehq/intake/internal/core"
	"github.com/intakehq/intake/internal/output"
)

var (
	feedbackListOutput string
	feedbackListParams = map[string]*string{
		"rating":    new(string),
		"category":  new(string),
		"status":    new(string),
		"priority":  new(string),
		"startDate": new(string),
		"endDate":   new(string),
		"sortBy":    new(string),
		"sortDir":   new(string),
		"page":      new(string),
		"size":      new(string),
	}
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Inspect stored feedback",
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback with optional filters",
	Long: `List stored feedback, filtered and sorted the same way the admin API
filters it. Filter flags mirror the API query parameters.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(feedbackListOutput)
		if err != nil {
			return err
		}

		params, problems := core.ParseFilterParams(func(name string) string {
			if value, ok := feedbackListParams[name]; ok {
				return *value
			}
			return ""
		})
		if len(problems) > 0 {
			for field, reason := range problems {
				fmt.Printf("invalid --%s: %s\n", field, reason)
			}
			return fmt.Errorf("invalid filter flags")
		}
		spec := core.ResolveFilter(params)

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		items, err := db.ListFeedback(cmd.Context(), spec)
		if err != nil {
			return err
		}

		rendered, err := output.NewFormatter(format).FormatFeedback(items)
		if err != nil {
			return err
		}
		fmt.Println(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	feedbackCmd.AddCommand(feedbackListCmd)

	feedbackListCmd.Flags().StringVar(&feedbackListOutput, "output-format", string(output.FormatTable), "Output format: table|json|markdown")
	feedbackListCmd.Flags().StringVar(feedbackListParams["rating"], "rating", "", "Filter by rating (1-5)")
	feedbackListCmd.Flags().StringVar(feedbackListParams["category"], "category", "", "Filter by category")
	feedbackListCmd.Flags().StringVar(feedbackListParams["status"], "status", "", "Filter by status")
	feedbackListCmd.Flags().StringVar(feedbackListParams["priority"], "priority", "", "Filter by priority")
	feedbackListCmd.Flags().StringVar(feedbackListParams["startDate"], "start-date", "", "Filter by creation time lower bound (RFC 3339)")
	feedbackListCmd.Flags().StringVar(feedbackListParams["endDate"], "end-date", "", "Filter by creation time upper bound (RFC 3339, exclusive)")
	feedbackListCmd.Flags().StringVar(feedbackListParams["sortBy"], "sort-by", "", "Sort key: createdAt|rating|status|priority|category|userId")
	feedbackListCmd.Flags().StringVar(feedbackListParams["sortDir"], "sort-dir", "", "Sort direction: asc|desc")
	feedbackListCmd.Flags().StringVar(feedbackListParams["page"], "page", "", "Page index (0-based)")
	feedbackListCmd.Flags().StringVar(feedbackListParams["size"], "size", "", "Page size")
}
