package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/aiready/internal/diagnosis"
	"github.com/abhisek/aiready/internal/scoring"
	"github.com/abhisek/aiready/internal/ui/components"
)

var submitCmd = &cobra.Command{
	Use:   "submit <answers-file>",
	Short: "Score an answers file and store the diagnosis",
	Long: "Score an answers file and store the diagnosis.\n\n" +
		"The file is YAML or JSON. It is either a map of question id to the\n" +
		"0-based choice index, or a document with facility_name, session_id,\n" +
		"user_id and an answers map. Flags override the document fields.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sub, err := readSubmission(args[0])
		if err != nil {
			return err
		}
		if err := applySubmitFlags(cmd, &sub); err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.svc.Submit(cmd.Context(), sub)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.Summary(rec, a.cat, components.DefaultWidth))
		return nil
	},
}

// readSubmission parses an answers file into a Submission.
func readSubmission(path string) (diagnosis.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return diagnosis.Submission{}, fmt.Errorf("read answers file: %w", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return diagnosis.Submission{}, fmt.Errorf("parse answers file: %w", err)
	}

	answers, ok := raw["answers"].(map[string]any)
	if !ok {
		return diagnosis.Submission{Answers: scoring.ParseAnswerSet(raw)}, nil
	}
	sub := diagnosis.Submission{
		FacilityName: stringField(raw, "facility_name"),
		SessionID:    stringField(raw, "session_id"),
		UserID:       stringField(raw, "user_id"),
		Answers:      scoring.ParseAnswerSet(answers),
	}
	return sub, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func applySubmitFlags(cmd *cobra.Command, sub *diagnosis.Submission) error {
	if v, _ := cmd.Flags().GetString("facility"); v != "" {
		sub.FacilityName = v
	}
	if v, _ := cmd.Flags().GetString("session"); v != "" {
		sub.SessionID = v
	}
	if v, _ := cmd.Flags().GetString("user"); v != "" {
		sub.UserID = v
	}
	if v, _ := cmd.Flags().GetString("date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			return err
		}
		sub.SubmittedAt = t
	}
	return nil
}

// parseDate accepts RFC 3339 timestamps and plain dates in local time.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

func init() {
	submitCmd.Flags().String("facility", "", "Facility or organization name")
	submitCmd.Flags().String("session", "", "Session id (generated when empty)")
	submitCmd.Flags().String("user", "", "User id")
	submitCmd.Flags().String("date", "", "Diagnosis date, YYYY-MM-DD or RFC 3339 (default now)")
}
