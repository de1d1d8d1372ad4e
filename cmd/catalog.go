package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/aiready/internal/ui/theme"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, theme.Title.Render(fmt.Sprintf("AI readiness questionnaire (%s)", a.cat.Version())))
		for _, cg := range a.cat.Categories() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, theme.Header.Render(fmt.Sprintf("%s  [%s, max %d]", cg.Name, cg.Key, a.cat.CategoryMaxScore(cg.Key))))
			if cg.Description != "" {
				fmt.Fprintln(out, theme.Hint.Render(cg.Description))
			}
			for _, q := range cg.Questions {
				fmt.Fprintf(out, "%s  Q%d. %s\n", q.ID, a.cat.QuestionNumber(q.ID), q.Text)
				for i, c := range q.Choices {
					fmt.Fprintf(out, "      %d) %s %s\n", i, c.Text, theme.Subtitle.Render(fmt.Sprintf("(%d)", c.Score)))
				}
			}
		}
		return nil
	},
}
