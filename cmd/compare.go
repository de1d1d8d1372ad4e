package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/aiready/internal/diagnosis"
	"github.com/abhisek/aiready/internal/ui/components"
)

var compareCmd = &cobra.Command{
	Use:   "compare <id> <id> [id...]",
	Short: fmt.Sprintf("Compare %d to %d diagnoses category by category", diagnosis.MinCompare, diagnosis.MaxCompare),
	Args:  cobra.RangeArgs(diagnosis.MinCompare, diagnosis.MaxCompare),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int64, len(args))
		for i, arg := range args {
			id, err := parseID(arg)
			if err != nil {
				return err
			}
			ids[i] = id
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cmp, err := a.svc.Compare(cmd.Context(), ids)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.Comparison(cmp))

		if path, _ := cmd.Flags().GetString("chart"); path != "" {
			png, err := a.exp.CompareChart(cmp.Records)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, png, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		}
		return nil
	},
}

func init() {
	compareCmd.Flags().String("chart", "", "Also write an overlaid radar chart PNG to this path")
}
