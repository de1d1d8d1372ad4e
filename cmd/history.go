package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/aiready/internal/store"
	"github.com/abhisek/aiready/internal/ui/components"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored diagnoses, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session, _ := cmd.Flags().GetString("session")
		if limit < 0 {
			return errors.New("--limit must not be negative")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		recs, err := a.svc.List(cmd.Context(), store.ListOpts{Limit: limit, SessionID: session})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.History(recs))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one diagnosis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.svc.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), components.Summary(rec, a.cat, components.DefaultWidth))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one diagnosis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ok, err := a.svc.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("diagnosis %d not found", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted diagnosis %d.\n", id)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of diagnoses to show (0 for all)")
	historyCmd.Flags().StringP("session", "s", "", "Only show diagnoses from this session")
}
