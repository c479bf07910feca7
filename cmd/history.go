package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/careertree/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completions and personalizations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		activity, err := e.tracker.History(cmd.Context(), e.user(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, activity)
		}

		type line struct {
			seq  int64
			at   time.Time
			text string
		}
		var lines []line
		for _, c := range activity.Completions {
			text := fmt.Sprintf("completed %s  +%d XP  (level %d)", c.NodeID, c.XPAwarded, c.Level)
			if len(c.Achievements) > 0 {
				text += "  ★ " + strings.Join(c.Achievements, ", ")
			}
			lines = append(lines, line{c.Sequence, c.Timestamp, text})
		}
		for _, m := range activity.Merges {
			text := fmt.Sprintf("personalized %q  %d added, %d replaced", m.Title, len(m.Added), len(m.Replaced))
			lines = append(lines, line{m.Sequence, m.Timestamp, text})
		}
		if len(lines) == 0 {
			fmt.Fprintln(out, "No activity yet.")
			return nil
		}
		sort.Slice(lines, func(i, j int) bool { return lines[i].seq > lines[j].seq })
		if limit > 0 && len(lines) > limit {
			lines = lines[:limit]
		}
		for _, l := range lines {
			fmt.Fprintf(out, "%s  %s\n", l.at.Local().Format("2006-01-02 15:04"), l.text)
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete your progress and personalized nodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		if !yes {
			return fmt.Errorf("this deletes all progress of user %q; rerun with --yes to confirm", e.user())
		}
		if err := e.tracker.Reset(cmd.Context(), e.user()); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Progress of %s reset.\n", e.user())
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show (0 = all)")
	historyCmd.Flags().Bool("json", false, "Print raw events as JSON")

	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
