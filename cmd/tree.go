package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/tracker"
	"github.com/abhisek/careertree/internal/ui/components"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Show the skill tree with each node's status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		status, _ := cmd.Flags().GetString("status")
		asJSON, _ := cmd.Flags().GetBool("json")

		if category != "" && !skilltree.Category(category).Valid() {
			return fmt.Errorf("unknown category %q", category)
		}
		if status != "" && !validStatus(eligibility.Status(status)) {
			return fmt.Errorf("unknown status %q", status)
		}

		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		graph, err := e.tracker.Graph(cmd.Context(), e.user())
		if err != nil {
			return fmt.Errorf("build tree: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, graph)
		}

		for _, cat := range skilltree.AllCategories() {
			if category != "" && cat != skilltree.Category(category) {
				continue
			}
			var rows []eligibility.GraphNode
			for _, n := range graph.Nodes {
				if n.Category == cat && (status == "" || n.Status == eligibility.Status(status)) {
					rows = append(rows, n)
				}
			}
			if len(rows) == 0 {
				continue
			}
			fmt.Fprintln(out, cat.DisplayName())
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, n := range rows {
				title := n.Title
				if n.InProgress {
					title += " (started)"
				}
				fmt.Fprintf(out, "  %-24s  %-36s  %5d XP  %s\n",
					truncate(n.ID, 24), truncate(title, 36), n.XPReward, components.StatusLabel(n.Status))
			}
			fmt.Fprintln(out)
		}

		s := graph.Stats
		fmt.Fprintf(out, "%d/%d completed (%d%%)  %d recommended  %d available  %d locked\n",
			s.Completed, s.TotalNodes, s.CompletionRate, s.Recommended, s.Available, s.Locked)
		return nil
	},
}

var completeCmd = &cobra.Command{
	Use:   "complete <node>",
	Short: "Mark a node completed and award its XP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		outcome, p, err := e.tracker.Complete(cmd.Context(), e.user(), args[0])
		if err != nil {
			return describeNodeError(err)
		}

		out := cmd.OutOrStdout()
		if outcome.AlreadyCompleted {
			fmt.Fprintf(out, "%s was already completed.\n", outcome.NodeID)
			return nil
		}
		fmt.Fprintf(out, "Completed %s: +%d XP (total %d)\n", outcome.NodeID, outcome.XPAwarded, p.TotalXP)
		if outcome.LeveledUp() {
			fmt.Fprintf(out, "Level up! %d → %d\n", outcome.LevelBefore, outcome.LevelAfter)
		}
		for _, a := range outcome.Achievements {
			fmt.Fprintf(out, "Achievement unlocked: %s\n", a.Title)
		}
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start <node>",
	Short: "Mark a node as in progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		changed, _, err := e.tracker.Start(cmd.Context(), e.user(), args[0])
		if err != nil {
			return describeNodeError(err)
		}
		if changed {
			fmt.Fprintf(cmd.OutOrStdout(), "Started %s.\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already started or completed.\n", args[0])
		}
		return nil
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show level, XP and achievements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		catalog, p, err := e.tracker.State(cmd.Context(), e.user())
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		out := cmd.OutOrStdout()
		if asJSON {
			return writeJSON(out, p)
		}

		fmt.Fprintf(out, "User:       %s\n", e.user())
		fmt.Fprintf(out, "Level:      %d\n", p.Level)
		fmt.Fprintf(out, "XP:         %d (%d to next level)\n", p.TotalXP, p.XPToNextLevel())
		fmt.Fprintf(out, "Completed:  %d of %d\n", len(p.CompletedNodes), catalog.Len())
		if len(p.InProgressNodes) > 0 {
			fmt.Fprintf(out, "Started:    %s\n", strings.Join(p.InProgressNodes, ", "))
		}
		if len(p.AIRecommendedPath) > 0 {
			fmt.Fprintf(out, "Path:       %s\n", strings.Join(p.AIRecommendedPath, " → "))
		}
		if len(p.Achievements) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Achievements")
			fmt.Fprintln(out, strings.Repeat("─", 60))
			for _, a := range p.Achievements {
				fmt.Fprintf(out, "  %-28s  %s\n", a.Title, a.UnlockedAt.Local().Format("2006-01-02"))
			}
		}
		return nil
	},
}

func validStatus(s eligibility.Status) bool {
	for _, st := range eligibility.AllStatuses() {
		if st == s {
			return true
		}
	}
	return false
}

// describeNodeError turns tracker errors into messages that say what to
// do next.
func describeNodeError(err error) error {
	var ineligible *tracker.ErrIneligibleNode
	if errors.As(err, &ineligible) {
		return fmt.Errorf("%s is %s; complete first: %s",
			ineligible.NodeID, ineligible.Status, strings.Join(ineligible.Missing, ", "))
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}

func init() {
	treeCmd.Flags().String("category", "", "Only show one category (foundation, science, commerce, arts, interdisciplinary)")
	treeCmd.Flags().String("status", "", "Only show nodes with this status (completed, recommended, available, locked)")
	treeCmd.Flags().Bool("json", false, "Print the annotated graph as JSON")

	progressCmd.Flags().Bool("json", false, "Print progress as JSON")
}
