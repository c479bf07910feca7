package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/careertree/internal/personalize"
	"github.com/abhisek/careertree/internal/questionnaire"
	"github.com/abhisek/careertree/internal/skilltree"
	"github.com/abhisek/careertree/internal/tracker"
)

var personalizeCmd = &cobra.Command{
	Use:   "personalize",
	Short: "Generate a career path from questionnaire answers and merge it into your tree",
	Long: "Reads answers (YAML or JSON, keyed by question id; see `careertree questions`), " +
		"asks the configured LLM provider for a career path and merges it into your tree. " +
		"--candidate applies a previously generated path instead of calling the provider.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		answersPath, _ := cmd.Flags().GetString("answers")
		candidatePath, _ := cmd.Flags().GetString("candidate")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		switch {
		case answersPath == "" && candidatePath == "":
			return errors.New("one of --answers or --candidate is required")
		case answersPath != "" && candidatePath != "":
			return errors.New("use --answers or --candidate, not both")
		}

		out := cmd.OutOrStdout()
		if answersPath != "" && dryRun {
			answers, err := questionnaire.LoadAnswers(answersPath)
			if err != nil {
				return err
			}
			if err := questionnaire.Validate(questionnaire.Bank(), answers); err != nil {
				return err
			}
			fmt.Fprintln(out, "Answers are valid:")
			fmt.Fprint(out, questionnaire.Summary(questionnaire.Bank(), answers))
			return nil
		}

		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()
		ctx := cmd.Context()

		var res *personalize.Result
		if candidatePath != "" {
			candidate, err := loadCandidate(candidatePath)
			if err != nil {
				return err
			}
			if dryRun {
				c, p, err := e.tracker.State(ctx, e.user())
				if err != nil {
					return err
				}
				res, err = personalize.Merge(c, p.CompletedNodes, candidate)
			} else {
				res, err = e.tracker.ApplyCandidate(ctx, e.user(), candidate)
			}
			if err != nil {
				return err
			}
		} else {
			answers, err := questionnaire.LoadAnswers(answersPath)
			if err != nil {
				return err
			}
			res, err = e.tracker.Personalize(ctx, e.user(), answers)
			if errors.Is(err, tracker.ErrPersonalizationDisabled) {
				return fmt.Errorf("%w: set llm.provider and its API key in the config file or CAREERTREE_* env vars", err)
			}
			if err != nil {
				return err
			}
		}

		printResult(out, res)
		if dryRun {
			fmt.Fprintln(out, "\nDry run: nothing was saved.")
		}
		return nil
	},
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the career questionnaire",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			return writeJSON(cmd.OutOrStdout(), questionnaire.Bank())
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(questionnaire.Bank())
	},
}

// loadCandidate reads a generated career path saved as JSON.
func loadCandidate(path string) (personalize.Candidate, error) {
	var c personalize.Candidate
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read candidate: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse candidate %s: %w", path, err)
	}
	return c, nil
}

func printResult(out io.Writer, res *personalize.Result) {
	fmt.Fprintln(out, res.Title)
	if res.Description != "" {
		fmt.Fprintln(out, res.Description)
	}
	fmt.Fprintln(out, strings.Repeat("─", 60))
	fmt.Fprintf(out, "%d added, %d replaced, %d kept\n", len(res.Added), len(res.Replaced), len(res.Kept))

	if len(res.RecommendedPath) > 0 {
		fmt.Fprintln(out, "\nRecommended path")
		for i, id := range res.RecommendedPath {
			fmt.Fprintf(out, "  %2d. %s\n", i+1, pathTitle(res.Catalog, id))
		}
	}
	if len(res.Recommendations) > 0 {
		fmt.Fprintln(out, "\nNext steps")
		for _, r := range res.Recommendations {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintln(out, "\nWarnings")
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  ! %s\n", w)
		}
	}
}

func pathTitle(c *skilltree.Catalog, id string) string {
	if c != nil {
		if n, ok := c.Node(id); ok {
			return fmt.Sprintf("%s (%s)", n.Title, id)
		}
	}
	return id
}

func init() {
	personalizeCmd.Flags().StringP("answers", "a", "", "Answers file (.yaml or .json)")
	personalizeCmd.Flags().String("candidate", "", "Apply a generated career path (.json) instead of calling the provider")
	personalizeCmd.Flags().Bool("dry-run", false, "Validate and preview without saving")

	questionsCmd.Flags().Bool("json", false, "Print as JSON")
}
