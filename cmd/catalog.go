package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/careertree/internal/skilltree"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Validate and export node catalogs",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a catalog file for schema, reference and cycle errors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := skilltree.LoadFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %d nodes OK\n", args[0], c.Len())
		for _, cat := range c.Categories() {
			fmt.Fprintf(out, "  %-20s %3d\n", cat.DisplayName(), len(c.ByCategory(cat)))
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print your catalog, including personalized nodes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		base, _ := cmd.Flags().GetBool("base")

		f := skilltree.Format(format)
		if f != skilltree.FormatYAML && f != skilltree.FormatJSON {
			return fmt.Errorf("format must be yaml or json, got %q", format)
		}

		var c *skilltree.Catalog
		if base {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			c = skilltree.Seed()
			if cfg.Catalog.Path != "" {
				if c, err = skilltree.LoadFile(cfg.Catalog.Path); err != nil {
					return err
				}
			}
		} else {
			e, err := openEnv(cmd, os.Stderr)
			if err != nil {
				return err
			}
			defer e.Close()
			if c, err = e.tracker.Catalog(cmd.Context(), e.user()); err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
		}

		data, err := skilltree.Marshal(c, f)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	catalogShowCmd.Flags().StringP("format", "f", "yaml", "Output format: yaml or json")
	catalogShowCmd.Flags().Bool("base", false, "Print the base catalog without personalized nodes")

	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogShowCmd)
}
