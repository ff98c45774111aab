package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecgard/namegen/internal/config"
	"github.com/alecgard/namegen/internal/pattern"
	"github.com/spf13/cobra"
)

var patternCategory string

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Manage naming patterns saved per scope",
	Long:  "Manage the naming pattern saved for a scope. Patterns are kept in PostgreSQL when database.url is set, otherwise in patterns.file. Without either they do not outlive the command.",
}

var patternGetCmd = &cobra.Command{
	Use:   "get SCOPE",
	Short: "Show the pattern saved for a scope",
	Args:  cobra.ExactArgs(1),
	RunE: withPatterns(func(cmd *cobra.Command, cfg *config.Config, svc *pattern.Service, args []string) error {
		p, err := svc.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		printPattern(cmd, p)
		return nil
	}),
}

var patternSetCmd = &cobra.Command{
	Use:     "set SCOPE PATTERN",
	Short:   "Save a custom pattern for a scope",
	Example: `  namegen pattern set team-a "{resource_type}-{department}-{workload}-{environment}"`,
	Args:    cobra.ExactArgs(2),
	RunE: withPatterns(func(cmd *cobra.Command, cfg *config.Config, svc *pattern.Service, args []string) error {
		p, err := svc.Set(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}
		printPattern(cmd, p)
		return nil
	}),
}

var patternSelectCmd = &cobra.Command{
	Use:   "select SCOPE RESOURCE",
	Short: "Replace a scope's pattern with a resource's recommended pattern",
	Args:  cobra.ExactArgs(2),
	RunE: withPatterns(func(cmd *cobra.Command, cfg *config.Config, svc *pattern.Service, args []string) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}
		res, err := cat.Lookup(patternCategory, args[1])
		if err != nil {
			return err
		}
		p, err := svc.Select(context.Background(), args[0], res)
		if err != nil {
			return err
		}
		printPattern(cmd, p)
		return nil
	}),
}

var patternDeleteCmd = &cobra.Command{
	Use:   "delete SCOPE",
	Short: "Remove the pattern saved for a scope",
	Args:  cobra.ExactArgs(1),
	RunE: withPatterns(func(cmd *cobra.Command, cfg *config.Config, svc *pattern.Service, args []string) error {
		if err := svc.Delete(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("deleted ")+args[0])
		return nil
	}),
}

var patternListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all saved patterns",
	RunE: withPatterns(func(cmd *cobra.Command, cfg *config.Config, svc *pattern.Service, args []string) error {
		list, err := svc.List(context.Background())
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, p := range list {
			rows = append(rows, []string{p.Scope, p.Pattern, string(p.Source), p.UpdatedAt.Format("2006-01-02 15:04")})
		}
		renderTable(cmd.OutOrStdout(), []string{"Scope", "Pattern", "Source", "Updated"}, rows)
		return nil
	}),
}

// withPatterns opens the configured pattern store around fn.
func withPatterns(fn func(*cobra.Command, *config.Config, *pattern.Service, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(os.Stderr)
		if err != nil {
			return err
		}
		ctx := context.Background()
		store, closeStore, err := openPatternStore(ctx, cfg, nil)
		if err != nil {
			return err
		}
		defer closeStore()

		if cfg.PatternBackend() == "memory" {
			cmd.PrintErrln(warnStyle.Render("no database.url or patterns.file configured; changes are not saved"))
		}
		return fn(cmd, cfg, pattern.NewService(store), args)
	}
}

func printPattern(cmd *cobra.Command, p *pattern.Pattern) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, field("scope", p.Scope))
	fmt.Fprintln(w, field("pattern", nameStyle.Render(p.Pattern)))
	fmt.Fprintln(w, field("keys", joinPlaceholders(p.Pattern)))
	fmt.Fprintln(w, field("source", string(p.Source)))
	fmt.Fprintln(w, field("updated", p.UpdatedAt.Format("2006-01-02 15:04:05 MST")))
}

func init() {
	patternSelectCmd.Flags().StringVar(&patternCategory, "category", "", "catalog category (optional)")
	patternCmd.AddCommand(patternGetCmd, patternSetCmd, patternSelectCmd, patternDeleteCmd, patternListCmd)
	rootCmd.AddCommand(patternCmd)
}
