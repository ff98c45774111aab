package main

import (
	"context"
	"os"

	"github.com/alecgard/namegen/internal/names"
	"github.com/alecgard/namegen/internal/pattern"
	"github.com/spf13/cobra"
)

var genInput names.GenerateInput
var genJSON bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a resource name",
	Example: `  namegen generate --resource st --workload MyApp --env Development --region "East US" --instance 01
  namegen generate --category Security --resource "Key vault" --workload payments --pattern "{resource_type}-{workload}"`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.StringVar(&genInput.Category, "category", "", "catalog category (optional)")
	f.StringVarP(&genInput.ResourceType, "resource", "r", "", "resource name or abbreviation")
	f.StringVar(&genInput.Scope, "scope", "", "use the pattern saved for this scope")
	f.StringVarP(&genInput.Pattern, "pattern", "p", "", "explicit naming pattern")
	f.StringVarP(&genInput.Workload, "workload", "w", "", "workload or application name")
	f.StringVarP(&genInput.Environment, "env", "e", "", "environment name, e.g. Production")
	f.StringVar(&genInput.Region, "region", "", "region name, e.g. \"East US\"")
	f.StringVarP(&genInput.Instance, "instance", "i", "", "instance suffix, e.g. 01")
	f.StringVar(&genInput.Department, "department", "", "department, for patterns using {department}")
	f.StringVar(&genInput.BusinessUnit, "business-unit", "", "business unit, for patterns using {business_unit}")
	f.BoolVar(&genJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, closeStore, err := openPatternStore(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := names.NewService(cat, pattern.NewService(store))
	out, err := svc.Generate(ctx, genInput, "")
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if genJSON {
		return printJSON(w, out)
	}
	if !out.Generated {
		cmd.PrintErrln(warnStyle.Render("no resource selected; use --resource"))
		return nil
	}
	renderResult(w, out.Result)
	return nil
}
