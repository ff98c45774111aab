package main

import (
	"context"
	"errors"
	"os"

	"github.com/alecgard/namegen/internal/names"
	"github.com/alecgard/namegen/internal/pattern"
	"github.com/spf13/cobra"
)

var valInput names.ValidateInput
var valJSON bool

var validateCmd = &cobra.Command{
	Use:     "validate NAME",
	Short:   "Check a name against a resource's rules",
	Example: `  namegen validate stmyappdeveastus01 --resource st`,
	Args:    cobra.ExactArgs(1),
	RunE:    runValidate,
}

func init() {
	f := validateCmd.Flags()
	f.StringVar(&valInput.Category, "category", "", "catalog category (optional)")
	f.StringVarP(&valInput.ResourceType, "resource", "r", "", "resource name or abbreviation")
	f.BoolVar(&valJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(validateCmd)
}

var errInvalidName = errors.New("name is not valid")

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(os.Stderr)
	if err != nil {
		return err
	}
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	valInput.Name = args[0]
	svc := names.NewService(cat, pattern.NewService(pattern.NewMemoryStore()))
	v, err := svc.Validate(context.Background(), valInput)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if valJSON {
		if err := printJSON(w, v); err != nil {
			return err
		}
	} else {
		renderValidation(w, v)
	}
	if !v.IsValid {
		return errInvalidName
	}
	return nil
}
