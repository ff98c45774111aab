package main

import (
	"os"
	"strconv"

	"github.com/alecgard/namegen/internal/catalog"
	"github.com/alecgard/namegen/internal/naming"
	"github.com/spf13/cobra"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse resource categories, environments and regions",
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List resource categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(os.Stderr)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		if catalogJSON {
			return printJSON(cmd.OutOrStdout(), cat.Categories())
		}
		rows := make([][]string, 0, len(cat.Categories()))
		for _, c := range cat.Categories() {
			rows = append(rows, []string{c.Name, strconv.Itoa(len(c.Resources))})
		}
		renderTable(cmd.OutOrStdout(), []string{"Category", "Resources"}, rows)
		return nil
	},
}

var catalogResourcesCmd = &cobra.Command{
	Use:   "resources [CATEGORY]",
	Short: "List resource types, optionally for one category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(os.Stderr)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		cats := cat.Categories()
		if len(args) == 1 {
			c, err := cat.Category(args[0])
			if err != nil {
				return err
			}
			cats = []catalog.Category{*c}
		}

		var resources []naming.Resource
		var rows [][]string
		for _, c := range cats {
			for _, r := range c.Resources {
				resources = append(resources, r)
				rows = append(rows, []string{
					c.Name, r.Name, r.Abbreviation, strconv.Itoa(r.MaxLength),
					r.AllowedCharacters.Label, r.NamingPattern,
				})
			}
		}

		if catalogJSON {
			return printJSON(cmd.OutOrStdout(), resources)
		}
		renderTable(cmd.OutOrStdout(),
			[]string{"Category", "Resource", "Abbr", "Max", "Characters", "Pattern"}, rows)
		return nil
	},
}

func entriesCmd(use, short string, pick func(*catalogTables) []naming.Entry) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(os.Stderr)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(cfg)
			if err != nil {
				return err
			}

			entries := pick(&catalogTables{envs: cat.Environments(), regions: cat.Regions()})
			if catalogJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Name, e.Abbreviation})
			}
			renderTable(cmd.OutOrStdout(), []string{"Name", "Abbreviation"}, rows)
			return nil
		},
	}
}

type catalogTables struct {
	envs, regions []naming.Entry
}

func init() {
	catalogCmd.PersistentFlags().BoolVar(&catalogJSON, "json", false, "print as JSON")
	catalogCmd.AddCommand(
		catalogCategoriesCmd,
		catalogResourcesCmd,
		entriesCmd("environments", "List environments and their abbreviations",
			func(t *catalogTables) []naming.Entry { return t.envs }),
		entriesCmd("regions", "List regions and their abbreviations",
			func(t *catalogTables) []naming.Entry { return t.regions }),
	)
	rootCmd.AddCommand(catalogCmd)
}
