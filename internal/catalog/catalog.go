// Package catalog holds the static reference data names are generated from:
// resource categories and their naming rules, environments and regions.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecgard/namegen/internal/naming"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultCatalog []byte

// Lookup errors.
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrResourceNotFound = errors.New("resource type not found")
)

// Category groups resource definitions for selection.
type Category struct {
	Name      string            `json:"name" yaml:"name"`
	Resources []naming.Resource `json:"resources" yaml:"resources"`
}

// Catalog is read-only after loading and safe for concurrent readers.
type Catalog struct {
	CategoryList []Category     `yaml:"categories"`
	EnvList      []naming.Entry `yaml:"environments"`
	RegionList   []naming.Entry `yaml:"regions"`
}

// Default returns the built-in Azure catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the catalog for missing fields, duplicates and patterns
// that reference unknown placeholders.
func (c *Catalog) Validate() error {
	if len(c.CategoryList) == 0 {
		return fmt.Errorf("catalog: at least one category is required")
	}
	categories := map[string]bool{}
	for _, cat := range c.CategoryList {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("catalog: category name is required")
		}
		if categories[cat.Name] {
			return fmt.Errorf("catalog: duplicate category %q", cat.Name)
		}
		categories[cat.Name] = true

		names := map[string]bool{}
		for _, r := range cat.Resources {
			if err := validateResource(r); err != nil {
				return fmt.Errorf("catalog: category %q: %w", cat.Name, err)
			}
			if names[r.Name] {
				return fmt.Errorf("catalog: category %q: duplicate resource %q", cat.Name, r.Name)
			}
			names[r.Name] = true
		}
	}
	if err := validateEntries("environment", c.EnvList); err != nil {
		return err
	}
	return validateEntries("region", c.RegionList)
}

func validateResource(r naming.Resource) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("resource name is required")
	}
	if strings.TrimSpace(r.Abbreviation) == "" {
		return fmt.Errorf("resource %q: abbreviation is required", r.Name)
	}
	if r.MaxLength <= 0 {
		return fmt.Errorf("resource %q: max_length must be positive", r.Name)
	}
	if r.NamingPattern != "" {
		if err := naming.CheckPattern(r.NamingPattern); err != nil {
			return fmt.Errorf("resource %q: %w", r.Name, err)
		}
	}
	return nil
}

func validateEntries(kind string, entries []naming.Entry) error {
	seen := map[string]bool{}
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.Abbreviation) == "" {
			return fmt.Errorf("catalog: %s name and abbreviation are required", kind)
		}
		if seen[e.Name] {
			return fmt.Errorf("catalog: duplicate %s %q", kind, e.Name)
		}
		seen[e.Name] = true
	}
	return nil
}

// Categories returns the categories in catalog order.
func (c *Catalog) Categories() []Category {
	return c.CategoryList
}

// Environments returns the environment lookup table.
func (c *Catalog) Environments() []naming.Entry {
	return c.EnvList
}

// Regions returns the region lookup table.
func (c *Catalog) Regions() []naming.Entry {
	return c.RegionList
}

// Category returns the named category.
func (c *Catalog) Category(name string) (*Category, error) {
	for i := range c.CategoryList {
		if c.CategoryList[i].Name == name {
			return &c.CategoryList[i], nil
		}
	}
	return nil, ErrCategoryNotFound
}

// Resource returns a resource within a category by name.
func (c *Catalog) Resource(category, name string) (*naming.Resource, error) {
	cat, err := c.Category(category)
	if err != nil {
		return nil, err
	}
	for i := range cat.Resources {
		if cat.Resources[i].Name == name {
			r := cat.Resources[i]
			return &r, nil
		}
	}
	return nil, ErrResourceNotFound
}

// FindResource searches every category for a resource whose name or
// abbreviation matches key. Names are compared case-insensitively.
func (c *Catalog) FindResource(key string) (*naming.Resource, error) {
	for _, cat := range c.CategoryList {
		for _, r := range cat.Resources {
			if strings.EqualFold(r.Name, key) || r.Abbreviation == key {
				return &r, nil
			}
		}
	}
	return nil, ErrResourceNotFound
}

// Lookup resolves a resource by category and name when a category is given,
// otherwise by FindResource.
func (c *Catalog) Lookup(category, key string) (*naming.Resource, error) {
	if category != "" {
		return c.Resource(category, key)
	}
	return c.FindResource(key)
}
