package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecgard/namegen/internal/naming"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	nameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8C00"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4040"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	tableBorders = lipgloss.RoundedBorder()
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(tableBorders).
		BorderStyle(labelStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func field(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + " " + value
}

func renderValidation(w io.Writer, v naming.Validation) {
	if v.IsValid {
		fmt.Fprintln(w, field("valid", okStyle.Render("yes")))
	} else {
		fmt.Fprintln(w, field("valid", errorStyle.Render("no")))
	}
	for _, e := range v.Errors {
		fmt.Fprintln(w, "  "+errorStyle.Render("✗ ")+e)
	}
	for _, warning := range v.Warnings {
		fmt.Fprintln(w, "  "+warnStyle.Render("! ")+warning)
	}
}

func renderResult(w io.Writer, r naming.Result) {
	fmt.Fprintln(w, nameStyle.Render(r.Name))
	fmt.Fprintln(w, field("pattern", fmt.Sprintf("%s (%s)", r.Pattern, r.Source)))
	if r.Truncated {
		fmt.Fprintln(w, field("note", warnStyle.Render("truncated to the resource's maximum length")))
	}
	renderValidation(w, r.Validation)
}

func joinPlaceholders(pattern string) string {
	keys := naming.Placeholders(pattern)
	return strings.Join(keys, ", ")
}
