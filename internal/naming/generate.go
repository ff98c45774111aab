package naming

import (
	"strings"
	"unicode/utf8"
)

// Fallback values for fields left empty.
const (
	fallbackWorkload    = "app"
	fallbackEnvironment = "env"
	fallbackRegion      = "region"
)

// separators may be stripped from the end of a name with no instance.
const separators = "-_."

// Generate composes a name for req.Resource from the selected pattern and
// field values, then validates it. It returns ok=false when no resource is
// given; that is a skipped generation, not an error.
func Generate(req Request) (Result, bool) {
	res := req.Resource
	if res == nil {
		return Result{}, false
	}

	pattern, source := req.Pattern, req.Source
	if strings.TrimSpace(pattern) == "" {
		pattern, source = SelectPattern("", res)
	} else if source == "" {
		source = SourceCustom
	}

	name := substitute(pattern, resolveValues(pattern, res, req.Fields, req.Environments, req.Regions))

	if req.Fields.Instance == "" && name != "" && strings.ContainsRune(separators, rune(name[len(name)-1])) {
		name = name[:len(name)-1]
	}

	name = normalize(name, res.AllowedCharacters)

	truncated := false
	if res.MaxLength > 0 && utf8.RuneCountInString(name) > res.MaxLength {
		name = string([]rune(name)[:res.MaxLength])
		truncated = true
	}

	return Result{
		Name:       name,
		Pattern:    pattern,
		Source:     source,
		Truncated:  truncated,
		Validation: Validate(name, res),
	}, true
}

func resolveValues(pattern string, res *Resource, f Fields, envs, regions []Entry) map[string]string {
	values := map[string]string{
		KeyResourceType: res.Abbreviation,
		KeyWorkload:     orDefault(strings.ToLower(f.Workload), fallbackWorkload),
		KeyEnvironment:  lookup(envs, f.Environment, fallbackEnvironment),
		KeyRegion:       lookup(regions, f.Region, fallbackRegion),
		KeyInstance:     f.Instance,
	}
	if strings.Contains(pattern, "{"+KeyDepartment+"}") {
		values[KeyDepartment] = strings.ToLower(f.Department)
	}
	if strings.Contains(pattern, "{"+KeyBusinessUnit+"}") {
		values[KeyBusinessUnit] = strings.ToLower(f.BusinessUnit)
	}
	return values
}

// lookup returns the abbreviation of the entry named name, the lowercased
// input when no entry matches, or fallback when the input is empty.
func lookup(table []Entry, name, fallback string) string {
	for _, e := range table {
		if e.Name == name {
			return e.Abbreviation
		}
	}
	return orDefault(strings.ToLower(name), fallback)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// normalize applies the case, hyphen and character-class rules of cs.
func normalize(name string, cs Charset) string {
	if cs.Lowercase() {
		name = strings.ToLower(name)
	}
	if !cs.AllowsHyphens() {
		name = strings.ReplaceAll(name, "-", "")
	}
	return strings.Map(func(r rune) rune {
		if cs.allows(r) {
			return r
		}
		return -1
	}, name)
}
