package naming

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validate checks name against the rules of res. Every rule is evaluated;
// warnings never affect validity. A nil resource is trivially valid.
func Validate(name string, res *Resource) Validation {
	v := Validation{Warnings: []string{}, Errors: []string{}}
	if res == nil {
		v.IsValid = true
		return v
	}

	if res.MaxLength > 0 && utf8.RuneCountInString(name) > res.MaxLength {
		v.Errors = append(v.Errors, fmt.Sprintf("name exceeds maximum length of %d characters", res.MaxLength))
	}

	cs := res.AllowedCharacters
	if cs.Lowercase() && name != strings.ToLower(name) {
		v.Errors = append(v.Errors, "name must be lowercase")
	}

	if !cs.Matches(name) {
		v.Errors = append(v.Errors, cs.Violation())
	}

	if res.Description != "" {
		v.Warnings = append(v.Warnings, res.Description)
	}

	v.IsValid = len(v.Errors) == 0
	return v
}
