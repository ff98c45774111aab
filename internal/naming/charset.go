package naming

import (
	"regexp"
	"strings"
)

// Class is the character rule family a resource name is checked against.
// The zero value is ClassGeneric, matching ParseCharset("").
type Class int

const (
	ClassGeneric Class = iota
	ClassLowercaseAlphanumeric
	ClassAlphanumericHyphens
)

// Labels that select the two specific classes. Anything else is generic.
const (
	LabelLowercaseAlphanumeric = "lowercase alphanumeric"
	LabelAlphanumericHyphens   = "alphanumeric, hyphens"
)

func (c Class) String() string {
	switch c {
	case ClassLowercaseAlphanumeric:
		return "lowercase_alphanumeric"
	case ClassAlphanumericHyphens:
		return "alphanumeric_hyphens"
	default:
		return "generic"
	}
}

var (
	reLowercaseAlphanumeric = regexp.MustCompile(`^[a-z0-9]*$`)
	reAlphanumericHyphens   = regexp.MustCompile(`^[a-zA-Z0-9-]*$`)
	reGeneric               = regexp.MustCompile(`^[a-zA-Z0-9\-_.]*$`)
)

// Charset is the allowed-characters classification of a resource. The
// free-text label is kept because the case and hyphen rules key off words in
// it, while the character-set rule keys off the parsed Class.
type Charset struct {
	Label string
	Class Class
}

// ParseCharset classifies a free-text allowed-characters label.
func ParseCharset(label string) Charset {
	cs := Charset{Label: label, Class: ClassGeneric}
	switch label {
	case LabelLowercaseAlphanumeric:
		cs.Class = ClassLowercaseAlphanumeric
	case LabelAlphanumericHyphens:
		cs.Class = ClassAlphanumericHyphens
	}
	return cs
}

// Lowercase reports whether names must be entirely lowercase.
func (c Charset) Lowercase() bool {
	return strings.Contains(c.Label, "lowercase")
}

// AllowsHyphens reports whether '-' may appear in names.
func (c Charset) AllowsHyphens() bool {
	return strings.Contains(c.Label, "hyphens")
}

// Matches reports whether name satisfies the class's character rule.
func (c Charset) Matches(name string) bool {
	return c.regexp().MatchString(name)
}

// Violation is the validation error reported when Matches fails.
func (c Charset) Violation() string {
	switch c.Class {
	case ClassLowercaseAlphanumeric:
		return "name may only contain lowercase letters and numbers"
	case ClassAlphanumericHyphens:
		return "name may only contain letters, numbers and hyphens"
	default:
		return "name may only contain letters, numbers, hyphens, underscores and periods"
	}
}

func (c Charset) regexp() *regexp.Regexp {
	switch c.Class {
	case ClassLowercaseAlphanumeric:
		return reLowercaseAlphanumeric
	case ClassAlphanumericHyphens:
		return reAlphanumericHyphens
	default:
		return reGeneric
	}
}

// allows reports whether a single rune passes the class's character rule.
func (c Charset) allows(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case r >= 'A' && r <= 'Z':
		return c.Class != ClassLowercaseAlphanumeric
	case r == '-':
		return c.Class != ClassLowercaseAlphanumeric
	case r == '_', r == '.':
		return c.Class == ClassGeneric
	}
	return false
}

// MarshalText encodes the charset as its label so catalogs round-trip as text.
func (c Charset) MarshalText() ([]byte, error) {
	return []byte(c.Label), nil
}

// UnmarshalText parses a label.
func (c *Charset) UnmarshalText(text []byte) error {
	*c = ParseCharset(string(text))
	return nil
}
