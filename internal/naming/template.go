package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// DefaultPattern is used when neither a custom nor a resource pattern is set.
const DefaultPattern = "{resource_type}-{workload}-{environment}-{region}-{instance}"

// MaxPatternLength bounds stored custom patterns.
const MaxPatternLength = 256

// Placeholder keys understood by Generate.
const (
	KeyResourceType = "resource_type"
	KeyWorkload     = "workload"
	KeyEnvironment  = "environment"
	KeyRegion       = "region"
	KeyInstance     = "instance"
	KeyDepartment   = "department"
	KeyBusinessUnit = "business_unit"
)

// Keys lists the supported placeholders in display order.
var Keys = []string{
	KeyResourceType,
	KeyWorkload,
	KeyEnvironment,
	KeyRegion,
	KeyInstance,
	KeyDepartment,
	KeyBusinessUnit,
}

var knownKeys = func() map[string]bool {
	m := make(map[string]bool, len(Keys))
	for _, k := range Keys {
		m[k] = true
	}
	return m
}()

// Pattern errors returned by CheckPattern.
var (
	ErrPatternEmpty       = errors.New("pattern is required")
	ErrPatternTooLong     = fmt.Errorf("pattern must be at most %d characters", MaxPatternLength)
	ErrUnknownPlaceholder = errors.New("pattern contains an unknown placeholder")
)

// PatternSource records where the pattern used for a generation came from.
type PatternSource string

const (
	SourceDefault  PatternSource = "default"
	SourceCustom   PatternSource = "custom"
	SourceResource PatternSource = "resource"
	SourceStored   PatternSource = "stored"
)

// placeholderPattern matches tokens like {resource_type}.
var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_-]{1,64})\}`)

// SelectPattern picks the pattern for a generation. An explicit custom
// pattern wins over the resource's recommended pattern, which wins over the
// default.
func SelectPattern(custom string, res *Resource) (string, PatternSource) {
	if strings.TrimSpace(custom) != "" {
		return custom, SourceCustom
	}
	if res != nil && res.NamingPattern != "" {
		return res.NamingPattern, SourceResource
	}
	return DefaultPattern, SourceDefault
}

// Placeholders returns the unique placeholder names in pattern, in order of
// first appearance.
func Placeholders(pattern string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(pattern, -1)
	seen := map[string]bool{}
	var keys []string
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}

// UnknownPlaceholders returns placeholders Generate will not fill.
func UnknownPlaceholders(pattern string) []string {
	var unknown []string
	for _, k := range Placeholders(pattern) {
		if !knownKeys[k] {
			unknown = append(unknown, k)
		}
	}
	return unknown
}

// CheckPattern rejects patterns that cannot be persisted.
func CheckPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return ErrPatternEmpty
	}
	if len(pattern) > MaxPatternLength {
		return ErrPatternTooLong
	}
	if unknown := UnknownPlaceholders(pattern); len(unknown) > 0 {
		return fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, strings.Join(unknown, "}, {"))
	}
	return nil
}

// substitute replaces every occurrence of each known placeholder with its
// value. Placeholders without a value are left as literal text.
func substitute(pattern string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		if v, ok := values[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}
