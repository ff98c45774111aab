package naming

// Resource is the naming rule set for one infrastructure resource type.
type Resource struct {
	Name              string  `json:"name" yaml:"name"`
	Abbreviation      string  `json:"abbreviation" yaml:"abbreviation"`
	NamingPattern     string  `json:"naming_pattern" yaml:"naming_pattern"`
	MaxLength         int     `json:"max_length" yaml:"max_length"`
	AllowedCharacters Charset `json:"allowed_characters" yaml:"allowed_characters"`
	Description       string  `json:"description" yaml:"description"`
}

// Entry is a row of the environment or region lookup tables.
type Entry struct {
	Name         string `json:"name" yaml:"name"`
	Abbreviation string `json:"abbreviation" yaml:"abbreviation"`
}

// Fields holds the user-supplied values for one generation. The resource
// type placeholder is filled from the Resource, not from Fields.
type Fields struct {
	Workload     string `json:"workload"`
	Environment  string `json:"environment"`
	Region       string `json:"region"`
	Instance     string `json:"instance"`
	Department   string `json:"department"`
	BusinessUnit string `json:"business_unit"`
}

// Request carries everything a single generation depends on.
type Request struct {
	Resource     *Resource
	Fields       Fields
	Pattern      string
	Source       PatternSource
	Environments []Entry
	Regions      []Entry
}

// Validation is the outcome of checking a name against a resource.
type Validation struct {
	IsValid  bool     `json:"is_valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Result is a generated name together with how it was produced.
type Result struct {
	Name       string        `json:"name"`
	Pattern    string        `json:"pattern"`
	Source     PatternSource `json:"pattern_source"`
	Truncated  bool          `json:"truncated"`
	Validation Validation    `json:"validation"`
}
