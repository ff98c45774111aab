// Package names ties the catalog, the pattern store and the naming engine
// together into the generate and validate operations served by the API and
// the CLI.
package names

import (
	"context"
	"strings"

	"github.com/alecgard/namegen/internal/catalog"
	"github.com/alecgard/namegen/internal/history"
	"github.com/alecgard/namegen/internal/naming"
	"github.com/alecgard/namegen/internal/pattern"
)

// Observer receives counters for each operation. *metrics.Metrics
// implements it.
type Observer interface {
	ObserveGenerated(resourceType, source string, valid, truncated bool)
	IncSkipped()
	ObserveValidation(resourceType string, valid bool)
	IncHistoryEntry()
}

// GenerateInput is a generate request. ResourceType is a resource name or
// abbreviation; Category narrows the lookup when set.
type GenerateInput struct {
	Category     string `json:"category"`
	ResourceType string `json:"resource_type"`
	Scope        string `json:"scope"`
	Pattern      string `json:"pattern"`
	naming.Fields
}

// ValidateInput is a validate request.
type ValidateInput struct {
	Category     string `json:"category"`
	ResourceType string `json:"resource_type"`
	Name         string `json:"name"`
}

// Outcome is the result of Generate. Generated is false when no resource
// was selected, in which case Result is empty.
type Outcome struct {
	Generated bool             `json:"generated"`
	Resource  *naming.Resource `json:"resource,omitempty"`
	naming.Result
}

// Service is safe for concurrent use.
type Service struct {
	catalog  *catalog.Catalog
	patterns *pattern.Service
	recorder history.Recorder
	observer Observer
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder stores every generated name.
func WithRecorder(r history.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithObserver reports operations to o.
func WithObserver(o Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates a Service. Without options history is discarded and
// nothing is observed.
func NewService(cat *catalog.Catalog, patterns *pattern.Service, opts ...Option) *Service {
	s := &Service{
		catalog:  cat,
		patterns: patterns,
		recorder: history.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog the service generates from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Generate looks up the resource, resolves the pattern for the scope and
// produces a name. An empty ResourceType is not an error: the outcome has
// Generated=false.
func (s *Service) Generate(ctx context.Context, in GenerateInput, requestID string) (*Outcome, error) {
	key := strings.TrimSpace(in.ResourceType)
	if key == "" {
		if s.observer != nil {
			s.observer.IncSkipped()
		}
		return &Outcome{}, nil
	}

	res, err := s.catalog.Lookup(in.Category, key)
	if err != nil {
		return nil, err
	}

	pat, src, err := s.patterns.Resolve(ctx, in.Scope, in.Pattern, res)
	if err != nil {
		return nil, err
	}

	result, ok := naming.Generate(naming.Request{
		Resource:     res,
		Fields:       in.Fields,
		Pattern:      pat,
		Source:       src,
		Environments: s.catalog.Environments(),
		Regions:      s.catalog.Regions(),
	})
	if !ok {
		return &Outcome{}, nil
	}

	s.recorder.Record(history.Entry{
		RequestID:     requestID,
		Scope:         in.Scope,
		Category:      in.Category,
		ResourceType:  res.Abbreviation,
		Pattern:       result.Pattern,
		PatternSource: string(result.Source),
		Name:          result.Name,
		Valid:         result.Validation.IsValid,
		Truncated:     result.Truncated,
		Errors:        result.Validation.Errors,
	})
	if s.observer != nil {
		if _, nop := s.recorder.(history.Nop); !nop {
			s.observer.IncHistoryEntry()
		}
		s.observer.ObserveGenerated(res.Abbreviation, string(result.Source), result.Validation.IsValid, result.Truncated)
	}

	return &Outcome{Generated: true, Resource: res, Result: result}, nil
}

// Validate checks name against the resource's rules. An empty ResourceType
// validates against no rules and always passes.
func (s *Service) Validate(_ context.Context, in ValidateInput) (naming.Validation, error) {
	var res *naming.Resource
	label := "none"
	if key := strings.TrimSpace(in.ResourceType); key != "" {
		r, err := s.catalog.Lookup(in.Category, key)
		if err != nil {
			return naming.Validation{}, err
		}
		res, label = r, r.Abbreviation
	}

	v := naming.Validate(in.Name, res)
	if s.observer != nil {
		s.observer.ObserveValidation(label, v.IsValid)
	}
	return v, nil
}
