package pattern

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alecgard/namegen/internal/naming"
)

var keyVault = &naming.Resource{
	Name:              "Key vault",
	Abbreviation:      "kv",
	NamingPattern:     "{resource_type}-{workload}-{environment}",
	MaxLength:         24,
	AllowedCharacters: naming.ParseCharset("alphanumeric, hyphens"),
}

// errStore fails every call.
type errStore struct{ err error }

func (e errStore) Get(context.Context, string) (*Pattern, error)  { return nil, e.err }
func (e errStore) Put(context.Context, Pattern) (*Pattern, error) { return nil, e.err }
func (e errStore) Delete(context.Context, string) error           { return e.err }
func (e errStore) List(context.Context) ([]*Pattern, error)       { return nil, e.err }

func TestValidScope(t *testing.T) {
	tests := []struct {
		scope string
		want  bool
	}{
		{"default", true},
		{"team-a.prod_1", true},
		{"", false},
		{"-leading", false},
		{"has space", false},
		{strings.Repeat("x", 65), false},
	}
	for _, tt := range tests {
		if got := ValidScope(tt.scope); got != tt.want {
			t.Errorf("ValidScope(%q) = %v, want %v", tt.scope, got, tt.want)
		}
	}
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	p, err := svc.Set(ctx, "team-a", "{workload}-{resource_type}")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if p.Source != naming.SourceCustom {
		t.Errorf("source = %q, want custom", p.Source)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}

	got, err := svc.Get(ctx, "team-a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Pattern != "{workload}-{resource_type}" {
		t.Errorf("pattern = %q", got.Pattern)
	}
}

func TestSetRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	if _, err := svc.Set(ctx, "bad scope", naming.DefaultPattern); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}
	if _, err := svc.Set(ctx, "ok", ""); !errors.Is(err, naming.ErrPatternEmpty) {
		t.Errorf("expected ErrPatternEmpty, got %v", err)
	}
	if _, err := svc.Set(ctx, "ok", "{owner}"); !errors.Is(err, naming.ErrUnknownPlaceholder) {
		t.Errorf("expected ErrUnknownPlaceholder, got %v", err)
	}
}

func TestSelectOverwritesCustomization(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())

	if _, err := svc.Set(ctx, "team-a", "{workload}"); err != nil {
		t.Fatal(err)
	}
	p, err := svc.Select(ctx, "team-a", keyVault)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if p.Pattern != keyVault.NamingPattern || p.Source != naming.SourceResource {
		t.Errorf("got %+v", p)
	}

	noPattern := &naming.Resource{Name: "Thing", Abbreviation: "th", MaxLength: 10}
	p, err = svc.Select(ctx, "team-a", noPattern)
	if err != nil {
		t.Fatal(err)
	}
	if p.Pattern != naming.DefaultPattern || p.Source != naming.SourceDefault {
		t.Errorf("expected default pattern, got %+v", p)
	}
}

func TestResolvePrecedence(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryStore())
	if _, err := svc.Set(ctx, "saved", "{resource_type}{workload}"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		scope      string
		explicit   string
		res        *naming.Resource
		want       string
		wantSource naming.PatternSource
	}{
		{"explicit wins", "saved", "{workload}", keyVault, "{workload}", naming.SourceCustom},
		{"stored beats resource", "saved", "", keyVault, "{resource_type}{workload}", naming.SourceStored},
		{"unknown scope falls back to resource", "other", "", keyVault, keyVault.NamingPattern, naming.SourceResource},
		{"no scope", "", "", keyVault, keyVault.NamingPattern, naming.SourceResource},
		{"default", "", "", nil, naming.DefaultPattern, naming.SourceDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, src, err := svc.Resolve(ctx, tt.scope, tt.explicit, tt.res)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want || src != tt.wantSource {
				t.Errorf("got (%q, %q), want (%q, %q)", got, src, tt.want, tt.wantSource)
			}
		})
	}
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	svc := NewService(NewMemoryStore())
	if _, _, err := svc.Resolve(ctx, "", "{owner}", keyVault); !errors.Is(err, naming.ErrUnknownPlaceholder) {
		t.Errorf("expected ErrUnknownPlaceholder, got %v", err)
	}
	if _, _, err := svc.Resolve(ctx, "bad scope", "", keyVault); !errors.Is(err, ErrInvalidScope) {
		t.Errorf("expected ErrInvalidScope, got %v", err)
	}

	boom := errors.New("connection refused")
	failing := NewService(errStore{err: boom})
	if _, _, err := failing.Resolve(ctx, "team", "", keyVault); !errors.Is(err, boom) {
		t.Errorf("expected store error, got %v", err)
	}
}

func TestMemoryStoreDeleteAndList(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	svc := NewService(store)

	for _, scope := range []string{"b", "a", "c"} {
		if _, err := svc.Set(ctx, scope, naming.DefaultPattern); err != nil {
			t.Fatal(err)
		}
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Scope != "a" || list[2].Scope != "c" {
		t.Fatalf("unexpected list %+v", list)
	}
	if !list[0].UpdatedAt.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", list[0].UpdatedAt, fixed)
	}

	if err := svc.Delete(ctx, "b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := svc.Delete(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := svc.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
