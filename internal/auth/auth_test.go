package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateAdminKey_PrefixAndLength(t *testing.T) {
	key, err := GenerateAdminKey()
	if err != nil {
		t.Fatalf("GenerateAdminKey() error: %v", err)
	}

	if !strings.HasPrefix(key.Plaintext, "namegen_") {
		t.Errorf("plaintext key should start with 'namegen_', got %q", key.Plaintext)
	}

	// "namegen_" (8) + 32 random chars = 40
	if len(key.Plaintext) != 40 {
		t.Errorf("expected plaintext length 40, got %d", len(key.Plaintext))
	}

	if !CheckKey(key.Hash, key.Plaintext) {
		t.Error("generated hash does not match plaintext")
	}
}

func TestGenerateAdminKey_Uniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		key, err := GenerateAdminKey()
		if err != nil {
			t.Fatalf("GenerateAdminKey() error: %v", err)
		}
		if seen[key.Plaintext] {
			t.Fatalf("duplicate key generated: %s", key.Plaintext)
		}
		seen[key.Plaintext] = true
	}
}

func TestCheckKey(t *testing.T) {
	hash := mustHash(t, "namegen_secret")

	tests := []struct {
		name  string
		hash  string
		plain string
		want  bool
	}{
		{"match", hash, "namegen_secret", true},
		{"wrong key", hash, "namegen_other", false},
		{"empty key", hash, "", false},
		{"empty hash", "", "namegen_secret", false},
		{"garbage hash", "not-a-hash", "namegen_secret", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckKey(tt.hash, tt.plain); got != tt.want {
				t.Errorf("CheckKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid bearer", "Bearer namegen_abc", "namegen_abc"},
		{"case insensitive", "bearer namegen_abc", "namegen_abc"},
		{"empty header", "", ""},
		{"no scheme", "namegen_abc", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(r); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdminAuthMiddleware(t *testing.T) {
	hash := mustHash(t, "namegen_secret")

	tests := []struct {
		name     string
		hash     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"valid key", hash, "Bearer namegen_secret", http.StatusOK, ""},
		{"missing header", hash, "", http.StatusUnauthorized, "unauthorized"},
		{"wrong key", hash, "Bearer namegen_wrong", http.StatusUnauthorized, "unauthorized"},
		{"disabled", "", "Bearer namegen_secret", http.StatusForbidden, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawAdmin bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				sawAdmin = IsAdmin(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/patterns", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			AdminAuthMiddleware(tt.hash)(next).ServeHTTP(w, r)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantErr == "" {
				if !sawAdmin {
					t.Error("expected admin flag in context")
				}
				return
			}

			var resp errorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding error body: %v", err)
			}
			if resp.Error.Code != tt.wantErr {
				t.Errorf("expected error code %q, got %q", tt.wantErr, resp.Error.Code)
			}
		})
	}
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}
