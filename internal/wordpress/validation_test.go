package wordpress

import (
	"testing"

	wperrors "github.com/olgasafonova/wordpress-mcp-server/internal/errors"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "hello-world", "hello-world", false},
		{"trimmed", "  about  ", "about", false},
		{"underscore and digits", "post_2024", "post_2024", false},
		{"percent encoded", "caf%c3%a9", "caf%c3%a9", false},
		{"unicode letters", "café", "café", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"query injection", "about&per_page=100", "", true},
		{"path", "a/b", "", true},
		{"inner space", "hello world", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeSlug(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("normalizeSlug(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !wperrors.IsValidation(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
			if got != tt.want {
				t.Errorf("normalizeSlug(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPerPageOrDefault(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		want    int
		wantErr bool
	}{
		{"zero uses default", 0, 7, false},
		{"min", 1, 1, false},
		{"max", 100, 100, false},
		{"negative", -1, 0, true},
		{"too large", 101, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := perPageOrDefault(tt.input, 7)
			if (err != nil) != tt.wantErr {
				t.Fatalf("perPageOrDefault(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("perPageOrDefault(%d) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateIDs(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int
		wantErr bool
	}{
		{"single", []int{3}, false},
		{"several", []int{3, 7, 12}, false},
		{"nil", nil, true},
		{"empty", []int{}, true},
		{"zero", []int{3, 0}, true},
		{"negative", []int{-4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateIDs("categories", tt.ids)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateIDs(%v) error = %v, wantErr %v", tt.ids, err, tt.wantErr)
			}
		})
	}
}

func TestQueryEncode(t *testing.T) {
	tests := []struct {
		name string
		q    *query
		want string
	}{
		{"nil", nil, ""},
		{"empty", newQuery(), ""},
		{"slug with embed", newQuery().set("slug", "about").embed(), "slug=about&_embed"},
		{"escapes values", newQuery().set("slug", "a b"), "slug=a+b"},
		{"csv ids unescaped", newQuery().setInt("per_page", 10).setIDs("categories", []int{3, 7}).embed(), "per_page=10&categories=3,7&_embed"},
		{"keeps insertion order", newQuery().setInt("page", 2).setInt("per_page", 6), "page=2&per_page=6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.encode(); got != tt.want {
				t.Errorf("encode() = %q, want %q", got, tt.want)
			}
		})
	}
}
