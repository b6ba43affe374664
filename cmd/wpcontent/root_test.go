package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/olgasafonova/wordpress-mcp-server/internal/wordpress"
)

const apiPath = "/wp-json/wp/v2"

// site is a fake WordPress site recording raw request URIs.
type site struct {
	*httptest.Server
	mu   sync.Mutex
	uris []string
}

func newSite(t *testing.T, mount string) *site {
	t.Helper()
	s := &site{}
	mux := http.NewServeMux()
	mux.HandleFunc(mount+"/posts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slug") == "missing" {
			_, _ = io.WriteString(w, `[]`)
			return
		}
		w.Header().Set("X-WP-TotalPages", "4")
		_, _ = io.WriteString(w, `[{"title":{"rendered":"Hello"},"excerpt":{"rendered":"<p>Hi</p>"},"content":{"rendered":"<p>Body</p>"},"date":"2024-01-02T03:04:05","slug":"hello","jetpack_featured_media_url":"https://img.example/a.jpg"}]`)
	})
	mux.HandleFunc(mount+"/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":3,"slug":"news","name":"News"}]`)
	})
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.uris = append(s.uris, r.URL.RequestURI())
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *site) requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uris...)
}

// resetFlags restores every flag to its default so runs do not leak into
// each other through the package-level command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("WP_PRODUCTION", "false")
	resetFlags(rootCmd)
	t.Cleanup(func() {
		if client != nil {
			client.Close()
			client = nil
		}
	})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestVersionNeedsNoConfig(t *testing.T) {
	t.Setenv("WP_DOMAIN", "")

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "wpcontent ") {
		t.Errorf("output = %q", out)
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"page", "post", "slugs", "categories", "tags", "latest", "by-category", "by-tags", "posts", "index"}
	have := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestMissingDomain(t *testing.T) {
	t.Setenv("WP_DOMAIN", "")

	if _, err := execute(t, "slugs"); err == nil {
		t.Fatal("expected a configuration error")
	}
}

func TestLatest(t *testing.T) {
	s := newSite(t, apiPath)
	t.Setenv("WP_DOMAIN", s.URL)

	out, err := execute(t, "latest", "--per-page", "3")
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}

	var posts []wordpress.Post
	if err := json.Unmarshal([]byte(out), &posts); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(posts) != 1 || posts[0].Slug != "hello" || posts[0].FeaturedImage != "https://img.example/a.jpg" {
		t.Errorf("posts = %+v", posts)
	}

	reqs := s.requests()
	if len(reqs) != 1 || !strings.Contains(reqs[0], "per_page=3") {
		t.Errorf("requests = %v", reqs)
	}
}

func TestByCategoryJoinsIDs(t *testing.T) {
	s := newSite(t, apiPath)
	t.Setenv("WP_DOMAIN", s.URL)

	if _, err := execute(t, "by-category", "3", "7"); err != nil {
		t.Fatalf("by-category failed: %v", err)
	}

	reqs := s.requests()
	if len(reqs) != 1 || !strings.Contains(reqs[0], "categories=3,7") {
		t.Errorf("requests = %v", reqs)
	}
}

func TestByTagsRejectsBadID(t *testing.T) {
	s := newSite(t, apiPath)
	t.Setenv("WP_DOMAIN", s.URL)

	_, err := execute(t, "by-tags", "3", "seven")
	if err == nil || !strings.Contains(err.Error(), `invalid id "seven"`) {
		t.Fatalf("err = %v", err)
	}
	if len(s.requests()) != 0 {
		t.Error("no request should be sent for invalid ids")
	}
}

func TestPostsPaging(t *testing.T) {
	s := newSite(t, apiPath)
	t.Setenv("WP_DOMAIN", s.URL)

	out, err := execute(t, "posts", "--page", "2")
	if err != nil {
		t.Fatalf("posts failed: %v", err)
	}

	var paged wordpress.PagedPosts
	if err := json.Unmarshal([]byte(out), &paged); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if paged.TotalPages != 4 {
		t.Errorf("TotalPages = %d, want 4", paged.TotalPages)
	}
	reqs := s.requests()
	if len(reqs) != 1 || !strings.Contains(reqs[0], "page=2") || !strings.Contains(reqs[0], "per_page=6") {
		t.Errorf("requests = %v", reqs)
	}
}

func TestPostNotFound(t *testing.T) {
	s := newSite(t, apiPath)
	t.Setenv("WP_DOMAIN", s.URL)

	_, err := execute(t, "post", "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestDomainAndProductionFlags(t *testing.T) {
	s := newSite(t, "")
	t.Setenv("WP_DOMAIN", "")

	out, err := execute(t, "--domain", s.URL, "--production", "categories")
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}

	var terms []wordpress.Term
	if err := json.Unmarshal([]byte(out), &terms); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(terms) != 1 || terms[0].ID != 3 {
		t.Errorf("terms = %+v", terms)
	}
	reqs := s.requests()
	if len(reqs) != 1 || !strings.HasPrefix(reqs[0], "/categories?") {
		t.Errorf("requests = %v", reqs)
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "7"})
	if err != nil {
		t.Fatalf("parseIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 7 {
		t.Errorf("ids = %v", ids)
	}

	if _, err := parseIDs([]string{"x"}); err == nil {
		t.Error("expected error for non-numeric id")
	}
}
