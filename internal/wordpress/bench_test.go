package wordpress

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const benchPosts = `[{"title":{"rendered":"Hello"},"excerpt":{"rendered":"<p>Hi</p>"},"content":{"rendered":"<p>Body</p>"},"date":"2024-01-02T03:04:05","slug":"hello","jetpack_featured_media_url":"https://img.example/a.jpg"}]`

func benchServer(b *testing.B, latency time.Duration) *httptest.Server {
	b.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(latency)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, benchPosts)
	}))
	b.Cleanup(srv.Close)
	return srv
}

func benchmarkLatestPosts(b *testing.B, opts ...ClientOption) {
	srv := benchServer(b, time.Millisecond)
	c := NewClient(srv.URL+apiPath, append([]ClientOption{WithLogger(quietLogger())}, opts...)...)
	b.Cleanup(c.Close)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.GetLatestPosts(ctx, LatestPostsOptions{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGetLatestPosts_Network(b *testing.B) {
	benchmarkLatestPosts(b)
}

func BenchmarkGetLatestPosts_Cached(b *testing.B) {
	benchmarkLatestPosts(b, WithCache(time.Minute, 100))
}

func BenchmarkPlainText(b *testing.B) {
	html := `<p>WordPress &amp; Go: <strong>fast</strong> and <em>typed</em>.</p><p>Second paragraph.</p>`
	for i := 0; i < b.N; i++ {
		_ = PlainText(html)
	}
}
