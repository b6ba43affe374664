package wordpress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/olgasafonova/wordpress-mcp-server/internal/base"
	"github.com/olgasafonova/wordpress-mcp-server/internal/config"
	wperrors "github.com/olgasafonova/wordpress-mcp-server/internal/errors"
	"github.com/olgasafonova/wordpress-mcp-server/metrics"
)

const (
	// MaxPerPage is the largest page size WordPress accepts.
	MaxPerPage = 100

	// DefaultLatestPerPage is the page size used by GetLatestPosts and the
	// category and tag filters when none is given.
	DefaultLatestPerPage = 10

	// DefaultAllPostsPerPage is the page size used by GetAllPosts.
	DefaultAllPostsPerPage = 6

	headerTotalPages = "X-WP-TotalPages"
	headerTotal      = "X-WP-Total"
)

// Client provides read access to one WordPress site.
type Client struct {
	*base.Client
	apiRoot string
}

// ClientOption configures the Client (re-export base.ClientOption)
type ClientOption = base.ClientOption

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return base.WithHTTPClient(c)
}

// WithLogger sets a custom logger
func WithLogger(l *slog.Logger) ClientOption {
	return base.WithLogger(l)
}

// WithCache enables the response cache
func WithCache(ttl time.Duration, maxEntries int) ClientOption {
	return base.WithCache(ttl, maxEntries)
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return base.WithTimeout(d)
}

// WithUserAgent sets the outbound User-Agent
func WithUserAgent(ua string) ClientOption {
	return base.WithUserAgent(ua)
}

// WithMaxRetries sets the number of attempts per request
func WithMaxRetries(n int) ClientOption {
	return base.WithMaxRetries(n)
}

// WithMaxConcurrent limits concurrent upstream requests
func WithMaxConcurrent(n int) ClientOption {
	return base.WithMaxConcurrent(n)
}

// NewClientFromConfig creates a client for the site described by cfg.
func NewClientFromConfig(cfg config.WordPressConfig, logger *slog.Logger) *Client {
	return NewClient(cfg.APIRoot(),
		WithLogger(logger),
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
		WithMaxRetries(cfg.MaxRetries),
		WithMaxConcurrent(cfg.MaxConcurrent),
		WithCache(cfg.CacheTTL, cfg.CacheEntries),
	)
}

// NewClient creates a client for the API rooted at apiRoot, e.g.
// https://blog.example.com/wp-json/wp/v2. The root is used as given.
func NewClient(apiRoot string, opts ...ClientOption) *Client {
	return &Client{
		Client:  base.NewClient(opts...),
		apiRoot: strings.TrimRight(apiRoot, "/"),
	}
}

// APIRoot returns the root every endpoint is resolved against.
func (c *Client) APIRoot() string {
	return c.apiRoot
}

// GetPageInfo returns the page with the given slug.
func (c *Client) GetPageInfo(ctx context.Context, slug string) (*PageInfo, error) {
	const endpoint = "/pages"

	slug, err := normalizeSlug(slug)
	if err != nil {
		return nil, c.fail(ctx, "GetPageInfo", endpoint, err)
	}

	var items []rawPost
	if _, err := c.fetch(ctx, endpoint, endpoint, newQuery().set("slug", slug).embed(), &items); err != nil {
		return nil, c.fail(ctx, "GetPageInfo", endpoint, err)
	}
	if len(items) == 0 {
		return nil, c.fail(ctx, "GetPageInfo", endpoint, wperrors.NewNotFoundError("page", slug))
	}

	item := &items[0]
	image, source := firstImage(ctx, c.pageImageSources(), item)
	c.Logger.DebugContext(ctx, "page resolved", "slug", slug, "image_source", source)
	metrics.ContentSize.WithLabelValues("page").Observe(float64(len(item.Content.Rendered)))

	return &PageInfo{
		Title:         item.Title.Rendered,
		Content:       item.Content.Rendered,
		FeaturedImage: image,
	}, nil
}

// GetAllPostsSlugs returns the slugs of up to 100 posts, newest first.
func (c *Client) GetAllPostsSlugs(ctx context.Context) ([]string, error) {
	const endpoint = "/posts"

	var items []rawPost
	if _, err := c.fetch(ctx, endpoint, endpoint, newQuery().setInt("per_page", MaxPerPage), &items); err != nil {
		return nil, c.fail(ctx, "GetAllPostsSlugs", endpoint, err)
	}
	if len(items) == 0 {
		return nil, c.fail(ctx, "GetAllPostsSlugs", endpoint, wperrors.NewEmptyResultError(endpoint))
	}

	slugs := make([]string, len(items))
	for i := range items {
		slugs[i] = items[i].Slug
	}
	return slugs, nil
}

// GetAllPostsCategory returns up to 100 categories.
func (c *Client) GetAllPostsCategory(ctx context.Context) ([]Term, error) {
	return c.listTerms(ctx, "GetAllPostsCategory", "/categories")
}

// GetAllPostsTags returns up to 100 tags.
func (c *Client) GetAllPostsTags(ctx context.Context) ([]Term, error) {
	return c.listTerms(ctx, "GetAllPostsTags", "/tags")
}

func (c *Client) listTerms(ctx context.Context, op, endpoint string) ([]Term, error) {
	var items []rawTerm
	if _, err := c.fetch(ctx, endpoint, endpoint, newQuery().setInt("per_page", MaxPerPage), &items); err != nil {
		return nil, c.fail(ctx, op, endpoint, err)
	}

	terms := c.toTerms(ctx, items)
	if len(terms) == 0 {
		return nil, c.fail(ctx, op, endpoint, wperrors.NewEmptyResultError(endpoint))
	}
	return terms, nil
}

// GetPostInfo returns the post with the given slug together with its author,
// categories and tags. These come from the embedded data WordPress adds for
// _embed; if any group is missing a *MissingEmbedError is returned.
func (c *Client) GetPostInfo(ctx context.Context, slug string) (*PostDetail, error) {
	const endpoint = "/posts"

	slug, err := normalizeSlug(slug)
	if err != nil {
		return nil, c.fail(ctx, "GetPostInfo", endpoint, err)
	}

	var items []rawPost
	if _, err := c.fetch(ctx, endpoint, endpoint, newQuery().set("slug", slug).embed(), &items); err != nil {
		return nil, c.fail(ctx, "GetPostInfo", endpoint, err)
	}
	if len(items) == 0 {
		return nil, c.fail(ctx, "GetPostInfo", endpoint, wperrors.NewNotFoundError("post", slug))
	}

	item := &items[0]
	emb := item.Embedded
	switch {
	case emb == nil || len(emb.Author) == 0:
		return nil, c.fail(ctx, "GetPostInfo", endpoint, wperrors.NewMissingEmbedError(slug, "author"))
	case len(emb.Terms) < 1:
		return nil, c.fail(ctx, "GetPostInfo", endpoint, wperrors.NewMissingEmbedError(slug, "wp:term[0]"))
	case len(emb.Terms) < 2:
		return nil, c.fail(ctx, "GetPostInfo", endpoint, wperrors.NewMissingEmbedError(slug, "wp:term[1]"))
	}

	metrics.ContentSize.WithLabelValues("post").Observe(float64(len(item.Content.Rendered)))

	post := toPost(ctx, item)
	return &PostDetail{
		Title:         post.Title,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		Date:          post.Date,
		Slug:          post.Slug,
		FeaturedImage: post.FeaturedImage,
		Author:        emb.Author[0].Name,
		Categories:    c.toTerms(ctx, emb.Terms[0]),
		Tags:          c.toTerms(ctx, emb.Terms[1]),
	}, nil
}

// GetLatestPosts returns the newest posts.
func (c *Client) GetLatestPosts(ctx context.Context, opts LatestPostsOptions) ([]Post, error) {
	perPage, err := perPageOrDefault(opts.PerPage, DefaultLatestPerPage)
	if err != nil {
		return nil, c.fail(ctx, "GetLatestPosts", "/posts", err)
	}

	posts, _, err := c.listPosts(ctx, newQuery().setInt("per_page", perPage).embed())
	if err != nil {
		return nil, c.fail(ctx, "GetLatestPosts", "/posts", err)
	}
	return posts, nil
}

// GetPostsByCategory returns posts in any of the given categories. A zero
// perPage means DefaultLatestPerPage.
func (c *Client) GetPostsByCategory(ctx context.Context, perPage int, categoryIDs []int) ([]Post, error) {
	return c.postsByTaxonomy(ctx, "GetPostsByCategory", "categories", perPage, categoryIDs)
}

// GetPostsByTags returns posts carrying any of the given tags. A zero
// perPage means DefaultLatestPerPage.
func (c *Client) GetPostsByTags(ctx context.Context, perPage int, tagIDs []int) ([]Post, error) {
	return c.postsByTaxonomy(ctx, "GetPostsByTags", "tags", perPage, tagIDs)
}

func (c *Client) postsByTaxonomy(ctx context.Context, op, param string, perPage int, ids []int) ([]Post, error) {
	n, err := perPageOrDefault(perPage, DefaultLatestPerPage)
	if err != nil {
		return nil, c.fail(ctx, op, "/posts", err)
	}
	if err := validateIDs(param, ids); err != nil {
		return nil, c.fail(ctx, op, "/posts", err)
	}

	posts, _, err := c.listPosts(ctx, newQuery().setInt("per_page", n).setIDs(param, ids).embed())
	if err != nil {
		return nil, c.fail(ctx, op, "/posts", err)
	}
	return posts, nil
}

// GetAllPosts returns one page of posts and the page count reported by
// WordPress.
func (c *Client) GetAllPosts(ctx context.Context, opts AllPostsOptions) (*PagedPosts, error) {
	page := opts.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, c.fail(ctx, "GetAllPosts", "/posts",
			wperrors.NewValidationError("page", strconv.Itoa(opts.Page), "must be >= 1"))
	}
	perPage, err := perPageOrDefault(opts.PerPage, DefaultAllPostsPerPage)
	if err != nil {
		return nil, c.fail(ctx, "GetAllPosts", "/posts", err)
	}

	posts, resp, err := c.listPosts(ctx, newQuery().setInt("page", page).setInt("per_page", perPage).embed())
	if err != nil {
		return nil, c.fail(ctx, "GetAllPosts", "/posts", err)
	}

	return &PagedPosts{
		Posts:      posts,
		TotalPages: totalPages(resp.Header),
		Total:      headerInt(resp.Header, headerTotal),
	}, nil
}

// listPosts fetches /posts with q and flattens the result.
func (c *Client) listPosts(ctx context.Context, q *query) ([]Post, *base.Response, error) {
	const endpoint = "/posts"

	var items []rawPost
	resp, err := c.fetch(ctx, endpoint, endpoint, q, &items)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, wperrors.NewEmptyResultError(endpoint)
	}

	posts := make([]Post, len(items))
	for i := range items {
		posts[i] = toPost(ctx, &items[i])
	}
	return posts, resp, nil
}

// resolveMedia returns the source URL of a media item.
func (c *Client) resolveMedia(ctx context.Context, id int) (string, error) {
	var media rawMedia
	if _, err := c.fetch(ctx, "/media", "/media/"+strconv.Itoa(id), nil, &media); err != nil {
		return "", err
	}
	return media.SourceURL, nil
}

// fetch GETs path with q and decodes a 2xx body into out. endpoint is the
// label used for metrics and errors.
func (c *Client) fetch(ctx context.Context, endpoint, path string, q *query, out any) (*base.Response, error) {
	reqURL := c.apiRoot + path
	if qs := q.encode(); qs != "" {
		reqURL += "?" + qs
	}

	resp, err := c.Get(ctx, endpoint, reqURL)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	if !resp.OK() {
		return nil, upstreamError(endpoint, resp)
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	return resp, nil
}

// fail logs an accessor failure, counts it and returns err unchanged.
func (c *Client) fail(ctx context.Context, op, endpoint string, err error) error {
	kind := wperrors.Kind(err)
	metrics.RecordAccessorError(endpoint, kind)

	level := slog.LevelWarn
	if kind == "upstream" || kind == "transport" || kind == "missing_embed" {
		level = slog.LevelError
	}
	c.Logger.Log(ctx, level, "content request failed",
		"op", op,
		"endpoint", endpoint,
		"kind", kind,
		"error", err)
	return err
}

func upstreamError(endpoint string, resp *base.Response) error {
	e := wperrors.NewUpstreamError(endpoint, resp.StatusCode)
	var body apiError
	if json.Unmarshal(resp.Body, &body) == nil && body.Code != "" {
		e.Code = body.Code
		e.Message = body.Message
	} else if len(resp.Body) > 0 {
		e.Message = base.Truncate(strings.TrimSpace(string(resp.Body)), 200)
	}
	return e
}

func toPost(ctx context.Context, item *rawPost) Post {
	image, _ := firstImage(ctx, postImageSources(), item)
	return Post{
		Title:         item.Title.Rendered,
		Excerpt:       item.Excerpt.Rendered,
		Content:       item.Content.Rendered,
		Date:          item.Date,
		Slug:          item.Slug,
		FeaturedImage: image,
	}
}

// toTerms converts upstream terms, dropping any without a positive id.
func (c *Client) toTerms(ctx context.Context, items []rawTerm) []Term {
	terms := make([]Term, 0, len(items))
	for _, t := range items {
		if t.ID <= 0 {
			c.Logger.WarnContext(ctx, "dropping term without id", "slug", t.Slug, "taxonomy", t.Taxonomy)
			continue
		}
		terms = append(terms, Term{ID: t.ID, Slug: t.Slug, Name: t.Name})
	}
	return terms
}

// totalPages reads X-WP-TotalPages, defaulting to 1.
func totalPages(h http.Header) int {
	if n := headerInt(h, headerTotalPages); n > 0 {
		return n
	}
	return 1
}

func headerInt(h http.Header, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(h.Get(key)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
