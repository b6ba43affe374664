package wordpress

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wperrors "github.com/olgasafonova/wordpress-mcp-server/internal/errors"
)

func TestGetPageMCP(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{
		"/pages": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("slug") == "about" {
				ok(`[{"title":{"rendered":"About"},"content":{"rendered":"<p>We write <em>Go</em> daily.</p>"}}]`)(w, r)
				return
			}
			ok(`[]`)(w, r)
		},
	})
	c := srv.client(t)
	ctx := context.Background()

	res, err := c.GetPageMCP(ctx, GetPageArgs{Slug: "about"})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "About", res.Page.Title)
	assert.Equal(t, "We write Go daily.", res.Summary)

	res, err = c.GetPageMCP(ctx, GetPageArgs{Slug: "nope"})
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Nil(t, res.Page)
}

func TestGetPostMCP(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{"/posts": ok(postDetail)})
	c := srv.client(t)

	res, err := c.GetPostMCP(context.Background(), GetPostArgs{Slug: "release-notes"})
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "Ann Author", res.Post.Author)
	assert.Equal(t, "What changed", res.Summary)
}

func TestGetPostMCP_ErrorsPropagate(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{"/posts": ok(`[{"slug":"p"}]`)})
	c := srv.client(t)

	_, err := c.GetPostMCP(context.Background(), GetPostArgs{Slug: "p"})
	assert.True(t, wperrors.IsMissingEmbed(err))

	_, err = c.GetPostMCP(context.Background(), GetPostArgs{Slug: ""})
	assert.True(t, wperrors.IsValidation(err))
}

func TestListingMCP_EmptyIsNotAnError(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{
		"/posts":      ok(`[]`),
		"/categories": ok(`[]`),
		"/tags":       ok(`[]`),
	})
	c := srv.client(t)
	ctx := context.Background()

	slugs, err := c.ListPostSlugsMCP(ctx, ListPostSlugsArgs{})
	require.NoError(t, err)
	assert.Equal(t, ListPostSlugsResult{Slugs: []string{}, Count: 0}, slugs)

	cats, err := c.ListCategoriesMCP(ctx, ListCategoriesArgs{})
	require.NoError(t, err)
	assert.Equal(t, 0, cats.Count)
	assert.NotNil(t, cats.Terms)

	tags, err := c.ListTagsMCP(ctx, ListTagsArgs{})
	require.NoError(t, err)
	assert.Equal(t, 0, tags.Count)

	latest, err := c.LatestPostsMCP(ctx, LatestPostsArgs{})
	require.NoError(t, err)
	assert.Equal(t, 0, latest.Count)
	assert.NotNil(t, latest.Posts)

	paged, err := c.ListPostsMCP(ctx, ListPostsArgs{})
	require.NoError(t, err)
	assert.Equal(t, 1, paged.Page)
	assert.Equal(t, 1, paged.TotalPages)
	assert.False(t, paged.HasMore)
}

func TestLatestPostsMCP_Summaries(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{"/posts": ok(minimalPost)})
	c := srv.client(t)
	ctx := context.Background()

	res, err := c.LatestPostsMCP(ctx, LatestPostsArgs{PerPage: 5})
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, PostSummary{
		Title:         "Hello world",
		Slug:          "hello-world",
		Date:          "2024-05-01T10:00:00",
		Excerpt:       "Intro",
		FeaturedImage: "https://cdn.example.com/hello.jpg",
	}, res.Posts[0])

	res, err = c.LatestPostsMCP(ctx, LatestPostsArgs{IncludeContent: true})
	require.NoError(t, err)
	assert.Equal(t, "<p>Body</p>\n", res.Posts[0].Content)
}

func TestPostsByTaxonomyMCP(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{"/posts": ok(minimalPost)})
	c := srv.client(t)
	ctx := context.Background()

	byCat, err := c.PostsByCategoryMCP(ctx, PostsByCategoryArgs{CategoryIDs: []int{3, 7}})
	require.NoError(t, err)
	assert.Equal(t, 1, byCat.Count)

	byTag, err := c.PostsByTagsMCP(ctx, PostsByTagsArgs{TagIDs: []int{4}, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 1, byTag.Count)

	reqs := srv.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, "per_page=10&categories=3,7&_embed", reqs[0].RawQuery)
	assert.Equal(t, "per_page=2&tags=4&_embed", reqs[1].RawQuery)

	_, err = c.PostsByCategoryMCP(ctx, PostsByCategoryArgs{})
	assert.True(t, wperrors.IsValidation(err))
}

func TestListPostsMCP_Paging(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{
		"/posts": ok(minimalPost, "X-WP-TotalPages", "3", "X-WP-Total", "15"),
	})
	c := srv.client(t)
	ctx := context.Background()

	res, err := c.ListPostsMCP(ctx, ListPostsArgs{Page: 2, PerPage: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 3, res.TotalPages)
	assert.Equal(t, 15, res.Total)
	assert.True(t, res.HasMore)
	assert.Len(t, res.Posts, 1)

	res, err = c.ListPostsMCP(ctx, ListPostsArgs{Page: 3, PerPage: 5})
	require.NoError(t, err)
	assert.False(t, res.HasMore)
}

func TestSiteIndexMCP(t *testing.T) {
	srv := newWPServer(t, map[string]http.HandlerFunc{
		"/posts":      ok(`[{"slug":"a"},{"slug":"b"}]`),
		"/categories": ok(`[{"id":3,"slug":"news","name":"News"}]`),
		"/tags":       ok(`[{"id":4,"slug":"go","name":"Go"},{"id":5,"slug":"web","name":"Web"}]`),
	})
	c := srv.client(t)

	res, err := c.SiteIndexMCP(context.Background(), SiteIndexArgs{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.PostCount)
	assert.Equal(t, 1, res.CategoryCount)
	assert.Equal(t, 2, res.TagCount)
	assert.Equal(t, []string{"a", "b"}, res.Slugs)
}
