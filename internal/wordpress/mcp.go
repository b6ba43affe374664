package wordpress

import (
	"context"

	wperrors "github.com/olgasafonova/wordpress-mcp-server/internal/errors"
)

// MCP Tool wrapper methods.
// A slug that matches nothing, or a listing that comes back empty, is an
// answer rather than a failure, so these report Found=false or an empty list
// instead of an error.

const summaryRunes = 300

// GetPageMCP is the MCP wrapper for GetPageInfo
func (c *Client) GetPageMCP(ctx context.Context, args GetPageArgs) (GetPageResult, error) {
	page, err := c.GetPageInfo(ctx, args.Slug)
	if wperrors.IsNotFound(err) {
		return GetPageResult{Found: false}, nil
	}
	if err != nil {
		return GetPageResult{}, err
	}
	return GetPageResult{
		Found:   true,
		Page:    page,
		Summary: Summary(page.Content, summaryRunes),
	}, nil
}

// GetPostMCP is the MCP wrapper for GetPostInfo
func (c *Client) GetPostMCP(ctx context.Context, args GetPostArgs) (GetPostResult, error) {
	post, err := c.GetPostInfo(ctx, args.Slug)
	if wperrors.IsNotFound(err) {
		return GetPostResult{Found: false}, nil
	}
	if err != nil {
		return GetPostResult{}, err
	}
	return GetPostResult{
		Found:   true,
		Post:    post,
		Summary: Summary(post.Excerpt, summaryRunes),
	}, nil
}

// ListPostSlugsMCP is the MCP wrapper for GetAllPostsSlugs
func (c *Client) ListPostSlugsMCP(ctx context.Context, _ ListPostSlugsArgs) (ListPostSlugsResult, error) {
	slugs, err := c.GetAllPostsSlugs(ctx)
	if err != nil && !wperrors.IsEmpty(err) {
		return ListPostSlugsResult{}, err
	}
	if slugs == nil {
		slugs = []string{}
	}
	return ListPostSlugsResult{Slugs: slugs, Count: len(slugs)}, nil
}

// ListCategoriesMCP is the MCP wrapper for GetAllPostsCategory
func (c *Client) ListCategoriesMCP(ctx context.Context, _ ListCategoriesArgs) (ListTermsResult, error) {
	return termsResult(c.GetAllPostsCategory(ctx))
}

// ListTagsMCP is the MCP wrapper for GetAllPostsTags
func (c *Client) ListTagsMCP(ctx context.Context, _ ListTagsArgs) (ListTermsResult, error) {
	return termsResult(c.GetAllPostsTags(ctx))
}

func termsResult(terms []Term, err error) (ListTermsResult, error) {
	if err != nil && !wperrors.IsEmpty(err) {
		return ListTermsResult{}, err
	}
	if terms == nil {
		terms = []Term{}
	}
	return ListTermsResult{Terms: terms, Count: len(terms)}, nil
}

// LatestPostsMCP is the MCP wrapper for GetLatestPosts
func (c *Client) LatestPostsMCP(ctx context.Context, args LatestPostsArgs) (PostListResult, error) {
	posts, err := c.GetLatestPosts(ctx, LatestPostsOptions{PerPage: args.PerPage})
	return postListResult(posts, err, args.IncludeContent)
}

// PostsByCategoryMCP is the MCP wrapper for GetPostsByCategory
func (c *Client) PostsByCategoryMCP(ctx context.Context, args PostsByCategoryArgs) (PostListResult, error) {
	posts, err := c.GetPostsByCategory(ctx, args.PerPage, args.CategoryIDs)
	return postListResult(posts, err, args.IncludeContent)
}

// PostsByTagsMCP is the MCP wrapper for GetPostsByTags
func (c *Client) PostsByTagsMCP(ctx context.Context, args PostsByTagsArgs) (PostListResult, error) {
	posts, err := c.GetPostsByTags(ctx, args.PerPage, args.TagIDs)
	return postListResult(posts, err, args.IncludeContent)
}

func postListResult(posts []Post, err error, includeContent bool) (PostListResult, error) {
	if err != nil && !wperrors.IsEmpty(err) {
		return PostListResult{}, err
	}
	summaries := summarizePosts(posts, includeContent)
	return PostListResult{Posts: summaries, Count: len(summaries)}, nil
}

// ListPostsMCP is the MCP wrapper for GetAllPosts
func (c *Client) ListPostsMCP(ctx context.Context, args ListPostsArgs) (ListPostsResult, error) {
	page := args.Page
	if page == 0 {
		page = 1
	}

	resp, err := c.GetAllPosts(ctx, AllPostsOptions{Page: args.Page, PerPage: args.PerPage})
	if wperrors.IsEmpty(err) {
		return ListPostsResult{Posts: []PostSummary{}, Page: page, TotalPages: 1}, nil
	}
	if err != nil {
		return ListPostsResult{}, err
	}

	return ListPostsResult{
		Posts:      summarizePosts(resp.Posts, args.IncludeContent),
		Page:       page,
		TotalPages: resp.TotalPages,
		Total:      resp.Total,
		HasMore:    page < resp.TotalPages,
	}, nil
}

// SiteIndexMCP is the MCP wrapper for GetSiteIndex
func (c *Client) SiteIndexMCP(ctx context.Context, _ SiteIndexArgs) (SiteIndexResult, error) {
	idx, err := c.GetSiteIndex(ctx)
	if err != nil {
		return SiteIndexResult{}, err
	}
	return SiteIndexResult{
		Slugs:         idx.Slugs,
		Categories:    idx.Categories,
		Tags:          idx.Tags,
		PostCount:     len(idx.Slugs),
		CategoryCount: len(idx.Categories),
		TagCount:      len(idx.Tags),
	}, nil
}

func summarizePosts(posts []Post, includeContent bool) []PostSummary {
	out := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		s := PostSummary{
			Title:         PlainText(p.Title),
			Slug:          p.Slug,
			Date:          p.Date,
			Excerpt:       Summary(p.Excerpt, summaryRunes),
			FeaturedImage: p.FeaturedImage,
		}
		if includeContent {
			s.Content = p.Content
		}
		out = append(out, s)
	}
	return out
}
