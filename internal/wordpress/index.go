package wordpress

import (
	"context"

	"golang.org/x/sync/errgroup"

	wperrors "github.com/olgasafonova/wordpress-mcp-server/internal/errors"
)

// GetSiteIndex fetches post slugs, categories and tags concurrently. An empty
// listing yields an empty field; any other failure cancels the remaining
// requests and is returned.
func (c *Client) GetSiteIndex(ctx context.Context) (*SiteIndex, error) {
	var idx SiteIndex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slugs, err := c.GetAllPostsSlugs(gctx)
		idx.Slugs = slugs
		return ignoreEmpty(err)
	})
	g.Go(func() error {
		cats, err := c.GetAllPostsCategory(gctx)
		idx.Categories = cats
		return ignoreEmpty(err)
	})
	g.Go(func() error {
		tags, err := c.GetAllPostsTags(gctx)
		idx.Tags = tags
		return ignoreEmpty(err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if idx.Slugs == nil {
		idx.Slugs = []string{}
	}
	if idx.Categories == nil {
		idx.Categories = []Term{}
	}
	if idx.Tags == nil {
		idx.Tags = []Term{}
	}
	return &idx, nil
}

func ignoreEmpty(err error) error {
	if wperrors.IsEmpty(err) {
		return nil
	}
	return err
}
