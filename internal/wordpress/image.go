package wordpress

import (
	"context"

	"github.com/olgasafonova/wordpress-mcp-server/metrics"
)

// imageSource is one way of finding a featured image URL. An empty result
// means the source has nothing and the next one is tried.
type imageSource struct {
	name    string
	resolve func(ctx context.Context, item *rawPost) string
}

// firstImage walks sources in order and returns the first non-empty URL
// along with the name of the source that produced it.
func firstImage(ctx context.Context, sources []imageSource, item *rawPost) (string, string) {
	for _, s := range sources {
		if u := s.resolve(ctx, item); u != "" {
			return u, s.name
		}
	}
	return "", "none"
}

func jetpackImage(_ context.Context, item *rawPost) string {
	return item.JetpackFeaturedMediaURL
}

func embeddedImage(_ context.Context, item *rawPost) string {
	if item.Embedded == nil || len(item.Embedded.FeaturedMedia) == 0 {
		return ""
	}
	return item.Embedded.FeaturedMedia[0].SourceURL
}

// mediaImage looks the image up through /media/{id}. Failures are logged
// and yield "", they never fail the surrounding call.
func (c *Client) mediaImage(ctx context.Context, item *rawPost) string {
	if item.FeaturedMedia <= 0 {
		return ""
	}

	src, err := c.resolveMedia(ctx, item.FeaturedMedia)
	if err != nil {
		metrics.MediaFallbacks.WithLabelValues("error").Inc()
		c.Logger.WarnContext(ctx, "featured media lookup failed",
			"media_id", item.FeaturedMedia,
			"slug", item.Slug,
			"error", err)
		return ""
	}
	if src == "" {
		metrics.MediaFallbacks.WithLabelValues("empty").Inc()
		return ""
	}
	metrics.MediaFallbacks.WithLabelValues("resolved").Inc()
	return src
}

func (c *Client) pageImageSources() []imageSource {
	return []imageSource{
		{name: "jetpack", resolve: jetpackImage},
		{name: "media", resolve: c.mediaImage},
	}
}

func postImageSources() []imageSource {
	return []imageSource{
		{name: "jetpack", resolve: jetpackImage},
		{name: "embedded", resolve: embeddedImage},
	}
}
