// Package wordpress provides a read-only client for the WordPress REST API.
// It fetches pages, posts, categories and tags and flattens WordPress's
// nested JSON into records ready for presentation.
package wordpress

// Post is a flattened WordPress post. Title, Excerpt and Content hold
// rendered HTML as WordPress returns it.
type Post struct {
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	Date          string `json:"date"`
	Slug          string `json:"slug"`
	FeaturedImage string `json:"featuredImage"`
}

// PostDetail is a single post with its author and taxonomy.
type PostDetail struct {
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Content       string `json:"content"`
	Date          string `json:"date"`
	Slug          string `json:"slug"`
	FeaturedImage string `json:"featuredImage"`
	Author        string `json:"author"`
	Categories    []Term `json:"categories"`
	Tags          []Term `json:"tags"`
}

// PageInfo is a flattened WordPress page.
type PageInfo struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	FeaturedImage string `json:"featuredImage"`
}

// Term is a category or a tag.
type Term struct {
	ID   int    `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// PagedPosts is one page of a post listing.
type PagedPosts struct {
	Posts      []Post `json:"posts"`
	TotalPages int    `json:"totalPages"` // always >= 1
	Total      int    `json:"total"`      // 0 when WordPress omits X-WP-Total
}

// SiteIndex bundles the lookups a site needs to build its navigation.
type SiteIndex struct {
	Slugs      []string `json:"slugs"`
	Categories []Term   `json:"categories"`
	Tags       []Term   `json:"tags"`
}

// LatestPostsOptions configures GetLatestPosts
type LatestPostsOptions struct {
	PerPage int // default 10
}

// AllPostsOptions configures GetAllPosts
type AllPostsOptions struct {
	Page    int // 1-based, default 1
	PerPage int // default 6
}

// Upstream shapes. Pages and posts share one shape; pages simply lack
// excerpt and date.

type rendered struct {
	Rendered string `json:"rendered"`
}

type rawPost struct {
	ID            int      `json:"id"`
	Title         rendered `json:"title"`
	Excerpt       rendered `json:"excerpt"`
	Content       rendered `json:"content"`
	Date          string   `json:"date"`
	Slug          string   `json:"slug"`
	FeaturedMedia int      `json:"featured_media"`

	// Set by Jetpack when installed; already the final image URL.
	JetpackFeaturedMediaURL string `json:"jetpack_featured_media_url"`

	Embedded *rawEmbedded `json:"_embedded"`
}

type rawEmbedded struct {
	Author        []rawAuthor `json:"author"`
	FeaturedMedia []rawMedia  `json:"wp:featuredmedia"`
	Terms         [][]rawTerm `json:"wp:term"` // [0] categories, [1] tags
}

type rawAuthor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type rawMedia struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
}

type rawTerm struct {
	ID       int    `json:"id"`
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Taxonomy string `json:"taxonomy"`
}

// apiError is the body WordPress sends with non-2xx responses.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
