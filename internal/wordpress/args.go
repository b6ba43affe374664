package wordpress

// GetPageArgs contains parameters for fetching a page
type GetPageArgs struct {
	Slug string `json:"slug" jsonschema:"required" jsonschema_description:"Page slug, e.g. 'about'"`
}

// GetPageResult is the result of fetching a page
type GetPageResult struct {
	Found   bool      `json:"found"`
	Page    *PageInfo `json:"page,omitempty"`
	Summary string    `json:"summary,omitempty"` // plain-text start of the content
}

// GetPostArgs contains parameters for fetching a single post
type GetPostArgs struct {
	Slug string `json:"slug" jsonschema:"required" jsonschema_description:"Post slug, e.g. 'hello-world'"`
}

// GetPostResult is the result of fetching a single post
type GetPostResult struct {
	Found   bool        `json:"found"`
	Post    *PostDetail `json:"post,omitempty"`
	Summary string      `json:"summary,omitempty"`
}

// ListPostSlugsArgs takes no parameters
type ListPostSlugsArgs struct{}

// ListPostSlugsResult is the result of listing post slugs
type ListPostSlugsResult struct {
	Slugs []string `json:"slugs"`
	Count int      `json:"count"`
}

// ListCategoriesArgs takes no parameters
type ListCategoriesArgs struct{}

// ListTagsArgs takes no parameters
type ListTagsArgs struct{}

// ListTermsResult is the result of listing categories or tags
type ListTermsResult struct {
	Terms []Term `json:"terms"`
	Count int    `json:"count"`
}

// LatestPostsArgs contains parameters for listing the newest posts
type LatestPostsArgs struct {
	PerPage        int  `json:"per_page,omitempty" jsonschema_description:"Number of posts (1-100, default 10)"`
	IncludeContent bool `json:"include_content,omitempty" jsonschema_description:"Include full rendered HTML content (default: false)"`
}

// PostsByCategoryArgs contains parameters for filtering posts by category
type PostsByCategoryArgs struct {
	CategoryIDs    []int `json:"category_ids" jsonschema:"required" jsonschema_description:"Category ids; posts in any of them match"`
	PerPage        int   `json:"per_page,omitempty" jsonschema_description:"Number of posts (1-100, default 10)"`
	IncludeContent bool  `json:"include_content,omitempty" jsonschema_description:"Include full rendered HTML content (default: false)"`
}

// PostsByTagsArgs contains parameters for filtering posts by tag
type PostsByTagsArgs struct {
	TagIDs         []int `json:"tag_ids" jsonschema:"required" jsonschema_description:"Tag ids; posts carrying any of them match"`
	PerPage        int   `json:"per_page,omitempty" jsonschema_description:"Number of posts (1-100, default 10)"`
	IncludeContent bool  `json:"include_content,omitempty" jsonschema_description:"Include full rendered HTML content (default: false)"`
}

// PostListResult is the result of the unpaged post listings
type PostListResult struct {
	Posts []PostSummary `json:"posts"`
	Count int           `json:"count"`
}

// ListPostsArgs contains parameters for paging through all posts
type ListPostsArgs struct {
	Page           int  `json:"page,omitempty" jsonschema_description:"Page number, 1-based (default 1)"`
	PerPage        int  `json:"per_page,omitempty" jsonschema_description:"Posts per page (1-100, default 6)"`
	IncludeContent bool `json:"include_content,omitempty" jsonschema_description:"Include full rendered HTML content (default: false)"`
}

// ListPostsResult is one page of posts
type ListPostsResult struct {
	Posts      []PostSummary `json:"posts"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Total      int           `json:"total,omitempty"`
	HasMore    bool          `json:"has_more"`
}

// PostSummary is a compact post representation for MCP responses
type PostSummary struct {
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Date          string `json:"date"`
	Excerpt       string `json:"excerpt,omitempty"` // plain text
	FeaturedImage string `json:"featured_image,omitempty"`
	Content       string `json:"content,omitempty"` // rendered HTML, only with include_content
}

// SiteIndexArgs takes no parameters
type SiteIndexArgs struct{}

// SiteIndexResult is the result of building the site index
type SiteIndexResult struct {
	Slugs         []string `json:"slugs"`
	Categories    []Term   `json:"categories"`
	Tags          []Term   `json:"tags"`
	PostCount     int      `json:"post_count"`
	CategoryCount int      `json:"category_count"`
	TagCount      int      `json:"tag_count"`
}
