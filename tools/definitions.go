package tools

// AllTools contains all tool specifications for the WordPress MCP server.
// Tool descriptions follow a structured format for optimal LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// READ TOOLS
	// ==========================================================================
	{
		Name:     "wordpress_get_page",
		Method:   "GetPage",
		Title:    "Get Page",
		Category: "read",
		Resource: "pages",
		Description: `Fetch a static WordPress PAGE (About, Contact, Imprint) by slug.

USE WHEN: User asks "what's on the about page", "show the contact page".

NOT FOR: Blog posts (use wordpress_get_post).

PARAMETERS:
- slug: Page slug, e.g. "about" (required)

RETURNS: Title, rendered HTML content, featured image URL and a plain-text summary. found=false if no page has that slug.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wordpress_get_post",
		Method:   "GetPost",
		Title:    "Get Post",
		Category: "read",
		Resource: "posts",
		Description: `Fetch a single blog POST by slug, with author, categories and tags.

USE WHEN: User asks "show me the post X", "who wrote X", "what tags does X have".

NOT FOR: Listing posts (use wordpress_latest_posts or wordpress_list_posts). Static pages (use wordpress_get_page).

PARAMETERS:
- slug: Post slug, e.g. "hello-world" (required)

RETURNS: Title, excerpt, content, date, featured image, author name, categories and tags. found=false if no post has that slug.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// LIST TOOLS
	// ==========================================================================
	{
		Name:     "wordpress_latest_posts",
		Method:   "LatestPosts",
		Title:    "Latest Posts",
		Category: "list",
		Resource: "posts",
		Description: `List the NEWEST blog posts.

USE WHEN: User asks "what's new on the blog", "latest articles", "recent posts".

NOT FOR: Paging through the full archive (use wordpress_list_posts).

PARAMETERS:
- per_page: Number of posts, 1-100 (default 10)
- include_content: Include full HTML content (default false)

RETURNS: Posts with title, slug, date, plain-text excerpt and featured image.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wordpress_list_posts",
		Method:   "ListPosts",
		Title:    "List Posts (Paged)",
		Category: "list",
		Resource: "posts",
		Description: `Page through ALL blog posts.

USE WHEN: User asks "show page 2 of the archive", "list every post", "how many posts are there".

NOT FOR: Just the newest few (use wordpress_latest_posts).

PARAMETERS:
- page: Page number, 1-based (default 1)
- per_page: Posts per page, 1-100 (default 6)
- include_content: Include full HTML content (default false)

RETURNS: Posts for the page, total_pages, total and has_more.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wordpress_list_post_slugs",
		Method:   "ListPostSlugs",
		Title:    "List Post Slugs",
		Category: "list",
		Resource: "posts",
		Description: `List the slugs of up to 100 posts.

USE WHEN: You need valid slugs before calling wordpress_get_post, or to build links.

PARAMETERS: none

RETURNS: Slugs, newest first.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// TAXONOMY TOOLS
	// ==========================================================================
	{
		Name:     "wordpress_list_categories",
		Method:   "ListCategories",
		Title:    "List Categories",
		Category: "taxonomy",
		Resource: "categories",
		Description: `List up to 100 post categories.

USE WHEN: User asks "what topics does the blog cover", or you need a category id for wordpress_posts_by_category.

PARAMETERS: none

RETURNS: Categories with id, slug and name.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wordpress_list_tags",
		Method:   "ListTags",
		Title:    "List Tags",
		Category: "taxonomy",
		Resource: "tags",
		Description: `List up to 100 post tags.

USE WHEN: You need a tag id for wordpress_posts_by_tags.

PARAMETERS: none

RETURNS: Tags with id, slug and name.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wordpress_posts_by_category",
		Method:   "PostsByCategory",
		Title:    "Posts by Category",
		Category: "taxonomy",
		Resource: "posts",
		Description: `List posts filed under one or more categories.

USE WHEN: User asks "show posts about X" and X is a category.

NOT FOR: Tags (use wordpress_posts_by_tags).

PARAMETERS:
- category_ids: Category ids, any match (required; get them from wordpress_list_categories)
- per_page: Number of posts, 1-100 (default 10)
- include_content: Include full HTML content (default false)

RETURNS: Matching posts, newest first.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wordpress_posts_by_tags",
		Method:   "PostsByTags",
		Title:    "Posts by Tags",
		Category: "taxonomy",
		Resource: "posts",
		Description: `List posts carrying one or more tags.

USE WHEN: User asks "posts tagged X".

NOT FOR: Categories (use wordpress_posts_by_category).

PARAMETERS:
- tag_ids: Tag ids, any match (required; get them from wordpress_list_tags)
- per_page: Number of posts, 1-100 (default 10)
- include_content: Include full HTML content (default false)

RETURNS: Matching posts, newest first.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
	{
		Name:     "wordpress_site_index",
		Method:   "SiteIndex",
		Title:    "Site Index",
		Category: "taxonomy",
		Resource: "site",
		Description: `Get post slugs, categories and tags in one call.

USE WHEN: You need an overview of the site's structure before drilling down.

PARAMETERS: none

RETURNS: Slugs, categories, tags and their counts.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},
}
