package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/olgasafonova/wordpress-mcp-server/internal/wordpress"
)

var pageCmd = &cobra.Command{
	Use:   "page <slug>",
	Short: "Show a page by slug",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := client.GetPageInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, page)
	},
}

var postCmd = &cobra.Command{
	Use:   "post <slug>",
	Short: "Show a post by slug, with author, categories and tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := client.GetPostInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, post)
	},
}

var slugsCmd = &cobra.Command{
	Use:   "slugs",
	Short: "List post slugs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		slugs, err := client.GetAllPostsSlugs(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, slugs)
	},
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		terms, err := client.GetAllPostsCategory(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, terms)
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		terms, err := client.GetAllPostsTags(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, terms)
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List the newest posts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		perPage, _ := cmd.Flags().GetInt("per-page")
		posts, err := client.GetLatestPosts(cmd.Context(), wordpress.LatestPostsOptions{PerPage: perPage})
		if err != nil {
			return err
		}
		return printJSON(cmd, posts)
	},
}

var byCategoryCmd = &cobra.Command{
	Use:   "by-category <id>...",
	Short: "List posts in any of the given categories",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		perPage, _ := cmd.Flags().GetInt("per-page")
		posts, err := client.GetPostsByCategory(cmd.Context(), perPage, ids)
		if err != nil {
			return err
		}
		return printJSON(cmd, posts)
	},
}

var byTagsCmd = &cobra.Command{
	Use:   "by-tags <id>...",
	Short: "List posts carrying any of the given tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseIDs(args)
		if err != nil {
			return err
		}
		perPage, _ := cmd.Flags().GetInt("per-page")
		posts, err := client.GetPostsByTags(cmd.Context(), perPage, ids)
		if err != nil {
			return err
		}
		return printJSON(cmd, posts)
	},
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Page through all posts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		resp, err := client.GetAllPosts(cmd.Context(), wordpress.AllPostsOptions{Page: page, PerPage: perPage})
		if err != nil {
			return err
		}
		return printJSON(cmd, resp)
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Fetch slugs, categories and tags in one go",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := client.GetSiteIndex(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, idx)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// no client needed
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "wpcontent %s\n", version)
	},
}

func init() {
	latestCmd.Flags().Int("per-page", wordpress.DefaultLatestPerPage, "number of posts (1-100)")
	byCategoryCmd.Flags().Int("per-page", wordpress.DefaultLatestPerPage, "number of posts (1-100)")
	byTagsCmd.Flags().Int("per-page", wordpress.DefaultLatestPerPage, "number of posts (1-100)")
	postsCmd.Flags().Int("page", 1, "page number, 1-based")
	postsCmd.Flags().Int("per-page", wordpress.DefaultAllPostsPerPage, "posts per page (1-100)")

	rootCmd.AddCommand(
		pageCmd,
		postCmd,
		slugsCmd,
		categoriesCmd,
		tagsCmd,
		latestCmd,
		byCategoryCmd,
		byTagsCmd,
		postsCmd,
		indexCmd,
		versionCmd,
	)
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: must be an integer", a)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
