package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/olgasafonova/wordpress-mcp-server/internal/config"
	"github.com/olgasafonova/wordpress-mcp-server/internal/logging"
	"github.com/olgasafonova/wordpress-mcp-server/internal/wordpress"
)

var (
	cfgFile    string
	domain     string
	production bool
	verbose    bool
	version    = "dev"

	client *wordpress.Client
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wpcontent",
	Short: "Read content from a WordPress site",
	Long: `wpcontent reads pages, posts, categories and tags from a WordPress
site's REST API and prints them as JSON.

The site is configured the same way as the MCP server: a YAML file
(--config or CONFIG_PATH) overlaid by WP_* environment variables.
--domain and --production override both.

Example usage:
  wpcontent page about                 # Page by slug
  wpcontent post hello-world           # Post with author and taxonomy
  wpcontent latest --per-page 5        # Newest posts
  wpcontent by-category 3 7            # Posts in category 3 or 7
  wpcontent posts --page 2             # Second page of all posts`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if client != nil {
			client.Close()
			client = nil
		}
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: CONFIG_PATH, then environment)")
	rootCmd.PersistentFlags().StringVar(&domain, "domain", "", "site URL, overrides WP_DOMAIN")
	rootCmd.PersistentFlags().BoolVar(&production, "production", false, "treat --domain as the REST API root")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initClient loads configuration, applying flag overrides, and builds the
// WordPress client.
func initClient(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("domain") {
		if err := os.Setenv("WP_DOMAIN", domain); err != nil {
			return err
		}
	}
	if flags.Changed("production") {
		if err := os.Setenv("WP_PRODUCTION", fmt.Sprint(production)); err != nil {
			return err
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	} else if level < slog.LevelWarn {
		// keep stderr quiet unless asked
		level = slog.LevelWarn
	}
	logger = logging.New(level)

	client = wordpress.NewClientFromConfig(cfg.WordPress, logger)
	logger.Debug("client ready", "api_root", client.APIRoot())
	return nil
}

// printJSON writes v to the command's output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
