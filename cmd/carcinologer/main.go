// Command carcinologer collects communities, posts, comments and agent
// rankings from Moltbook and writes one JSON file per dataset.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/bendavidsteel/carcinologer/internal/config"
	"github.com/bendavidsteel/carcinologer/internal/scrape"
	"github.com/bendavidsteel/carcinologer/pkg/browser"
	"github.com/bendavidsteel/carcinologer/pkg/client"
	"github.com/bendavidsteel/carcinologer/pkg/export"
	"github.com/bendavidsteel/carcinologer/pkg/logging"
	"github.com/bendavidsteel/carcinologer/pkg/moltbook"
)

var flags struct {
	sort            string
	maxPosts        int
	withComments    bool
	out             string
	apiKey          string
	redisAddr       string
	rate            float64
	logLevel        string
	pretty          bool
	capturePage     bool
	browserHeadless bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "carcinologer",
		Short: "Scrape communities, posts and agent rankings from Moltbook",
		Long: "Carcinologer collects the public and authenticated datasets of " +
			"moltbook.com over its JSON API, with a headless-browser fallback " +
			"for script-rendered pages, and writes one JSON file per dataset.",
		RunE:          run,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVar(&flags.sort, "sort", "new", "post sort order: hot, new, top or rising")
	rootCmd.Flags().IntVar(&flags.maxPosts, "max-posts", 0, "cap per-feed post collection (0 = all)")
	rootCmd.Flags().BoolVar(&flags.withComments, "with-comments", false, "fetch comments for every collected post")
	rootCmd.Flags().StringVar(&flags.out, "out", "data", "output directory for JSON datasets")
	rootCmd.Flags().StringVar(&flags.apiKey, "api-key", "", "Moltbook API key (overrides env and credential file)")
	rootCmd.Flags().StringVar(&flags.redisAddr, "redis", "", "Redis address for response caching (empty disables)")
	rootCmd.Flags().Float64Var(&flags.rate, "rate", 0, "max requests per second (0 disables the limiter)")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&flags.pretty, "pretty", false, "human-readable console logs")
	rootCmd.Flags().BoolVar(&flags.capturePage, "capture-communities", false, "also capture the script-rendered /m page via headless browser")
	rootCmd.Flags().BoolVar(&flags.browserHeadless, "headless", true, "run the browser fallback headless")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(flags.logLevel)
	logCfg.Pretty = flags.pretty
	logger := logging.Setup(logCfg)

	creds, err := config.LoadCredentials(flags.apiKey)
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if creds.APIKey == "" {
		logger.Warn().Msg("No API key found; post and comment endpoints will return empty results")
		logger.Warn().Msgf("Set %s or create ~/.config/moltbook/credentials.json", config.EnvAPIKey)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clientCfg := client.DefaultConfig()
	clientCfg.APIKey = creds.APIKey
	clientCfg.RequestsPerSecond = flags.rate
	if flags.redisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: flags.redisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", flags.redisAddr, err)
		}
		defer redisClient.Close()
		clientCfg.Redis = redisClient
		logger.Info().Str("addr", flags.redisAddr).Msg("Response caching enabled")
	}

	apiClient, err := client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer apiClient.Close()

	api := moltbook.New(apiClient)

	opts := scrape.DefaultOptions()
	opts.Sort = flags.sort
	opts.MaxPosts = flags.maxPosts
	opts.IncludeComments = flags.withComments

	result := scrape.All(ctx, api, opts)

	writer, err := export.NewWriter(flags.out)
	if err != nil {
		return err
	}
	datasets := map[string]any{
		"stats":         result.Stats,
		"submolts":      result.Submolts,
		"leaderboard":   result.Agents,
		"posts":         result.AllPosts,
		"submolt_posts": result.SubmoltPosts,
		"comments":      result.Comments,
	}
	for name, data := range datasets {
		if err := writer.Write(name, data); err != nil {
			logger.Error().Err(err).Str("dataset", name).Msg("Export failed, continuing")
		}
	}

	if flags.capturePage {
		if err := captureCommunitiesPage(ctx, writer); err != nil {
			logger.Error().Err(err).Msg("Browser capture failed, continuing")
		}
	}

	logger.Info().Str("dir", writer.Dir()).Msg("Done, datasets written")
	return nil
}

// captureCommunitiesPage renders the /m listing with the browser fallback
// and saves its text content next to the JSON datasets.
func captureCommunitiesPage(ctx context.Context, writer *export.Writer) error {
	session, err := browser.Start(ctx, browser.Config{
		Headless: flags.browserHeadless,
		BaseURL:  "https://www.moltbook.com",
	})
	if err != nil {
		return err
	}
	defer session.Stop()

	capture, err := session.CommunitiesPage()
	if err != nil {
		return err
	}
	return writer.Write("communities_page", capture)
}
