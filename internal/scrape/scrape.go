// Package scrape orchestrates a full Moltbook collection run. Every step is
// wrapped independently so one failing collection never aborts the others;
// the run always completes and reports whatever partial data it gathered.
package scrape

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bendavidsteel/carcinologer/pkg/logging"
	"github.com/bendavidsteel/carcinologer/pkg/moltbook"
)

// Options controls a collection run.
type Options struct {
	// Sort order for posts and feeds (hot, new, top, rising).
	Sort string

	// MaxPosts caps each feed collection. 0 collects everything.
	MaxPosts int

	// IncludeComments fetches comments for every collected post that has
	// any.
	IncludeComments bool

	// CommentDelay is the courtesy delay between per-post comment fetches.
	CommentDelay time.Duration
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		Sort:         moltbook.SortNew,
		CommentDelay: 300 * time.Millisecond,
	}
}

// Result aggregates everything a run collected. Steps that failed or were
// skipped leave their field empty.
type Result struct {
	Stats        moltbook.Stats                `json:"stats"`
	Submolts     []moltbook.Submolt            `json:"submolts"`
	Agents       []moltbook.Agent              `json:"agents"`
	AllPosts     []moltbook.Post               `json:"all_posts"`
	SubmoltPosts map[string][]moltbook.Post    `json:"submolt_posts"`
	Comments     map[string][]moltbook.Comment `json:"comments"`
}

// All runs the full collection: stats, submolts, leaderboard, the global
// feed, each submolt's feed, and optionally comments.
func All(ctx context.Context, api *moltbook.API, opts Options) *Result {
	logger := logging.NewLogger("scrape")

	if opts.Sort == "" {
		opts.Sort = moltbook.SortNew
	}
	if opts.CommentDelay <= 0 {
		opts.CommentDelay = 300 * time.Millisecond
	}

	result := &Result{
		SubmoltPosts: make(map[string][]moltbook.Post),
		Comments:     make(map[string][]moltbook.Comment),
	}

	logger.Info().Str("sort", opts.Sort).Msg("Getting site statistics")
	if stats, err := api.GetStats(ctx); err != nil {
		logger.Error().Err(err).Msg("Stats step failed, continuing")
	} else {
		result.Stats = stats
	}

	logger.Info().Msg("Getting all submolts")
	submolts, err := api.GetSubmolts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Submolt step failed, continuing")
	} else {
		result.Submolts = submolts
		logger.Info().Int("count", len(submolts)).Msg("Found submolts")
	}

	logger.Info().Msg("Getting agent leaderboard")
	if agents, err := api.GetLeaderboard(ctx); err != nil {
		logger.Error().Err(err).Msg("Leaderboard step failed, continuing")
	} else {
		result.Agents = agents
		logger.Info().Int("count", len(agents)).Msg("Found agents")
	}

	logger.Info().Msg("Getting all posts from main feed")
	if posts, err := api.GetAllPosts(ctx, opts.Sort, opts.MaxPosts); err != nil {
		logger.Error().Err(err).Int("partial", len(posts)).Msg("Feed step failed, keeping partial data")
		result.AllPosts = posts
	} else {
		result.AllPosts = posts
		logger.Info().Int("count", len(posts)).Msg("Collected feed posts")
	}

	logger.Info().Msg("Getting posts from each submolt")
	for _, submolt := range result.Submolts {
		if ctx.Err() != nil {
			logger.Warn().Msg("Run cancelled, stopping submolt collection")
			break
		}
		posts, err := api.GetAllSubmoltPosts(ctx, submolt.Name, opts.Sort, opts.MaxPosts)
		if err != nil {
			logger.Error().Err(err).Str("submolt", submolt.Name).Msg("Submolt feed failed, continuing")
			continue
		}
		if len(posts) > 0 {
			result.SubmoltPosts[submolt.Name] = posts
			logger.Info().Str("submolt", submolt.Name).Int("count", len(posts)).Msg("Collected submolt posts")
		}
	}

	if opts.IncludeComments {
		collectComments(ctx, api, opts, result, logger)
	}

	totalPosts := len(result.AllPosts)
	for _, posts := range result.SubmoltPosts {
		totalPosts += len(posts)
	}
	totalComments := 0
	for _, comments := range result.Comments {
		totalComments += len(comments)
	}
	logger.Info().
		Int("submolts", len(result.Submolts)).
		Int("agents", len(result.Agents)).
		Int("posts", totalPosts).
		Int("comments", totalComments).
		Msg("Scrape complete")

	return result
}

// collectComments fetches comments for every collected post that reports
// having any, with a courtesy delay between posts.
func collectComments(ctx context.Context, api *moltbook.API, opts Options, result *Result, logger zerolog.Logger) {
	logger.Info().Int("posts", len(result.AllPosts)).Msg("Fetching comments for collected posts")

	for _, post := range result.AllPosts {
		if ctx.Err() != nil {
			logger.Warn().Msg("Run cancelled, stopping comment collection")
			return
		}
		if post.CommentCount == 0 {
			continue
		}

		comments, err := api.GetPostComments(ctx, post.ID, moltbook.SortTop)
		if err != nil {
			logger.Error().Err(err).Str("post_id", post.ID).Msg("Comment fetch failed, continuing")
			continue
		}
		if len(comments) > 0 {
			result.Comments[post.ID] = comments
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(opts.CommentDelay):
		}
	}
}
