// Package moltbook provides typed access to the Moltbook v1 REST API on top
// of the resilient HTTP client.
package moltbook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/bendavidsteel/carcinologer/pkg/client"
	"github.com/bendavidsteel/carcinologer/pkg/logging"
	"github.com/bendavidsteel/carcinologer/pkg/pagination"
)

// Sort orders accepted by the posts and feed endpoints.
const (
	SortHot    = "hot"
	SortNew    = "new"
	SortTop    = "top"
	SortRising = "rising"
)

// SortControversial is accepted by the comments endpoint alongside SortTop
// and SortNew.
const SortControversial = "controversial"

// MaxPageSize is the largest page the API serves; larger requests are
// clamped.
const MaxPageSize = 100

// API wraps the Moltbook endpoints with typed results.
type API struct {
	client *client.Client
	pages  pagination.Config
	logger zerolog.Logger
}

// New creates an API bound to a client.
func New(c *client.Client) *API {
	return &API{
		client: c,
		pages:  pagination.DefaultConfig(),
		logger: logging.NewLogger("moltbook-api"),
	}
}

// SetPageConfig overrides the pagination defaults used by the GetAll
// helpers.
func (a *API) SetPageConfig(cfg pagination.Config) {
	a.pages = cfg
}

// GetSubmolts returns all communities.
func (a *API) GetSubmolts(ctx context.Context) ([]Submolt, error) {
	var env submoltsEnvelope
	if err := a.getJSON(ctx, "/submolts", &env); err != nil {
		return nil, err
	}
	return env.Submolts, nil
}

// GetStats returns site-wide totals. They ride on the submolt listing
// envelope, so this costs one listing request.
func (a *API) GetStats(ctx context.Context) (Stats, error) {
	var env submoltsEnvelope
	if err := a.getJSON(ctx, "/submolts", &env); err != nil {
		return Stats{}, err
	}
	return Stats{
		TotalSubmolts: env.Count,
		TotalPosts:    env.TotalPosts,
		TotalComments: env.TotalComments,
	}, nil
}

// GetLeaderboard returns the ranked agent list. Absent fields keep their
// documented defaults; an agent without a name is reported as "unknown".
func (a *API) GetLeaderboard(ctx context.Context) ([]Agent, error) {
	var env leaderboardEnvelope
	if err := a.getJSON(ctx, "/agents/leaderboard", &env); err != nil {
		return nil, err
	}
	for i := range env.Leaderboard {
		if env.Leaderboard[i].Name == "" {
			env.Leaderboard[i].Name = "unknown"
		}
	}
	return env.Leaderboard, nil
}

// GetPosts returns one page of the global feed. Without credentials the
// endpoint answers 401; that is downgraded to an empty page so callers can
// treat protected data as simply absent.
func (a *API) GetPosts(ctx context.Context, sort string, limit int, before string) (PostPage, error) {
	return a.getFeedPage(ctx, "/posts", sort, limit, before)
}

// GetSubmoltPosts returns one page of a single submolt's feed, with the
// same 401 downgrade as GetPosts.
func (a *API) GetSubmoltPosts(ctx context.Context, submolt, sort string, limit int, before string) (PostPage, error) {
	endpoint := fmt.Sprintf("/submolts/%s/feed", url.PathEscape(submolt))
	return a.getFeedPage(ctx, endpoint, sort, limit, before)
}

// GetPostComments returns every comment on a post. The endpoint is not
// cursor-paginated. 401 without credentials yields an empty list.
func (a *API) GetPostComments(ctx context.Context, postID, sort string) ([]Comment, error) {
	endpoint := fmt.Sprintf("/posts/%s/comments?sort=%s", url.PathEscape(postID), url.QueryEscape(sort))

	resp, err := a.client.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if a.authDenied(resp) {
		a.logger.Warn().
			Str("post_id", postID).
			Msg("Comments endpoint requires authentication, returning empty list")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, endpoint)
	}

	var env commentsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	for i := range env.Comments {
		env.Comments[i].PostID = postID
	}
	return env.Comments, nil
}

// GetAllPosts drains the global feed. maxPosts caps the result; 0 collects
// everything.
func (a *API) GetAllPosts(ctx context.Context, sort string, maxPosts int) ([]Post, error) {
	cfg := a.pages
	cfg.MaxRecords = maxPosts
	return pagination.CollectAll(ctx, cfg, func(ctx context.Context, cursor string) (pagination.Page[Post], error) {
		page, err := a.GetPosts(ctx, sort, MaxPageSize, cursor)
		if err != nil {
			return pagination.Page[Post]{}, err
		}
		return pagination.Page[Post]{Records: page.Posts, NextCursor: page.NextCursor}, nil
	})
}

// GetAllSubmoltPosts drains one submolt's feed. maxPosts caps the result;
// 0 collects everything.
func (a *API) GetAllSubmoltPosts(ctx context.Context, submolt, sort string, maxPosts int) ([]Post, error) {
	cfg := a.pages
	cfg.MaxRecords = maxPosts
	return pagination.CollectAll(ctx, cfg, func(ctx context.Context, cursor string) (pagination.Page[Post], error) {
		page, err := a.GetSubmoltPosts(ctx, submolt, sort, MaxPageSize, cursor)
		if err != nil {
			return pagination.Page[Post]{}, err
		}
		return pagination.Page[Post]{Records: page.Posts, NextCursor: page.NextCursor}, nil
	})
}

// getFeedPage fetches one cursor page of a feed endpoint.
func (a *API) getFeedPage(ctx context.Context, endpoint, sort string, limit int, before string) (PostPage, error) {
	if limit < 1 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	q := url.Values{}
	q.Set("sort", sort)
	q.Set("limit", strconv.Itoa(limit))
	if before != "" {
		q.Set("before", before)
	}

	resp, err := a.client.Get(ctx, endpoint+"?"+q.Encode())
	if err != nil {
		return PostPage{}, err
	}
	defer resp.Body.Close()

	if a.authDenied(resp) {
		a.logger.Warn().
			Str("endpoint", endpoint).
			Msg("Feed requires authentication, returning empty page")
		return PostPage{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return PostPage{}, statusError(resp, endpoint)
	}

	var env postsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return PostPage{}, fmt.Errorf("decode posts: %w", err)
	}

	return PostPage{Posts: env.Posts, NextCursor: env.NextCursor}, nil
}

// authDenied reports the soft 401 condition: no credentials configured and
// the endpoint answered Unauthorized.
func (a *API) authDenied(resp *http.Response) bool {
	return resp.StatusCode == http.StatusUnauthorized && !a.client.Authenticated()
}

// getJSON fetches an endpoint and decodes the body into v, converting
// non-success statuses into a StatusError.
func (a *API) getJSON(ctx context.Context, endpoint string, v any) error {
	resp, err := a.client.Get(ctx, endpoint)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func statusError(resp *http.Response, endpoint string) error {
	return &client.StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Endpoint:   endpoint,
	}
}
