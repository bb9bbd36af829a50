package pagination

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for pagination.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moltbook_pages_fetched_total",
		Help: "Total number of pages fetched across all collections",
	})

	recordsCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moltbook_records_collected_total",
		Help: "Total number of records accumulated across all collections",
	})
)

// Page is one page of records from a cursor-paginated endpoint. An empty
// NextCursor marks the end of the stream.
type Page[T any] struct {
	Records    []T
	NextCursor string
}

// Fetcher fetches a single page. An empty cursor requests the first page.
// A fetcher that downgrades auth failures (401 without credentials) returns
// an empty page, which terminates collection normally.
type Fetcher[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Config holds collector configuration.
type Config struct {
	// MaxRecords caps the total number of records collected. 0 means no cap;
	// the final page is truncated so exactly MaxRecords are returned.
	MaxRecords int

	// PageDelay is the courtesy delay between page requests.
	PageDelay time.Duration
}

// DefaultConfig returns safe defaults for Moltbook list endpoints.
func DefaultConfig() Config {
	return Config{
		MaxRecords: 0,
		PageDelay:  500 * time.Millisecond,
	}
}

// CollectAll drains a cursor-paginated endpoint into a single ordered slice.
//
// The loop stops on the first empty page, on an absent continuation cursor,
// or once MaxRecords is reached. A fetch error stops collection and returns
// the records gathered so far alongside the error.
func CollectAll[T any](ctx context.Context, cfg Config, fetch Fetcher[T]) ([]T, error) {
	if cfg.PageDelay <= 0 {
		cfg.PageDelay = 500 * time.Millisecond
	}

	var collected []T
	cursor := ""
	pageNum := 0

	for {
		pageNum++

		page, err := fetch(ctx, cursor)
		if err != nil {
			return collected, err
		}

		pagesFetchedTotal.Inc()

		if len(page.Records) == 0 {
			break
		}

		collected = append(collected, page.Records...)
		recordsCollectedTotal.Add(float64(len(page.Records)))

		log.Debug().
			Int("page", pageNum).
			Int("records", len(page.Records)).
			Int("total", len(collected)).
			Msg("Collected page")

		if cfg.MaxRecords > 0 && len(collected) >= cfg.MaxRecords {
			collected = collected[:cfg.MaxRecords]
			break
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor

		select {
		case <-ctx.Done():
			return collected, ctx.Err()
		case <-time.After(cfg.PageDelay):
		}
	}

	log.Debug().
		Int("pages", pageNum).
		Int("records", len(collected)).
		Msg("Collection complete")

	return collected, nil
}
