package pagination

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

// pagedFetcher fakes a cursor-paginated endpoint from a fixed page list and
// records the cursors it was asked for.
type pagedFetcher struct {
	pages   []Page[int]
	cursors []string
	calls   int
}

func (f *pagedFetcher) fetch(ctx context.Context, cursor string) (Page[int], error) {
	f.cursors = append(f.cursors, cursor)
	if f.calls >= len(f.pages) {
		f.calls++
		return Page[int]{}, nil
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func fastConfig() Config {
	return Config{PageDelay: time.Millisecond}
}

func TestCollectAll_ConcatenatesPagesInOrder(t *testing.T) {
	f := &pagedFetcher{pages: []Page[int]{
		{Records: []int{1, 2, 3}, NextCursor: "c1"},
		{Records: []int{4, 5}, NextCursor: "c2"},
		{Records: []int{6}, NextCursor: ""},
	}}

	got, err := CollectAll(context.Background(), fastConfig(), f.fetch)
	if err != nil {
		t.Fatalf("CollectAll() failed: %v", err)
	}

	want := []int{1, 2, 3, 4, 5, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collected = %v, want %v (no records duplicated or dropped)", got, want)
	}
	if !reflect.DeepEqual(f.cursors, []string{"", "c1", "c2"}) {
		t.Errorf("cursors = %v, want echoed continuation tokens", f.cursors)
	}
}

func TestCollectAll_StopsAfterAbsentCursor(t *testing.T) {
	f := &pagedFetcher{pages: []Page[int]{
		{Records: []int{1, 2}, NextCursor: ""},
	}}

	got, err := CollectAll(context.Background(), fastConfig(), f.fetch)
	if err != nil {
		t.Fatalf("CollectAll() failed: %v", err)
	}

	if len(got) != 2 {
		t.Errorf("collected %d records, want 2", len(got))
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (no request after absent cursor)", f.calls)
	}
}

func TestCollectAll_EmptyFirstPage(t *testing.T) {
	f := &pagedFetcher{pages: []Page[int]{
		{Records: nil, NextCursor: "ignored"},
	}}

	got, err := CollectAll(context.Background(), fastConfig(), f.fetch)
	if err != nil {
		t.Fatalf("CollectAll() failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("collected %d records, want 0", len(got))
	}
	if f.calls != 1 {
		t.Errorf("fetch calls = %d, want 1 (cursor must not be consulted)", f.calls)
	}
}

func TestCollectAll_MaxRecordsTruncatesFinalPage(t *testing.T) {
	f := &pagedFetcher{pages: []Page[int]{
		{Records: []int{1, 2, 3}, NextCursor: "c1"},
		{Records: []int{4, 5, 6}, NextCursor: "c2"},
		{Records: []int{7, 8, 9}, NextCursor: "c3"},
	}}

	cfg := fastConfig()
	cfg.MaxRecords = 5

	got, err := CollectAll(context.Background(), cfg, f.fetch)
	if err != nil {
		t.Fatalf("CollectAll() failed: %v", err)
	}

	want := []int{1, 2, 3, 4, 5}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("collected = %v, want exactly %v", got, want)
	}
	if f.calls != 2 {
		t.Errorf("fetch calls = %d, want 2 (stop at limit)", f.calls)
	}
}

func TestCollectAll_MaxRecordsExactPageBoundary(t *testing.T) {
	f := &pagedFetcher{pages: []Page[int]{
		{Records: []int{1, 2}, NextCursor: "c1"},
		{Records: []int{3, 4}, NextCursor: "c2"},
	}}

	cfg := fastConfig()
	cfg.MaxRecords = 4

	got, err := CollectAll(context.Background(), cfg, f.fetch)
	if err != nil {
		t.Fatalf("CollectAll() failed: %v", err)
	}

	if len(got) != 4 {
		t.Errorf("collected %d records, want 4", len(got))
	}
	if f.calls != 2 {
		t.Errorf("fetch calls = %d, want 2 (limit reached, no extra page)", f.calls)
	}
}

func TestCollectAll_FetchErrorReturnsPartial(t *testing.T) {
	fetchErr := errors.New("boom")
	calls := 0
	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		calls++
		if calls == 1 {
			return Page[int]{Records: []int{1, 2}, NextCursor: "c1"}, nil
		}
		return Page[int]{}, fetchErr
	}

	got, err := CollectAll(context.Background(), fastConfig(), fetch)
	if !errors.Is(err, fetchErr) {
		t.Fatalf("error = %v, want %v", err, fetchErr)
	}
	if len(got) != 2 {
		t.Errorf("partial records = %d, want 2", len(got))
	}
}

func TestCollectAll_ContextCancelledBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	fetch := func(ctx context.Context, cursor string) (Page[int], error) {
		cancel()
		return Page[int]{Records: []int{1}, NextCursor: "c1"}, nil
	}

	cfg := Config{PageDelay: 10 * time.Second}
	start := time.Now()
	_, err := CollectAll(ctx, cfg, fetch)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("inter-page delay was not interrupted by cancellation")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRecords != 0 {
		t.Errorf("MaxRecords = %d, want 0 (unlimited)", cfg.MaxRecords)
	}
	if cfg.PageDelay != 500*time.Millisecond {
		t.Errorf("PageDelay = %v, want 500ms", cfg.PageDelay)
	}
}
