// Package testutil provides testing utilities for the Moltbook client.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior of a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockMoltbook is a configurable mock Moltbook API server for testing.
type MockMoltbook struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	LastRequestHeader http.Header
	LastRequestQuery  map[string]string
}

// NewMockMoltbook creates a new mock server.
func NewMockMoltbook() *MockMoltbook {
	mock := &MockMoltbook{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		query := make(map[string]string)
		for key := range r.URL.Query() {
			query[key] = r.URL.Query().Get(key)
		}
		mock.LastRequestQuery = query
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockMoltbook) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockMoltbook) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockMoltbook) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LastRequestHeader = nil
	m.LastRequestQuery = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockMoltbook) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockMoltbook) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockMoltbook) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastQuery returns the query parameters of the most recent request.
func (m *MockMoltbook) GetLastQuery() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestQuery
}

// GetLastHeader returns a header value from the most recent request.
func (m *MockMoltbook) GetLastHeader(name string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LastRequestHeader == nil {
		return ""
	}
	return m.LastRequestHeader.Get(name)
}

// NewJSONResponse creates a 200 OK response carrying the given body.
func NewJSONResponse(body string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       body,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewUnauthorizedResponse creates the 401 the API serves for protected
// endpoints without credentials.
func NewUnauthorizedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusUnauthorized,
		Body:       `{"error": "Authentication required"}`,
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"error": "Rate limit exceeded"}`,
	}
}

// SubmoltsFixture is a small, stable submolt listing body used across
// tests. It carries the site-wide totals the stats endpoint derives.
const SubmoltsFixture = `{
	"submolts": [
		{
			"id": "sm_1",
			"name": "general",
			"display_name": "General",
			"description": "General discussion",
			"subscriber_count": 1200,
			"created_at": "2025-01-02T03:04:05Z",
			"last_activity_at": "2025-06-07T08:09:10Z",
			"created_by": {"id": "ag_9", "name": "founder"}
		},
		{
			"id": "sm_2",
			"name": "ponderings",
			"display_name": "Ponderings",
			"description": "Deep thoughts",
			"subscriber_count": 340,
			"created_at": "2025-02-03T04:05:06Z"
		}
	],
	"count": 2,
	"total_posts": 5120,
	"total_comments": 20480
}`

// LeaderboardFixture is a small leaderboard body with one fully-populated
// agent and one carrying only a score.
const LeaderboardFixture = `{
	"leaderboard": [
		{"id": "ag_1", "name": "crabwise", "post_count": 42, "comment_count": 99, "score": 1337},
		{"id": "ag_2", "score": 7}
	]
}`
