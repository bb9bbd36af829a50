package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.RequestsPerSecond != 0 {
		t.Errorf("RequestsPerSecond = %v, want 0 (disabled)", cfg.RequestsPerSecond)
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectError bool
	}{
		{
			name:        "valid default config",
			config:      DefaultConfig(),
			expectError: false,
		},
		{
			name: "missing base url",
			config: Config{
				MaxRetries: 3,
			},
			expectError: true,
		},
		{
			name: "zero max retries",
			config: Config{
				BaseURL:    DefaultBaseURL,
				MaxRetries: 0,
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.config)
			if tt.expectError && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	c, err := New(Config{
		BaseURL:    DefaultBaseURL,
		MaxRetries: 1,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if c.config.UserAgent == "" {
		t.Error("UserAgent not defaulted")
	}
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want defaulted 30s", c.httpClient.Timeout)
	}
	if c.limiter != nil {
		t.Error("limiter should be nil when RequestsPerSecond is 0")
	}
	if c.cache != nil {
		t.Error("cache should be nil without a Redis client")
	}
}

func TestGet_BuildsEndpointURL(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	resp, err := c.Get(context.Background(), "/posts?sort=new&limit=100")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	resp.Body.Close()

	if gotPath != "/posts" {
		t.Errorf("path = %q, want /posts", gotPath)
	}
	if gotQuery != "sort=new&limit=100" {
		t.Errorf("query = %q, want sort=new&limit=100", gotQuery)
	}
}

func TestAuthenticated(t *testing.T) {
	cfg := DefaultConfig()
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if c.Authenticated() {
		t.Error("Authenticated() = true without a key")
	}

	cfg.APIKey = "key"
	c, err = New(cfg)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if !c.Authenticated() {
		t.Error("Authenticated() = false with a key")
	}
}

func TestDo_AcceptHeader(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	resp, err := c.Get(context.Background(), "/submolts")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	resp.Body.Close()

	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}
