// Package browser drives a headless browser to capture pages that require
// script execution, as a fallback for content the JSON API does not serve.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/bendavidsteel/carcinologer/pkg/logging"
)

// Config holds browser session configuration.
type Config struct {
	// Headless runs the browser without a window.
	Headless bool

	// BaseURL is the site root used by page helpers.
	BaseURL string

	// NavigateTimeout bounds a single navigation.
	NavigateTimeout time.Duration
}

// DefaultConfig returns safe defaults.
func DefaultConfig() Config {
	return Config{
		Headless:        true,
		BaseURL:         "https://www.moltbook.com",
		NavigateTimeout: 30 * time.Second,
	}
}

// PageCapture is the text content captured from a rendered page.
type PageCapture struct {
	Content string `json:"content"`
	Loaded  bool   `json:"loaded"`
}

// Session owns one browser instance. Stop releases it unconditionally.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
	config  Config
	logger  zerolog.Logger
}

// Start launches the browser.
func Start(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.moltbook.com"
	}
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = 30 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		config:  cfg,
		logger:  logging.NewLogger("browser"),
	}

	// Force the browser process up front so Start fails fast when no
	// browser binary is available.
	if err := chromedp.Run(browserCtx); err != nil {
		s.Stop()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	return s, nil
}

// Stop shuts the browser down. Safe to call more than once.
func (s *Session) Stop() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Navigate loads a URL, waits for the document to be ready, then settles
// for the given duration so script-driven content can render.
func (s *Session) Navigate(url string, settle time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.config.NavigateTimeout)
	defer cancel()

	s.logger.Debug().Str("url", url).Msg("Navigating")
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}

	if settle > 0 {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case <-time.After(settle):
		}
	}
	return nil
}

// PageText returns the visible text content of the current page.
func (s *Session) PageText() (string, error) {
	var text string
	if err := chromedp.Run(s.ctx,
		chromedp.Evaluate("document.body.innerText", &text),
	); err != nil {
		return "", fmt.Errorf("read page text: %w", err)
	}
	return text, nil
}

// WaitForContent polls the page until its loading placeholder disappears
// and a reasonable amount of text is present, or the timeout passes.
// Returns whether the page finished loading.
func (s *Session) WaitForContent(timeout time.Duration) (bool, error) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		content, err := s.PageText()
		if err != nil {
			return false, err
		}
		if !strings.Contains(content, "Loading...") && len(content) > 500 {
			return true, nil
		}

		select {
		case <-s.ctx.Done():
			return false, s.ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}
	return false, nil
}

// CommunitiesPage captures the script-rendered communities listing (/m).
func (s *Session) CommunitiesPage() (PageCapture, error) {
	if err := s.Navigate(s.config.BaseURL+"/m", 3*time.Second); err != nil {
		return PageCapture{}, err
	}
	if _, err := s.WaitForContent(15 * time.Second); err != nil {
		return PageCapture{}, err
	}

	content, err := s.PageText()
	if err != nil {
		return PageCapture{}, err
	}

	return PageCapture{
		Content: content,
		Loaded:  !strings.Contains(content, "Loading..."),
	}, nil
}
