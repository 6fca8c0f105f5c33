// Package clip captures inspiration fragments from web pages. Given one or
// more URLs it extracts the main readable text of each page and trims it to
// fragment size.
package clip

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"
)

const (
	fetchTimeout  = 30 * time.Second
	maxConcurrent = 5

	// Excerpt budget. Word-based truncation handles spaced languages;
	// the rune cap handles CJK text, which has no word boundaries.
	maxWords = 300
	maxRunes = 1500
)

// Result is the readable excerpt clipped from one URL.
type Result struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// Failure records a URL that could not be clipped.
type Failure struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

// browserHeaders sets browser-like request headers so sites that check
// Accept or User-Agent don't reject the request.
func browserHeaders(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	r.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Typeless/1.0)")
}

// FromURLs clips the given URLs concurrently, at most maxConcurrent at a
// time. Individual failures are collected rather than failing the batch, so
// one dead link doesn't lose the rest. Result order follows input order.
func FromURLs(ctx context.Context, urls []string) ([]Result, []Failure) {
	var (
		mu       sync.Mutex
		results  = make([]*Result, len(urls))
		failures []Failure
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, url := range urls {
		g.Go(func() error {
			res, err := fromURL(ctx, url)
			if err != nil {
				slog.Warn("failed to clip url", "url", url, "error", err)

				mu.Lock()
				failures = append(failures, Failure{URL: url, Error: err.Error()})
				mu.Unlock()

				return nil // skip failures, don't fail the batch
			}

			mu.Lock()
			results[i] = res
			mu.Unlock()

			slog.Info("clipped url", "url", url, "title", res.Title)
			return nil
		})
	}

	_ = g.Wait() // workers never return errors

	clipped := make([]Result, 0, len(urls))
	for _, r := range results {
		if r != nil {
			clipped = append(clipped, *r)
		}
	}
	return clipped, failures
}

// fromURL fetches one page and extracts its readable text.
func fromURL(ctx context.Context, url string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, fmt.Errorf("unsupported URL %q", url)
	}

	article, err := readability.FromURL(url, fetchTimeout, browserHeaders)
	if err != nil {
		return nil, fmt.Errorf("readability extraction: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return nil, fmt.Errorf("no readable text found at %q", url)
	}

	return &Result{
		URL:     url,
		Title:   article.Title,
		Excerpt: truncate(text, maxWords, maxRunes),
	}, nil
}

// truncate limits s to maxWords whitespace-delimited words, then to maxRunes
// runes, whichever bites first.
func truncate(s string, maxWords, maxRunes int) string {
	words := strings.Fields(s)
	if len(words) > maxWords {
		s = strings.Join(words[:maxWords], " ")
	}
	runes := []rune(s)
	if len(runes) > maxRunes {
		s = string(runes[:maxRunes])
	}
	return s
}
