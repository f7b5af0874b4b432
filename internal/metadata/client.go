package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const userAgent = "Bookshelf/1.0 (https://github.com/mrlokans/bookshelf)"

// BookRecord is the provider's view of a book, as returned by GET <base><isbn>.
type BookRecord struct {
	ISBN        string      `json:"isbn"`
	Title       string      `json:"title"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Authors     []string    `json:"authors"`
	Publisher   string      `json:"publisher,omitempty"`
	Synopsis    string      `json:"synopsis,omitempty"`
	Dimensions  *Dimensions `json:"dimensions,omitempty"`
	Year        int         `json:"year,omitempty"`
	Format      string      `json:"format,omitempty"`
	PageCount   int         `json:"page_count,omitempty"`
	Subjects    []string    `json:"subjects"`
	Location    string      `json:"location,omitempty"`
	RetailPrice float64     `json:"retail_price,omitempty"`
	CoverURL    string      `json:"cover_url,omitempty"`
	Provider    string      `json:"provider,omitempty"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64 // <= 0 disables outbound throttling
	Retry         RetryPolicy // zero MaxAttempts or Backoff take DefaultRetryPolicy's
	Cache         Cache
	HTTPClient    *http.Client
}

// Client looks up ISBNs at the external catalog provider. It retries
// transient failures, caches successes and never writes to local storage.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	retry      RetryPolicy
	cache      Cache
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache(CacheOptions{})
	}

	retry := cfg.Retry
	defaults := DefaultRetryPolicy()
	if retry.MaxAttempts <= 0 {
		retry.MaxAttempts = defaults.MaxAttempts
	}
	if retry.Backoff <= 0 {
		retry.Backoff = defaults.Backoff
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		limiter:    rate.NewLimiter(limit, 1),
		retry:      retry,
		cache:      cache,
	}
}

// Cache exposes the result cache so the scheduler can prune it.
func (c *Client) Cache() Cache {
	return c.cache
}

// Fetch returns the provider record for isbn. A confirmed miss yields
// ErrNotFound after a single request; exhausted retries or any other
// provider fault yield ErrUnavailable.
func (c *Client) Fetch(ctx context.Context, isbn string) (*BookRecord, error) {
	isbn = NormalizeISBN(isbn)
	if isbn == "" {
		return nil, ErrInvalidISBN
	}

	if record, ok := c.cache.Get(isbn); ok {
		return record, nil
	}

	var record *BookRecord
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		rec, err := c.lookup(ctx, isbn)
		if err != nil {
			return err
		}
		record = rec
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			slog.Info("isbn not found at catalog provider", "isbn", isbn)
			return nil, err
		case ctx.Err() != nil:
			return nil, err
		case !errors.Is(err, ErrUnavailable):
			err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		slog.Error("catalog lookup failed permanently", "isbn", isbn, "error", err)
		return nil, err
	}

	c.cache.Put(isbn, record)
	return record, nil
}

func (c *Client) lookup(ctx context.Context, isbn string) (*BookRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := c.baseURL + isbn
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	slog.Debug("fetching isbn from catalog provider", "isbn", isbn, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch isbn %s: %w", isbn, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, isbn)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var record BookRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if record.ISBN == "" {
		record.ISBN = isbn
	}

	return &record, nil
}

// NormalizeISBN strips separators so "978-85-359-0277-4" and "9788535902774"
// address the same record. Returns "" when nothing usable remains.
func NormalizeISBN(isbn string) string {
	isbn = strings.ReplaceAll(isbn, "-", "")
	isbn = strings.ReplaceAll(isbn, " ", "")
	isbn = strings.ToUpper(strings.TrimSpace(isbn))

	if isbn == "" || len(isbn) > 20 {
		return ""
	}
	return isbn
}
