package weread

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	defaultHomeURL = "https://weread.qq.com"
	defaultAPIURL  = "https://i.weread.qq.com"

	notebooksPath    = "/user/notebooks"
	bookInfoPath     = "/book/info"
	chapterInfosPath = "/book/chapterInfos"
	bookmarkListPath = "/book/bookmarklist"
	reviewListPath   = "/review/list"

	defaultTimeout = 30 * time.Second

	// The notebook list is the only fetch that retries: its failure aborts
	// the whole run, whereas per-book fetches degrade to empty results.
	notebookListAttempts = 3
	notebookListBackoff  = 2 * time.Second

	metadataCacheSize = 256
)

// SleepFunc blocks for the given duration or until the context is done.
// Injected so retry timing is testable without real delays.
type SleepFunc func(ctx context.Context, d time.Duration)

func defaultSleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// Client interfaces with the WeRead private API. Book metadata and chapter
// tables are immutable per book, so both are served from an LRU cache on
// repeated runs.
type Client struct {
	httpClient *http.Client
	homeURL    string
	apiURL     string
	sleep      SleepFunc

	bookInfoCache *lru.Cache[string, BookInfo]
	chapterCache  *lru.Cache[string, map[int]Chapter]
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs overrides the landing page and API hosts (used in tests).
func WithBaseURLs(homeURL, apiURL string) Option {
	return func(c *Client) {
		c.homeURL = homeURL
		c.apiURL = apiURL
	}
}

// WithSleep replaces the retry backoff sleeper.
func WithSleep(sleep SleepFunc) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient creates a new WeRead API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		homeURL: defaultHomeURL,
		apiURL:  defaultAPIURL,
		sleep:   defaultSleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bookInfoCache, _ = lru.New[string, BookInfo](metadataCacheSize)
	c.chapterCache, _ = lru.New[string, map[int]Chapter](metadataCacheSize)
	return c
}

// Warmup performs one request against the landing page so the server can
// set the session-scoped cookies the API endpoints require. Its failure is
// fatal for the run.
func (c *Client) Warmup(ctx context.Context, sess *Session) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.homeURL+"/", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWarmup, err)
	}
	sess.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWarmup, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	sess.absorb(resp.Cookies())
	return nil
}

// Notebooks fetches the account's notebook list, sorted by the provider's
// sort key ascending. Retries up to 3 times with a fixed 2s backoff and
// returns ErrNoNotebooks once all attempts exhaust.
func (c *Client) Notebooks(ctx context.Context, sess *Session) ([]Notebook, error) {
	for attempt := 0; attempt < notebookListAttempts; attempt++ {
		if attempt > 0 {
			c.sleep(ctx, notebookListBackoff)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		notebooks, err := c.fetchNotebooks(ctx, sess)
		if err != nil {
			log.Printf("Notebook list attempt %d/%d failed: %v", attempt+1, notebookListAttempts, err)
			continue
		}
		if len(notebooks) == 0 {
			log.Printf("Notebook list attempt %d/%d returned no books", attempt+1, notebookListAttempts)
			continue
		}

		sort.SliceStable(notebooks, func(i, j int) bool {
			return notebooks[i].Sort < notebooks[j].Sort
		})
		return notebooks, nil
	}

	return nil, ErrNoNotebooks
}

func (c *Client) fetchNotebooks(ctx context.Context, sess *Session) ([]Notebook, error) {
	resp, err := c.get(ctx, sess, c.apiURL+notebooksPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			return nil, &ServerError{StatusCode: resp.StatusCode}
		}
		return nil, fmt.Errorf("notebook list request failed: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var payload notebookListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode notebook list: %w", err)
	}
	return payload.Books, nil
}

// BookInfo fetches ISBN, rating and the raw detail payload for one book.
// The provider's newRating is an integer scaled by 1000. A non-success
// status yields the zero BookInfo, not an error.
func (c *Client) BookInfo(ctx context.Context, sess *Session, bookID string) (BookInfo, error) {
	if cached, ok := c.bookInfoCache.Get(bookID); ok {
		return cached, nil
	}

	resp, err := c.get(ctx, sess, c.apiURL+bookInfoPath+"?bookId="+bookID)
	if err != nil {
		return BookInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return BookInfo{Raw: map[string]any{}}, nil
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return BookInfo{}, fmt.Errorf("failed to decode book info: %w", err)
	}

	info := BookInfo{Raw: raw}
	if isbn, ok := raw["isbn"].(string); ok {
		info.ISBN = isbn
	}
	if rating, ok := raw["newRating"].(float64); ok {
		info.Rating = rating / 1000
	}

	c.bookInfoCache.Add(bookID, info)
	return info, nil
}

// ChapterInfos fetches the chapter table for one book, keyed by chapterUid.
// A non-success status or a structurally unexpected payload yields an empty
// table, not an error.
func (c *Client) ChapterInfos(ctx context.Context, sess *Session, bookID string) (map[int]Chapter, error) {
	if cached, ok := c.chapterCache.Get(bookID); ok {
		return cached, nil
	}

	body, err := json.Marshal(map[string]any{
		"bookIds":  []string{bookID},
		"synckeys": []int{0},
		"teenmode": 0,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode chapter info request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+chapterInfosPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	sess.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chapter info request failed: %w", err)
	}
	defer resp.Body.Close()

	chapters := make(map[int]Chapter)
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return chapters, nil
	}

	var payload chapterInfosResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode chapter info: %w", err)
	}

	// The response carries one entry per requested book; anything else is
	// the provider's malformed-payload shape and maps to an empty table.
	if len(payload.Data) != 1 {
		return chapters, nil
	}
	for _, chapter := range payload.Data[0].Updated {
		chapters[chapter.ChapterUID] = chapter
	}

	c.chapterCache.Add(bookID, chapters)
	return chapters, nil
}

// Bookmarks fetches the raw highlight records for one book in provider
// order. A non-success status yields an empty list, not an error.
func (c *Client) Bookmarks(ctx context.Context, sess *Session, bookID string) ([]Bookmark, error) {
	resp, err := c.get(ctx, sess, c.apiURL+bookmarkListPath+"?bookId="+bookID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var payload bookmarkListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode bookmark list: %w", err)
	}
	return payload.Updated, nil
}

// Reviews fetches the review list for one book and splits it by the
// provider type tag: type 4 records are book-level summaries passed through
// unmodified, type 1 records are free-text notes. A non-success status
// yields two empty lists, not an error.
func (c *Client) Reviews(ctx context.Context, sess *Session, bookID string) ([]Review, []ReviewBody, error) {
	resp, err := c.get(ctx, sess, c.apiURL+reviewListPath+"?bookId="+bookID+"&listType=11&mine=1&syncKey=0")
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil, nil
	}

	var payload reviewListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("failed to decode review list: %w", err)
	}

	var summary []Review
	var notes []ReviewBody
	for _, review := range payload.Reviews {
		switch review.Review.Type {
		case 4:
			summary = append(summary, review)
		case 1:
			body := review.Review
			if body.ReviewID == "" {
				body.ReviewID = review.ReviewID
			}
			notes = append(notes, body)
		}
	}
	return summary, notes, nil
}

func (c *Client) get(ctx context.Context, sess *Session, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	sess.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
