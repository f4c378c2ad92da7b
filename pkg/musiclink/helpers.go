package musiclink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"songbridge/pkg/fuzzy"
)

const (
	// commonUserAgent is the user agent string used for all HTTP requests.
	commonUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// commonAcceptHeader is the accept header used for HTML page requests.
	commonAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	// defaultHTTPTimeout is the default timeout for HTTP requests.
	defaultHTTPTimeout = 10 * time.Second
	// maxHTTPRedirects is the maximum number of HTTP redirects to follow.
	// Short links typically hop twice before reaching the track page.
	maxHTTPRedirects = 5
	// maxJSONReadSize caps API response bodies.
	maxJSONReadSize = 1 << 20
	// maxHTMLReadSize caps page bodies; the metadata we need lives in <head>.
	maxHTMLReadSize = 512 << 10
	// minMatchScore is the lowest fuzzy score accepted for a search candidate.
	minMatchScore = 0.35
)

var (
	// ErrTooManyRedirects is returned when too many redirects are encountered.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// newHTTPClient creates a new HTTP client with standard settings and redirect validation.
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: defaultHTTPTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxHTTPRedirects {
				return ErrTooManyRedirects
			}
			return nil
		},
	}
}

// fetchJSON performs a GET request and returns the parsed JSON document.
func fetchJSON(ctx context.Context, client *http.Client, reqURL, serviceName string) (gjson.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return gjson.Result{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%s returned status %d", serviceName, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONReadSize))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to read response body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%s returned invalid JSON", serviceName)
	}

	return gjson.ParseBytes(body), nil
}

// pageMeta is the metadata scraped from an HTML page.
type pageMeta struct {
	Title    string // og:title, falling back to <title>.
	FinalURL string // URL after following redirects.
}

// fetchPageMeta fetches an HTML page and extracts its title and final location.
func fetchPageMeta(ctx context.Context, client *http.Client, pageURL, serviceName string) (*pageMeta, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	// Set realistic browser headers.
	req.Header.Set("User-Agent", commonUserAgent)
	req.Header.Set("Accept", commonAcceptHeader)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", serviceName, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxHTMLReadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s page: %w", serviceName, err)
	}

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	return &pageMeta{
		Title:    title,
		FinalURL: resp.Request.URL.String(),
	}, nil
}

// bestMatch picks the candidate closest to the wanted title and artist.
// It returns ErrNoResults when no candidate scores high enough.
func bestMatch(normalizer *fuzzy.Normalizer, candidates []TrackInfo, title, artist string) (*TrackInfo, error) {
	var (
		best      *TrackInfo
		bestScore float64
	)

	for i := range candidates {
		score := normalizer.MatchScore(candidates[i].Title, candidates[i].Artist, title, artist)
		if best == nil || score > bestScore {
			best = &candidates[i]
			bestScore = score
		}
	}

	if best == nil || bestScore < minMatchScore {
		return nil, ErrNoResults
	}
	return best, nil
}
