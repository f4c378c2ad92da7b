package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"songbridge/pkg/fuzzy"
)

const (
	// DeezerAPIURL is the Deezer public REST API base URL.
	DeezerAPIURL = "https://api.deezer.com"
	// deezerRequestInterval keeps us under Deezer's quota of 50 requests per 5 seconds.
	deezerRequestInterval = 100 * time.Millisecond
	// deezerRequestBurst is the number of requests allowed back to back.
	deezerRequestBurst = 5
	// deezerSearchLimit is the number of search candidates ranked per query.
	deezerSearchLimit = 5
)

var deezerTrackIDRegex = regexp.MustCompile(`/track/([0-9]+)`)

// DeezerResolver resolves Deezer links and searches the Deezer catalog.
type DeezerResolver struct {
	client     *http.Client
	apiURL     string
	limiter    *rate.Limiter
	normalizer *fuzzy.Normalizer
}

// NewDeezerResolver creates a new Deezer link resolver backed by the public API.
func NewDeezerResolver() *DeezerResolver {
	return &DeezerResolver{
		client:     newHTTPClient(),
		apiURL:     DeezerAPIURL,
		limiter:    rate.NewLimiter(rate.Every(deezerRequestInterval), deezerRequestBurst),
		normalizer: fuzzy.NewNormalizer(),
	}
}

// Platform reports Deezer.
func (r *DeezerResolver) Platform() Platform {
	return Deezer
}

// CanResolve checks if the URL is a Deezer page or share link.
func (r *DeezerResolver) CanResolve(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := u.Hostname()
	return OnDomain(host, "deezer.com") || OnDomain(host, "deezer.page.link")
}

// Resolve extracts track information from a Deezer URL using the public API.
func (r *DeezerResolver) Resolve(ctx context.Context, rawURL string) (*TrackInfo, error) {
	if !r.CanResolve(rawURL) {
		return nil, errors.New("not a Deezer URL")
	}

	trackID, err := r.extractTrackID(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := fetchJSON(ctx, r.client, fmt.Sprintf("%s/track/%s", r.apiURL, trackID), "Deezer API")
	if err != nil {
		return nil, err
	}
	if apiErr := doc.Get("error"); apiErr.Exists() {
		return nil, fmt.Errorf("deezer API error: %s", apiErr.Get("message").String())
	}

	info := deezerTrackInfo(doc)
	return &info, nil
}

// Search looks up a track by title and artist using Deezer's strict track search.
func (r *DeezerResolver) Search(ctx context.Context, title, artist string) (*TrackInfo, error) {
	query := fmt.Sprintf(`track:"%s" artist:"%s"`, title, artist)
	params := url.Values{}
	params.Set("q", query)
	params.Set("strict", "on")
	params.Set("limit", fmt.Sprint(deezerSearchLimit))

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := fetchJSON(ctx, r.client, r.apiURL+"/search/track?"+params.Encode(), "Deezer API")
	if err != nil {
		return nil, err
	}

	var candidates []TrackInfo
	doc.Get("data").ForEach(func(_, item gjson.Result) bool {
		candidates = append(candidates, deezerTrackInfo(item))
		return true
	})
	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	return bestMatch(r.normalizer, candidates, title, artist)
}

// extractTrackID finds the numeric track ID, following share links when needed.
func (r *DeezerResolver) extractTrackID(ctx context.Context, rawURL string) (string, error) {
	if matches := deezerTrackIDRegex.FindStringSubmatch(rawURL); len(matches) == 2 {
		return matches[1], nil
	}

	// Share links redirect to the canonical track page.
	meta, err := fetchPageMeta(ctx, r.client, rawURL, "Deezer")
	if err != nil {
		return "", fmt.Errorf("failed to follow Deezer link: %w", err)
	}

	if matches := deezerTrackIDRegex.FindStringSubmatch(meta.FinalURL); len(matches) == 2 {
		return matches[1], nil
	}
	return "", errors.New("no track ID in Deezer URL")
}

func deezerTrackInfo(doc gjson.Result) TrackInfo {
	return TrackInfo{
		Platform: Deezer,
		Title:    doc.Get("title").String(),
		Artist:   doc.Get("artist.name").String(),
		Album:    doc.Get("album.title").String(),
		URL:      doc.Get("link").String(),
		ISRC:     doc.Get("isrc").String(),
	}
}
