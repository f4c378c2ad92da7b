// Package spotify provides Spotify Web API integration for track lookup and search.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"songbridge/internal/core"
	"songbridge/pkg/fuzzy"
	"songbridge/pkg/musiclink"
)

const (
	// MaxTrackSearchResults limits the candidates ranked per search.
	MaxTrackSearchResults = 5
	// MinMatchScore is the lowest fuzzy score accepted for a search candidate.
	MinMatchScore = 0.35
	// ShortLinkDomain is Spotify's link shortener.
	ShortLinkDomain = "spotify.link"
	// shortLinkTimeout bounds short link resolution.
	shortLinkTimeout = 5 * time.Second
	// maxRedirects bounds short link redirect chains.
	maxRedirects = 5
)

var (
	// ErrNotConfigured is returned when no client credentials were provided.
	// Its text reaches users through the conversion API's error field.
	ErrNotConfigured = errors.New("Spotify API credentials not configured") //nolint:staticcheck // starts with a proper noun

	spotifyTrackRegex = regexp.MustCompile(`(?:https?://)?(?:open\.)?spotify\.com/(?:intl-[a-z-]+/)?track/([a-zA-Z0-9]+)`)
	spotifyURIRegex   = regexp.MustCompile(`spotify:track:([a-zA-Z0-9]+)`)
)

// Client resolves Spotify links and searches the Spotify catalog.
// It authenticates with the client-credentials flow, so no user login is needed.
type Client struct {
	logger     *zap.Logger
	client     *spotify.Client
	httpClient *http.Client
	normalizer *fuzzy.Normalizer
}

// NewClient creates a Spotify client. Without credentials every call returns ErrNotConfigured.
func NewClient(ctx context.Context, config *core.SpotifyConfig, logger *zap.Logger) *Client {
	c := &Client{
		logger:     logger,
		httpClient: newRedirectClient(),
		normalizer: fuzzy.NewNormalizer(),
	}

	if config.ClientID == "" || config.ClientSecret == "" {
		logger.Warn("Spotify credentials missing, Spotify lookups disabled")
		return c
	}

	creds := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	c.client = spotify.New(creds.Client(ctx))
	return c
}

// NewClientWithAPI wraps an already configured Web API client.
func NewClientWithAPI(api *spotify.Client, logger *zap.Logger) *Client {
	return &Client{
		logger:     logger,
		client:     api,
		httpClient: newRedirectClient(),
		normalizer: fuzzy.NewNormalizer(),
	}
}

// Platform reports Spotify.
func (c *Client) Platform() musiclink.Platform {
	return musiclink.Spotify
}

// CanResolve checks if the URL is a Spotify link.
func (c *Client) CanResolve(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := u.Hostname()
	return musiclink.OnDomain(host, "spotify.com") || musiclink.OnDomain(host, ShortLinkDomain)
}

// Resolve looks up the track behind a Spotify link.
func (c *Client) Resolve(ctx context.Context, rawURL string) (*musiclink.TrackInfo, error) {
	if c.client == nil {
		return nil, ErrNotConfigured
	}

	trackID, err := c.ExtractTrackID(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	track, err := c.client.GetTrack(ctx, spotify.ID(trackID))
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}

	info := convertSpotifyTrack(track)
	return &info, nil
}

// Search finds the best matching track for title and artist.
func (c *Client) Search(ctx context.Context, title, artist string) (*musiclink.TrackInfo, error) {
	if c.client == nil {
		return nil, ErrNotConfigured
	}

	query := fmt.Sprintf("track:%s artist:%s", title, artist)
	results, err := c.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(MaxTrackSearchResults))
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, musiclink.ErrNoResults
	}

	var (
		best      *musiclink.TrackInfo
		bestScore float64
	)
	for i := range results.Tracks.Tracks {
		candidate := convertSpotifyTrack(&results.Tracks.Tracks[i])
		score := c.normalizer.MatchScore(candidate.Title, candidate.Artist, title, artist)
		if best == nil || score > bestScore {
			best = &candidate
			bestScore = score
		}
	}

	if bestScore < MinMatchScore {
		c.logger.Debug("Discarding weak Spotify match",
			zap.String("title", title),
			zap.String("candidate", best.Title),
			zap.Float64("score", bestScore))
		return nil, musiclink.ErrNoResults
	}
	return best, nil
}

// ExtractTrackID returns the track ID from a Spotify URL or URI, resolving short links.
func (c *Client) ExtractTrackID(ctx context.Context, rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)

	if matches := spotifyURIRegex.FindStringSubmatch(rawURL); len(matches) > 1 {
		return matches[1], nil
	}

	if matches := spotifyTrackRegex.FindStringSubmatch(rawURL); len(matches) > 1 {
		return matches[1], nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	if strings.ToLower(u.Hostname()) == ShortLinkDomain {
		resolvedURL, err := c.resolveShortURL(ctx, rawURL)
		if err != nil {
			return "", fmt.Errorf("failed to resolve shortened URL: %w", err)
		}
		if matches := spotifyTrackRegex.FindStringSubmatch(resolvedURL); len(matches) > 1 {
			return matches[1], nil
		}
	}

	return "", errors.New("no track ID found in URL")
}

// resolveShortURL follows a spotify.link redirect chain to the track page.
func (c *Client) resolveShortURL(ctx context.Context, shortURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, shortLinkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, shortURL, http.NoBody)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	return resp.Request.URL.String(), nil
}

func newRedirectClient() *http.Client {
	return &http.Client{
		Timeout: shortLinkTimeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

func convertSpotifyTrack(track *spotify.FullTrack) musiclink.TrackInfo {
	artist := ""
	if len(track.Artists) > 0 {
		artist = track.Artists[0].Name
	}

	return musiclink.TrackInfo{
		Platform: musiclink.Spotify,
		Title:    track.Name,
		Artist:   artist,
		Album:    track.Album.Name,
		URL:      track.ExternalURLs["spotify"],
		ISRC:     track.ExternalIDs["isrc"],
	}
}
