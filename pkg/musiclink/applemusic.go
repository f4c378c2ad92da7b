package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ITunesLookupURL is the iTunes lookup API endpoint backing Apple Music links.
const ITunesLookupURL = "https://itunes.apple.com/lookup"

// AppleMusicResolver resolves Apple Music links. Apple Music is a conversion
// source only; its catalog is never searched.
type AppleMusicResolver struct {
	client    *http.Client
	lookupURL string
}

// NewAppleMusicResolver creates a new Apple Music link resolver.
func NewAppleMusicResolver() *AppleMusicResolver {
	return &AppleMusicResolver{
		client:    newHTTPClient(),
		lookupURL: ITunesLookupURL,
	}
}

// Platform reports Apple Music.
func (r *AppleMusicResolver) Platform() Platform {
	return AppleMusic
}

// CanResolve checks if the URL is an Apple Music link.
func (r *AppleMusicResolver) CanResolve(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	return hostname == "music.apple.com" || hostname == "itunes.apple.com"
}

// Resolve extracts track information from an Apple Music URL using the iTunes API.
func (r *AppleMusicResolver) Resolve(ctx context.Context, rawURL string) (*TrackInfo, error) {
	if !r.CanResolve(rawURL) {
		return nil, errors.New("not an Apple Music URL")
	}

	trackID, err := r.extractTrackID(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract track ID: %w", err)
	}

	params := url.Values{}
	params.Set("id", trackID)
	params.Set("entity", "song")

	doc, err := fetchJSON(ctx, r.client, r.lookupURL+"?"+params.Encode(), "iTunes API")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch track data: %w", err)
	}

	// Lookups with entity=song may lead with the collection; pick the track itself.
	for _, result := range doc.Get("results").Array() {
		if result.Get("wrapperType").String() != "track" && result.Get("trackName").String() == "" {
			continue
		}
		return &TrackInfo{
			Platform: AppleMusic,
			Title:    result.Get("trackName").String(),
			Artist:   result.Get("artistName").String(),
			Album:    result.Get("collectionName").String(),
			URL:      result.Get("trackViewUrl").String(),
			ISRC:     result.Get("isrc").String(),
		}, nil
	}

	return nil, errors.New("no track found in iTunes API response")
}

// extractTrackID extracts the track ID from an Apple Music URL.
func (r *AppleMusicResolver) extractTrackID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	// Album links carry the track as ?i=<trackId>.
	if trackID := u.Query().Get("i"); trackID != "" {
		return trackID, nil
	}

	// Direct song links: /us/song/<song-name>/<song-id>
	if strings.Contains(u.Path, "/song/") {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if songID := parts[len(parts)-1]; songID != "" && songID != "song" {
			return songID, nil
		}
	}

	return "", errors.New("no track ID found in Apple Music URL (album links without ?i= are not supported)")
}
