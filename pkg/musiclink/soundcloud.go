package musiclink

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// SoundCloudOEmbedURL is the SoundCloud oEmbed API endpoint.
const SoundCloudOEmbedURL = "https://soundcloud.com/oembed"

// SoundCloudResolver resolves SoundCloud links. Like Apple Music it is a
// conversion source only.
type SoundCloudResolver struct {
	client    *http.Client
	oembedURL string
}

// NewSoundCloudResolver creates a new SoundCloud link resolver.
func NewSoundCloudResolver() *SoundCloudResolver {
	return &SoundCloudResolver{
		client:    newHTTPClient(),
		oembedURL: SoundCloudOEmbedURL,
	}
}

// Platform reports SoundCloud.
func (r *SoundCloudResolver) Platform() Platform {
	return SoundCloud
}

// CanResolve checks if the URL is a SoundCloud link.
func (r *SoundCloudResolver) CanResolve(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	switch strings.ToLower(u.Hostname()) {
	case "soundcloud.com", "www.soundcloud.com", "m.soundcloud.com", "on.soundcloud.com":
		return true
	}
	return false
}

// Resolve extracts track information from a SoundCloud URL using the oEmbed API.
func (r *SoundCloudResolver) Resolve(ctx context.Context, rawURL string) (*TrackInfo, error) {
	if !r.CanResolve(rawURL) {
		return nil, errors.New("not a SoundCloud URL")
	}

	params := url.Values{}
	params.Set("url", rawURL)
	params.Set("format", "json")

	doc, err := fetchJSON(ctx, r.client, r.oembedURL+"?"+params.Encode(), "SoundCloud oEmbed API")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch oEmbed data: %w", err)
	}

	title, artist := r.parseTrackInfo(doc.Get("title").String(), doc.Get("author_name").String())
	return &TrackInfo{
		Platform: SoundCloud,
		Title:    title,
		Artist:   artist,
		URL:      rawURL,
	}, nil
}

// parseTrackInfo splits oEmbed titles of the form "Track Title by Artist Name".
func (r *SoundCloudResolver) parseTrackInfo(oembedTitle, authorName string) (title, artist string) {
	if idx := strings.LastIndex(oembedTitle, " by "); idx > 0 {
		return strings.TrimSpace(oembedTitle[:idx]), strings.TrimSpace(oembedTitle[idx+len(" by "):])
	}
	return strings.TrimSpace(oembedTitle), strings.TrimSpace(authorName)
}
