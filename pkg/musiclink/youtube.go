package musiclink

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"songbridge/pkg/fuzzy"
)

const (
	// YouTubeOEmbedURL is the YouTube oEmbed API endpoint.
	YouTubeOEmbedURL = "https://www.youtube.com/oembed"
	// YouTubeSearchURL is the YouTube Data API v3 search endpoint.
	YouTubeSearchURL = "https://www.googleapis.com/youtube/v3/search"
	// YouTubeMusicWatchURL is the template for canonical YouTube Music track links.
	YouTubeMusicWatchURL = "https://music.youtube.com/watch?v=%s"
	// youtubeWatchURL is the template for regular YouTube video pages.
	youtubeWatchURL = "https://www.youtube.com/watch?v=%s"
	// youtubeMusicCategoryID is the Data API video category for music.
	youtubeMusicCategoryID = "10"
	// youtubeSearchLimit is the number of search candidates ranked per query.
	youtubeSearchLimit = 5
	// youtubeRequestInterval spaces out search calls, which cost 100 quota units each.
	youtubeRequestInterval = 250 * time.Millisecond
	// topicChannelSuffix marks YouTube's auto-generated artist channels.
	topicChannelSuffix = " - Topic"
)

var (
	// ErrYouTubeNotConfigured is returned by Search when no Data API key is set.
	ErrYouTubeNotConfigured = errors.New("YouTube Music API not configured")

	// artistTitleRegex splits "Artist - Title" on a dash that is not inside parentheses.
	artistTitleRegex = regexp2.MustCompile(
		`^(?<artist>.+?)\s+[‐‒–—~-]\s+(?![^(]*\))(?<title>.+)$`, regexp2.None)

	videoNoisePatterns = compileNoisePatterns(
		`\(Official Video\)`,
		`\(Official Music Video\)`,
		`\(Official Audio\)`,
		`\(Official Visualizer\)`,
		`\(Lyric Video\)`,
		`\(Lyrics\)`,
		`\(Audio\)`,
		`\[Official Video\]`,
		`\[Official Music Video\]`,
		`\[Official Audio\]`,
		`\[Lyric Video\]`,
		`\[Lyrics\]`,
		`\(HD\)`,
		`\[HD\]`,
		`\(4K\)`,
		`\[4K\]`,
	)

	camelCaseRegex = regexp.MustCompile(`([a-z])([A-Z])`)
)

func compileNoisePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+pattern))
	}
	return compiled
}

// YouTubeMusicResolver resolves YouTube and YouTube Music links and searches music videos.
type YouTubeMusicResolver struct {
	client     *http.Client
	apiKey     string
	oembedURL  string
	searchURL  string
	limiter    *rate.Limiter
	normalizer *fuzzy.Normalizer
}

// NewYouTubeMusicResolver creates a new YouTube Music resolver.
// Searching requires a YouTube Data API key; resolving links does not.
func NewYouTubeMusicResolver(apiKey string) *YouTubeMusicResolver {
	return &YouTubeMusicResolver{
		client:     newHTTPClient(),
		apiKey:     apiKey,
		oembedURL:  YouTubeOEmbedURL,
		searchURL:  YouTubeSearchURL,
		limiter:    rate.NewLimiter(rate.Every(youtubeRequestInterval), 1),
		normalizer: fuzzy.NewNormalizer(),
	}
}

// Platform reports YouTube Music.
func (r *YouTubeMusicResolver) Platform() Platform {
	return YouTubeMusic
}

// CanResolve checks if the URL is a YouTube or YouTube Music link.
func (r *YouTubeMusicResolver) CanResolve(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.ToLower(u.Hostname())
	// Normalize various YouTube domains.
	switch hostname {
	case "youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be":
		return true
	}
	return false
}

// Resolve extracts track information from a YouTube URL using the oEmbed API,
// falling back to the watch page's og:title.
func (r *YouTubeMusicResolver) Resolve(ctx context.Context, rawURL string) (*TrackInfo, error) {
	if !r.CanResolve(rawURL) {
		return nil, errors.New("not a YouTube URL")
	}

	videoID, err := r.extractVideoID(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract video ID: %w", err)
	}

	videoURL := fmt.Sprintf(youtubeWatchURL, videoID)

	var title, author string
	oembed, err := fetchJSON(ctx, r.client,
		fmt.Sprintf("%s?url=%s&format=json", r.oembedURL, url.QueryEscape(videoURL)), "oEmbed API")
	if err == nil {
		title = oembed.Get("title").String()
		author = oembed.Get("author_name").String()
	} else {
		meta, metaErr := fetchPageMeta(ctx, r.client, videoURL, "YouTube")
		if metaErr != nil {
			return nil, fmt.Errorf("failed to fetch oEmbed data: %w", err)
		}
		title = meta.Title
	}

	if title == "" {
		return nil, errors.New("no title found for YouTube video")
	}

	info := r.parseTrackInfo(title, author)
	info.URL = fmt.Sprintf(YouTubeMusicWatchURL, videoID)
	return &info, nil
}

// Search finds a music video for the track via the YouTube Data API.
func (r *YouTubeMusicResolver) Search(ctx context.Context, title, artist string) (*TrackInfo, error) {
	if r.apiKey == "" {
		return nil, ErrYouTubeNotConfigured
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("videoCategoryId", youtubeMusicCategoryID)
	params.Set("maxResults", fmt.Sprint(youtubeSearchLimit))
	params.Set("q", strings.TrimSpace(title+" "+artist))
	params.Set("key", r.apiKey)

	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := fetchJSON(ctx, r.client, r.searchURL+"?"+params.Encode(), "YouTube Data API")
	if err != nil {
		return nil, err
	}

	var candidates []TrackInfo
	doc.Get("items").ForEach(func(_, item gjson.Result) bool {
		videoID := item.Get("id.videoId").String()
		if videoID == "" {
			return true
		}
		info := r.parseTrackInfo(
			html.UnescapeString(item.Get("snippet.title").String()),
			html.UnescapeString(item.Get("snippet.channelTitle").String()),
		)
		info.URL = fmt.Sprintf(YouTubeMusicWatchURL, videoID)
		candidates = append(candidates, info)
		return true
	})
	if len(candidates) == 0 {
		return nil, ErrNoResults
	}

	return bestMatch(r.normalizer, candidates, title, artist)
}

// extractVideoID extracts the YouTube video ID from various URL formats.
func (r *YouTubeMusicResolver) extractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	// Handle youtu.be short links.
	if strings.ToLower(u.Hostname()) == "youtu.be" {
		path := strings.Trim(u.Path, "/")
		if path == "" {
			return "", errors.New("no video ID in youtu.be URL")
		}
		return path, nil
	}

	videoID := u.Query().Get("v")
	if videoID == "" {
		return "", errors.New("no video ID in YouTube URL")
	}
	return videoID, nil
}

// parseTrackInfo derives title and artist from a video title and channel name.
func (r *YouTubeMusicResolver) parseTrackInfo(videoTitle, channel string) TrackInfo {
	cleaned := r.cleanTitle(videoTitle)

	// Auto-generated topic channels carry the artist and a bare song title.
	if strings.HasSuffix(channel, topicChannelSuffix) {
		return TrackInfo{
			Platform: YouTubeMusic,
			Title:    cleaned,
			Artist:   strings.TrimSuffix(channel, topicChannelSuffix),
		}
	}

	if artist, title, ok := splitArtistTitle(cleaned); ok {
		return TrackInfo{Platform: YouTubeMusic, Title: title, Artist: artist}
	}

	return TrackInfo{
		Platform: YouTubeMusic,
		Title:    cleaned,
		Artist:   r.artistFromChannel(channel),
	}
}

// cleanTitle removes common YouTube video metadata from titles.
func (r *YouTubeMusicResolver) cleanTitle(title string) string {
	cleaned := title
	for _, re := range videoNoisePatterns {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(cleaned)
}

// artistFromChannel turns channel names like "RickAstleyVEVO" into "Rick Astley".
func (r *YouTubeMusicResolver) artistFromChannel(channel string) string {
	if strings.HasSuffix(channel, "VEVO") {
		return camelCaseRegex.ReplaceAllString(strings.TrimSuffix(channel, "VEVO"), "$1 $2")
	}
	return channel
}

// splitArtistTitle splits "Artist - Title" strings.
func splitArtistTitle(s string) (artist, title string, ok bool) {
	m, err := artistTitleRegex.FindStringMatch(s)
	if err != nil || m == nil {
		return "", "", false
	}

	artist = strings.TrimSpace(m.GroupByName("artist").String())
	title = strings.TrimSpace(m.GroupByName("title").String())
	if artist == "" || title == "" {
		return "", "", false
	}
	return artist, title, true
}
