package musiclink

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// trackIDGroup is the capture group holding the track ID in every track pattern.
	trackIDGroup = 1
)

var (
	spotifyTrackPattern      = regexp.MustCompile(`^(?:[a-z0-9-]+\.)*spotify\.com/track/([a-zA-Z0-9]+)`)
	deezerTrackPattern       = regexp.MustCompile(`^(?:[a-z0-9-]+\.)*deezer\.com/[a-z]+/track/([0-9]+)`)
	youtubeMusicTrackPattern = regexp.MustCompile(`^music\.youtube\.com/watch\?v=([a-zA-Z0-9_-]+)`)
)

// TrackURL is a URL known to match one platform's track-link shape.
type TrackURL struct {
	Raw      string
	Platform Platform
	ID       string
}

// Matcher recognizes the track links of a single platform.
type Matcher interface {
	// Platform reports the platform this matcher recognizes.
	Platform() Platform

	// Match returns the track ID when the link subject is a track link.
	// The subject is the lowercased host followed by the escaped path and raw query.
	Match(subject string) (id string, ok bool)
}

type patternMatcher struct {
	platform Platform
	pattern  *regexp.Regexp
}

// NewPatternMatcher builds a Matcher from a regular expression whose first capture group is the track ID.
func NewPatternMatcher(platform Platform, expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern for %s: %w", platform, err)
	}
	if re.NumSubexp() < trackIDGroup {
		return nil, fmt.Errorf("pattern for %s has no track ID group", platform)
	}
	return &patternMatcher{platform: platform, pattern: re}, nil
}

func (m *patternMatcher) Platform() Platform {
	return m.platform
}

func (m *patternMatcher) Match(subject string) (string, bool) {
	matches := m.pattern.FindStringSubmatch(subject)
	if len(matches) <= trackIDGroup {
		return "", false
	}
	return matches[trackIDGroup], true
}

// Classifier maps URLs to the platform whose track-link shape they match.
// Matchers are tried in registration order and the first match wins.
type Classifier struct {
	matchers []Matcher
}

// NewClassifier creates a classifier for Spotify, Deezer and YouTube Music track links.
func NewClassifier() *Classifier {
	return &Classifier{
		matchers: []Matcher{
			&patternMatcher{platform: Spotify, pattern: spotifyTrackPattern},
			&patternMatcher{platform: Deezer, pattern: deezerTrackPattern},
			&patternMatcher{platform: YouTubeMusic, pattern: youtubeMusicTrackPattern},
		},
	}
}

// Register appends a matcher with the lowest priority.
func (c *Classifier) Register(m Matcher) {
	c.matchers = append(c.matchers, m)
}

// Parse classifies rawURL and returns the recognized track link.
func (c *Classifier) Parse(rawURL string) (TrackURL, bool) {
	subject, ok := linkSubject(rawURL)
	if !ok {
		return TrackURL{}, false
	}

	for _, m := range c.matchers {
		if id, matched := m.Match(subject); matched {
			return TrackURL{Raw: rawURL, Platform: m.Platform(), ID: id}, true
		}
	}
	return TrackURL{}, false
}

// Classify returns the platform of a track link, or None.
func (c *Classifier) Classify(rawURL string) Platform {
	track, ok := c.Parse(rawURL)
	if !ok {
		return None
	}
	return track.Platform
}

var defaultClassifier = NewClassifier()

// Classify returns the platform whose track-link pattern rawURL matches, or None.
func Classify(rawURL string) Platform {
	return defaultClassifier.Classify(rawURL)
}

// ParseTrackURL classifies rawURL with the default patterns.
func ParseTrackURL(rawURL string) (TrackURL, bool) {
	return defaultClassifier.Parse(rawURL)
}

// OnDomain reports whether host is domain or one of its subdomains.
func OnDomain(host, domain string) bool {
	host = strings.ToLower(host)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// linkSubject reduces an absolute http(s) URL to "host/path?query" for matching.
func linkSubject(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", false
	}

	subject := host + u.EscapedPath()
	if u.RawQuery != "" {
		subject += "?" + u.RawQuery
	}
	return subject, true
}
