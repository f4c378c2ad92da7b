// Package text pulls music links out of shared text such as share-sheet or clipboard contents.
package text

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"songbridge/pkg/musiclink"
)

// Kind describes what a piece of shared text contains.
type Kind int

const (
	// KindFreeText has no music link.
	KindFreeText Kind = iota
	// KindMusicLink has a link to a music service that is not a recognised track page.
	KindMusicLink
	// KindTrackLink has a Spotify, Deezer or YouTube Music track page link.
	KindTrackLink
)

var (
	urlRegex        = regexp.MustCompile(`https?://\S+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	trackingParams = map[string]bool{
		"utm_source": true, "utm_medium": true, "utm_campaign": true, "utm_term": true,
		"utm_content": true, "si": true, "fbclid": true, "igshid": true,
	}

	musicDomains = map[string]bool{
		"spotify.link":      true,
		"open.spotify.com":  true,
		"deezer.com":        true,
		"deezer.page.link":  true,
		"link.deezer.com":   true,
		"youtube.com":       true,
		"youtu.be":          true,
		"music.youtube.com": true,
		"music.apple.com":   true,
		"soundcloud.com":    true,
	}
)

// Shared is normalized shared text with the links found in it.
type Shared struct {
	Kind Kind
	Text string
	URLs []string
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse normalizes text and extracts the links it contains, stripped of tracking parameters.
func (p *Parser) Parse(text string) Shared {
	text = p.normalizeText(text)
	urls := p.extractURLs(text)

	return Shared{
		Kind: p.classify(urls),
		Text: text,
		URLs: urls,
	}
}

// TrackLink returns the most useful link in text: the first track page link, otherwise
// the first link to a music service.
func (p *Parser) TrackLink(text string) (string, bool) {
	shared := p.Parse(text)

	for _, u := range shared.URLs {
		if musiclink.Classify(u) != musiclink.None {
			return u, true
		}
	}
	for _, u := range shared.URLs {
		if p.isMusicURL(u) {
			return u, true
		}
	}
	return "", false
}

func (p *Parser) normalizeText(text string) string {
	text = norm.NFKC.String(strings.TrimSpace(text))
	return whitespaceRegex.ReplaceAllString(text, " ")
}

func (p *Parser) extractURLs(text string) []string {
	matches := urlRegex.FindAllString(text, -1)
	cleanURLs := make([]string, 0, len(matches))

	for _, match := range matches {
		if cleanURL := p.cleanURL(match); cleanURL != "" {
			cleanURLs = append(cleanURLs, cleanURL)
		}
	}

	return cleanURLs
}

func (p *Parser) cleanURL(rawURL string) string {
	rawURL = strings.TrimRight(rawURL, ".,!?;:)\"'")

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}

	if u.RawQuery != "" {
		u.RawQuery = stripTracking(u.RawQuery)
	}

	return u.String()
}

// stripTracking drops tracking parameters and keeps the remaining pairs verbatim and in order.
func stripTracking(rawQuery string) string {
	pairs := strings.Split(rawQuery, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if name, err := url.QueryUnescape(key); err == nil && trackingParams[name] {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

func (p *Parser) classify(urls []string) Kind {
	kind := KindFreeText
	for _, u := range urls {
		if musiclink.Classify(u) != musiclink.None {
			return KindTrackLink
		}
		if p.isMusicURL(u) {
			kind = KindMusicLink
		}
	}
	return kind
}

func (p *Parser) isMusicURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	hostname := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	hostname = strings.TrimPrefix(hostname, "m.")

	return musicDomains[hostname]
}
