package text

import (
	"reflect"
	"testing"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Kind
		urls     []string
	}{
		{
			"Spotify share text",
			"Check this out: https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc123",
			KindTrackLink,
			[]string{"https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC"},
		},
		{
			"Deezer link with tracking",
			"https://www.deezer.com/en/track/3135553?utm_source=deezer&utm_medium=share!",
			KindTrackLink,
			[]string{"https://www.deezer.com/en/track/3135553"},
		},
		{
			"Spotify short link",
			"Listen: https://spotify.link/ie2dPfjkzXb",
			KindMusicLink,
			[]string{"https://spotify.link/ie2dPfjkzXb"},
		},
		{
			"Apple Music",
			"https://music.apple.com/us/album/x/1?i=2",
			KindMusicLink,
			[]string{"https://music.apple.com/us/album/x/1?i=2"},
		},
		{
			"Unrelated link",
			"see https://example.com/page",
			KindFreeText,
			[]string{"https://example.com/page"},
		},
		{"No link", "play one more time by daft punk", KindFreeText, []string{}},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shared := parser.Parse(tt.input)
			if shared.Kind != tt.expected {
				t.Errorf("Parse() Kind = %v, want %v", shared.Kind, tt.expected)
			}
			if !reflect.DeepEqual(shared.URLs, tt.urls) {
				t.Errorf("Parse() URLs = %v, want %v", shared.URLs, tt.urls)
			}
		})
	}
}

func TestParser_TrackLink(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			"prefers track page",
			"https://soundcloud.com/a/b and https://music.youtube.com/watch?v=dQw4w9WgXcQ&si=x",
			"https://music.youtube.com/watch?v=dQw4w9WgXcQ",
			true,
		},
		{
			"falls back to music link",
			"from https://soundcloud.com/artist/track.",
			"https://soundcloud.com/artist/track",
			true,
		},
		{"no music link", "https://example.com", "", false},
		{
			"multi-parameter track page unchanged",
			"https://music.youtube.com/watch?v=abc_DEF-123&list=RDAMVMabc",
			"https://music.youtube.com/watch?v=abc_DEF-123&list=RDAMVMabc",
			true,
		},
		{"bare url", "https://open.spotify.com/track/abc", "https://open.spotify.com/track/abc", true},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parser.TrackLink(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("TrackLink() = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParser_normalizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims", "  hello  ", "hello"},
		{"collapses whitespace", "one\n\n  more\ttime", "one more time"},
		{"full width", "ｈｔｔｐｓ", "https"},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.normalizeText(tt.input); got != tt.expected {
				t.Errorf("normalizeText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestParser_cleanURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"keeps plain url", "https://www.deezer.com/track/1", "https://www.deezer.com/track/1"},
		{"strips punctuation", "https://www.deezer.com/track/1),", "https://www.deezer.com/track/1"},
		{"keeps other params", "https://music.youtube.com/watch?v=abc&utm_source=x", "https://music.youtube.com/watch?v=abc"},
		{"no host", "https://", ""},
		{
			"keeps parameter order",
			"https://music.youtube.com/watch?v=abc_DEF-123&si=x&list=RDAMVMabc",
			"https://music.youtube.com/watch?v=abc_DEF-123&list=RDAMVMabc",
		},
		{"keeps raw encoding", "https://example.com/s?q=a%20b&utm_term=x", "https://example.com/s?q=a%20b"},
	}

	parser := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.cleanURL(tt.input); got != tt.expected {
				t.Errorf("cleanURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}
