package musiclink

import (
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected Platform
	}{
		{
			name:     "Spotify track",
			url:      "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			expected: Spotify,
		},
		{
			name:     "Spotify track with query",
			url:      "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=abc123",
			expected: Spotify,
		},
		{
			name:     "Spotify bare domain",
			url:      "https://spotify.com/track/abc123",
			expected: Spotify,
		},
		{
			name:     "Spotify album",
			url:      "https://open.spotify.com/album/4uLU6hMCjMI75M1A2tKUQC",
			expected: None,
		},
		{
			name:     "Spotify lookalike domain",
			url:      "https://notspotify.com/track/abc123",
			expected: None,
		},
		{
			name:     "Deezer track",
			url:      "https://deezer.com/en/track/12345",
			expected: Deezer,
		},
		{
			name:     "Deezer track on www",
			url:      "https://www.deezer.com/fr/track/3135556",
			expected: Deezer,
		},
		{
			name:     "Deezer album",
			url:      "https://deezer.com/en/album/12345",
			expected: None,
		},
		{
			name:     "Deezer track without locale",
			url:      "https://www.deezer.com/track/12345",
			expected: None,
		},
		{
			name:     "Deezer uppercase locale",
			url:      "https://www.deezer.com/EN/track/12345",
			expected: None,
		},
		{
			name:     "YouTube Music track",
			url:      "https://music.youtube.com/watch?v=abc_DEF-123",
			expected: YouTubeMusic,
		},
		{
			name:     "YouTube Music track with playlist",
			url:      "https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=RDAMVM",
			expected: YouTubeMusic,
		},
		{
			name:     "YouTube Music host in uppercase",
			url:      "https://MUSIC.YOUTUBE.COM/watch?v=dQw4w9WgXcQ",
			expected: YouTubeMusic,
		},
		{
			name:     "Plain YouTube video",
			url:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			expected: None,
		},
		{
			name:     "YouTube Music without video",
			url:      "https://music.youtube.com/watch",
			expected: None,
		},
		{
			name:     "Track path hidden in query of another host",
			url:      "https://example.com/?next=spotify.com/track/abc",
			expected: None,
		},
		{
			name:     "Non-http scheme",
			url:      "ftp://open.spotify.com/track/abc123",
			expected: None,
		},
		{
			name:     "Missing scheme",
			url:      "open.spotify.com/track/abc123",
			expected: None,
		},
		{
			name:     "Empty string",
			url:      "",
			expected: None,
		},
		{
			name:     "Malformed URL",
			url:      "http://[::1",
			expected: None,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.url); got != tt.expected {
				t.Errorf("Classify(%q) = %v, want %v", tt.url, got, tt.expected)
			}
		})
	}
}

func TestClassify_SpotifyAlphanumericIDs(t *testing.T) {
	ids := []string{"a", "Z", "0", "4uLU6hMCjMI75M1A2tKUQC", "abcDEF123", "7ouMYWpwJ422jRcDASZB7P"}

	for _, id := range ids {
		url := "https://open.spotify.com/track/" + id
		if got := Classify(url); got != Spotify {
			t.Errorf("Classify(%q) = %v, want %v", url, got, Spotify)
		}
	}
}

func TestParseTrackURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		platform Platform
		id       string
	}{
		{
			name:     "Spotify",
			url:      "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC?si=x",
			platform: Spotify,
			id:       "4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:     "Deezer",
			url:      "https://www.deezer.com/de/track/3135556",
			platform: Deezer,
			id:       "3135556",
		},
		{
			name:     "YouTube Music",
			url:      "https://music.youtube.com/watch?v=abc_DEF-123&feature=share",
			platform: YouTubeMusic,
			id:       "abc_DEF-123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, ok := ParseTrackURL(tt.url)
			if !ok {
				t.Fatalf("ParseTrackURL(%q) did not match", tt.url)
			}
			if track.Platform != tt.platform {
				t.Errorf("Platform = %v, want %v", track.Platform, tt.platform)
			}
			if track.ID != tt.id {
				t.Errorf("ID = %q, want %q", track.ID, tt.id)
			}
			if track.Raw != tt.url {
				t.Errorf("Raw = %q, want %q", track.Raw, tt.url)
			}
		})
	}
}

func TestClassifier_Register(t *testing.T) {
	classifier := NewClassifier()

	matcher, err := NewPatternMatcher(Platform("tidal"), `^(?:www\.)?tidal\.com/(?:browse/)?track/([0-9]+)`)
	if err != nil {
		t.Fatalf("NewPatternMatcher() unexpected error: %v", err)
	}
	classifier.Register(matcher)

	if got := classifier.Classify("https://tidal.com/browse/track/12345678"); got != Platform("tidal") {
		t.Errorf("Classify() = %v, want tidal", got)
	}

	// Built-in patterns keep their priority.
	if got := classifier.Classify("https://open.spotify.com/track/abc"); got != Spotify {
		t.Errorf("Classify() = %v, want %v", got, Spotify)
	}

	// The package-level classifier is unaffected.
	if got := Classify("https://tidal.com/browse/track/12345678"); got != None {
		t.Errorf("default Classify() = %v, want %v", got, None)
	}
}

func TestNewPatternMatcher_Errors(t *testing.T) {
	if _, err := NewPatternMatcher(Spotify, `(`); err == nil {
		t.Error("NewPatternMatcher() expected error for invalid expression")
	}
	if _, err := NewPatternMatcher(Spotify, `spotify\.com/track/`); err == nil {
		t.Error("NewPatternMatcher() expected error for pattern without capture group")
	}
}

func TestPlatform_DisplayName(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{key: "spotify", expected: "Spotify"},
		{key: "deezer", expected: "Deezer"},
		{key: "youtube_music", expected: "YouTube Music"},
		{key: "apple_music", expected: "apple_music"},
		{key: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := DisplayName(tt.key); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}

	if None.String() != "none" {
		t.Errorf("None.String() = %q, want %q", None.String(), "none")
	}
	if _, ok := ParsePlatform("tidal"); ok {
		t.Error("ParsePlatform(tidal) should not be supported")
	}
	if p, ok := ParsePlatform("deezer"); !ok || p != Deezer {
		t.Errorf("ParsePlatform(deezer) = %v, %v", p, ok)
	}
}
