package musiclink

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeResolver struct {
	platform Platform
	host     string
	info     *TrackInfo
	err      error
}

func (f *fakeResolver) Platform() Platform { return f.platform }

func (f *fakeResolver) CanResolve(url string) bool { return strings.Contains(url, f.host) }

func (f *fakeResolver) Resolve(_ context.Context, _ string) (*TrackInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	info := *f.info
	return &info, nil
}

type fakeProvider struct {
	fakeResolver
}

func (f *fakeProvider) Search(_ context.Context, title, artist string) (*TrackInfo, error) {
	return &TrackInfo{Platform: f.platform, Title: title, Artist: artist}, nil
}

func newTestManager() *Manager {
	return NewManager(
		&fakeProvider{fakeResolver{
			platform: Deezer,
			host:     "deezer.com",
			info:     &TrackInfo{Title: "One More Time", Artist: "Daft Punk"},
		}},
		&fakeResolver{
			platform: SoundCloud,
			host:     "soundcloud.com",
			info:     &TrackInfo{Platform: SoundCloud, Title: "Strobe", Artist: "deadmau5"},
		},
		&fakeResolver{
			platform: AppleMusic,
			host:     "music.apple.com",
			err:      errors.New("lookup failed"),
		},
	)
}

func TestManager_CanResolve(t *testing.T) {
	manager := newTestManager()

	tests := []struct {
		name     string
		url      string
		expected bool
		platform Platform
	}{
		{"Deezer URL", "https://www.deezer.com/track/1", true, Deezer},
		{"SoundCloud URL", "https://soundcloud.com/a/b", true, SoundCloud},
		{"Unknown domain", "https://example.com", false, None},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := manager.CanResolve(tt.url); got != tt.expected {
				t.Errorf("CanResolve() = %v, want %v", got, tt.expected)
			}
			if got := manager.PlatformFor(tt.url); got != tt.platform {
				t.Errorf("PlatformFor() = %q, want %q", got, tt.platform)
			}
		})
	}
}

func TestManager_Resolve(t *testing.T) {
	manager := newTestManager()
	ctx := context.Background()

	t.Run("fills in platform", func(t *testing.T) {
		info, err := manager.Resolve(ctx, "https://www.deezer.com/track/1")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if info.Platform != Deezer {
			t.Errorf("Platform = %q, want %q", info.Platform, Deezer)
		}
	})

	t.Run("propagates resolver errors", func(t *testing.T) {
		_, err := manager.Resolve(ctx, "https://music.apple.com/us/song/x/1")
		if err == nil || err.Error() != "lookup failed" {
			t.Errorf("Resolve() error = %v, want lookup failed", err)
		}
	})
}

func TestManager_Resolve_NoResolverFound(t *testing.T) {
	manager := newTestManager()

	for _, url := range []string{"https://open.spotify.com/track/123", "https://example.com", "not-a-url"} {
		t.Run(url, func(t *testing.T) {
			_, err := manager.Resolve(context.Background(), url)
			if !errors.Is(err, ErrNoResolver) {
				t.Errorf("Resolve() error = %v, want ErrNoResolver", err)
			}
		})
	}
}

func TestManager_Searcher(t *testing.T) {
	manager := newTestManager()

	if _, ok := manager.Searcher(Deezer); !ok {
		t.Error("Searcher(Deezer) not found")
	}
	if _, ok := manager.Searcher(SoundCloud); ok {
		t.Error("Searcher(SoundCloud) found for a source-only resolver")
	}
	if _, ok := manager.Searcher(Spotify); ok {
		t.Error("Searcher(Spotify) found without a Spotify provider")
	}
}
