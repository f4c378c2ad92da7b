package converter

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"songbridge/internal/store"
	"songbridge/pkg/musiclink"
)

type fakeProvider struct {
	platform musiclink.Platform
	host     string
	info     *musiclink.TrackInfo
	err      error
	match    *musiclink.TrackInfo
	matchErr error

	mu       sync.Mutex
	resolves int
	searches int
}

func (f *fakeProvider) Platform() musiclink.Platform { return f.platform }

func (f *fakeProvider) CanResolve(url string) bool { return strings.Contains(url, f.host) }

func (f *fakeProvider) Resolve(_ context.Context, _ string) (*musiclink.TrackInfo, error) {
	f.mu.Lock()
	f.resolves++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	info := *f.info
	return &info, nil
}

func (f *fakeProvider) Search(_ context.Context, _, _ string) (*musiclink.TrackInfo, error) {
	f.mu.Lock()
	f.searches++
	f.mu.Unlock()
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	match := *f.match
	return &match, nil
}

type recordedMetrics struct {
	mu          sync.Mutex
	conversions []string
	upstream    map[string]string
	cacheHits   int
}

func (r *recordedMetrics) RecordConversion(status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversions = append(r.conversions, status)
}

func (r *recordedMetrics) RecordUpstream(platform, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upstream == nil {
		r.upstream = map[string]string{}
	}
	r.upstream[platform] = status
}

func (r *recordedMetrics) RecordCache(hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if hit {
		r.cacheHits++
	}
}

type fixture struct {
	deezer  *fakeProvider
	spotify *fakeProvider
	youtube *fakeProvider
	apple   *fakeProvider
	manager *musiclink.Manager
}

func newFixture() *fixture {
	f := &fixture{
		deezer: &fakeProvider{
			platform: musiclink.Deezer,
			host:     "deezer.com",
			info: &musiclink.TrackInfo{
				Title: "One More Time", Artist: "Daft Punk", URL: "https://www.deezer.com/track/3135553",
			},
			match: &musiclink.TrackInfo{Title: "One More Time", Artist: "Daft Punk", URL: "https://www.deezer.com/track/3135553"},
		},
		spotify: &fakeProvider{
			platform: musiclink.Spotify,
			host:     "spotify.com",
			err:      errors.New("Spotify API credentials not configured"),
			match: &musiclink.TrackInfo{
				Title: "One More Time", Artist: "Daft Punk", Album: "Discovery",
				URL: "https://open.spotify.com/track/0DiWol3AO6WpXZgp0goxAV",
			},
		},
		youtube: &fakeProvider{
			platform: musiclink.YouTubeMusic,
			host:     "youtube.com",
			matchErr: musiclink.ErrNoResults,
		},
		apple: &fakeProvider{
			platform: musiclink.AppleMusic,
			host:     "music.apple.com",
			info: &musiclink.TrackInfo{
				Platform: musiclink.AppleMusic, Title: "One More Time", Artist: "Daft Punk",
			},
		},
	}
	f.manager = musiclink.NewManager(f.deezer, f.spotify, f.youtube, &sourceOnly{f.apple})
	return f
}

// sourceOnly hides Search so the provider acts as a plain resolver.
type sourceOnly struct {
	p *fakeProvider
}

func (s *sourceOnly) Platform() musiclink.Platform { return s.p.Platform() }
func (s *sourceOnly) CanResolve(url string) bool   { return s.p.CanResolve(url) }
func (s *sourceOnly) Resolve(ctx context.Context, url string) (*musiclink.TrackInfo, error) {
	return s.p.Resolve(ctx, url)
}

func TestService_Convert(t *testing.T) {
	f := newFixture()
	metrics := &recordedMetrics{}
	service := NewService(f.manager, nil, metrics, zap.NewNop())

	resp, err := service.Convert(context.Background(), "https://www.deezer.com/en/track/3135553")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	wantOriginal := OriginalTrack{
		Platform: "deezer",
		Song:     "One More Time",
		Artist:   "Daft Punk",
		URL:      "https://www.deezer.com/track/3135553",
	}
	if resp.Original != wantOriginal {
		t.Errorf("Original = %+v, want %+v", resp.Original, wantOriginal)
	}

	if _, ok := resp.Alternatives["deezer"]; ok {
		t.Error("source platform must not appear in alternatives")
	}
	if _, ok := resp.Alternatives["youtube_music"]; ok {
		t.Error("platform without a match must be omitted")
	}
	spotify, ok := resp.Alternatives["spotify"]
	if !ok {
		t.Fatal("spotify alternative missing")
	}
	if spotify.URL != "https://open.spotify.com/track/0DiWol3AO6WpXZgp0goxAV" || spotify.Album != "Discovery" {
		t.Errorf("spotify alternative = %+v", spotify)
	}

	if f.deezer.searches != 0 {
		t.Errorf("source platform searched %d times", f.deezer.searches)
	}
	if metrics.upstream["youtube_music"] != StatusNotFound {
		t.Errorf("youtube upstream status = %q, want %q", metrics.upstream["youtube_music"], StatusNotFound)
	}
	if len(metrics.conversions) != 1 || metrics.conversions[0] != StatusOK {
		t.Errorf("conversions = %v, want [ok]", metrics.conversions)
	}
}

func TestService_ConvertSourceOnlyPlatform(t *testing.T) {
	f := newFixture()
	service := NewService(f.manager, nil, nil, zap.NewNop())

	resp, err := service.Convert(context.Background(), "https://music.apple.com/us/song/one-more-time/1")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if resp.Original.Platform != "apple_music" {
		t.Errorf("Original.Platform = %q, want apple_music", resp.Original.Platform)
	}
	if resp.Original.URL != "https://music.apple.com/us/song/one-more-time/1" {
		t.Errorf("Original.URL = %q, want submitted link", resp.Original.URL)
	}
	if len(resp.Alternatives) != 2 {
		t.Errorf("got %d alternatives, want deezer and spotify", len(resp.Alternatives))
	}
}

func TestService_ConvertErrors(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr error
	}{
		{
			name:    "unsupported host",
			url:     "https://example.com/track/1",
			want:    "Unsupported platform",
			wantErr: musiclink.ErrNoResolver,
		},
		{
			name: "resolver failure",
			url:  "https://open.spotify.com/track/abc",
			want: "Spotify processing failed: Spotify API credentials not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			service := NewService(f.manager, nil, nil, zap.NewNop())

			resp, err := service.Convert(context.Background(), tt.url)
			if resp != nil {
				t.Errorf("Convert() response = %+v, want nil", resp)
			}

			var resolveErr *ResolveError
			if !errors.As(err, &resolveErr) {
				t.Fatalf("Convert() error = %v, want *ResolveError", err)
			}
			if resolveErr.Message != tt.want {
				t.Errorf("Message = %q, want %q", resolveErr.Message, tt.want)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_ConvertUsesCache(t *testing.T) {
	f := newFixture()
	metrics := &recordedMetrics{}
	cache := store.NewResultCache[*Response](16, time.Hour, store.DefaultFalsePositiveRate)
	service := NewService(f.manager, cache, metrics, zap.NewNop())

	first, err := service.Convert(context.Background(), "https://www.deezer.com/en/track/3135553")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	// Same track, different locale and tracking parameter.
	second, err := service.Convert(context.Background(), "https://www.deezer.com/fr/track/3135553?utm_source=x")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if first != second {
		t.Error("expected second conversion to be served from cache")
	}
	if f.deezer.resolves != 1 {
		t.Errorf("resolved %d times, want 1", f.deezer.resolves)
	}
	if metrics.cacheHits != 1 {
		t.Errorf("cache hits = %d, want 1", metrics.cacheHits)
	}
}

func TestCacheKey(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.deezer.com/en/track/42", "deezer:42"},
		{"https://open.spotify.com/track/abcDEF?si=123", "spotify:abcDEF"},
		{"https://soundcloud.com/artist/track", "https://soundcloud.com/artist/track"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := cacheKey(tt.url); got != tt.want {
				t.Errorf("cacheKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
