// Package converter turns a music link into links for the same track on other platforms.
package converter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"songbridge/internal/store"
	"songbridge/pkg/musiclink"
)

const (
	// searchTimeout bounds each platform search.
	searchTimeout = 10 * time.Second
	// unsupportedPlatformMessage is returned for links no resolver handles.
	unsupportedPlatformMessage = "Unsupported platform"
)

var sourceNames = map[musiclink.Platform]string{
	musiclink.AppleMusic: "Apple Music",
	musiclink.SoundCloud: "SoundCloud",
}

// Service resolves a source link and searches the other platforms for the same track.
type Service struct {
	manager  *musiclink.Manager
	targets  []musiclink.Platform
	cache    *store.ResultCache[*Response]
	recorder Recorder
	logger   *zap.Logger
}

// NewService creates a conversion service. cache and recorder may be nil.
func NewService(manager *musiclink.Manager, cache *store.ResultCache[*Response], recorder Recorder,
	logger *zap.Logger) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{
		manager:  manager,
		targets:  musiclink.Platforms(),
		cache:    cache,
		recorder: recorder,
		logger:   logger,
	}
}

// Convert resolves rawURL and returns the track with its alternatives. Failures to
// resolve the source are *ResolveError; failed searches are left out of the result.
func (s *Service) Convert(ctx context.Context, rawURL string) (*Response, error) {
	start := time.Now()
	rawURL = strings.TrimSpace(rawURL)
	key := cacheKey(rawURL)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			s.recorder.RecordCache(true)
			s.recorder.RecordConversion(StatusOK, time.Since(start))
			s.logger.Debug("Serving cached conversion", zap.String("url", rawURL))
			return cached, nil
		}
		s.recorder.RecordCache(false)
	}

	source := s.manager.PlatformFor(rawURL)
	if source == musiclink.None {
		s.recorder.RecordConversion(StatusUnsupported, time.Since(start))
		return nil, &ResolveError{Message: unsupportedPlatformMessage, Err: musiclink.ErrNoResolver}
	}

	info, err := s.manager.Resolve(ctx, rawURL)
	s.recordUpstream(source, err)
	if err != nil {
		s.recorder.RecordConversion(StatusFailed, time.Since(start))
		s.logger.Info("Failed to resolve link",
			zap.String("url", rawURL),
			zap.Stringer("platform", source),
			zap.Error(err))
		return nil, &ResolveError{
			Message: fmt.Sprintf("%s processing failed: %v", sourceName(source), err),
			Err:     err,
		}
	}

	originalURL := info.URL
	if originalURL == "" {
		originalURL = rawURL
	}

	response := &Response{
		Original: OriginalTrack{
			Platform: string(info.Platform),
			Song:     info.Title,
			Artist:   info.Artist,
			URL:      originalURL,
		},
		Alternatives: s.searchAlternatives(ctx, info),
	}

	if s.cache != nil {
		s.cache.Add(key, response)
	}

	s.recorder.RecordConversion(StatusOK, time.Since(start))
	s.logger.Info("Converted link",
		zap.String("url", rawURL),
		zap.String("song", info.Title),
		zap.String("artist", info.Artist),
		zap.Int("alternatives", len(response.Alternatives)))
	return response, nil
}

// searchAlternatives queries every target platform except the source concurrently.
func (s *Service) searchAlternatives(ctx context.Context, info *musiclink.TrackInfo) map[string]AlternativeTrack {
	found := make([]*musiclink.TrackInfo, len(s.targets))

	var g errgroup.Group
	for i, platform := range s.targets {
		if platform == info.Platform {
			continue
		}
		searcher, ok := s.manager.Searcher(platform)
		if !ok {
			s.logger.Debug("No searcher registered", zap.Stringer("platform", platform))
			continue
		}

		g.Go(func() error {
			searchCtx, cancel := context.WithTimeout(ctx, searchTimeout)
			defer cancel()

			match, err := searcher.Search(searchCtx, info.Title, info.Artist)
			s.recordUpstream(platform, err)
			if err != nil {
				s.logger.Debug("Search failed",
					zap.Stringer("platform", platform),
					zap.String("title", info.Title),
					zap.Error(err))
				return nil
			}
			found[i] = match
			return nil
		})
	}
	// Searches never fail the conversion.
	_ = g.Wait()

	alternatives := make(map[string]AlternativeTrack, len(found))
	for i, match := range found {
		if match == nil || match.URL == "" {
			continue
		}
		alternatives[string(s.targets[i])] = AlternativeTrack{
			Title:  match.Title,
			Artist: match.Artist,
			Album:  match.Album,
			URL:    match.URL,
		}
	}
	return alternatives
}

func (s *Service) recordUpstream(platform musiclink.Platform, err error) {
	switch {
	case err == nil:
		s.recorder.RecordUpstream(string(platform), StatusOK)
	case errors.Is(err, musiclink.ErrNoResults):
		s.recorder.RecordUpstream(string(platform), StatusNotFound)
	default:
		s.recorder.RecordUpstream(string(platform), StatusError)
	}
}

// cacheKey identifies a track link independently of tracking parameters and locale.
func cacheKey(rawURL string) string {
	if track, ok := musiclink.ParseTrackURL(rawURL); ok {
		return string(track.Platform) + ":" + track.ID
	}
	return rawURL
}

func sourceName(platform musiclink.Platform) string {
	if name, ok := sourceNames[platform]; ok {
		return name
	}
	return platform.DisplayName()
}
