// Package musiclink recognizes music track links and resolves them across streaming platforms.
package musiclink

import (
	"context"
	"errors"
)

var (
	// ErrNoResolver is returned when no registered provider handles a URL's host.
	ErrNoResolver = errors.New("no resolver found for URL")
	// ErrNoResults is returned by searchers when the platform has no matching track.
	ErrNoResults = errors.New("no results found")
)

// TrackInfo holds track metadata extracted from, or found on, a music platform.
type TrackInfo struct {
	Platform Platform // Platform the track lives on.
	Title    string   // Track title.
	Artist   string   // Primary artist name.
	Album    string   // Album title (if available).
	URL      string   // Canonical track URL on the platform.
	ISRC     string   // International Standard Recording Code (if available).
}

// Resolver defines the interface for resolving music links to track information.
type Resolver interface {
	// Platform reports the platform whose links this resolver handles.
	Platform() Platform

	// Resolve extracts track information from a music provider URL.
	Resolve(ctx context.Context, url string) (*TrackInfo, error)

	// CanResolve checks if this resolver can handle the given URL.
	CanResolve(url string) bool
}

// Searcher finds a track by title and artist on one platform.
type Searcher interface {
	// Platform reports which platform the searcher queries.
	Platform() Platform

	// Search returns the best match for the title and artist, or ErrNoResults.
	Search(ctx context.Context, title, artist string) (*TrackInfo, error)
}

// Provider is a platform integration that can both resolve its own links and search its catalog.
// Resolvers that also implement Searcher are used as conversion targets.
type Provider interface {
	Resolver
	Searcher
}
