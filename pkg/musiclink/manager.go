package musiclink

import (
	"context"
)

// Manager coordinates multiple music link resolvers to handle various provider URLs.
// Resolvers that implement Searcher double as conversion targets.
type Manager struct {
	resolvers []Resolver
}

// NewManager creates a manager over the given resolvers, in priority order.
func NewManager(resolvers ...Resolver) *Manager {
	return &Manager{resolvers: resolvers}
}

// Resolve attempts to resolve a music link using the appropriate resolver.
func (m *Manager) Resolve(ctx context.Context, url string) (*TrackInfo, error) {
	resolver := m.resolverFor(url)
	if resolver == nil {
		return nil, ErrNoResolver
	}

	info, err := resolver.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	if info.Platform == None {
		info.Platform = resolver.Platform()
	}
	return info, nil
}

// CanResolve checks if any resolver can handle the given URL.
func (m *Manager) CanResolve(url string) bool {
	return m.resolverFor(url) != nil
}

// PlatformFor returns the platform of the resolver handling url, or None.
func (m *Manager) PlatformFor(url string) Platform {
	if resolver := m.resolverFor(url); resolver != nil {
		return resolver.Platform()
	}
	return None
}

// Searcher returns the searcher for the given platform.
func (m *Manager) Searcher(platform Platform) (Searcher, bool) {
	for _, resolver := range m.resolvers {
		if searcher, ok := resolver.(Searcher); ok && searcher.Platform() == platform {
			return searcher, true
		}
	}
	return nil, false
}

func (m *Manager) resolverFor(url string) Resolver {
	for _, resolver := range m.resolvers {
		if resolver.CanResolve(url) {
			return resolver
		}
	}
	return nil
}
