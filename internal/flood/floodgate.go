// Package flood limits how many conversion requests each client may send per minute.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the fixed sliding window for counting requests.
	windowDuration = 60 * time.Second
	// cleanupInterval is how often idle clients are forgotten.
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long a client may stay quiet before its entry is dropped.
	idleTimeout = 10 * time.Minute
)

// Floodgate is a per-client sliding window rate limiter.
type Floodgate struct {
	limitPerMinute int                     // Maximum requests per client per minute; 0 disables limiting.
	entries        map[string]*clientEntry // Key: client address.
	mutex          sync.RWMutex
	stopCleanup    chan struct{}
	stopOnce       sync.Once
}

// clientEntry tracks request timestamps of one client.
type clientEntry struct {
	timestamps []time.Time
	lastSeen   time.Time
}

// New creates a Floodgate allowing limitPerMinute requests per client.
func New(limitPerMinute int) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		entries:        make(map[string]*clientEntry),
		stopCleanup:    make(chan struct{}),
	}

	go fg.cleanup()

	return fg
}

// Stop stops the background cleanup goroutine. It is safe to call more than once.
func (fg *Floodgate) Stop() {
	fg.stopOnce.Do(func() {
		close(fg.stopCleanup)
	})
}

// Enabled reports whether requests are limited at all.
func (fg *Floodgate) Enabled() bool {
	return fg.limitPerMinute > 0
}

// CheckRequest records a request from clientID and reports whether it may proceed.
func (fg *Floodgate) CheckRequest(clientID string) bool {
	if !fg.Enabled() {
		return true
	}

	now := time.Now()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	entry, exists := fg.entries[clientID]
	if !exists {
		entry = &clientEntry{
			timestamps: make([]time.Time, 0, fg.limitPerMinute+1),
		}
		fg.entries[clientID] = entry
	}
	entry.lastSeen = now

	windowStart := now.Add(-windowDuration)
	validTimestamps := entry.timestamps[:0]
	for _, ts := range entry.timestamps {
		if ts.After(windowStart) {
			validTimestamps = append(validTimestamps, ts)
		}
	}
	entry.timestamps = validTimestamps

	if len(entry.timestamps) >= fg.limitPerMinute {
		return false
	}

	entry.timestamps = append(entry.timestamps, now)
	return true
}

// RetryAfter returns how long clientID must wait until its oldest request leaves the window.
func (fg *Floodgate) RetryAfter(clientID string) time.Duration {
	fg.mutex.RLock()
	defer fg.mutex.RUnlock()

	entry, exists := fg.entries[clientID]
	if !exists || len(entry.timestamps) == 0 {
		return 0
	}

	wait := time.Until(entry.timestamps[0].Add(windowDuration))
	if wait < 0 {
		return 0
	}
	return wait
}

func (fg *Floodgate) cleanup() {
	fg.performCleanup()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.performCleanup()
		case <-fg.stopCleanup:
			return
		}
	}
}

func (fg *Floodgate) performCleanup() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := time.Now().Add(-idleTimeout)
	for key, entry := range fg.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(fg.entries, key)
		}
	}
}

// GetStats returns statistics about the floodgate for monitoring/debugging.
func (fg *Floodgate) GetStats() Stats {
	fg.mutex.RLock()
	defer fg.mutex.RUnlock()

	return Stats{
		ActiveClients:  len(fg.entries),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

// Stats contains floodgate statistics.
type Stats struct {
	ActiveClients  int `json:"active_clients"`
	LimitPerMinute int `json:"limit_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
