// Package messaging carries one-way notifications from the page context to the popup.
// Senders never block and get no acknowledgement; receivers treat the absence of
// a message as "not a track page".
package messaging

import (
	"sync"

	"go.uber.org/zap"

	"songbridge/pkg/musiclink"
)

// TypeValidMusicPage announces that the loaded page is a track page.
const TypeValidMusicPage = "VALID_MUSIC_PAGE"

// DefaultBufferSize is the number of undelivered messages a bus holds before dropping.
const DefaultBufferSize = 16

// Message is a single notification.
type Message struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Bus is a buffered one-way channel. Messages sent while the buffer is full are dropped.
type Bus struct {
	ch      chan Message
	logger  *zap.Logger
	mu      sync.Mutex
	dropped int
}

// NewBus creates a bus holding up to size undelivered messages.
func NewBus(size int, logger *zap.Logger) *Bus {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Bus{
		ch:     make(chan Message, size),
		logger: logger,
	}
}

// Send enqueues msg without blocking. It reports false when the message was dropped.
func (b *Bus) Send(msg Message) bool {
	select {
	case b.ch <- msg:
		return true
	default:
		b.mu.Lock()
		b.dropped++
		b.mu.Unlock()
		b.logger.Debug("Dropping notification, no receiver",
			zap.String("type", msg.Type),
			zap.String("url", msg.URL))
		return false
	}
}

// Receive returns the next pending message without waiting.
func (b *Bus) Receive() (Message, bool) {
	select {
	case msg := <-b.ch:
		return msg, true
	default:
		return Message{}, false
	}
}

// Dropped returns how many messages were discarded because the buffer was full.
func (b *Bus) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// OnPageLoad classifies the page URL and, for track pages, notifies the bus.
// It returns the parsed track link and whether the page was a track page.
func OnPageLoad(bus *Bus, pageURL string) (musiclink.TrackURL, bool) {
	track, ok := musiclink.ParseTrackURL(pageURL)
	if !ok {
		return track, false
	}

	bus.Send(Message{Type: TypeValidMusicPage, URL: pageURL})
	return track, true
}

// SawTrackPage drains pending messages and reports whether one of them announced pageURL.
func SawTrackPage(bus *Bus, pageURL string) bool {
	seen := false
	for {
		msg, ok := bus.Receive()
		if !ok {
			return seen
		}
		if msg.Type == TypeValidMusicPage && msg.URL == pageURL {
			seen = true
		}
	}
}
