package converter

import (
	"time"
)

// Response is the body of a successful conversion.
type Response struct {
	Original     OriginalTrack               `json:"original"`
	Alternatives map[string]AlternativeTrack `json:"alternatives"`
}

// OriginalTrack describes the track behind the submitted link.
type OriginalTrack struct {
	Platform string `json:"platform"`
	Song     string `json:"song"`
	Artist   string `json:"artist"`
	URL      string `json:"url"`
}

// AlternativeTrack is the matching track on another platform.
type AlternativeTrack struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album,omitempty"`
	URL    string `json:"url"`
}

// ResolveError reports that the submitted link could not be turned into a track.
// Its message is returned to the caller verbatim.
type ResolveError struct {
	Message string
	Err     error
}

func (e *ResolveError) Error() string {
	return e.Message
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Conversion outcome labels used for metrics.
const (
	StatusOK          = "ok"
	StatusUnsupported = "unsupported"
	StatusFailed      = "failed"
	StatusNotFound    = "not_found"
	StatusError       = "error"
)

// Recorder receives conversion metrics.
type Recorder interface {
	RecordConversion(status string, duration time.Duration)
	RecordUpstream(platform, status string)
	RecordCache(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordConversion(string, time.Duration) {}
func (nopRecorder) RecordUpstream(string, string)          {}
func (nopRecorder) RecordCache(bool)                       {}
