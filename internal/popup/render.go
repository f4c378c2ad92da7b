// Package popup turns the outcome of one conversion into what the popup shows.
// Rendering is a pure function of the outcome; View draws the result in a terminal.
package popup

import (
	"songbridge/internal/convert"
	"songbridge/internal/i18n"
	"songbridge/pkg/musiclink"
)

// Phase is the visible panel of the popup.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseContent
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseContent:
		return "content"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Link is one "Open in <Platform>" entry.
type Link struct {
	Platform   string
	Label      string
	URL        string
	Class      string // "platform-link <platform>", used for styling.
	NewContext bool   // Open outside the popup.
}

// State is the full popup UI state. Song, Artist and Links are only meaningful
// in PhaseContent; Error only in PhaseError.
type State struct {
	Phase  Phase
	Song   string
	Artist string
	Links  []Link
	Error  string
}

// Loading is the state shown while the conversion is in flight.
func Loading() State {
	return State{Phase: PhaseLoading}
}

// ContentVisible reports whether the content panel is shown.
func (s State) ContentVisible() bool {
	return s.Phase == PhaseContent
}

// ErrorVisible reports whether the error panel is shown.
func (s State) ErrorVisible() bool {
	return s.Phase == PhaseError
}

// Renderer builds popup states with localized labels.
type Renderer struct {
	localizer *i18n.Localizer
}

// NewRenderer creates a renderer. A nil localizer uses the default language.
func NewRenderer(localizer *i18n.Localizer) *Renderer {
	if localizer == nil {
		localizer = i18n.NewLocalizer(i18n.DefaultLanguage)
	}
	return &Renderer{localizer: localizer}
}

// Render returns the state for a finished conversion. The previous state is
// replaced wholesale, so links from an earlier render never survive.
func (r *Renderer) Render(_ State, res *convert.Result, err error) State {
	if err != nil {
		return State{Phase: PhaseError, Error: convert.Message(err, r.localizer)}
	}
	if res == nil {
		return State{Phase: PhaseError, Error: r.localizer.T("error.generic")}
	}

	links := make([]Link, 0, len(res.Alternatives))
	for _, alt := range res.Alternatives {
		links = append(links, Link{
			Platform:   alt.Platform,
			Label:      r.localizer.T("popup.open_in", musiclink.DisplayName(alt.Platform)),
			URL:        alt.URL,
			Class:      "platform-link " + alt.Platform,
			NewContext: true,
		})
	}

	return State{
		Phase:  PhaseContent,
		Song:   res.Original.Song,
		Artist: res.Original.Artist,
		Links:  links,
	}
}

var defaultRenderer = NewRenderer(nil)

// Render renders with English labels.
func Render(prev State, res *convert.Result, err error) State {
	return defaultRenderer.Render(prev, res, err)
}
