package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"songbridge/internal/i18n"
	"songbridge/pkg/musiclink"
)

var (
	songStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8F9FA"))

	artistStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC")).
			MarginBottom(1)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	platformColors = map[musiclink.Platform]lipgloss.Color{
		musiclink.Spotify:      lipgloss.Color("#1DB954"),
		musiclink.Deezer:       lipgloss.Color("#A238FF"),
		musiclink.YouTubeMusic: lipgloss.Color("#FF0033"),
	}
)

// View draws a popup state for a terminal.
func View(state State, localizer *i18n.Localizer) string {
	if localizer == nil {
		localizer = i18n.NewLocalizer(i18n.DefaultLanguage)
	}

	var body string
	switch state.Phase {
	case PhaseLoading:
		body = loadingStyle.Render(localizer.T("popup.loading"))
	case PhaseError:
		body = errorStyle.Render(state.Error)
	case PhaseContent:
		body = contentView(state, localizer)
	}

	return boxStyle.Render(body)
}

func contentView(state State, localizer *i18n.Localizer) string {
	var b strings.Builder

	b.WriteString(songStyle.Render(state.Song))
	b.WriteString("\n")
	b.WriteString(artistStyle.Render(localizer.T("popup.by", state.Artist)))
	b.WriteString("\n")

	if len(state.Links) == 0 {
		b.WriteString(loadingStyle.Render(localizer.T("popup.no_alternatives")))
		return b.String()
	}

	for i, link := range state.Links {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(linkStyle(link.Platform).Render(link.Label))
		b.WriteString("  ")
		b.WriteString(urlStyle.Render(link.URL))
	}
	return b.String()
}

func linkStyle(platform string) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if color, ok := platformColors[musiclink.Platform(platform)]; ok {
		return style.Foreground(color)
	}
	return style
}
