package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Popup
	"popup.loading":         "Converting...",
	"popup.open_in":         "Open in %s",
	"popup.by":              "by %s",
	"popup.no_alternatives": "No other platform has this track.",
	"popup.skipped":         "Not a track page, nothing to convert.",

	// Conversion client errors
	"error.client.unreachable": "Cannot connect to the server. Make sure the application is running on %s",
	"error.client.status":      "Error: HTTP error! status: %d",
	"error.client.api":         "Error: %s",
	"error.client.malformed":   "Error: the server sent an unexpected response",
	"error.client.transport":   "Error: %s",
	"error.generic":            "Something went wrong. Please try again.",

	// Page classification
	"classify.track_page":     "%s is a %s track page",
	"classify.not_track_page": "%s is not a track page",
}
