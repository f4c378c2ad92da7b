package i18n

// berneseGermanMessages contains all Bernese German translations.
var berneseGermanMessages = map[string]string{
	// Popup
	"popup.loading":         "Bi am Umwandle...",
	"popup.open_in":         "Uf %s ufmache",
	"popup.by":              "vo %s",
	"popup.no_alternatives": "Ke angeri Plattform het dä Song.",
	"popup.skipped":         "Kei Song-Site, da gits nüt z'wandle.",

	// Conversion client errors
	"error.client.unreachable": "Cha nid mit em Server verbinde. Lueg, dass d'Applikation uf %s louft",
	"error.client.status":      "Fähler: HTTP-Fähler! Status: %d",
	"error.client.api":         "Fähler: %s",
	"error.client.malformed":   "Fähler: Dr Server het öppis Komischs zrüggschickt",
	"error.client.transport":   "Fähler: %s",
	"error.generic":            "Öppis isch schiefgloffe. Probier's nomau.",

	// Page classification
	"classify.track_page":     "%s isch e %s-Song-Site",
	"classify.not_track_page": "%s isch kei Song-Site",
}
