package convert

import (
	"github.com/tidwall/gjson"
)

// Original is the track the converted link points at.
type Original struct {
	Platform string
	Song     string
	Artist   string
	URL      string
}

// Alternative is the same track on another platform.
type Alternative struct {
	Platform string // Key of the alternatives object, e.g. "youtube_music".
	URL      string
	Title    string
	Artist   string
	Album    string
}

// Result is a successful conversion. Alternatives keep the order of the response object.
type Result struct {
	Original     Original
	Alternatives []Alternative
}

// parseBody interprets a 2xx response body.
func parseBody(body []byte) (*Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, &MalformedResponseError{Reason: "body is not JSON"}
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, &MalformedResponseError{Reason: "body is not a JSON object"}
	}

	if errField := doc.Get("error"); truthy(errField) {
		return nil, &APIError{Message: errField.String()}
	}

	return parseResult(doc)
}

func parseResult(doc gjson.Result) (*Result, error) {
	original := doc.Get("original")
	if !original.IsObject() {
		return nil, &MalformedResponseError{Reason: "missing original"}
	}

	song := original.Get("song")
	artist := original.Get("artist")
	if song.Type != gjson.String || artist.Type != gjson.String {
		return nil, &MalformedResponseError{Reason: "original needs string song and artist"}
	}

	alternatives := doc.Get("alternatives")
	if !alternatives.IsObject() {
		return nil, &MalformedResponseError{Reason: "missing alternatives"}
	}

	result := &Result{
		Original: Original{
			Platform: original.Get("platform").String(),
			Song:     song.Str,
			Artist:   artist.Str,
			URL:      original.Get("url").String(),
		},
		Alternatives: []Alternative{},
	}

	var malformed error
	alternatives.ForEach(func(key, value gjson.Result) bool {
		link := value.Get("url")
		if !value.IsObject() || link.Type != gjson.String {
			malformed = &MalformedResponseError{Reason: "alternative " + key.String() + " has no url"}
			return false
		}
		result.Alternatives = append(result.Alternatives, Alternative{
			Platform: key.String(),
			URL:      link.Str,
			Title:    value.Get("title").String(),
			Artist:   value.Get("artist").String(),
			Album:    value.Get("album").String(),
		})
		return true
	})
	if malformed != nil {
		return nil, malformed
	}

	return result, nil
}

// truthy reports whether a JSON value would count as set: not null, false, 0 or "".
func truthy(value gjson.Result) bool {
	switch value.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return value.Str != ""
	case gjson.Number:
		return value.Num != 0
	default:
		return true
	}
}
