package musiclink

// Platform identifies a streaming platform. Its value doubles as the key used for
// alternatives in conversion responses.
type Platform string

// Supported platforms. None is the result of a failed classification.
const (
	None         Platform = ""
	Spotify      Platform = "spotify"
	Deezer       Platform = "deezer"
	YouTubeMusic Platform = "youtube_music"

	// Source-only platforms: their links can be converted but they are never searched.
	AppleMusic Platform = "apple_music"
	SoundCloud Platform = "soundcloud"
)

var displayNames = map[Platform]string{
	Spotify:      "Spotify",
	Deezer:       "Deezer",
	YouTubeMusic: "YouTube Music",
}

// Platforms returns the supported platforms in the order alternatives are searched.
func Platforms() []Platform {
	return []Platform{Deezer, Spotify, YouTubeMusic}
}

// String returns the platform key, or "none" for None.
func (p Platform) String() string {
	if p == None {
		return "none"
	}
	return string(p)
}

// DisplayName returns the human-readable platform name.
// Unknown keys are returned verbatim.
func (p Platform) DisplayName() string {
	return DisplayName(string(p))
}

// DisplayName maps a platform key such as "youtube_music" to its label ("YouTube Music").
func DisplayName(key string) string {
	if name, ok := displayNames[Platform(key)]; ok {
		return name
	}
	return key
}

// ParsePlatform converts a conversion target key into a Platform. It reports false for other keys.
func ParsePlatform(key string) (Platform, bool) {
	p := Platform(key)
	if _, ok := displayNames[p]; ok {
		return p, true
	}
	return None, false
}
