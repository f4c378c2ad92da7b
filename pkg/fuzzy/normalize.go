// Package fuzzy normalizes track metadata and scores how closely two tracks match.
package fuzzy

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	// titleWeight is the share of the match score carried by the title.
	titleWeight = 0.7
	// artistWeight is the share of the match score carried by the artist.
	artistWeight = 1 - titleWeight
)

// The suffix expressions run after basicNormalize, so brackets and dots are already gone.
var (
	featRegex       = regexp.MustCompile(`\s+(?:feat|ft|featuring)\s+.*$`)
	remixRegex      = regexp.MustCompile(`\s+(?:remix|rmx)\b.*$`)
	versionRegex    = regexp.MustCompile(`\s+(?:\d{4}\s+)?(?:remaster|remastered|deluxe|extended|radio edit|clean|explicit)\b.*$`)
	punctRegex      = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// Normalizer canonicalizes titles and artists before comparison.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) NormalizeArtist(artist string) string {
	artist = " " + n.basicNormalize(artist) + " "

	artist = strings.ReplaceAll(artist, " and ", " & ")
	artist = strings.ReplaceAll(artist, " vs ", " vs. ")
	artist = strings.ReplaceAll(artist, " feat ", " feat. ")
	artist = strings.ReplaceAll(artist, " ft ", " ft. ")

	return strings.TrimSpace(artist)
}

func (n *Normalizer) NormalizeTitle(title string) string {
	title = n.basicNormalize(title)

	title = featRegex.ReplaceAllString(title, "")
	title = remixRegex.ReplaceAllString(title, "")
	title = versionRegex.ReplaceAllString(title, "")

	return strings.TrimSpace(title)
}

func (n *Normalizer) basicNormalize(text string) string {
	text = norm.NFKD.String(text)

	var result strings.Builder
	for _, r := range text {
		if !unicode.IsMark(r) {
			result.WriteRune(r)
		}
	}
	text = result.String()

	text = punctRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")

	text = strings.ToLower(text)
	text = strings.TrimSpace(text)

	return text
}

// CalculateSimilarity returns the longest common subsequence ratio of two strings, in [0, 1].
func (n *Normalizer) CalculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	if len(s1) == 0 || len(s2) == 0 {
		return 0.0
	}

	return float64(n.longestCommonSubsequence(s1, s2)) / float64(max(len(s1), len(s2)))
}

// MatchScore rates how well a candidate track matches the wanted title and artist, in [0, 1].
// When either artist is unknown only the titles are compared.
func (n *Normalizer) MatchScore(candidateTitle, candidateArtist, title, artist string) float64 {
	titleScore := n.CalculateSimilarity(n.NormalizeTitle(candidateTitle), n.NormalizeTitle(title))

	wantArtist := n.NormalizeArtist(artist)
	gotArtist := n.NormalizeArtist(candidateArtist)
	if wantArtist == "" || gotArtist == "" {
		return titleScore
	}

	artistScore := n.CalculateSimilarity(gotArtist, wantArtist)
	// Collaborations list extra names on one side only.
	if strings.Contains(gotArtist, wantArtist) || strings.Contains(wantArtist, gotArtist) {
		artistScore = 1.0
	}

	return titleWeight*titleScore + artistWeight*artistScore
}

func (n *Normalizer) longestCommonSubsequence(s1, s2 string) int {
	rows, cols := len(s1), len(s2)
	dp := make([][]int, rows+1)
	for i := range dp {
		dp[i] = make([]int, cols+1)
	}

	for i := 1; i <= rows; i++ {
		for j := 1; j <= cols; j++ {
			if s1[i-1] == s2[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}

	return dp[rows][cols]
}
