package naming

import (
	"regexp"
	"strings"
)

// SeasonEpisodeRule pairs a compiled regex with an extraction function.
// Rules are evaluated in order by [ExtractSeasonEpisode]; first match wins.
// The order is load-bearing: the loose fallback (rule 6) would shadow the
// episode-only forms if moved earlier, and the bracketed forms must run
// before it so "[S01][E02]" is not consumed as "S01 ... 02".
type SeasonEpisodeRule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(m []string) (season, episode string)
}

// QualityRule pairs a compiled regex with a normalizer producing the
// lowercase quality tag. Evaluated in order; first match wins.
type QualityRule struct {
	Name      string
	Pattern   *regexp.Regexp
	Normalize func(m []string) string
}

func seasonAndEpisode(m []string) (string, string) { return m[1], m[2] }

func episodeOnly(m []string) (string, string) { return "", m[1] }

// --- Compiled season/episode patterns (order matters) ---

var (
	reSeasonEp = regexp.MustCompile(
		`(?i)S(\d+)\s*(?:E|EP)\s*(\d+)`)

	reSeasonEpDash = regexp.MustCompile(
		`(?i)S(\d+)[-_](?:E|EP)(\d+)`)

	// Dots and underscores count as separators here: release names write
	// "Season.1.Episode.3" as often as the spaced form.
	reSeasonEpWords = regexp.MustCompile(
		`(?i)Season[\s._-]*(\d+)[\s._-]*Episode[\s._-]*(\d+)`)

	reBracketPair = regexp.MustCompile(
		`(?i)\[S(\d+)\s*(?:E|EP)?\s*(\d+)\]`)

	reBracketSplit = regexp.MustCompile(
		`(?i)\[S(\d+)\]\[E(\d+)\]`)

	// Loose fallback: "S<num>" followed by any non-digit run then a number.
	// Known over-match risk: an unrelated number after a bare season token
	// (a year, a resolution) is read as the episode. Position preserved;
	// see the rule-order note on [SeasonEpisodeRule].
	reSeasonLoose = regexp.MustCompile(
		`(?i)S(\d+)\D*(\d+)`)

	reEpisodeOnly = regexp.MustCompile(
		`(?i)(?:E|EP|Episode)\s*(\d+)`)
)

// SeasonEpisodeRules is the ordered rule table for season/episode
// extraction. First match wins; do not reorder.
var SeasonEpisodeRules = []SeasonEpisodeRule{
	{"SxxExx", reSeasonEp, seasonAndEpisode},
	{"Sxx-Exx", reSeasonEpDash, seasonAndEpisode},
	{"Season-Episode-words", reSeasonEpWords, seasonAndEpisode},
	{"Bracket-pair", reBracketPair, seasonAndEpisode},
	{"Bracket-split", reBracketSplit, seasonAndEpisode},
	{"Season-loose", reSeasonLoose, seasonAndEpisode},
	{"Episode-only", reEpisodeOnly, episodeOnly},
}

// --- Compiled quality patterns (order matters) ---

var (
	reQualityBracket = regexp.MustCompile(
		`(?i)\[(\d{3,4}[pi])\]`)

	reQualityBare = regexp.MustCompile(
		`(?i)\b(\d{3,4}[pi])\b`)

	reQuality4K = regexp.MustCompile(
		`(?i)\[?(4k|2160p|uhd)\]?`)

	reQuality2K = regexp.MustCompile(
		`(?i)\[?(2k|1440p|qhd)\]?`)

	reQualityRip = regexp.MustCompile(
		`(?i)\[?(HDRip|HDTV|WebRip|BluRay|BRRip)\]?`)

	reQualityCodec = regexp.MustCompile(
		`(?i)\[?(4k|2k|1080p|720p|480p)?\s*x(264|265)\]?`)
)

func firstGroupLower(m []string) string { return strings.ToLower(m[1]) }

// wholeMatchLower keeps the full matched text (resolution prefix and
// brackets included) so "1080p x265" survives as one tag.
func wholeMatchLower(m []string) string { return strings.ToLower(m[0]) }

// QualityRules is the ordered rule table for quality extraction. Bracketed
// resolutions outrank bare ones; the alias rules collapse their variants
// to a canonical tag.
var QualityRules = []QualityRule{
	{"Bracketed-resolution", reQualityBracket, firstGroupLower},
	{"Bare-resolution", reQualityBare, firstGroupLower},
	{"4K-alias", reQuality4K, func([]string) string { return "4k" }},
	{"2K-alias", reQuality2K, func([]string) string { return "2k" }},
	{"Rip-name", reQualityRip, firstGroupLower},
	{"Codec", reQualityCodec, wholeMatchLower},
}
