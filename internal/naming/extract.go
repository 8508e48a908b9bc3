package naming

// QualityUnknown is the quality value when no rule matches.
const QualityUnknown = "Unknown"

// Extraction holds the season/episode/quality values pulled from free text.
// Season and Episode keep the matched digits verbatim (zero-padding
// preserved); empty means no rule matched. Quality is never empty.
type Extraction struct {
	Season  string
	Episode string
	Quality string
}

// Extract scans caption (when non-empty) and then the filename against both
// rule tables and returns the combined result. Caption precedence is total
// per field: if any season/episode rule matches the caption, the filename
// is never consulted for season/episode, and likewise for quality.
func Extract(caption, filename string) Extraction {
	season, episode := ExtractSeasonEpisode(caption, filename)
	return Extraction{
		Season:  season,
		Episode: episode,
		Quality: ExtractQuality(caption, filename),
	}
}

// ExtractSeasonEpisode returns the first season/episode match from caption,
// falling back to filename. No match yields two empty strings; this is not
// an error.
func ExtractSeasonEpisode(caption, filename string) (season, episode string) {
	if caption != "" {
		if s, e, ok := matchSeasonEpisode(caption); ok {
			return s, e
		}
	}
	if s, e, ok := matchSeasonEpisode(filename); ok {
		return s, e
	}
	return "", ""
}

func matchSeasonEpisode(text string) (season, episode string, ok bool) {
	for _, rule := range SeasonEpisodeRules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		season, episode = rule.Extract(m)
		return season, episode, true
	}
	return "", "", false
}

// ExtractQuality returns the first quality match from caption, falling back
// to filename, or [QualityUnknown].
func ExtractQuality(caption, filename string) string {
	if caption != "" {
		if q, ok := matchQuality(caption); ok {
			return q
		}
	}
	if q, ok := matchQuality(filename); ok {
		return q
	}
	return QualityUnknown
}

func matchQuality(text string) (string, bool) {
	for _, rule := range QualityRules {
		m := rule.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return rule.Normalize(m), true
	}
	return "", false
}
