package naming

import "strings"

// fallbackNumber substitutes for season or episode when extraction found
// nothing. Deliberately a visible marker rather than "0".
const fallbackNumber = "XX"

// placeholder is one recognized template token. Braced forms and bare-word
// aliases are distinct literals, so both resolve even when a template mixes
// them; replacements is ordered only for determinism.
type placeholder struct {
	Token string
	Value func(e Extraction) string
}

var placeholders = []placeholder{
	{"{season}", func(e Extraction) string { return orFallback(e.Season) }},
	{"{episode}", func(e Extraction) string { return orFallback(e.Episode) }},
	{"{quality}", func(e Extraction) string { return e.Quality }},
	{"Season", func(e Extraction) string { return orFallback(e.Season) }},
	{"Episode", func(e Extraction) string { return orFallback(e.Episode) }},
	{"QUALITY", func(e Extraction) string { return e.Quality }},
}

func orFallback(s string) string {
	if s == "" {
		return fallbackNumber
	}
	return s
}

// ResolveTemplate substitutes every recognized placeholder token in the
// user template with values from e. Text matching no token passes through
// unchanged; unresolved free text is not an error.
func ResolveTemplate(template string, e Extraction) string {
	out := template
	for _, p := range placeholders {
		out = strings.ReplaceAll(out, p.Token, p.Value(e))
	}
	return out
}
