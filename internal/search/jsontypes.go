package search

import (
	stdjson "encoding/json"
	"regexp"
)

// StringList absorbs the array-vs-scalar inconsistency of the upstream
// schemas: the same field may arrive as "x", ["x", "y"], null, or be missing
// entirely. It always decodes to a (possibly empty) slice of strings;
// non-string elements are dropped.
type StringList []string

func (s *StringList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*s = nil
		return nil
	}

	var one string
	if err := stdjson.Unmarshal(b, &one); err == nil {
		*s = StringList{one}
		return nil
	}

	var many []any
	if err := stdjson.Unmarshal(b, &many); err != nil {
		// unexpected shape (object, number); treat as absent
		*s = nil
		return nil
	}
	out := make(StringList, 0, len(many))
	for _, v := range many {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	*s = out
	return nil
}

// First returns element 0 or the fallback when the list is empty.
func (s StringList) First(fallback string) string {
	if len(s) == 0 {
		return fallback
	}
	return s[0]
}

var emphasisRe = regexp.MustCompile(`<em>(.*?)</em>`)

// StripEmphasis removes every <em>...</em> pair, keeping the enclosed text.
// Digital Bodleian embeds this markup in titles and snippets to highlight
// matched query terms.
func StripEmphasis(s string) string {
	return emphasisRe.ReplaceAllString(s, "$1")
}

// CleanPreviewField applies the Oxford text-cleaning rule: an empty or
// absent candidate list yields the placeholder; otherwise element 0 with
// emphasis markup stripped.
func CleanPreviewField(values StringList, placeholder string) string {
	if len(values) == 0 {
		return placeholder
	}
	return StripEmphasis(values[0])
}
