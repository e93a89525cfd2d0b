package names

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Hamaduzi123/ip/internal/rules"
)

var (
	// countryCodeRe matches bracketed ISO alpha-2 suffixes such as " [QA] "
	// that some sources append to names.
	countryCodeRe = regexp.MustCompile(`\s*\[[A-Z]{2}\]\s*`)

	// nonAlnumRe strips everything but lower-case letters and digits when
	// building the field-level dedup key.
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)
)

// edgePunct is the punctuation trimmed from both ends of a raw name.
const edgePunct = " ,;."

// Standardizer canonicalizes free-text names against the ordered rule table
// and cleans up the free-text remainder when no rule matches. The active
// table comes from the handle on every call, so a hot reload takes effect
// between lookups.
type Standardizer struct {
	rules *rules.Handle
	caser cases.Caser
}

// NewStandardizer builds a Standardizer over a handle to a compiled rule set.
func NewStandardizer(h *rules.Handle) *Standardizer {
	return &Standardizer{rules: h, caser: cases.Title(language.English)}
}

// Standardize returns the canonical form of a single raw name, or a cleaned
// free-text form when no canonical rule matches, or "" when the input is
// blank or a recognized noise fragment. The second return reports whether
// the name was mapped through the canonical table.
//
// Cleanup order matters: country-code brackets and edge punctuation come off
// before the discard and canonical patterns run, because the tables were
// authored against stripped names.
func (s *Standardizer) Standardize(raw string) (string, bool) {
	return s.standardize(s.rules.Current(), raw)
}

func (s *Standardizer) standardize(set *rules.Set, raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}

	name = countryCodeRe.ReplaceAllString(name, "")
	name = strings.Trim(name, edgePunct)
	if name == "" {
		return "", false
	}

	lower := strings.ToLower(name)
	if set.IsDiscard(lower) {
		return "", false
	}

	if canonical, ok := set.MatchCanonical(lower); ok {
		return canonical, true
	}

	// ALL-CAPS free text becomes title case, but tokens of up to three
	// letters stay verbatim; they are usually acronyms (QU, HMC, LLC).
	if isUpper(name) && len(name) > 4 {
		words := strings.Fields(name)
		for i, w := range words {
			if len(w) <= 3 && isAlpha(w) {
				continue
			}
			words[i] = s.caser.String(w)
		}
		name = strings.Join(words, " ")
	}

	// "Last, First" person names become "First Last".
	if parts := strings.Split(name, ","); len(parts) == 2 {
		last := strings.TrimSpace(parts[0])
		first := strings.TrimSpace(parts[1])
		if len(strings.Fields(last)) == 1 && len(strings.Fields(first)) <= 2 {
			name = first + " " + last
			if isUpper(name) {
				name = s.caser.String(name)
			}
		}
	}

	return strings.TrimSpace(name), false
}

// StandardizeField cleans a semicolon-separated multi-name field: each part
// is standardized, empty results are dropped, and survivors are deduplicated
// by a lower-cased alphanumeric key (first occurrence wins). Keys shorter
// than two characters are dropped too; they are fragments that collapsed
// under standardization, not names. The second return counts how many parts
// were mapped through the canonical table.
func (s *Standardizer) StandardizeField(raw string) (string, int) {
	if strings.TrimSpace(raw) == "" {
		return "", 0
	}

	var (
		cleaned      []string
		standardized int
	)
	seen := make(map[string]struct{})
	set := s.rules.Current()

	for _, part := range strings.Split(raw, ";") {
		name, canonical := s.standardize(set, part)
		if name == "" {
			continue
		}
		if canonical {
			standardized++
		}

		key := nonAlnumRe.ReplaceAllString(strings.ToLower(name), "")
		if len(key) < 2 {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, name)
	}

	return strings.Join(cleaned, "; "), standardized
}

// isUpper reports whether s contains at least one letter and no lower-case
// letters, mirroring the semantics rule authors expect from "all caps".
func isUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// isAlpha reports whether s consists entirely of ASCII letters.
func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
