// Package names implements entity resolution for free-text applicant,
// inventor, and owner names: classifying a name as organization vs.
// individual and as target-family vs. foreign, and canonicalizing
// organization names through the ordered rule table.
package names

import (
	"strings"
	"unicode"

	"github.com/Hamaduzi123/ip/internal/rules"
)

// personConnectors are substrings that almost never appear inside a bare
// person name. Their presence vetoes the individual heuristic.
var personConnectors = []string{"&", "and", ",", ".", "of", "for", "the"}

// maxPersonTokenLen is the longest token the individual heuristic accepts;
// institutional words tend to run longer.
const maxPersonTokenLen = 15

// Classifier decides organization-vs-individual and target-family membership
// for free-text names. It is a pure function of the active rule set; both
// methods are deterministic and never fail. The set is fetched from the
// handle on every call so a hot reload takes effect between lookups.
type Classifier struct {
	rules *rules.Handle
}

// NewClassifier builds a Classifier over a handle to a compiled rule set.
func NewClassifier(h *rules.Handle) *Classifier {
	return &Classifier{rules: h}
}

// IsOrganization reports whether name looks like an organization rather than
// an individual. Blank input is not an organization. Otherwise the decision
// is biased toward inclusion: only names that positively look like a person
// (2 to 4 short tokens, no digits, no organization-like connectors, and no
// mention of the target country) are classified as individuals; anything
// ambiguous is treated as an organization, since a false positive is cheaper
// than silently dropping an institution.
func (c *Classifier) IsOrganization(name string) bool {
	return isOrganization(c.rules.Current(), name)
}

func isOrganization(set *rules.Set, name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}

	for _, kw := range set.OrganizationKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if set.InRegistry(name) {
		return true
	}

	if looksLikePerson(name, lower, set.CountryName) {
		return false
	}

	return true
}

// looksLikePerson applies the individual-name heuristic: a handful of short
// alphabetic tokens with none of the connector substrings organizations use.
// A name mentioning the target country is never a person here; that single
// token outweighs the shape of the name.
func looksLikePerson(name, lower, countryName string) bool {
	words := strings.Fields(name)
	if len(words) < 2 || len(words) > 4 {
		return false
	}
	for _, w := range words {
		if len(w) >= maxPersonTokenLen {
			return false
		}
	}
	for _, r := range name {
		if unicode.IsDigit(r) {
			return false
		}
	}
	for _, conn := range personConnectors {
		if strings.Contains(lower, conn) {
			return false
		}
	}
	return !strings.Contains(lower, countryName)
}

// IsTargetOrganization reports whether name belongs to the target
// organization family. residence and country are optional ISO alpha-2 codes
// from source metadata; they are consulted only for dual-campus institutions,
// because a local residence code alone does not prove local ownership
// (foreign companies keep local offices).
//
// Where IsOrganization defaults to acceptance, this defaults to rejection:
// a name with no positive local signal is treated as foreign.
func (c *Classifier) IsTargetOrganization(name, residence, country string) bool {
	set := c.rules.Current()

	if strings.TrimSpace(name) == "" {
		return false
	}
	if !isOrganization(set, name) {
		return false
	}

	lower := strings.ToLower(strings.TrimSpace(name))
	mentionsTarget := strings.Contains(lower, set.CountryName) ||
		(set.CapitalName != "" && strings.Contains(lower, set.CapitalName))

	// Foreign suffixes and the company blocklist override residence metadata.
	for _, suffix := range set.ForeignSuffixes {
		if strings.HasSuffix(lower, strings.TrimSpace(suffix)) || strings.Contains(lower, suffix) {
			if !mentionsTarget {
				return false
			}
		}
	}
	for _, company := range set.ForeignCompanies {
		if strings.Contains(lower, company) && !mentionsTarget {
			return false
		}
	}

	for _, id := range set.TargetIdentifiers {
		if strings.Contains(lower, id) {
			return true
		}
	}

	// Dual-campus institutions also appear unqualified in the registry, so
	// the residence gate has to run before the registry fallback.
	for _, campus := range set.DualCampusNames {
		if strings.Contains(lower, campus) {
			return residence == set.TargetCountryCode || country == set.TargetCountryCode
		}
	}

	return set.InRegistry(name)
}
