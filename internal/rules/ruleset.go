// Package rules holds the externally maintained name-resolution rule tables:
// the ordered canonical-name table, the discard-fragment patterns, the known
// organization registry, and the keyword/blocklist vocabularies used by the
// classifier. The tables are configuration data, not code: they are loaded
// from YAML, validated, compiled once, and injected into the classifier and
// standardizer so that rules can evolve without code changes.
package rules

import (
	"regexp"
	"strings"

	"github.com/Hamaduzi123/ip/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Rule table types
// ─────────────────────────────────────────────────────────────────────────────

// CanonicalRule maps one name pattern to one fixed canonical display name.
// Pattern is matched against the lower-cased candidate and must match at the
// start of the string (re.match semantics).
type CanonicalRule struct {
	Pattern   string `mapstructure:"pattern" yaml:"pattern"`
	Canonical string `mapstructure:"canonical" yaml:"canonical"`

	re *regexp.Regexp
}

// Set is the full, ordered rule configuration. Order is significant for
// CanonicalNames and DiscardPatterns: earlier, more specific patterns shadow
// later, more general ones, and the first match always wins. The tables are
// therefore modeled as slices, never maps.
type Set struct {
	// OrganizationKeywords are lower-cased substrings whose presence marks a
	// name as an organization (institutional words, corporate suffixes, and
	// ecosystem-specific identifiers).
	OrganizationKeywords []string `mapstructure:"organization_keywords" yaml:"organization_keywords"`

	// KnownOrganizations is the closed registry of canonical organization
	// names belonging to the target organization family.
	KnownOrganizations []string `mapstructure:"known_organizations" yaml:"known_organizations"`

	// CanonicalNames is the ordered pattern → canonical-name table.
	CanonicalNames []CanonicalRule `mapstructure:"canonical_names" yaml:"canonical_names"`

	// DiscardPatterns match residual fragments of truncated institutional
	// names; a matching candidate is noise and is dropped entirely.
	DiscardPatterns []string `mapstructure:"discard_patterns" yaml:"discard_patterns"`

	// ForeignSuffixes are corporate-suffix tokens that indicate a foreign
	// company (checked with surrounding spaces preserved, e.g. " gmbh").
	ForeignSuffixes []string `mapstructure:"foreign_suffixes" yaml:"foreign_suffixes"`

	// ForeignCompanies is a blocklist of company-name fragments known to be
	// foreign entities regardless of local residence metadata.
	ForeignCompanies []string `mapstructure:"foreign_companies" yaml:"foreign_companies"`

	// TargetIdentifiers are tokens that positively identify the target
	// country's ecosystem (country name, capital, local institutional
	// abbreviations).
	TargetIdentifiers []string `mapstructure:"target_identifiers" yaml:"target_identifiers"`

	// DualCampusNames are multinational institutions with a local branch;
	// they are accepted only when residence metadata confirms the local
	// campus, and must be checked before the general registry.
	DualCampusNames []string `mapstructure:"dual_campus_names" yaml:"dual_campus_names"`

	// TargetCountryCode is the ISO alpha-2 code residence metadata is
	// compared against for dual-campus institutions.
	TargetCountryCode string `mapstructure:"target_country_code" yaml:"target_country_code"`

	// CountryName and CapitalName (lower-cased) override the foreign
	// blocklist: a blocklisted name that mentions either is kept.
	CountryName string `mapstructure:"country_name" yaml:"country_name"`
	CapitalName string `mapstructure:"capital_name" yaml:"capital_name"`

	discardRes []*regexp.Regexp
}

// ─────────────────────────────────────────────────────────────────────────────
// Compilation and matching
// ─────────────────────────────────────────────────────────────────────────────

// anchor wraps a pattern so that it only matches at the start of the input,
// mirroring the match-at-beginning semantics the rule tables were authored
// against. Wrapping is idempotent with respect to existing ^ anchors.
func anchor(pattern string) string {
	return "^(?:" + pattern + ")"
}

// Compile validates and compiles every pattern in the set. It must be called
// once after loading and before the set is handed to the classifier or
// standardizer. The first invalid pattern aborts compilation; a half-compiled
// rule set is never used.
func (s *Set) Compile() error {
	for i := range s.CanonicalNames {
		r := &s.CanonicalNames[i]
		if r.Canonical == "" {
			return errors.Newf(errors.ErrCodeRuleTableInvalid,
				"canonical rule %d (%q) has no canonical name", i, r.Pattern)
		}
		re, err := regexp.Compile(anchor(r.Pattern))
		if err != nil {
			return errors.Wrapf(err, errors.ErrCodeRuleTableInvalid,
				"canonical rule %d (%q) does not compile", i, r.Pattern)
		}
		r.re = re
	}

	s.discardRes = make([]*regexp.Regexp, 0, len(s.DiscardPatterns))
	for i, p := range s.DiscardPatterns {
		re, err := regexp.Compile("(?i)" + anchor(p))
		if err != nil {
			return errors.Wrapf(err, errors.ErrCodeRuleTableInvalid,
				"discard pattern %d (%q) does not compile", i, p)
		}
		s.discardRes = append(s.discardRes, re)
	}

	if s.TargetCountryCode == "" {
		return errors.New(errors.ErrCodeRuleTableInvalid, "target_country_code is required")
	}
	if s.CountryName == "" {
		return errors.New(errors.ErrCodeRuleTableInvalid, "country_name is required")
	}
	return nil
}

// MatchCanonical returns the canonical name of the first table entry whose
// pattern matches at the start of the lower-cased candidate. Later entries
// are never consulted once one matches; table order, not pattern
// specificity, decides conflicts.
func (s *Set) MatchCanonical(lower string) (string, bool) {
	for i := range s.CanonicalNames {
		r := &s.CanonicalNames[i]
		if r.re != nil && r.re.MatchString(lower) {
			return r.Canonical, true
		}
	}
	return "", false
}

// IsDiscard reports whether the lower-cased candidate is a residual fragment
// that should be dropped rather than standardized.
func (s *Set) IsDiscard(lower string) bool {
	for _, re := range s.discardRes {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// InRegistry reports whether the candidate fuzzily matches a registry entry:
// either string contains the other, case-insensitively. Blank candidates
// never match.
func (s *Set) InRegistry(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}
	for _, org := range s.KnownOrganizations {
		ol := strings.ToLower(org)
		if strings.Contains(lower, ol) || strings.Contains(ol, lower) {
			return true
		}
	}
	return false
}
