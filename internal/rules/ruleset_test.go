package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamaduzi123/ip/pkg/errors"
)

func compiledDefault(t *testing.T) *Set {
	t.Helper()
	s := Default()
	require.NoError(t, s.Compile(), "built-in rule set must always compile")
	return s
}

func TestDefaultCompiles(t *testing.T) {
	s := compiledDefault(t)
	assert.NotEmpty(t, s.CanonicalNames)
	assert.NotEmpty(t, s.DiscardPatterns)
	assert.NotEmpty(t, s.KnownOrganizations)
	assert.Equal(t, "QA", s.TargetCountryCode)
}

func TestMatchCanonical_StartAnchored(t *testing.T) {
	s := compiledDefault(t)

	got, ok := s.MatchCanonical("qatar found. for education, science")
	require.True(t, ok)
	assert.Equal(t, "Qatar Foundation for Education, Science and Community Development", got)

	// Patterns only match at the start of the candidate.
	_, ok = s.MatchCanonical("the qatar foundation")
	assert.False(t, ok)

	_, ok = s.MatchCanonical("acme trading wll")
	assert.False(t, ok)
}

func TestMatchCanonical_TableOrderWins(t *testing.T) {
	s := &Set{
		CanonicalNames: []CanonicalRule{
			{Pattern: `foo\s*bar.*`, Canonical: "Specific"},
			{Pattern: `foo.*`, Canonical: "General"},
		},
		TargetCountryCode: "QA",
		CountryName:       "qatar",
	}
	require.NoError(t, s.Compile())

	got, ok := s.MatchCanonical("foo bar baz")
	require.True(t, ok)
	assert.Equal(t, "Specific", got)

	got, ok = s.MatchCanonical("foo qux")
	require.True(t, ok)
	assert.Equal(t, "General", got)

	// Reversed order shadows the specific rule entirely.
	rev := &Set{
		CanonicalNames: []CanonicalRule{
			{Pattern: `foo.*`, Canonical: "General"},
			{Pattern: `foo\s*bar.*`, Canonical: "Specific"},
		},
		TargetCountryCode: "QA",
		CountryName:       "qatar",
	}
	require.NoError(t, rev.Compile())

	got, ok = rev.MatchCanonical("foo bar baz")
	require.True(t, ok)
	assert.Equal(t, "General", got)
}

func TestIsDiscard(t *testing.T) {
	s := compiledDefault(t)

	discarded := []string{
		"science and community development",
		"education & science",
		"community development",
		"higher education division",
		"and community development",
		"for education",
	}
	for _, name := range discarded {
		assert.True(t, s.IsDiscard(name), "expected %q to be discarded", name)
	}

	kept := []string{
		"qatar university",
		"center for science and community", // fragment words, but not at the start
		"formula trading co",
	}
	for _, name := range kept {
		assert.False(t, s.IsDiscard(name), "expected %q to be kept", name)
	}
}

func TestInRegistry(t *testing.T) {
	s := compiledDefault(t)

	assert.True(t, s.InRegistry("Qatar University"))
	assert.True(t, s.InRegistry("the Sidra Medicine research arm")) // candidate contains entry
	assert.True(t, s.InRegistry("Ooredoo"))
	assert.False(t, s.InRegistry("Acme Corp"))
	assert.False(t, s.InRegistry(""))
	assert.False(t, s.InRegistry("   "))
}

func TestCompile_RejectsBadPatterns(t *testing.T) {
	s := &Set{
		CanonicalNames:    []CanonicalRule{{Pattern: `qatar[`, Canonical: "Qatar University"}},
		TargetCountryCode: "QA",
		CountryName:       "qatar",
	}
	err := s.Compile()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRuleTableInvalid, errors.CodeOf(err))

	s = &Set{
		CanonicalNames:    []CanonicalRule{{Pattern: `qatar.*`}}, // no canonical name
		TargetCountryCode: "QA",
		CountryName:       "qatar",
	}
	assert.Error(t, s.Compile())

	s = &Set{CountryName: "qatar"} // missing country code
	assert.Error(t, s.Compile())
}

func TestLoadOrDefault(t *testing.T) {
	s, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.NotEmpty(t, s.CanonicalNames)

	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	yaml := `
target_country_code: QA
country_name: qatar
capital_name: doha
organization_keywords: [university, corp]
known_organizations: ["Qatar University"]
canonical_names:
  - pattern: 'qatar\s*univ.*'
    canonical: "Qatar University"
discard_patterns:
  - '^for\s+\w+.*$'
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	s, err = LoadOrDefault(path)
	require.NoError(t, err)

	got, ok := s.MatchCanonical("qatar univ dept of chemistry")
	require.True(t, ok)
	assert.Equal(t, "Qatar University", got)
	assert.True(t, s.IsDiscard("for education"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeRuleTableInvalid, errors.CodeOf(err))
}
