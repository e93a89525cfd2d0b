package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamaduzi123/ip/internal/rules"
)

func testClassifier(t *testing.T) *Classifier {
	t.Helper()
	set := rules.Default()
	require.NoError(t, set.Compile())
	return NewClassifier(rules.NewHandle(set))
}

func TestIsOrganization(t *testing.T) {
	c := testClassifier(t)

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"blank", "", false},
		{"whitespace only", "   ", false},
		{"keyword university", "Qatar University", true},
		{"keyword corp", "Acme Corp", true},
		{"corporate suffix", "Gulf Widgets LLC", true},
		{"registry entry", "Ooredoo", true},
		{"plain person", "John Smith", false},
		{"three-token person", "Maryam Al Kuwari", false},
		{"person with digits", "Agent 007 Smith", true},
		{"person with comma", "Smith, John", true}, // connector vetoes the heuristic
		{"country token overrides shape", "Qatar Holding", true},
		{"single token defaults to org", "Kahramaa", true},
		{"long tokens default to org", "Internationalization Standardization", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsOrganization(tt.in))
		})
	}
}

func TestIsOrganization_Deterministic(t *testing.T) {
	c := testClassifier(t)
	for _, name := range []string{"", "John Smith", "Qatar University", "Siemens AG"} {
		first := c.IsOrganization(name)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, c.IsOrganization(name))
		}
	}
}

func TestIsTargetOrganization(t *testing.T) {
	c := testClassifier(t)

	tests := []struct {
		name      string
		in        string
		residence string
		country   string
		want      bool
	}{
		{"blank", "", "", "", false},
		{"individual never target", "John Smith", "QA", "QA", false},
		{"country identifier", "Qatar Foundation", "", "", true},
		{"capital identifier", "Doha Institute", "", "", true},
		{"local abbreviation", "QSTP Tenant Services", "", "", true},
		{"registry fallback", "Ooredoo", "", "", true},
		{"foreign blocklist", "Toyota Motor Corporation", "", "", false},
		{"blocklist overrides residence", "Samsung Electronics Co Ltd", "QA", "", false},
		{"local office of blocklisted firm", "Microsoft Qatar LLC", "", "", true},
		{"foreign suffix", "Siemens AG", "QA", "", false},
		{"dual campus without residence", "Texas A&M University", "", "", false},
		{"dual campus wrong residence", "Texas A&M University", "US", "US", false},
		{"dual campus local residence", "Texas A&M University", "QA", "", true},
		{"dual campus local country", "Weill Cornell Medicine", "", "QA", true},
		{"unknown org defaults to reject", "Global Widgets Inc", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsTargetOrganization(tt.in, tt.residence, tt.country))
		})
	}
}
