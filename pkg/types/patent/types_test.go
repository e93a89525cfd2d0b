package patent

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitNames(t *testing.T) {
	assert.Nil(t, SplitNames(""))
	assert.Equal(t, []string{"Qatar University"}, SplitNames("Qatar University"))
	assert.Equal(t,
		[]string{"Qatar University", "Sidra Medicine"},
		SplitNames(" Qatar University ;; Sidra Medicine ; "))
}

func TestJoinNames(t *testing.T) {
	assert.Equal(t, "", JoinNames(nil))
	assert.Equal(t, "Qatar University; Sidra Medicine",
		JoinNames([]string{"Qatar University", "Sidra Medicine"}))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "ab", TruncateRunes("abcde", 2))

	// Multi-byte runes are never split.
	s := strings.Repeat("a", 3) + "éé"
	got := TruncateRunes(s, 4)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "aaaé", got)
}
