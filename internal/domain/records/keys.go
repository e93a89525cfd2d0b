// Package records implements the record-level half of the reconciliation
// pipeline: per-record normalization, in-batch deduplication, and the
// incremental merge of a batch into the master dataset.
package records

import "strings"

// titleKeyLen is how many characters of the lower-cased title participate in
// the title identity key. Long titles diverge in trailing boilerplate; the
// prefix is what identifies the invention.
const titleKeyLen = 100

// appNumberReplacer strips the separators sources disagree on, so that
// "EP 123 A1", "EP-123-A1" and "EP123A1" produce the same key.
var appNumberReplacer = strings.NewReplacer(" ", "", ".", "", "-", "")

// AppNumberKey returns the normalized application-number identity key:
// upper-cased, with spaces, periods and hyphens removed.
func AppNumberKey(appNumber string) string {
	return strings.ToUpper(strings.TrimSpace(appNumberReplacer.Replace(appNumber)))
}

// TitleKey returns the normalized title identity key: the lower-cased first
// 100 characters of the title.
func TitleKey(title string) string {
	lower := strings.ToLower(title)
	runes := []rune(lower)
	if len(runes) > titleKeyLen {
		return string(runes[:titleKeyLen])
	}
	return lower
}
