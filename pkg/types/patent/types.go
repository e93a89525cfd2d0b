// Package patent defines the canonical patent record row shared by every
// layer of the pipeline: extractors produce it, the reconciliation engine
// transforms it, and the dataset store persists it.
package patent

import "strings"

// Source identifies the upstream system a record was harvested from.
type Source string

const (
	SourceEPO  Source = "EPO"
	SourceLens Source = "Lens"
	SourceWIPO Source = "WIPO"
)

// Record is one discovered patent. Its identity is the pair
// (ApplicationNumber, Title); neither field is globally unique across
// sources on its own. ResourceID is the only strict uniqueness key and is
// always assigned by the merge engine, never by a source.
type Record struct {
	// ResourceID is the system-assigned integer key. Zero means
	// "not yet merged into the master dataset".
	ResourceID int64 `json:"resource_id"`

	// ApplicationNumber is jurisdiction + number + kind, e.g. "EP 1234567 A1".
	ApplicationNumber string `json:"application_number"`

	// ApplicationDate is the filing/publication date in YYYY-MM-DD form,
	// or empty when the source supplied none.
	ApplicationDate string `json:"application_date"`

	// PatentYear is the first four characters of ApplicationDate; kept as a
	// separate column because the downstream spreadsheet consumers filter on it.
	PatentYear string `json:"patent_year"`

	Title    string `json:"title"`
	Abstract string `json:"abstract"`

	// Applicants, Inventors and Owners are semicolon-joined name lists.
	// After normalization each list is free of duplicates and discard
	// fragments.
	Applicants string `json:"applicants"`
	Inventors  string `json:"inventors"`
	Owners     string `json:"owners"`

	PatentURL        string `json:"patent_url"`
	DocumentTypeID   int    `json:"document_type_id"`
	DocumentTypeName string `json:"document_type_name"`
	LegalStatusName  string `json:"legal_status_name"`

	Source        Source `json:"source"`
	ExtractedDate string `json:"extracted_date"`
}

// Columns is the exact output column order of the master dataset. The
// spreadsheet consumers depend on this ordering; do not reorder.
var Columns = []string{
	"ResourceId",
	"ApplicationNumber",
	"ApplicationDate",
	"PatentYear",
	"Title",
	"Abstract",
	"Applicants",
	"Inventors",
	"Owners",
	"PatentUrl",
	"DocumentTypeId",
	"DocumentTypeName",
	"LegalStatusName",
	"Source",
	"ExtractedDate",
}

// internalColumns are columns stripped from external exports.
var internalColumns = map[string]bool{
	"Source":        true,
	"ExtractedDate": true,
}

// ExportColumns returns the column order used for external exports, i.e.
// Columns minus the internal bookkeeping columns.
func ExportColumns() []string {
	out := make([]string, 0, len(Columns))
	for _, c := range Columns {
		if !internalColumns[c] {
			out = append(out, c)
		}
	}
	return out
}

// SplitNames splits a semicolon-joined name field into its trimmed,
// non-empty parts.
func SplitNames(field string) []string {
	if field == "" {
		return nil
	}
	parts := strings.Split(field, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinNames renders a name list back into the canonical "; "-joined field form.
func JoinNames(names []string) string {
	return strings.Join(names, "; ")
}

// TruncateRunes shortens s to at most n runes. Cutting on runes instead of
// bytes keeps multi-byte text valid UTF-8 at the limit.
func TruncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
