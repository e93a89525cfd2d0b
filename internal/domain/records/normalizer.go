package records

import (
	"regexp"
	"strings"
	"time"

	"github.com/Hamaduzi123/ip/internal/domain/names"
	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

// nonEnglishRe matches scripts the downstream consumers cannot use: Cyrillic,
// CJK ideographs, Hangul, and Arabic. A title containing any of these marks
// the whole record as non-English.
var nonEnglishRe = regexp.MustCompile(`[\x{0400}-\x{04FF}\x{4E00}-\x{9FFF}\x{AC00}-\x{D7AF}\x{0600}-\x{06FF}]`)

// maxAbstractLen caps stored abstracts; some sources ship full specification
// text in the abstract field.
const maxAbstractLen = 2000

// Default column values for records whose source did not supply them.
const (
	defaultDocumentTypeID   = 3
	defaultDocumentTypeName = "Patent Application"
	defaultLegalStatusName  = "PENDING"
)

// Stats accumulates the observability counters of one normalization or merge
// run. None of the counts alter control flow.
type Stats struct {
	InputCount        int `json:"input_count"`
	OutputCount       int `json:"output_count"`
	NonEnglishRemoved int `json:"non_english_removed"`
	MalformedRemoved  int `json:"malformed_removed"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	NamesStandardized int `json:"names_standardized"`
	NewAdded          int `json:"new_added"`
}

// Add folds other's counters into s.
func (s *Stats) Add(other Stats) {
	s.InputCount += other.InputCount
	s.OutputCount += other.OutputCount
	s.NonEnglishRemoved += other.NonEnglishRemoved
	s.MalformedRemoved += other.MalformedRemoved
	s.DuplicatesRemoved += other.DuplicatesRemoved
	s.NamesStandardized += other.NamesStandardized
	s.NewAdded += other.NewAdded
}

// Normalizer applies the full per-record cleanup: name standardization on
// the name-bearing fields, text trimming, date reformatting, and the drop
// rules for non-English and malformed records.
type Normalizer struct {
	std *names.Standardizer
	now func() time.Time
}

// NewNormalizer builds a Normalizer over a name standardizer.
func NewNormalizer(std *names.Standardizer) *Normalizer {
	return &Normalizer{std: std, now: time.Now}
}

// NormalizeBatch cleans a freshly harvested batch. Records are dropped, in
// this order, when the title is non-English (checked before any
// standardization work is spent on the record) or when the trimmed Title or
// ApplicationNumber is empty. Survivors keep their batch order.
func (n *Normalizer) NormalizeBatch(batch []patent.Record) ([]patent.Record, Stats) {
	stats := Stats{InputCount: len(batch)}
	out := make([]patent.Record, 0, len(batch))

	for _, rec := range batch {
		if nonEnglishRe.MatchString(rec.Title) {
			stats.NonEnglishRemoved++
			continue
		}

		rec.Title = strings.TrimSpace(rec.Title)
		rec.ApplicationNumber = strings.TrimSpace(rec.ApplicationNumber)
		if rec.Title == "" || rec.ApplicationNumber == "" {
			stats.MalformedRemoved++
			continue
		}

		stats.NamesStandardized += n.normalizeFields(&rec)
		n.applyDefaults(&rec)
		out = append(out, rec)
	}

	stats.OutputCount = len(out)
	return out, stats
}

// StandardizeDataset re-runs the name and text normalization steps over an
// already merged dataset, in place. It drops nothing; its job is to converge
// legacy rows to the current rule table. Applying it twice is a no-op when
// the rule table has not changed. It returns the number of names mapped
// through the canonical table.
func (n *Normalizer) StandardizeDataset(dataset []patent.Record) int {
	standardized := 0
	for i := range dataset {
		standardized += n.normalizeFields(&dataset[i])
	}
	return standardized
}

// normalizeFields applies name standardization, text trimming, and date
// derivation to a single record, returning the canonical-name match count.
func (n *Normalizer) normalizeFields(rec *patent.Record) int {
	standardized := 0

	var c int
	rec.Applicants, c = n.std.StandardizeField(rec.Applicants)
	standardized += c
	rec.Inventors, c = n.std.StandardizeField(rec.Inventors)
	standardized += c
	rec.Owners, c = n.std.StandardizeField(rec.Owners)
	standardized += c

	rec.Title = strings.TrimSpace(rec.Title)
	rec.ApplicationNumber = strings.TrimSpace(rec.ApplicationNumber)
	rec.Abstract = patent.TruncateRunes(strings.TrimSpace(rec.Abstract), maxAbstractLen)

	rec.ApplicationDate = formatDate(rec.ApplicationDate)
	if len(rec.ApplicationDate) >= 4 {
		rec.PatentYear = rec.ApplicationDate[:4]
	} else {
		rec.PatentYear = ""
	}

	return standardized
}

// applyDefaults fills the bookkeeping columns a source may omit.
func (n *Normalizer) applyDefaults(rec *patent.Record) {
	if rec.DocumentTypeID == 0 {
		rec.DocumentTypeID = defaultDocumentTypeID
	}
	if rec.DocumentTypeName == "" {
		rec.DocumentTypeName = defaultDocumentTypeName
	}
	if rec.LegalStatusName == "" {
		rec.LegalStatusName = defaultLegalStatusName
	}
	if rec.Source == "" {
		rec.Source = patent.SourceEPO
	}
	if rec.ExtractedDate == "" {
		rec.ExtractedDate = n.now().Format("2006-01-02")
	}
}

// formatDate rewrites 8-digit YYYYMMDD dates as YYYY-MM-DD and leaves
// anything else untouched.
func formatDate(d string) string {
	d = strings.TrimSpace(d)
	if len(d) == 8 && isDigits(d) {
		return d[:4] + "-" + d[4:6] + "-" + d[6:8]
	}
	return d
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
