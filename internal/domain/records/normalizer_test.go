package records

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamaduzi123/ip/internal/domain/names"
	"github.com/Hamaduzi123/ip/internal/rules"
	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

func testNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	set := rules.Default()
	require.NoError(t, set.Compile())
	return NewNormalizer(names.NewStandardizer(rules.NewHandle(set)))
}

func TestNormalizeBatch_DropRules(t *testing.T) {
	n := testNormalizer(t)

	batch := []patent.Record{
		{ApplicationNumber: "QA2020001", Title: "Solar desalination membrane"},
		{ApplicationNumber: "QA2020002", Title: "نظام تحلية المياه"},  // Arabic
		{ApplicationNumber: "QA2020003", Title: "태양광 담수화 시스템"},        // Hangul
		{ApplicationNumber: "QA2020004", Title: "Система опреснения"}, // Cyrillic
		{ApplicationNumber: "QA2020005", Title: "   "},                // blank title
		{ApplicationNumber: "  ", Title: "Gas turbine blade coating"}, // blank app number
		{ApplicationNumber: "QA2020006", Title: "Wearable glucose sensor"},
	}

	out, stats := n.NormalizeBatch(batch)

	require.Len(t, out, 2)
	assert.Equal(t, "Solar desalination membrane", out[0].Title)
	assert.Equal(t, "Wearable glucose sensor", out[1].Title)

	assert.Equal(t, 7, stats.InputCount)
	assert.Equal(t, 2, stats.OutputCount)
	assert.Equal(t, 3, stats.NonEnglishRemoved)
	assert.Equal(t, 2, stats.MalformedRemoved)
}

func TestNormalizeBatch_FieldCleanup(t *testing.T) {
	n := testNormalizer(t)

	batch := []patent.Record{{
		ApplicationNumber: "  EP 1234567 A1  ",
		ApplicationDate:   "20190312",
		Title:             "  Carbon capture apparatus  ",
		Abstract:          "  An apparatus for capturing carbon.  ",
		Applicants:        "QATAR FOUND. FOR EDUCATION, SCIENCE; and Community Development",
		Inventors:         "AL-KUWARI, MARYAM; Smith, John",
	}}

	out, stats := n.NormalizeBatch(batch)
	require.Len(t, out, 1)
	rec := out[0]

	assert.Equal(t, "EP 1234567 A1", rec.ApplicationNumber)
	assert.Equal(t, "2019-03-12", rec.ApplicationDate)
	assert.Equal(t, "2019", rec.PatentYear)
	assert.Equal(t, "Carbon capture apparatus", rec.Title)
	assert.Equal(t, "An apparatus for capturing carbon.", rec.Abstract)
	assert.Equal(t, "Qatar Foundation for Education, Science and Community Development", rec.Applicants)
	assert.Equal(t, "Maryam Al-Kuwari; John Smith", rec.Inventors)
	assert.Equal(t, 1, stats.NamesStandardized)
}

func TestNormalizeBatch_Defaults(t *testing.T) {
	n := testNormalizer(t)

	out, _ := n.NormalizeBatch([]patent.Record{
		{ApplicationNumber: "QA2021001", Title: "Desert greenhouse cooling"},
	})
	require.Len(t, out, 1)
	rec := out[0]

	assert.Equal(t, 3, rec.DocumentTypeID)
	assert.Equal(t, "Patent Application", rec.DocumentTypeName)
	assert.Equal(t, "PENDING", rec.LegalStatusName)
	assert.Equal(t, patent.SourceEPO, rec.Source)
	assert.NotEmpty(t, rec.ExtractedDate)
	assert.Empty(t, rec.PatentYear)

	// Source-supplied values are never overwritten.
	out, _ = n.NormalizeBatch([]patent.Record{{
		ApplicationNumber: "QA2021002",
		Title:             "Reservoir imaging method",
		DocumentTypeID:    5,
		DocumentTypeName:  "Granted Patent",
		LegalStatusName:   "ACTIVE",
		Source:            patent.SourceLens,
		ExtractedDate:     "2024-01-01",
	}})
	require.Len(t, out, 1)
	assert.Equal(t, 5, out[0].DocumentTypeID)
	assert.Equal(t, "Granted Patent", out[0].DocumentTypeName)
	assert.Equal(t, "ACTIVE", out[0].LegalStatusName)
	assert.Equal(t, patent.SourceLens, out[0].Source)
	assert.Equal(t, "2024-01-01", out[0].ExtractedDate)
}

func TestNormalizeBatch_AbstractTruncated(t *testing.T) {
	n := testNormalizer(t)

	out, _ := n.NormalizeBatch([]patent.Record{{
		ApplicationNumber: "QA2021003",
		Title:             "Polymer electrolyte",
		Abstract:          strings.Repeat("a", 5000),
	}})
	require.Len(t, out, 1)
	assert.Len(t, out[0].Abstract, 2000)
}

func TestNormalizeBatch_AbstractTruncationKeepsValidUTF8(t *testing.T) {
	n := testNormalizer(t)

	// A multi-byte rune straddling the limit must not be cut mid-byte.
	out, _ := n.NormalizeBatch([]patent.Record{{
		ApplicationNumber: "QA2021004",
		Title:             "Membrane distillation",
		Abstract:          strings.Repeat("a", 1999) + "éxxx",
	}})
	require.Len(t, out, 1)
	assert.True(t, utf8.ValidString(out[0].Abstract))
	assert.Equal(t, 2000, utf8.RuneCountInString(out[0].Abstract))
	assert.True(t, strings.HasSuffix(out[0].Abstract, "é"))
}

func TestNormalizeBatch_DateLeftAsIsWhenNotCompact(t *testing.T) {
	n := testNormalizer(t)

	out, _ := n.NormalizeBatch([]patent.Record{
		{ApplicationNumber: "A1", Title: "One", ApplicationDate: "2019-03-12"},
		{ApplicationNumber: "A2", Title: "Two", ApplicationDate: "2019"},
		{ApplicationNumber: "A3", Title: "Three", ApplicationDate: "12/03/2019"},
	})
	require.Len(t, out, 3)
	assert.Equal(t, "2019-03-12", out[0].ApplicationDate)
	assert.Equal(t, "2019", out[0].PatentYear)
	assert.Equal(t, "2019", out[1].ApplicationDate)
	assert.Equal(t, "2019", out[1].PatentYear)
	assert.Equal(t, "12/03/2019", out[2].ApplicationDate)
	assert.Equal(t, "12/0", out[2].PatentYear)
}

func TestStandardizeDataset_Idempotent(t *testing.T) {
	n := testNormalizer(t)

	dataset := []patent.Record{{
		ResourceID:        50000,
		ApplicationNumber: "QA2018001",
		Title:             "Membrane distillation unit",
		Applicants:        "QATAR FOUNDATION",
	}}

	n.StandardizeDataset(dataset)
	assert.Equal(t, "Qatar Foundation for Education, Science and Community Development", dataset[0].Applicants)

	first := dataset[0]
	n.StandardizeDataset(dataset)
	assert.Equal(t, first, dataset[0])
}
