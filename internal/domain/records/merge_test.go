package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamaduzi123/ip/pkg/types/patent"
)

const testFloor = 50000

func testMergeEngine(t *testing.T) *MergeEngine {
	t.Helper()
	return NewMergeEngine(testNormalizer(t), testFloor)
}

func TestAppNumberKey(t *testing.T) {
	assert.Equal(t, "EP123A1", AppNumberKey("EP 123 A1"))
	assert.Equal(t, "EP123A1", AppNumberKey("ep.123-a1"))
	assert.Equal(t, "EP123A1", AppNumberKey("EP123A1"))
	assert.Empty(t, AppNumberKey("  "))
}

func TestTitleKey(t *testing.T) {
	assert.Equal(t, "widget", TitleKey("Widget"))

	long := make([]rune, 0, 150)
	for i := 0; i < 150; i++ {
		long = append(long, 'A')
	}
	key := TitleKey(string(long))
	assert.Len(t, []rune(key), 100)
}

func TestDeduplicate(t *testing.T) {
	batch := []patent.Record{
		{ApplicationNumber: "QA1", Title: "Widget"},
		{ApplicationNumber: "QA1", Title: "Other widget"}, // dup app number
		{ApplicationNumber: "QA2", Title: "WIDGET"},       // dup title key
		{ApplicationNumber: "QA3", Title: "Gadget"},
	}

	out, removed := Deduplicate(batch)
	require.Len(t, out, 2)
	assert.Equal(t, 2, removed)
	assert.Equal(t, "QA1", out[0].ApplicationNumber)
	assert.Equal(t, "QA3", out[1].ApplicationNumber)
}

func TestDeduplicate_StableOrder(t *testing.T) {
	batch := []patent.Record{
		{ApplicationNumber: "QA3", Title: "Three"},
		{ApplicationNumber: "QA1", Title: "One"},
		{ApplicationNumber: "QA2", Title: "Two"},
	}
	out, removed := Deduplicate(batch)
	assert.Zero(t, removed)
	require.Len(t, out, 3)
	assert.Equal(t, "QA3", out[0].ApplicationNumber)
	assert.Equal(t, "QA1", out[1].ApplicationNumber)
	assert.Equal(t, "QA2", out[2].ApplicationNumber)
}

func TestMerge_EmptyBatchIsNoOp(t *testing.T) {
	m := testMergeEngine(t)

	existing := []patent.Record{
		{ResourceID: 50000, ApplicationNumber: "QA1", Title: "Membrane distillation unit"},
		{ResourceID: 50001, ApplicationNumber: "QA2", Title: "Gas turbine blade coating"},
	}

	res := m.Merge(nil, existing)
	assert.Zero(t, res.NewCount)
	require.Len(t, res.Merged, 2)
	assert.Equal(t, int64(50000), res.Merged[0].ResourceID)
	assert.Equal(t, int64(50001), res.Merged[1].ResourceID)
}

func TestMerge_NormalizedKeysCollapseDuplicates(t *testing.T) {
	m := testMergeEngine(t)

	// Raw application numbers differ, so the batch deduplicator alone would
	// not catch the pair if the titles differed; the merge key comparison
	// must.
	batch := []patent.Record{
		{ApplicationNumber: "EP 123 A1", Title: "Widget"},
		{ApplicationNumber: "EP123A1", Title: "Widget variant two"},
	}

	res := m.Merge(batch, nil)
	assert.Equal(t, 1, res.NewCount)
	require.Len(t, res.Merged, 1)
	assert.Equal(t, "EP 123 A1", res.Merged[0].ApplicationNumber)
}

func TestMerge_EitherKeyMeansDuplicate(t *testing.T) {
	m := testMergeEngine(t)

	existing := []patent.Record{
		{ResourceID: 50000, ApplicationNumber: "QA100", Title: "Solar desalination membrane"},
	}

	// Same normalized app number, different title.
	res := m.Merge([]patent.Record{
		{ApplicationNumber: "qa-100", Title: "Completely different title"},
	}, existing)
	assert.Zero(t, res.NewCount)
	assert.Len(t, res.Merged, 1)

	// Same title key, different app number.
	res = m.Merge([]patent.Record{
		{ApplicationNumber: "QA999", Title: "SOLAR DESALINATION MEMBRANE"},
	}, existing)
	assert.Zero(t, res.NewCount)
	assert.Len(t, res.Merged, 1)
}

func TestMerge_ResourceIDSequence(t *testing.T) {
	m := testMergeEngine(t)

	existing := []patent.Record{
		{ResourceID: 50007, ApplicationNumber: "QA1", Title: "One"},
		{ResourceID: 50003, ApplicationNumber: "QA2", Title: "Two"},
	}
	batch := []patent.Record{
		{ApplicationNumber: "QA3", Title: "Three"},
		{ApplicationNumber: "QA4", Title: "Four"},
	}

	res := m.Merge(batch, existing)
	require.Equal(t, 2, res.NewCount)
	require.Len(t, res.Merged, 4)

	// New IDs continue from the maximum, not from the last row.
	assert.Equal(t, int64(50008), res.Merged[2].ResourceID)
	assert.Equal(t, int64(50009), res.Merged[3].ResourceID)

	// Existing IDs are never reassigned.
	assert.Equal(t, int64(50007), res.Merged[0].ResourceID)
	assert.Equal(t, int64(50003), res.Merged[1].ResourceID)
}

func TestMerge_SecondMergeAddsNothing(t *testing.T) {
	m := testMergeEngine(t)

	batch := []patent.Record{
		{ApplicationNumber: "QA1", Title: "Membrane distillation unit", Applicants: "QATAR FOUNDATION"},
		{ApplicationNumber: "QA2", Title: "Gas turbine blade coating", Applicants: "Qatar University [QA]"},
	}

	first := m.Merge(batch, nil)
	require.Equal(t, 2, first.NewCount)

	second := m.Merge(batch, first.Merged)
	assert.Zero(t, second.NewCount)
	assert.Len(t, second.Merged, 2)
	assert.Equal(t, first.Merged, second.Merged)
}

func TestMerge_ExistingSideRenormalized(t *testing.T) {
	m := testMergeEngine(t)

	existing := []patent.Record{{
		ResourceID:        50000,
		ApplicationNumber: "QA1",
		Title:             "Membrane distillation unit",
		Applicants:        "QATAR FOUND. FOR EDUCATION, SCIENCE",
	}}

	res := m.Merge(nil, existing)
	require.Len(t, res.Merged, 1)
	assert.Equal(t,
		"Qatar Foundation for Education, Science and Community Development",
		res.Merged[0].Applicants)
	assert.Positive(t, res.NamesStandardized)
}

func TestMerge_EndToEnd(t *testing.T) {
	n := testNormalizer(t)
	m := testMergeEngine(t)

	raw := []patent.Record{{
		ApplicationNumber: "QA202000123",
		ApplicationDate:   "20200115",
		Title:             "Method for solar-driven water desalination",
		Applicants:        "QATAR FOUND. FOR EDUCATION, SCIENCE",
	}}

	normalized, stats := n.NormalizeBatch(raw)
	require.Len(t, normalized, 1)
	assert.Equal(t, 1, stats.NamesStandardized)

	deduped, removed := Deduplicate(normalized)
	assert.Zero(t, removed)

	res := m.Merge(deduped, nil)
	assert.Equal(t, 1, res.NewCount)
	require.Len(t, res.Merged, 1)

	rec := res.Merged[0]
	assert.Equal(t, int64(testFloor), rec.ResourceID)
	assert.Equal(t,
		"Qatar Foundation for Education, Science and Community Development",
		rec.Applicants)
	assert.Equal(t, "2020-01-15", rec.ApplicationDate)
	assert.Equal(t, "2020", rec.PatentYear)
}
