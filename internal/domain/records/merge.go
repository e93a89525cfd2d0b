package records

import "github.com/Hamaduzi123/ip/pkg/types/patent"

// MergeEngine reconciles a normalized, deduplicated batch against the
// existing master dataset. Existing rows keep their order and ResourceIDs;
// truly-new rows are appended with freshly minted IDs.
type MergeEngine struct {
	norm *Normalizer

	// floor is the ResourceID of the first record ever merged into an
	// empty dataset. Later records continue from max existing + 1.
	floor int64
}

// NewMergeEngine builds a MergeEngine. floor is the ResourceID assigned to
// the first record of an otherwise empty dataset.
func NewMergeEngine(norm *Normalizer, floor int64) *MergeEngine {
	return &MergeEngine{norm: norm, floor: floor}
}

// Normalizer exposes the engine's normalizer so callers run incoming
// batches through the same standardization rules the merge applies.
func (m *MergeEngine) Normalizer() *Normalizer {
	return m.norm
}

// MergeResult carries the outcome of one Merge call.
type MergeResult struct {
	// Merged is the updated dataset: existing rows first, then the
	// truly-new rows in batch order.
	Merged []patent.Record

	// NewCount is the number of truly-new records appended.
	NewCount int

	// NamesStandardized counts canonical-table hits across the existing-side
	// re-normalization and the final defensive pass.
	NamesStandardized int
}

// Merge reconciles batch against existing. The existing side is re-run
// through name standardization first, so legacy rows converge to the current
// rule table before keys are compared. This makes Merge idempotent: merging
// the same batch twice, or an empty batch into any dataset, changes nothing.
//
// A batch record is truly new iff neither its normalized application-number
// key nor its normalized title key is already present, on either the
// existing side or among the truly-new records accepted so far. Matching on
// either single key is enough to call it a duplicate: the same invention
// re-filed under a new number still matches by title, and the same filing
// re-titled still matches by number.
func (m *MergeEngine) Merge(batch, existing []patent.Record) MergeResult {
	res := MergeResult{}

	res.NamesStandardized += m.norm.StandardizeDataset(existing)

	appKeys := make(map[string]struct{}, len(existing))
	titleKeys := make(map[string]struct{}, len(existing))
	var maxID int64
	for i := range existing {
		if k := AppNumberKey(existing[i].ApplicationNumber); k != "" {
			appKeys[k] = struct{}{}
		}
		if k := TitleKey(existing[i].Title); k != "" {
			titleKeys[k] = struct{}{}
		}
		if existing[i].ResourceID > maxID {
			maxID = existing[i].ResourceID
		}
	}

	nextID := m.floor
	if len(existing) > 0 {
		nextID = maxID + 1
	}

	trulyNew := make([]patent.Record, 0, len(batch))
	for _, rec := range batch {
		appKey := AppNumberKey(rec.ApplicationNumber)
		titleKey := TitleKey(rec.Title)

		if _, dup := appKeys[appKey]; dup {
			continue
		}
		if _, dup := titleKeys[titleKey]; dup {
			continue
		}

		rec.ResourceID = nextID
		nextID++
		appKeys[appKey] = struct{}{}
		titleKeys[titleKey] = struct{}{}
		trulyNew = append(trulyNew, rec)
	}

	merged := make([]patent.Record, 0, len(existing)+len(trulyNew))
	merged = append(merged, existing...)
	merged = append(merged, trulyNew...)

	// Defensive final pass so the persisted dataset is uniformly canonical
	// even when a rule fired differently on the two sides.
	res.NamesStandardized += m.norm.StandardizeDataset(merged)

	res.Merged = merged
	res.NewCount = len(trulyNew)
	return res
}
