package records

import "github.com/Hamaduzi123/ip/pkg/types/patent"

// Deduplicate removes in-batch duplicates in two sequential passes, each
// keeping the first occurrence: pass 1 keys on the verbatim ApplicationNumber
// and pass 2 keys on the normalized title prefix. A record surviving pass 1
// can still fall to pass 2 (same invention filed under different numbers).
// Survivor order is the original batch order. The second return is the
// number of records removed.
func Deduplicate(batch []patent.Record) ([]patent.Record, int) {
	byApp := filterFirst(batch, func(r patent.Record) string {
		return r.ApplicationNumber
	})
	byTitle := filterFirst(byApp, func(r patent.Record) string {
		return TitleKey(r.Title)
	})
	return byTitle, len(batch) - len(byTitle)
}

// filterFirst is a stable first-occurrence-wins filter on key(rec).
func filterFirst(batch []patent.Record, key func(patent.Record) string) []patent.Record {
	seen := make(map[string]struct{}, len(batch))
	out := make([]patent.Record, 0, len(batch))
	for _, rec := range batch {
		k := key(rec)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, rec)
	}
	return out
}
