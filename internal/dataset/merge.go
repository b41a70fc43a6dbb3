package dataset

import (
	"math"
	"sort"
	"time"

	"github.com/sells-group/munistats/internal/model"
)

// mergeReference reconciles a fresh batch against persisted history under
// reference-table semantics: concatenate, dedupe by natural key keeping the
// last-seen record (the new batch supersedes stale rows for identical keys),
// drop rows whose key could not be resolved, and sort by key for a
// deterministic file.
func mergeReference[T any](existing, fresh []T, key func(T) string) []T {
	out := make([]T, 0, len(existing)+len(fresh))
	seen := make(map[string]int, len(existing)+len(fresh))

	for _, rec := range append(append([]T{}, existing...), fresh...) {
		k := key(rec)
		if k == "" {
			continue // unresolvable join key; unmigrated legacy row
		}
		if i, ok := seen[k]; ok {
			out[i] = rec
			continue
		}
		seen[k] = len(out)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]) < key(out[j])
	})
	return out
}

// TimeSeriesPolicy selects duplicate-period handling for time-series merges.
type TimeSeriesPolicy string

const (
	// ReplacePeriod removes any existing rows for the current period before
	// appending the fresh batch. Canonical for the weekly series.
	ReplacePeriod TimeSeriesPolicy = "replace"

	// SkipPeriod discards the fresh batch entirely when the period is
	// already present, leaving the file untouched. Superseded behavior,
	// kept selectable for datasets that must never rewrite history.
	SkipPeriod TimeSeriesPolicy = "skip"
)

// ParseTimeSeriesPolicy maps a config string to a policy, defaulting to
// ReplacePeriod.
func ParseTimeSeriesPolicy(s string) TimeSeriesPolicy {
	if s == string(SkipPeriod) {
		return SkipPeriod
	}
	return ReplacePeriod
}

// mergeSnapshots reconciles a fresh weekly batch against the persisted
// series for the given period key. Under ReplacePeriod every persisted row
// for the period is discarded before the fresh batch lands, so an entity
// that fails in a re-run loses its earlier row for that week; the file
// reflects the latest complete picture of the period. After the merge, rows
// are deduped on their (municipality, week) key keeping the last occurrence
// and all derived metrics are recomputed.
func mergeSnapshots(existing, fresh []model.RealEstateSnapshot, period string, policy TimeSeriesPolicy) []model.RealEstateSnapshot {
	if policy == SkipPeriod {
		for _, r := range existing {
			if r.SnapshotWeek == period {
				return recomputeDerived(existing)
			}
		}
	}

	merged := make([]model.RealEstateSnapshot, 0, len(existing)+len(fresh))
	for _, r := range existing {
		if r.SnapshotWeek == period {
			continue // superseded by this run
		}
		merged = append(merged, r)
	}
	merged = append(merged, fresh...)

	seen := make(map[string]int, len(merged))
	deduped := make([]model.RealEstateSnapshot, 0, len(merged))
	for _, r := range merged {
		k := r.Key()
		if i, ok := seen[k]; ok {
			deduped[i] = r
			continue
		}
		seen[k] = len(deduped)
		deduped = append(deduped, r)
	}

	return recomputeDerived(deduped)
}

// recomputeDerived sorts the series and recomputes week-over-week and
// year-to-date change metrics per municipality over the full merged series.
// Non-finite results (missing or zero prior values) are coerced to missing.
func recomputeDerived(rows []model.RealEstateSnapshot) []model.RealEstateSnapshot {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Municipality != rows[j].Municipality {
			return rows[i].Municipality < rows[j].Municipality
		}
		return rows[i].SnapshotWeek < rows[j].SnapshotWeek
	})

	var prev *model.RealEstateSnapshot
	yearFirst := map[int]*float64{} // first taxable observation per year, current muni

	for i := range rows {
		r := &rows[i]
		if prev == nil || prev.Municipality != r.Municipality {
			prev = nil
			yearFirst = map[int]*float64{}
		}

		r.WoWChange, r.WoWPct = nil, nil
		r.YTDChange, r.YTDPct = nil, nil

		if prev != nil && prev.TaxableValue != nil && r.TaxableValue != nil {
			r.WoWChange = diff(*r.TaxableValue, *prev.TaxableValue)
			r.WoWPct = pct(*r.TaxableValue, *prev.TaxableValue)
		}

		year := r.Year()
		if year != 0 {
			first, ok := yearFirst[year]
			if !ok {
				yearFirst[year] = r.TaxableValue
				first = r.TaxableValue
			}
			if first != nil && r.TaxableValue != nil {
				r.YTDChange = diff(*r.TaxableValue, *first)
				r.YTDPct = pct(*r.TaxableValue, *first)
			}
		}

		prev = r
	}
	return rows
}

func diff(cur, base float64) *float64 {
	d := cur - base
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return nil
	}
	return &d
}

func pct(cur, base float64) *float64 {
	if base == 0 {
		return nil
	}
	p := (cur - base) / base * 100
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return nil
	}
	return &p
}

// SnapshotWeek returns the ISO date of the Friday anchoring t's ISO week,
// the period key for the weekly series.
func SnapshotWeek(t time.Time) string {
	iso := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, 4-iso).Format("2006-01-02")
}
