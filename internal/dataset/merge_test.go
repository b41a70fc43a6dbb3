package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/munistats/internal/model"
)

func TestMergeReference_NewWins(t *testing.T) {
	existing := []model.MillageRecord{
		{Code: "001", District: "Aleppo Township", TaxYear: 2026, Mills: f(3.73)},
		{Code: "002", District: "Aspinwall", TaxYear: 2026, Mills: f(5.0)},
	}
	fresh := []model.MillageRecord{
		{Code: "001", District: "Aleppo Township", TaxYear: 2026, Mills: f(4.0)},
		{Code: "003", District: "Avalon", TaxYear: 2026, Mills: f(9.73)},
	}

	merged := mergeReference(existing, fresh, muniMillageKey)

	require.Len(t, merged, 3)
	assert.Equal(t, "001", merged[0].Code)
	assert.InDelta(t, 4.0, *merged[0].Mills, 1e-9, "fresh row supersedes the stale one")
	assert.Equal(t, "002", merged[1].Code)
	assert.Equal(t, "003", merged[2].Code)
}

func TestMergeReference_DropsEmptyKeys(t *testing.T) {
	fresh := []model.MillageRecord{
		{Code: "", District: "Unknown Township", TaxYear: 2026, Mills: f(1.0)},
		{Code: "001", District: "Aleppo Township", TaxYear: 2026, Mills: f(4.0)},
	}

	merged := mergeReference(nil, fresh, muniMillageKey)

	require.Len(t, merged, 1)
	assert.Equal(t, "001", merged[0].Code)
}

func TestMergeReference_Idempotent(t *testing.T) {
	fresh := []model.MillageRecord{
		{Code: "002", District: "Aspinwall", TaxYear: 2026, Mills: f(5.0)},
		{Code: "001", District: "Aleppo Township", TaxYear: 2026, Mills: f(4.0)},
	}

	once := mergeReference(nil, fresh, muniMillageKey)
	twice := mergeReference(once, fresh, muniMillageKey)

	assert.Equal(t, once, twice)
	assert.Equal(t, "001", once[0].Code, "output sorted by key")
}

func TestParseTimeSeriesPolicy(t *testing.T) {
	assert.Equal(t, ReplacePeriod, ParseTimeSeriesPolicy("replace"))
	assert.Equal(t, SkipPeriod, ParseTimeSeriesPolicy("skip"))
	assert.Equal(t, ReplacePeriod, ParseTimeSeriesPolicy(""))
	assert.Equal(t, ReplacePeriod, ParseTimeSeriesPolicy("bogus"))
}

func TestMergeSnapshots_ReplacePeriod(t *testing.T) {
	existing := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-02", TaxableValue: f(100000)},
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(101000)},
	}
	fresh := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
	}

	merged := mergeSnapshots(existing, fresh, "2026-01-09", ReplacePeriod)

	require.Len(t, merged, 2, "one row per municipality and week")
	assert.Equal(t, "2026-01-02", merged[0].SnapshotWeek)
	assert.Equal(t, "2026-01-09", merged[1].SnapshotWeek)
	assert.InDelta(t, 105000.0, *merged[1].TaxableValue, 1e-9, "re-scrape replaces the week")
}

func TestMergeSnapshots_ReplacePeriodPartialBatch(t *testing.T) {
	existing := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(101000)},
		{Municipality: "Braddock", SnapshotWeek: "2026-01-09", TaxableValue: f(50000)},
	}
	// a re-run of the same week in which Braddock's fetch failed
	fresh := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
	}

	merged := mergeSnapshots(existing, fresh, "2026-01-09", ReplacePeriod)

	// the period is replaced wholesale: only this run's rows remain for it
	require.Len(t, merged, 1)
	assert.Equal(t, "Avalon", merged[0].Municipality)
	assert.InDelta(t, 105000.0, *merged[0].TaxableValue, 1e-9)
}

func TestMergeSnapshots_DedupesOnKey(t *testing.T) {
	fresh := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(101000)},
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
	}

	merged := mergeSnapshots(nil, fresh, "2026-01-09", ReplacePeriod)

	require.Len(t, merged, 1, "one row per municipality and week")
	assert.InDelta(t, 105000.0, *merged[0].TaxableValue, 1e-9, "the later duplicate wins")
}

func TestMergeSnapshots_SkipPeriod(t *testing.T) {
	existing := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(101000)},
	}
	fresh := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
	}

	merged := mergeSnapshots(existing, fresh, "2026-01-09", SkipPeriod)

	require.Len(t, merged, 1)
	assert.InDelta(t, 101000.0, *merged[0].TaxableValue, 1e-9, "existing week is kept")
}

func TestMergeSnapshots_SkipPeriodNewWeek(t *testing.T) {
	existing := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-02", TaxableValue: f(100000)},
	}
	fresh := []model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
	}

	merged := mergeSnapshots(existing, fresh, "2026-01-09", SkipPeriod)
	assert.Len(t, merged, 2, "skip only applies to an already-present period")
}

func TestRecomputeDerived_WoW(t *testing.T) {
	rows := recomputeDerived([]model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
		{Municipality: "Avalon", SnapshotWeek: "2026-01-02", TaxableValue: f(100000)},
	})

	require.Len(t, rows, 2)
	first, second := rows[0], rows[1]

	assert.Nil(t, first.WoWChange, "no prior observation")
	assert.Nil(t, first.WoWPct)

	require.NotNil(t, second.WoWChange)
	assert.InDelta(t, 5000.0, *second.WoWChange, 1e-9)
	require.NotNil(t, second.WoWPct)
	assert.InDelta(t, 5.0, *second.WoWPct, 1e-9)
}

func TestRecomputeDerived_YTD(t *testing.T) {
	rows := recomputeDerived([]model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-02", TaxableValue: f(100000)},
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
		{Municipality: "Avalon", SnapshotWeek: "2026-01-16", TaxableValue: f(110000)},
		{Municipality: "Avalon", SnapshotWeek: "2027-01-08", TaxableValue: f(120000)},
	})

	require.NotNil(t, rows[2].YTDChange)
	assert.InDelta(t, 10000.0, *rows[2].YTDChange, 1e-9, "relative to the year's first observation")
	assert.InDelta(t, 10.0, *rows[2].YTDPct, 1e-9)

	require.NotNil(t, rows[3].YTDChange)
	assert.InDelta(t, 0.0, *rows[3].YTDChange, 1e-9, "the year baseline resets")
}

func TestRecomputeDerived_MissingAndZeroBase(t *testing.T) {
	rows := recomputeDerived([]model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-02", TaxableValue: nil},
		{Municipality: "Avalon", SnapshotWeek: "2026-01-09", TaxableValue: f(105000)},
		{Municipality: "Braddock", SnapshotWeek: "2026-01-02", TaxableValue: f(0)},
		{Municipality: "Braddock", SnapshotWeek: "2026-01-09", TaxableValue: f(50)},
	})

	// missing prior value yields missing change metrics, not a fault
	assert.Nil(t, rows[1].WoWChange)
	assert.Nil(t, rows[1].WoWPct)

	// zero base: absolute change defined, percentage not
	require.NotNil(t, rows[3].WoWChange)
	assert.InDelta(t, 50.0, *rows[3].WoWChange, 1e-9)
	assert.Nil(t, rows[3].WoWPct)
}

func TestRecomputeDerived_PerMunicipality(t *testing.T) {
	rows := recomputeDerived([]model.RealEstateSnapshot{
		{Municipality: "Avalon", SnapshotWeek: "2026-01-02", TaxableValue: f(100000)},
		{Municipality: "Braddock", SnapshotWeek: "2026-01-09", TaxableValue: f(50000)},
	})

	assert.Nil(t, rows[1].WoWChange, "series never crosses a municipality boundary")
}

func TestSnapshotWeek(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday", time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), "2026-01-09"},
		{"wednesday", time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), "2026-01-09"},
		{"friday", time.Date(2026, 1, 9, 23, 0, 0, 0, time.UTC), "2026-01-09"},
		{"sunday", time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC), "2026-01-09"},
		{"next monday", time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), "2026-01-16"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SnapshotWeek(tt.in))
		})
	}
}

func f(v float64) *float64 {
	return &v
}
