package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/munistats/internal/extract"
	"github.com/sells-group/munistats/internal/fetch"
	"github.com/sells-group/munistats/internal/lookup"
	"github.com/sells-group/munistats/internal/model"
	"github.com/sells-group/munistats/internal/table"
)

var realEstateColumns = []string{
	"muni_code", "municipality", "snapshot_week", "as_of_date",
	"taxable_value", "exempt_value", "purta_value", "all_value",
	"median_residential_value",
	"wow_change", "wow_pct", "ytd_change", "ytd_pct",
}

// RealEstate scrapes certified real-estate values per municipality into a
// weekly time series. Rows accumulate across runs; re-scraping within the
// same snapshot week replaces that week's rows under the default policy.
type RealEstate struct {
	base   string
	policy TimeSeriesPolicy
}

// NewRealEstate creates the real-estate dataset with the given
// duplicate-period policy.
func NewRealEstate(baseURL string, policy TimeSeriesPolicy) *RealEstate {
	return &RealEstate{base: baseURL, policy: policy}
}

func (d *RealEstate) Name() string     { return "realestate" }
func (d *RealEstate) File() string     { return "real_estate_weekly.csv" }
func (d *RealEstate) Cadence() Cadence { return Weekly }

func (d *RealEstate) ShouldRun(now time.Time, lastRun *time.Time) bool {
	return weeklyDue(now, lastRun)
}

func (d *RealEstate) url(id int) string {
	return fmt.Sprintf("%s/RealEstate.asp?muni=%d", d.base, id)
}

func (d *RealEstate) Sync(ctx context.Context, client *fetch.Client, dataDir string, opts RunOpts) (*Result, error) {
	log := zap.L().With(zap.String("dataset", d.Name()))

	ids := opts.IDs
	if len(ids) == 0 {
		ids = lookup.IDs()
	}

	week := SnapshotWeek(time.Now())

	// The as-of date is identical across all municipality pages in a run,
	// so it is sampled once from the first entity rather than re-read 130
	// times.
	asOf := d.sampleAsOfDate(ctx, client, ids[0])
	if asOf == "" {
		asOf = time.Now().Format("2006-01-02")
		log.Warn("as-of date not found on sample page, using run date",
			zap.String("as_of", asOf),
		)
	}

	recs, err := collect(ctx, d.Name(), ids, func(ctx context.Context, id int) (model.RealEstateSnapshot, error) {
		return d.build(ctx, client, id, week, asOf)
	})
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dataDir, d.File())
	existing, err := readSnapshots(path)
	if err != nil {
		return nil, err
	}

	merged := mergeSnapshots(existing, recs, week, d.policy)

	if err := encodeSnapshots(merged).Write(path); err != nil {
		return nil, err
	}

	return &Result{RowsCollected: len(recs), RowsWritten: int64(len(merged))}, nil
}

// sampleAsOfDate pulls the published assessment date from one
// representative page. A failed sample is not fatal; the caller falls back
// to the run date.
func (d *RealEstate) sampleAsOfDate(ctx context.Context, client *fetch.Client, id int) string {
	doc, err := client.Document(ctx, d.url(id))
	if err != nil {
		return ""
	}
	return extract.Date(doc, extract.LabelContains("Values as of"))
}

func (d *RealEstate) build(ctx context.Context, client *fetch.Client, id int, week, asOf string) (model.RealEstateSnapshot, error) {
	rec := model.RealEstateSnapshot{
		SnapshotWeek: week,
		AsOfDate:     asOf,
	}

	m, known := lookup.ByID(id)
	if known {
		rec.MuniCode = m.Code
		rec.Municipality = m.Name
	}

	doc, err := client.Document(ctx, d.url(id))
	if err != nil {
		return rec, err
	}

	rec.TaxableValue = extract.Number(doc, extract.LabelContains("Certified Taxable Value"))
	rec.ExemptValue = extract.Number(doc, extract.LabelContains("Certified Exempt Value"))
	rec.PURTAValue = extract.Number(doc, extract.LabelContains("Certified PURTA Value"))
	rec.AllValue = extract.Number(doc, extract.LabelContains("All Real Estate"))
	rec.MedianResidentialValue = extract.Number(doc, extract.LabelContains("Median Residential Value"))

	return rec, nil
}

func encodeSnapshots(recs []model.RealEstateSnapshot) *table.Table {
	t := table.New(realEstateColumns)
	for _, r := range recs {
		t.Append([]string{
			r.MuniCode, r.Municipality, r.SnapshotWeek, r.AsOfDate,
			formatFloat(r.TaxableValue), formatFloat(r.ExemptValue),
			formatFloat(r.PURTAValue), formatFloat(r.AllValue),
			formatFloat(r.MedianResidentialValue),
			formatFloat(r.WoWChange), formatFloat(r.WoWPct),
			formatFloat(r.YTDChange), formatFloat(r.YTDPct),
		})
	}
	return t
}

func readSnapshots(path string) ([]model.RealEstateSnapshot, error) {
	t, err := table.Read(path)
	if err != nil || t == nil {
		return nil, err
	}
	idx := t.ColumnIndex()
	recs := make([]model.RealEstateSnapshot, 0, len(t.Rows))
	for _, row := range t.Rows {
		cell := func(c string) string { return table.Cell(row, idx, c) }
		recs = append(recs, model.RealEstateSnapshot{
			MuniCode:               cell("muni_code"),
			Municipality:           cell("municipality"),
			SnapshotWeek:           cell("snapshot_week"),
			AsOfDate:               cell("as_of_date"),
			TaxableValue:           parseFloat(cell("taxable_value")),
			ExemptValue:            parseFloat(cell("exempt_value")),
			PURTAValue:             parseFloat(cell("purta_value")),
			AllValue:               parseFloat(cell("all_value")),
			MedianResidentialValue: parseFloat(cell("median_residential_value")),
			WoWChange:              parseFloat(cell("wow_change")),
			WoWPct:                 parseFloat(cell("wow_pct")),
			YTDChange:              parseFloat(cell("ytd_change")),
			YTDPct:                 parseFloat(cell("ytd_pct")),
		})
	}
	return recs, nil
}
