package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/munistats/internal/extract"
	"github.com/sells-group/munistats/internal/fetch"
	"github.com/sells-group/munistats/internal/lookup"
	"github.com/sells-group/munistats/internal/model"
	"github.com/sells-group/munistats/internal/table"
)

// millageHeaderRows is the number of header rows above the data rows in the
// upstream millage tables.
const millageHeaderRows = 2

var millageColumns = []string{"code", "district", "tax_year", "mills", "land_mills"}

// MillageYears is the tax-year range to collect. Zero values resolve to the
// current tax year and the two prior.
type MillageYears struct {
	Start int
	End   int
}

// resolve fills zero values from the current year.
func (y MillageYears) resolve(now time.Time) (int, int) {
	start, end := y.Start, y.End
	if end == 0 {
		end = now.Year()
	}
	if start == 0 {
		start = end - 2
	}
	if start > end {
		start = end
	}
	return start, end
}

// MuniMillage scrapes the municipal millage table per tax year. The upstream
// table carries a sentinel county row alongside the municipalities; that row
// is split out into its own dataset file since county rates live in a
// separate namespace with no municipality code.
type MuniMillage struct {
	base  string
	years MillageYears
}

// NewMuniMillage creates the municipal millage dataset.
func NewMuniMillage(baseURL string, years MillageYears) *MuniMillage {
	return &MuniMillage{base: baseURL, years: years}
}

func (d *MuniMillage) Name() string     { return "millage_muni" }
func (d *MuniMillage) File() string     { return "millage_muni.csv" }
func (d *MuniMillage) Cadence() Cadence { return Annual }

// CountyFile is where the split-out county rows are persisted.
func (d *MuniMillage) CountyFile() string { return "millage_county.csv" }

func (d *MuniMillage) ShouldRun(now time.Time, lastRun *time.Time) bool {
	// New rates publish around the turn of the tax year; a monthly check
	// picks up late corrections without hammering the upstream.
	return monthlyDue(now, lastRun)
}

func (d *MuniMillage) Sync(ctx context.Context, client *fetch.Client, dataDir string, opts RunOpts) (*Result, error) {
	years := d.years
	if opts.StartYear != 0 {
		years.Start = opts.StartYear
	}
	if opts.EndYear != 0 {
		years.End = opts.EndYear
	}
	start, end := years.resolve(time.Now())

	var muniRows, countyRows []model.MillageRecord
	collected := 0

	ids := yearRange(start, end)
	_, err := collect(ctx, d.Name(), ids, func(ctx context.Context, year int) (struct{}, error) {
		url := fmt.Sprintf("%s/MillMuni.asp?Year=%d", d.base, year)
		doc, err := client.Document(ctx, url)
		if err != nil {
			return struct{}{}, err
		}
		for _, row := range parseMillageTable(doc, year) {
			collected++
			if lookup.NormalizeName(row.District) == lookup.NormalizeName(lookup.CountyLabel) {
				row.Code = ""
				row.District = lookup.CountyLabel
				countyRows = append(countyRows, row)
				continue
			}
			row.Code = lookup.CodeForName(row.District)
			muniRows = append(muniRows, row)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	written, err := mergeMillageFile(filepath.Join(dataDir, d.File()), muniRows, muniMillageKey)
	if err != nil {
		return nil, err
	}
	countyWritten, err := mergeMillageFile(filepath.Join(dataDir, d.CountyFile()), countyRows, countyMillageKey)
	if err != nil {
		return nil, err
	}

	return &Result{RowsCollected: collected, RowsWritten: written + countyWritten}, nil
}

// SchoolMillage scrapes the school district millage table per tax year.
type SchoolMillage struct {
	base  string
	years MillageYears
}

// NewSchoolMillage creates the school millage dataset.
func NewSchoolMillage(baseURL string, years MillageYears) *SchoolMillage {
	return &SchoolMillage{base: baseURL, years: years}
}

func (d *SchoolMillage) Name() string     { return "millage_school" }
func (d *SchoolMillage) File() string     { return "millage_school.csv" }
func (d *SchoolMillage) Cadence() Cadence { return Annual }

func (d *SchoolMillage) ShouldRun(now time.Time, lastRun *time.Time) bool {
	return monthlyDue(now, lastRun)
}

func (d *SchoolMillage) Sync(ctx context.Context, client *fetch.Client, dataDir string, opts RunOpts) (*Result, error) {
	years := d.years
	if opts.StartYear != 0 {
		years.Start = opts.StartYear
	}
	if opts.EndYear != 0 {
		years.End = opts.EndYear
	}
	start, end := years.resolve(time.Now())

	var rows []model.MillageRecord
	_, err := collect(ctx, d.Name(), yearRange(start, end), func(ctx context.Context, year int) (struct{}, error) {
		url := fmt.Sprintf("%s/MillSchool.asp?Year=%d", d.base, year)
		doc, err := client.Document(ctx, url)
		if err != nil {
			return struct{}{}, err
		}
		for _, row := range parseMillageTable(doc, year) {
			row.Code = lookup.SchoolCodeForName(row.District)
			rows = append(rows, row)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return nil, err
	}

	written, err := mergeMillageFile(filepath.Join(dataDir, d.File()), rows, muniMillageKey)
	if err != nil {
		return nil, err
	}
	return &Result{RowsCollected: len(rows), RowsWritten: written}, nil
}

// parseMillageTable maps each data row of the upstream rate table to a
// record: district name, rate in mills, and an optional separate land rate.
// Header rows are skipped by fixed count; rows with no district name or no
// parseable rate are discarded.
func parseMillageTable(doc *goquery.Document, year int) []model.MillageRecord {
	var out []model.MillageRecord
	doc.Find("table.millage-rates tr, table#millage tr").Each(func(i int, tr *goquery.Selection) {
		if i < millageHeaderRows {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < 2 {
			return
		}
		district := extract.CollapseSpace(cells.Eq(0).Text())
		mills := extract.CleanNumber(cells.Eq(1).Text())
		if district == "" || mills == nil {
			return
		}
		rec := model.MillageRecord{
			District: district,
			TaxYear:  year,
			Mills:    mills,
		}
		if cells.Length() > 2 {
			rec.LandMills = extract.CleanNumber(cells.Eq(2).Text())
		}
		out = append(out, rec)
	})
	return out
}

// muniMillageKey drops rows whose code never resolved; they cannot be
// joined against the other datasets.
func muniMillageKey(m model.MillageRecord) string {
	if m.Code == "" {
		return ""
	}
	return m.Key()
}

// countyMillageKey keys the code-less county rows by their constant label.
func countyMillageKey(m model.MillageRecord) string {
	return m.Key()
}

func mergeMillageFile(path string, fresh []model.MillageRecord, key func(model.MillageRecord) string) (int64, error) {
	existing, err := readMillage(path)
	if err != nil {
		return 0, err
	}
	merged := mergeReference(existing, fresh, key)
	if err := encodeMillage(merged).Write(path); err != nil {
		return 0, err
	}
	return int64(len(merged)), nil
}

func encodeMillage(recs []model.MillageRecord) *table.Table {
	t := table.New(millageColumns)
	for _, r := range recs {
		t.Append([]string{
			r.Code, r.District, fmt.Sprintf("%d", r.TaxYear),
			formatFloat(r.Mills), formatFloat(r.LandMills),
		})
	}
	return t
}

func readMillage(path string) ([]model.MillageRecord, error) {
	t, err := table.Read(path)
	if err != nil || t == nil {
		return nil, err
	}
	idx := t.ColumnIndex()
	recs := make([]model.MillageRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		recs = append(recs, model.MillageRecord{
			Code:      table.Cell(row, idx, "code"),
			District:  table.Cell(row, idx, "district"),
			TaxYear:   parseIntOr(table.Cell(row, idx, "tax_year"), 0),
			Mills:     parseFloat(table.Cell(row, idx, "mills")),
			LandMills: parseFloat(table.Cell(row, idx, "land_mills")),
		})
	}
	return recs, nil
}

func yearRange(start, end int) []int {
	years := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		years = append(years, y)
	}
	return years
}
