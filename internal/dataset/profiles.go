package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/sells-group/munistats/internal/extract"
	"github.com/sells-group/munistats/internal/fetch"
	"github.com/sells-group/munistats/internal/lookup"
	"github.com/sells-group/munistats/internal/model"
	"github.com/sells-group/munistats/internal/table"
)

// deptInfoMarker is the embedded link label the profile pages append to the
// fire department cell.
const deptInfoMarker = "Department Info"

// valueSumTolerance is the absolute discrepancy (in dollars) tolerated
// between the certified all-real-estate figure and the sum of its parts
// before a warning is logged.
const valueSumTolerance = 1.0

var profileColumns = []string{
	"muni_code", "municipality", "council_district", "school_district",
	"school_code", "congressional_district", "state_senate_district",
	"state_house_district", "manager", "police_chief", "fire_chief",
	"ems_agency", "address", "phone", "website",
	"certified_taxable_value", "certified_exempt_value",
	"certified_purta_value", "certified_all_real_estate",
	"millage_year",
	"muni_millage_y0", "muni_millage_y1", "muni_millage_y2",
	"school_millage_y0", "school_millage_y1", "school_millage_y2",
}

// Profiles scrapes one profile page per municipality into the reference
// table muni_profiles.csv, keyed by municipality code.
type Profiles struct {
	base string
}

// NewProfiles creates the profiles dataset against the given base URL.
func NewProfiles(baseURL string) *Profiles {
	return &Profiles{base: baseURL}
}

func (d *Profiles) Name() string     { return "profiles" }
func (d *Profiles) File() string     { return "muni_profiles.csv" }
func (d *Profiles) Cadence() Cadence { return Monthly }

func (d *Profiles) ShouldRun(now time.Time, lastRun *time.Time) bool {
	return monthlyDue(now, lastRun)
}

func (d *Profiles) url(id int) string {
	return fmt.Sprintf("%s/MuniProfile.asp?muni=%d", d.base, id)
}

func (d *Profiles) Sync(ctx context.Context, client *fetch.Client, dataDir string, opts RunOpts) (*Result, error) {
	log := zap.L().With(zap.String("dataset", d.Name()))

	ids := opts.IDs
	if len(ids) == 0 {
		ids = lookup.IDs()
	}

	recs, err := collect(ctx, d.Name(), ids, func(ctx context.Context, id int) (model.ProfileRecord, error) {
		return d.build(ctx, client, id)
	})
	if err != nil {
		return nil, err
	}

	for _, r := range recs {
		if diff, ok := r.ValueDiscrepancy(); ok && diff > valueSumTolerance {
			log.Warn("certified value components do not sum to total",
				zap.String("muni_code", r.MuniCode),
				zap.String("municipality", r.Municipality),
				zap.Float64("discrepancy", diff),
			)
		}
	}

	path := filepath.Join(dataDir, d.File())
	existing, err := readProfiles(path)
	if err != nil {
		return nil, err
	}

	merged := mergeReference(existing, recs, func(p model.ProfileRecord) string {
		return p.MuniCode
	})

	if err := encodeProfiles(merged).Write(path); err != nil {
		return nil, err
	}

	return &Result{RowsCollected: len(recs), RowsWritten: int64(len(merged))}, nil
}

// build assembles one municipality's profile record. Each field extraction
// defaults independently; only a fetch or parse failure of the whole page
// drops the entity. An id outside the known range yields a record with the
// missing marker for name and code rather than a fault.
func (d *Profiles) build(ctx context.Context, client *fetch.Client, id int) (model.ProfileRecord, error) {
	var rec model.ProfileRecord

	m, known := lookup.ByID(id)
	if known {
		rec.MuniCode = m.Code
		rec.Municipality = m.Name
		rec.SchoolDistrict = m.SchoolDistrict
		rec.SchoolCode = m.SchoolCode
	}

	doc, err := client.Document(ctx, d.url(id))
	if err != nil {
		return rec, err
	}

	rec.CouncilDistrict = extract.Text(doc, extract.Label("County Council District"), "")
	rec.CongressionalDistrict = extract.Text(doc, extract.Label("Congressional District"), "")
	rec.StateSenateDistrict = extract.Text(doc, extract.Label("State Senate District"), "")
	rec.StateHouseDistrict = extract.Text(doc, extract.Label("State House District"), "")

	// The page's own school district rendering wins over the static table
	// when present; the code is re-resolved from it.
	if sd := extract.Text(doc, extract.Label("School District"), ""); sd != "" {
		rec.SchoolDistrict = sd
		if code := lookup.SchoolCodeForName(sd); code != "" {
			rec.SchoolCode = code
		}
	}

	rec.Manager = extract.Text(doc, extract.Label("Manager"), "")
	rec.PoliceChief = extract.Text(doc, extract.Label("Police Chief"), "")
	rec.FireChief = extract.TextTruncated(doc, extract.Label("Fire Chief"), deptInfoMarker, "")
	rec.EMSAgency = extract.Text(doc, extract.Label("EMS Agency"), "")
	rec.Address = extract.Text(doc, extract.Label("Address"), "")
	rec.Phone = extract.Text(doc, extract.Label("Phone"), "")
	rec.Website = extract.Text(doc, extract.Label("Website"), "")

	rec.CertifiedTaxableValue = extract.Number(doc, extract.LabelContains("Certified Taxable Value"))
	rec.CertifiedExemptValue = extract.Number(doc, extract.LabelContains("Certified Exempt Value"))
	rec.CertifiedPURTAValue = extract.Number(doc, extract.LabelContains("Certified PURTA Value"))
	rec.CertifiedAllRealEstate = extract.Number(doc, extract.LabelContains("All Real Estate"))

	d.extractMillageHistory(doc, &rec)

	rec.Normalize()
	return rec, nil
}

// extractMillageHistory reads the three-year millage table. The table has no
// label anchors beyond its row headers, so the cells are addressed by
// structural position: header row of years, then one row each of municipal
// and school rates.
func (d *Profiles) extractMillageHistory(doc *goquery.Document, rec *model.ProfileRecord) {
	if y := extract.Number(doc, extract.Path("table.millage tr:first-child th").Nth(1)); y != nil {
		rec.MillageYear = int(*y)
	}
	rec.MuniMillageY0 = extract.Number(doc, extract.Path("table.millage tr:nth-child(2) td:nth-child(2)"))
	rec.MuniMillageY1 = extract.Number(doc, extract.Path("table.millage tr:nth-child(2) td:nth-child(3)"))
	rec.MuniMillageY2 = extract.Number(doc, extract.Path("table.millage tr:nth-child(2) td:nth-child(4)"))
	rec.SchoolMillageY0 = extract.Number(doc, extract.Path("table.millage tr:nth-child(3) td:nth-child(2)"))
	rec.SchoolMillageY1 = extract.Number(doc, extract.Path("table.millage tr:nth-child(3) td:nth-child(3)"))
	rec.SchoolMillageY2 = extract.Number(doc, extract.Path("table.millage tr:nth-child(3) td:nth-child(4)"))
}

func encodeProfiles(recs []model.ProfileRecord) *table.Table {
	t := table.New(profileColumns)
	for _, r := range recs {
		year := ""
		if r.MillageYear != 0 {
			year = fmt.Sprintf("%d", r.MillageYear)
		}
		t.Append([]string{
			r.MuniCode, r.Municipality, r.CouncilDistrict, r.SchoolDistrict,
			r.SchoolCode, r.CongressionalDistrict, r.StateSenateDistrict,
			r.StateHouseDistrict, r.Manager, r.PoliceChief, r.FireChief,
			r.EMSAgency, r.Address, r.Phone, r.Website,
			formatFloat(r.CertifiedTaxableValue),
			formatFloat(r.CertifiedExemptValue),
			formatFloat(r.CertifiedPURTAValue),
			formatFloat(r.CertifiedAllRealEstate),
			year,
			formatFloat(r.MuniMillageY0), formatFloat(r.MuniMillageY1), formatFloat(r.MuniMillageY2),
			formatFloat(r.SchoolMillageY0), formatFloat(r.SchoolMillageY1), formatFloat(r.SchoolMillageY2),
		})
	}
	return t
}

func readProfiles(path string) ([]model.ProfileRecord, error) {
	t, err := table.Read(path)
	if err != nil || t == nil {
		return nil, err
	}
	idx := t.ColumnIndex()
	recs := make([]model.ProfileRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		cell := func(c string) string { return table.Cell(row, idx, c) }
		recs = append(recs, model.ProfileRecord{
			MuniCode:               cell("muni_code"),
			Municipality:           cell("municipality"),
			CouncilDistrict:        cell("council_district"),
			SchoolDistrict:         cell("school_district"),
			SchoolCode:             cell("school_code"),
			CongressionalDistrict:  cell("congressional_district"),
			StateSenateDistrict:    cell("state_senate_district"),
			StateHouseDistrict:     cell("state_house_district"),
			Manager:                cell("manager"),
			PoliceChief:            cell("police_chief"),
			FireChief:              cell("fire_chief"),
			EMSAgency:              cell("ems_agency"),
			Address:                cell("address"),
			Phone:                  cell("phone"),
			Website:                cell("website"),
			CertifiedTaxableValue:  parseFloat(cell("certified_taxable_value")),
			CertifiedExemptValue:   parseFloat(cell("certified_exempt_value")),
			CertifiedPURTAValue:    parseFloat(cell("certified_purta_value")),
			CertifiedAllRealEstate: parseFloat(cell("certified_all_real_estate")),
			MillageYear:            parseIntOr(cell("millage_year"), 0),
			MuniMillageY0:          parseFloat(cell("muni_millage_y0")),
			MuniMillageY1:          parseFloat(cell("muni_millage_y1")),
			MuniMillageY2:          parseFloat(cell("muni_millage_y2")),
			SchoolMillageY0:        parseFloat(cell("school_millage_y0")),
			SchoolMillageY1:        parseFloat(cell("school_millage_y1")),
			SchoolMillageY2:        parseFloat(cell("school_millage_y2")),
		})
	}
	return recs, nil
}
