package model

// RealEstateSnapshot is one weekly observation of a municipality's certified
// real-estate values. SnapshotWeek is the ISO date of the Friday anchoring
// the week the scrape ran in; AsOfDate is the assessment date published on
// the page. Derived change metrics are recomputed over the whole series
// after every merge, so they are never trusted from a previous file.
type RealEstateSnapshot struct {
	MuniCode     string
	Municipality string
	SnapshotWeek string // YYYY-MM-DD, Friday
	AsOfDate     string // YYYY-MM-DD

	TaxableValue           *float64
	ExemptValue            *float64
	PURTAValue             *float64
	AllValue               *float64
	MedianResidentialValue *float64

	WoWChange *float64
	WoWPct    *float64
	YTDChange *float64
	YTDPct    *float64
}

// Key returns the natural dedupe key: one row per (municipality, week).
func (r RealEstateSnapshot) Key() string {
	return r.Municipality + "|" + r.SnapshotWeek
}

// Year returns the calendar year of the snapshot week, or 0 when the week is
// missing or malformed.
func (r RealEstateSnapshot) Year() int {
	if len(r.SnapshotWeek) < 4 {
		return 0
	}
	y := 0
	for _, c := range r.SnapshotWeek[:4] {
		if c < '0' || c > '9' {
			return 0
		}
		y = y*10 + int(c-'0')
	}
	return y
}
