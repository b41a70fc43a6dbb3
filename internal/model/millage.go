package model

import "strconv"

// MillageRecord is one (district, tax year) millage rate. Municipal, school,
// and county rates live in separate datasets; the county row has no code,
// just its constant district label. LandMills is set only for the few
// municipalities taxing land and buildings at separate rates.
type MillageRecord struct {
	Code      string // municipality or school code; "" for the county row
	District  string
	TaxYear   int
	Mills     *float64
	LandMills *float64
}

// Key returns the natural dedupe key for reference-table merges. The county
// row falls back to its district label since it carries no code.
func (m MillageRecord) Key() string {
	k := m.Code
	if k == "" {
		k = m.District
	}
	return k + "|" + strconv.Itoa(m.TaxYear)
}
