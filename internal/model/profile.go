// Package model defines the record shapes persisted by the scrape datasets.
// Every field an upstream page may omit is nullable: *float64 for numbers,
// "" for text. The missing marker survives into the CSV files as an empty
// cell.
package model

import "strings"

// ProfileRecord is one row of the municipal profile dataset, keyed by
// municipality code. Millage fields are relative to MillageYear: Y0 is the
// current tax year, Y1 and Y2 the two prior years, matching the three-year
// table on the profile page.
type ProfileRecord struct {
	MuniCode              string
	Municipality          string
	CouncilDistrict       string
	SchoolDistrict        string
	SchoolCode            string
	CongressionalDistrict string
	StateSenateDistrict   string
	StateHouseDistrict    string

	Manager     string
	PoliceChief string
	FireChief   string
	EMSAgency   string
	Address     string
	Phone       string
	Website     string

	CertifiedTaxableValue  *float64
	CertifiedExemptValue   *float64
	CertifiedPURTAValue    *float64
	CertifiedAllRealEstate *float64

	MillageYear     int
	MuniMillageY0   *float64
	MuniMillageY1   *float64
	MuniMillageY2   *float64
	SchoolMillageY0 *float64
	SchoolMillageY1 *float64
	SchoolMillageY2 *float64
}

// textFields returns pointers to every free-text field for the post-assembly
// normalization pass.
func (p *ProfileRecord) textFields() []*string {
	return []*string{
		&p.Municipality, &p.CouncilDistrict, &p.SchoolDistrict,
		&p.CongressionalDistrict, &p.StateSenateDistrict, &p.StateHouseDistrict,
		&p.Manager, &p.PoliceChief, &p.FireChief, &p.EMSAgency,
		&p.Address, &p.Phone, &p.Website,
	}
}

// Normalize trims every text field, strips stray pipe characters left by the
// upstream markup, and coerces whitespace-only values to the missing marker.
func (p *ProfileRecord) Normalize() {
	for _, f := range p.textFields() {
		*f = cleanText(*f)
	}
}

// ValueDiscrepancy returns the absolute difference between the certified
// all-real-estate figure and the sum of its three components, and whether
// all four figures were present. The source never validates this sum, so it
// is surfaced as a soft check rather than enforced.
func (p *ProfileRecord) ValueDiscrepancy() (float64, bool) {
	if p.CertifiedAllRealEstate == nil || p.CertifiedTaxableValue == nil ||
		p.CertifiedExemptValue == nil || p.CertifiedPURTAValue == nil {
		return 0, false
	}
	sum := *p.CertifiedTaxableValue + *p.CertifiedExemptValue + *p.CertifiedPURTAValue
	diff := *p.CertifiedAllRealEstate - sum
	if diff < 0 {
		diff = -diff
	}
	return diff, true
}

// cleanText collapses whitespace runs to single spaces, removes literal pipe
// characters, and trims. Empty or whitespace-only input becomes "".
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "|", " ")
	return strings.Join(strings.Fields(s), " ")
}
