package lookup

import "strings"

// SchoolDistrict describes one school district taxing body. Codes live in
// the 8xx namespace so they can never collide with municipality codes.
type SchoolDistrict struct {
	Name string
	Code string
}

// schoolDistricts covers every district that levies on county parcels,
// including the two that extend in from neighboring counties (Fort Cherry,
// Penn-Trafford).
var schoolDistricts = []SchoolDistrict{
	{"Allegheny Valley", "801"},
	{"Avonworth", "802"},
	{"Baldwin-Whitehall", "803"},
	{"Bethel Park", "804"},
	{"Brentwood", "805"},
	{"Carlynton", "806"},
	{"Chartiers Valley", "807"},
	{"Clairton City", "808"},
	{"Cornell", "809"},
	{"Deer Lakes", "810"},
	{"Duquesne City", "811"},
	{"East Allegheny", "812"},
	{"Elizabeth Forward", "813"},
	{"Fort Cherry", "814"},
	{"Fox Chapel Area", "815"},
	{"Gateway", "816"},
	{"Hampton", "817"},
	{"Highlands", "818"},
	{"Keystone Oaks", "819"},
	{"McKeesport Area", "820"},
	{"Montour", "821"},
	{"Moon Area", "822"},
	{"Mt. Lebanon", "823"},
	{"North Allegheny", "824"},
	{"North Hills", "825"},
	{"Northgate", "826"},
	{"Penn Hills", "827"},
	{"Penn-Trafford", "828"},
	{"Pine-Richland", "829"},
	{"Pittsburgh", "830"},
	{"Plum", "831"},
	{"Quaker Valley", "832"},
	{"Riverview", "833"},
	{"Shaler Area", "834"},
	{"South Allegheny", "835"},
	{"South Fayette", "836"},
	{"South Park", "837"},
	{"Steel Valley", "838"},
	{"Sto-Rox", "839"},
	{"Upper St. Clair", "840"},
	{"West Allegheny", "841"},
	{"West Jefferson Hills", "842"},
	{"West Mifflin Area", "843"},
	{"Wilkinsburg", "844"},
	{"Woodland Hills", "845"},
}

var schoolByNormName map[string]SchoolDistrict

func init() {
	schoolByNormName = make(map[string]SchoolDistrict, len(schoolDistricts))
	for _, sd := range schoolDistricts {
		schoolByNormName[NormalizeName(sd.Name)] = sd
	}
}

// SchoolDistricts returns every known school district. The returned slice is
// shared; callers must not modify it.
func SchoolDistricts() []SchoolDistrict {
	return schoolDistricts
}

// SchoolByName resolves a school district by name. The millage pages append
// suffixes like "School District" or "SD" which are stripped before lookup.
func SchoolByName(name string) (SchoolDistrict, bool) {
	norm := NormalizeName(name)
	for _, suffix := range []string{" SCHOOL DISTRICT", " SCHOOL DIST", " SD"} {
		norm = strings.TrimSuffix(norm, suffix)
	}
	sd, ok := schoolByNormName[norm]
	return sd, ok
}

// SchoolCodeForName returns the school district code for a name, or "" when
// the name cannot be resolved.
func SchoolCodeForName(name string) string {
	sd, ok := SchoolByName(name)
	if !ok {
		return ""
	}
	return sd.Code
}
