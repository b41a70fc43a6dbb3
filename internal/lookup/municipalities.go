// Package lookup holds the static municipality and school district tables
// used to resolve entity identifiers, codes, and names. The upstream profile
// pages are addressed by a dense integer id (1..130, alphabetical); codes are
// the stable join keys used across persisted datasets.
package lookup

import "fmt"

// CountyLabel is the sentinel district name for the county-wide millage row.
// The county carries no municipality code.
const CountyLabel = "Allegheny County"

// Municipality describes one entity in the county profile application.
type Municipality struct {
	ID             int
	Name           string
	Code           string // 3-digit municipality code, zero-padded
	SchoolDistrict string
	SchoolCode     string // 3-digit school district code, 8xx namespace
	SplitRate      bool   // taxes land and buildings at separate rates
}

// municipalities is ordered by upstream id. Ids are dense and stable; the
// upstream application assigns them alphabetically.
var municipalities = []Municipality{
	{1, "Aleppo Township", "001", "Quaker Valley", "832", false},
	{2, "Aspinwall", "002", "Fox Chapel Area", "815", false},
	{3, "Avalon", "003", "Northgate", "826", false},
	{4, "Baldwin Borough", "004", "Baldwin-Whitehall", "803", false},
	{5, "Baldwin Township", "005", "Keystone Oaks", "819", false},
	{6, "Bell Acres", "006", "Quaker Valley", "832", false},
	{7, "Bellevue", "007", "Northgate", "826", false},
	{8, "Ben Avon", "008", "Avonworth", "802", false},
	{9, "Ben Avon Heights", "009", "Avonworth", "802", false},
	{10, "Bethel Park", "010", "Bethel Park", "804", false},
	{11, "Blawnox", "011", "Fox Chapel Area", "815", false},
	{12, "Brackenridge", "012", "Highlands", "818", false},
	{13, "Braddock", "013", "Woodland Hills", "845", false},
	{14, "Braddock Hills", "014", "Woodland Hills", "845", false},
	{15, "Bradford Woods", "015", "North Allegheny", "824", false},
	{16, "Brentwood", "016", "Brentwood", "805", false},
	{17, "Bridgeville", "017", "Chartiers Valley", "807", false},
	{18, "Carnegie", "018", "Carlynton", "806", false},
	{19, "Castle Shannon", "019", "Keystone Oaks", "819", false},
	{20, "Chalfant", "020", "Woodland Hills", "845", false},
	{21, "Cheswick", "021", "Allegheny Valley", "801", false},
	{22, "Churchill", "022", "Woodland Hills", "845", false},
	{23, "Clairton", "023", "Clairton City", "808", true},
	{24, "Collier Township", "024", "Chartiers Valley", "807", false},
	{25, "Coraopolis", "025", "Cornell", "809", false},
	{26, "Crafton", "026", "Carlynton", "806", false},
	{27, "Crescent Township", "027", "Moon Area", "822", false},
	{28, "Dormont", "028", "Keystone Oaks", "819", false},
	{29, "Dravosburg", "029", "West Mifflin Area", "843", false},
	{30, "Duquesne", "030", "Duquesne City", "811", true},
	{31, "East Deer Township", "031", "Deer Lakes", "810", false},
	{32, "East McKeesport", "032", "East Allegheny", "812", false},
	{33, "East Pittsburgh", "033", "Woodland Hills", "845", false},
	{34, "Edgewood", "034", "Woodland Hills", "845", false},
	{35, "Edgeworth", "035", "Quaker Valley", "832", false},
	{36, "Elizabeth Borough", "036", "Elizabeth Forward", "813", false},
	{37, "Elizabeth Township", "037", "Elizabeth Forward", "813", false},
	{38, "Emsworth", "038", "Avonworth", "802", false},
	{39, "Etna", "039", "Shaler Area", "834", false},
	{40, "Fawn Township", "040", "Highlands", "818", false},
	{41, "Findlay Township", "041", "West Allegheny", "841", false},
	{42, "Forest Hills", "042", "Woodland Hills", "845", false},
	{43, "Forward Township", "043", "Elizabeth Forward", "813", false},
	{44, "Fox Chapel", "044", "Fox Chapel Area", "815", false},
	{45, "Franklin Park", "045", "North Allegheny", "824", false},
	{46, "Frazer Township", "046", "Deer Lakes", "810", false},
	{47, "Glassport", "047", "South Allegheny", "835", false},
	{48, "Glenfield", "048", "Quaker Valley", "832", false},
	{49, "Green Tree", "049", "Keystone Oaks", "819", false},
	{50, "Hampton Township", "050", "Hampton", "817", false},
	{51, "Harmar Township", "051", "Allegheny Valley", "801", false},
	{52, "Harrison Township", "052", "Highlands", "818", false},
	{53, "Haysville", "053", "Quaker Valley", "832", false},
	{54, "Heidelberg", "054", "Carlynton", "806", false},
	{55, "Homestead", "055", "Steel Valley", "838", false},
	{56, "Indiana Township", "056", "Fox Chapel Area", "815", false},
	{57, "Ingram", "057", "Montour", "821", false},
	{58, "Jefferson Hills", "058", "West Jefferson Hills", "842", false},
	{59, "Kennedy Township", "059", "Montour", "821", false},
	{60, "Kilbuck Township", "060", "Avonworth", "802", false},
	{61, "Leet Township", "061", "Quaker Valley", "832", false},
	{62, "Leetsdale", "062", "Quaker Valley", "832", false},
	{63, "Liberty", "063", "South Allegheny", "835", false},
	{64, "Lincoln", "064", "Elizabeth Forward", "813", false},
	{65, "Marshall Township", "065", "North Allegheny", "824", false},
	{66, "McCandless", "066", "North Allegheny", "824", false},
	{67, "McDonald", "067", "Fort Cherry", "814", false},
	{68, "McKees Rocks", "068", "Sto-Rox", "839", false},
	{69, "McKeesport", "069", "McKeesport Area", "820", true},
	{70, "Millvale", "070", "Shaler Area", "834", false},
	{71, "Monroeville", "071", "Gateway", "816", false},
	{72, "Moon Township", "072", "Moon Area", "822", false},
	{73, "Mount Oliver", "073", "Pittsburgh", "830", false},
	{74, "Mt. Lebanon", "074", "Mt. Lebanon", "823", false},
	{75, "Munhall", "075", "Steel Valley", "838", false},
	{76, "Neville Township", "076", "Cornell", "809", false},
	{77, "North Braddock", "077", "Woodland Hills", "845", false},
	{78, "North Fayette Township", "078", "West Allegheny", "841", false},
	{79, "North Versailles Township", "079", "East Allegheny", "812", false},
	{80, "Oakdale", "080", "West Allegheny", "841", false},
	{81, "Oakmont", "081", "Riverview", "833", false},
	{82, "O'Hara Township", "082", "Fox Chapel Area", "815", false},
	{83, "Ohio Township", "083", "Avonworth", "802", false},
	{84, "Osborne", "084", "Quaker Valley", "832", false},
	{85, "Penn Hills", "085", "Penn Hills", "827", false},
	{86, "Pennsbury Village", "086", "Montour", "821", false},
	{87, "Pine Township", "087", "Pine-Richland", "829", false},
	{88, "Pitcairn", "088", "Gateway", "816", false},
	{89, "Pittsburgh", "089", "Pittsburgh", "830", false},
	{90, "Pleasant Hills", "090", "West Jefferson Hills", "842", false},
	{91, "Plum", "091", "Plum", "831", false},
	{92, "Port Vue", "092", "South Allegheny", "835", false},
	{93, "Rankin", "093", "Woodland Hills", "845", false},
	{94, "Reserve Township", "094", "Shaler Area", "834", false},
	{95, "Richland Township", "095", "Pine-Richland", "829", false},
	{96, "Robinson Township", "096", "Montour", "821", false},
	{97, "Ross Township", "097", "North Hills", "825", false},
	{98, "Rosslyn Farms", "098", "Carlynton", "806", false},
	{99, "Scott Township", "099", "Chartiers Valley", "807", false},
	{100, "Sewickley", "100", "Quaker Valley", "832", false},
	{101, "Sewickley Heights", "101", "Quaker Valley", "832", false},
	{102, "Sewickley Hills", "102", "Quaker Valley", "832", false},
	{103, "Shaler Township", "103", "Shaler Area", "834", false},
	{104, "Sharpsburg", "104", "Fox Chapel Area", "815", false},
	{105, "South Fayette Township", "105", "South Fayette", "836", false},
	{106, "South Park Township", "106", "South Park", "837", false},
	{107, "South Versailles Township", "107", "East Allegheny", "812", false},
	{108, "Springdale Borough", "108", "Allegheny Valley", "801", false},
	{109, "Springdale Township", "109", "Allegheny Valley", "801", false},
	{110, "Stowe Township", "110", "Sto-Rox", "839", false},
	{111, "Swissvale", "111", "Woodland Hills", "845", false},
	{112, "Tarentum", "112", "Highlands", "818", false},
	{113, "Thornburg", "113", "Carlynton", "806", false},
	{114, "Trafford", "114", "Penn-Trafford", "828", false},
	{115, "Turtle Creek", "115", "Woodland Hills", "845", false},
	{116, "Upper St. Clair", "116", "Upper St. Clair", "840", false},
	{117, "Verona", "117", "Riverview", "833", false},
	{118, "Versailles", "118", "McKeesport Area", "820", false},
	{119, "Wall", "119", "East Allegheny", "812", false},
	{120, "West Deer Township", "120", "Deer Lakes", "810", false},
	{121, "West Elizabeth", "121", "West Jefferson Hills", "842", false},
	{122, "West Homestead", "122", "Steel Valley", "838", false},
	{123, "West Mifflin", "123", "West Mifflin Area", "843", false},
	{124, "West View", "124", "North Hills", "825", false},
	{125, "Whitaker", "125", "West Mifflin Area", "843", false},
	{126, "White Oak", "126", "McKeesport Area", "820", false},
	{127, "Whitehall", "127", "Baldwin-Whitehall", "803", false},
	{128, "Wilkins Township", "128", "Woodland Hills", "845", false},
	{129, "Wilkinsburg", "129", "Wilkinsburg", "844", false},
	{130, "Wilmerding", "130", "East Allegheny", "812", false},
}

var (
	byID       map[int]Municipality
	byNormName map[string]Municipality
)

func init() {
	byID = make(map[int]Municipality, len(municipalities))
	byNormName = make(map[string]Municipality, len(municipalities))
	for _, m := range municipalities {
		if _, dup := byID[m.ID]; dup {
			panic(fmt.Sprintf("lookup: duplicate municipality id %d", m.ID))
		}
		byID[m.ID] = m
		byNormName[NormalizeName(m.Name)] = m
	}
}

// All returns every municipality in id order. The returned slice is shared;
// callers must not modify it.
func All() []Municipality {
	return municipalities
}

// IDs returns the full dense identifier range.
func IDs() []int {
	ids := make([]int, len(municipalities))
	for i, m := range municipalities {
		ids[i] = m.ID
	}
	return ids
}

// ByID resolves a municipality by its upstream integer id.
func ByID(id int) (Municipality, bool) {
	m, ok := byID[id]
	return m, ok
}

// ByName resolves a municipality by name, tolerating case, punctuation, and
// whitespace differences in the upstream rendering.
func ByName(name string) (Municipality, bool) {
	m, ok := byNormName[NormalizeName(name)]
	return m, ok
}

// CodeForName returns the municipality code for a name, or "" when the name
// cannot be resolved.
func CodeForName(name string) string {
	m, ok := ByName(name)
	if !ok {
		return ""
	}
	return m.Code
}
