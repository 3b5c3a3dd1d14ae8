package stats

import "strings"

// Race names carry the nationality of the event, not a country field.
// Matched in order: "Mexico City" must be tried before "Mexican".
var countryLookup = []struct {
	match string
	code  string
}{
	{"Australian", "au"},
	{"Bahrain", "bh"},
	{"Sakhir", "bh"},
	{"Saudi Arabian", "sa"},
	{"Japanese", "jp"},
	{"Chinese", "cn"},
	{"Miami", "us"},
	{"Las Vegas", "us"},
	{"United States", "us"},
	{"Emilia Romagna", "it"},
	{"Tuscan", "it"},
	{"Italian", "it"},
	{"Monaco", "mc"},
	{"Canadian", "ca"},
	{"Spanish", "es"},
	{"Styrian", "at"},
	{"Austrian", "at"},
	{"70th Anniversary", "gb"},
	{"British", "gb"},
	{"Hungarian", "hu"},
	{"Belgian", "be"},
	{"Dutch", "nl"},
	{"Azerbaijan", "az"},
	{"Singapore", "sg"},
	{"Mexico City", "mx"},
	{"Mexican", "mx"},
	{"Brazilian", "br"},
	{"Qatar", "qa"},
	{"Abu Dhabi", "ae"},
	{"French", "fr"},
	{"Eifel", "de"},
	{"German", "de"},
	{"Russian", "ru"},
	{"Turkish", "tr"},
	{"Portuguese", "pt"},
	{"Indian", "in"},
	{"Korean", "kr"},
	{"Malaysian", "my"},
	{"European", "eu"},
}

// CountryCode returns a lowercase ISO code for a race name, or "" when the
// event is not recognized.
func CountryCode(raceName string) string {
	lower := strings.ToLower(raceName)
	for _, entry := range countryLookup {
		if strings.Contains(lower, strings.ToLower(entry.match)) {
			return entry.code
		}
	}
	if strings.Contains(lower, "são paulo") || strings.Contains(lower, "sao paulo") {
		return "br"
	}
	return ""
}

// ShortenRaceName strips the "Grand Prix"/"GP" suffix for compact table
// headers.
func ShortenRaceName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, " Grand Prix")
	name = strings.TrimSuffix(name, " GP")
	return name
}
