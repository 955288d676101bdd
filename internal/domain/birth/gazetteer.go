package birth

import "strings"

// Gazetteer is a static city → IANA zone table.
type Gazetteer map[string]string

// DefaultGazetteer returns the built-in city table.
func DefaultGazetteer() Gazetteer {
	return Gazetteer{
		"jaipur":        "Asia/Kolkata",
		"delhi":         "Asia/Kolkata",
		"new delhi":     "Asia/Kolkata",
		"mumbai":        "Asia/Kolkata",
		"bengaluru":     "Asia/Kolkata",
		"bangalore":     "Asia/Kolkata",
		"kolkata":       "Asia/Kolkata",
		"chennai":       "Asia/Kolkata",
		"hyderabad":     "Asia/Kolkata",
		"pune":          "Asia/Kolkata",
		"kathmandu":     "Asia/Kathmandu",
		"dubai":         "Asia/Dubai",
		"singapore":     "Asia/Singapore",
		"tokyo":         "Asia/Tokyo",
		"london":        "Europe/London",
		"paris":         "Europe/Paris",
		"berlin":        "Europe/Berlin",
		"moscow":        "Europe/Moscow",
		"new york":      "America/New_York",
		"chicago":       "America/Chicago",
		"los angeles":   "America/Los_Angeles",
		"san francisco": "America/Los_Angeles",
		"toronto":       "America/Toronto",
		"sydney":        "Australia/Sydney",
	}
}

// Locate matches the first comma-separated component of place, case-insensitively.
// "Jaipur, India" and "jaipur" both resolve.
func (g Gazetteer) Locate(place string) (string, bool) {
	city, _, _ := strings.Cut(place, ",")
	zone, ok := g[strings.ToLower(strings.TrimSpace(city))]
	return zone, ok
}
