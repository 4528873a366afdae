/*
location.go - Structured location keys

PURPOSE:
  Replaces raw string matching of worker locations against rule regions
  with a structured key (state + city) resolved through a fixed state
  table. Two spellings of the same jurisdiction ("California", "CA",
  "Los Angeles, California") resolve to the same key, which removes a
  class of silent false negatives that plain substring matching allows.

PARSING:
  Accepted label shapes:
    "California"            -> state CA
    "CA"                    -> state CA
    "Los Angeles, CA"       -> state CA, city Los Angeles
    "Seattle, Washington"   -> state WA, city Seattle
    "Chicago"               -> city Chicago (state unknown)

AMBIGUITY:
  When a worker location matches two same-level rules (e.g. two local
  ordinances), both are returned by the repository; the evaluators do
  not invent a precedence between them.

SEE ALSO:
  - types.go: AppliesTo uses the resolved keys
*/
package regulatory

import "strings"

// Location is the structured key a worker location label resolves to.
type Location struct {
	Raw   string // label as supplied by the HR collaborator
	State string // USPS code, e.g. "CA"; empty when unknown
	City  string // e.g. "Los Angeles"; empty when unknown
}

// ParseLocation resolves a free-form location label into a structured key.
// Unrecognized labels keep Raw and leave State/City empty; federal records
// still apply to them.
func ParseLocation(label string) Location {
	loc := Location{Raw: label}
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return loc
	}

	parts := strings.Split(trimmed, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	switch len(parts) {
	case 1:
		if code := stateCode(parts[0]); code != "" {
			loc.State = code
		} else {
			loc.City = parts[0]
		}
	default:
		// "City, State[, ...]" - last recognizable component wins as state.
		loc.City = parts[0]
		for _, p := range parts[1:] {
			if code := stateCode(p); code != "" {
				loc.State = code
			}
		}
	}
	return loc
}

// resolveRegion resolves a rule's issuing-region label. A bare state name
// or code yields (state, ""). A "City, ST" label yields both.
func resolveRegion(region string) (state, city string) {
	loc := ParseLocation(region)
	return loc.State, loc.City
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// stateCode returns the USPS code for a state name or code, or "" when the
// label is not a state.
func stateCode(label string) string {
	upper := strings.ToUpper(strings.TrimSpace(label))
	if _, ok := stateNames[upper]; ok {
		return upper
	}
	if code, ok := stateCodes[strings.ToLower(strings.TrimSpace(label))]; ok {
		return code
	}
	return ""
}

// stateCodes maps lowercase full state names to USPS codes.
var stateCodes = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY", "district of columbia": "DC",
}

// stateNames is the reverse index: USPS code -> full name.
var stateNames = func() map[string]string {
	m := make(map[string]string, len(stateCodes))
	for name, code := range stateCodes {
		m[code] = name
	}
	return m
}()

// StateName returns the lowercase full name for a USPS code, or "" if
// unknown. Used by the dashboard read model for display labels.
func StateName(code string) string {
	return stateNames[strings.ToUpper(code)]
}
