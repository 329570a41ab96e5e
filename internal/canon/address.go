package canon

import (
	"regexp"
	"strings"
)

var rePunct = regexp.MustCompile(`[^A-Za-z0-9\s]`)

// Address is the form-facing shape of a postal address.
type Address struct {
	Street string
	City   string
	State  string
	Zip    string
}

// Tidy cleans an address for display: spacing collapsed, state reduced to its
// postal abbreviation, ZIP+4 cut to five digits. Street and city keep their case.
func Tidy(a Address) Address {
	return Address{
		Street: collapseSpaces(a.Street),
		City:   collapseSpaces(a.City),
		State:  State(a.State),
		Zip:    trimZIP(a.Zip),
	}
}

// State upper-cases a state and maps full names to their abbreviation.
func State(s string) string {
	st := collapseSpaces(strings.ToUpper(s))
	if len(st) > 2 {
		st = stateAbbrev(st)
	}
	return st
}

// Key computes a stable identity for a parcel. Unit and suite designators
// are dropped so every unit of a building shares one key.
func Key(a Address) string {
	n1 := strings.TrimSpace(strings.ToUpper(a.Street))
	n1 = stripUnit(n1)
	n1 = rePunct.ReplaceAllString(n1, " ")
	n1 = abbreviateSuffix(n1)
	n1 = collapseSpaces(n1)

	c := collapseSpaces(rePunct.ReplaceAllString(strings.ToUpper(strings.TrimSpace(a.City)), " "))
	return strings.ToLower(n1 + "|" + c + "|" + State(a.State) + "|" + trimZIP(a.Zip))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func trimZIP(z string) string {
	z = strings.TrimSpace(z)
	if i := strings.IndexByte(z, '-'); i == 5 {
		return z[:5]
	}
	if len(z) > 5 {
		return z[:5]
	}
	return z
}

func stripUnit(s string) string {
	toks := []string{" APT ", " UNIT ", " STE ", " SUITE ", " #"}
	up := " " + s + " "
	for _, t := range toks {
		if i := strings.Index(up, t); i >= 0 {
			return strings.TrimSpace(up[:i])
		}
	}
	return strings.TrimSpace(s)
}

var suffixes = []struct{ long, short string }{
	{" STREET", " ST"},
	{" ROAD", " RD"},
	{" AVENUE", " AVE"},
	{" BOULEVARD", " BLVD"},
	{" DRIVE", " DR"},
	{" LANE", " LN"},
	{" COURT", " CT"},
	{" CIRCLE", " CIR"},
	{" TERRACE", " TER"},
	{" PLACE", " PL"},
	{" PARKWAY", " PKWY"},
	{" HIGHWAY", " HWY"},
}

func abbreviateSuffix(s string) string {
	out := s + " "
	for _, sfx := range suffixes {
		out = strings.ReplaceAll(out, sfx.long+" ", sfx.short+" ")
	}
	return strings.TrimSpace(out)
}

var states = map[string]string{
	"ALABAMA": "AL", "ALASKA": "AK", "ARIZONA": "AZ", "ARKANSAS": "AR", "CALIFORNIA": "CA", "COLORADO": "CO",
	"CONNECTICUT": "CT", "DELAWARE": "DE", "DISTRICT OF COLUMBIA": "DC", "FLORIDA": "FL", "GEORGIA": "GA",
	"HAWAII": "HI", "IDAHO": "ID", "ILLINOIS": "IL", "INDIANA": "IN", "IOWA": "IA", "KANSAS": "KS",
	"KENTUCKY": "KY", "LOUISIANA": "LA", "MAINE": "ME", "MARYLAND": "MD", "MASSACHUSETTS": "MA",
	"MICHIGAN": "MI", "MINNESOTA": "MN", "MISSISSIPPI": "MS", "MISSOURI": "MO", "MONTANA": "MT",
	"NEBRASKA": "NE", "NEVADA": "NV", "NEW HAMPSHIRE": "NH", "NEW JERSEY": "NJ", "NEW MEXICO": "NM",
	"NEW YORK": "NY", "NORTH CAROLINA": "NC", "NORTH DAKOTA": "ND", "OHIO": "OH", "OKLAHOMA": "OK",
	"OREGON": "OR", "PENNSYLVANIA": "PA", "RHODE ISLAND": "RI", "SOUTH CAROLINA": "SC", "SOUTH DAKOTA": "SD",
	"TENNESSEE": "TN", "TEXAS": "TX", "UTAH": "UT", "VERMONT": "VT", "VIRGINIA": "VA", "WASHINGTON": "WA",
	"WEST VIRGINIA": "WV", "WISCONSIN": "WI", "WYOMING": "WY",
}

func stateAbbrev(s string) string {
	if v, ok := states[s]; ok {
		return v
	}
	return s
}
