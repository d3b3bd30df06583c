package provider

import "strings"

// geoOverrides maps dataset country codes that differ from the upstream geo code.
var geoOverrides = map[string]string{
	"uk": "GB",
}

// GeoCode returns the upstream geo code for a dataset country code.
func GeoCode(country string) string {
	c := strings.ToLower(strings.TrimSpace(country))
	if geo, ok := geoOverrides[c]; ok {
		return geo
	}
	return strings.ToUpper(c)
}
