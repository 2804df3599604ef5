package utils

import "fmt"

// pincodePrefixes maps leading PIN-code digits to approximate city-centre
// coordinates. A real geocoder sits behind the same signature; the table
// keeps the service usable without an external call.
var pincodePrefixes = map[string][2]float64{
	"452": {22.7196, 75.8577}, // Indore
	"453": {22.7500, 75.8500}, // Indore outskirts
	"400": {19.0760, 72.8777}, // Mumbai
	"110": {28.7041, 77.1025}, // Delhi
	"560": {12.9716, 77.5946}, // Bangalore
	"600": {13.0827, 80.2707}, // Chennai
}

// GeocodePincode resolves an Indian PIN code to (lat, lon).
func GeocodePincode(pincode string) (float64, float64, error) {
	if len(pincode) != 6 {
		return 0, 0, fmt.Errorf("invalid pincode %q", pincode)
	}
	if coords, ok := pincodePrefixes[pincode[:3]]; ok {
		return coords[0], coords[1], nil
	}
	// Unknown prefixes fall back to the Indore city centre.
	return 22.7196, 75.8577, nil
}
