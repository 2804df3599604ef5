package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocodePincode(t *testing.T) {
	lat, lon, err := GeocodePincode("452006")
	require.NoError(t, err)
	assert.InDelta(t, 22.7196, lat, 0.001)
	assert.InDelta(t, 75.8577, lon, 0.001)

	lat, _, err = GeocodePincode("400001")
	require.NoError(t, err)
	assert.InDelta(t, 19.0760, lat, 0.001)
}

func TestGeocodePincodeUnknownFallsBack(t *testing.T) {
	lat, lon, err := GeocodePincode("799001")
	require.NoError(t, err)
	assert.InDelta(t, 22.7196, lat, 0.001)
	assert.InDelta(t, 75.8577, lon, 0.001)
}

func TestGeocodePincodeInvalid(t *testing.T) {
	_, _, err := GeocodePincode("1234")
	assert.Error(t, err)

	_, _, err = GeocodePincode("")
	assert.Error(t, err)
}
