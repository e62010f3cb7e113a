// Package geo provides great-circle distance math for trace discovery.
package geo

import (
	"math"

	"tracemap/internal/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance in kilometers between two
// coordinates given in degrees. Pure and symmetric; inputs are not validated
// here, that is the caller's job.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// ValidateCoordinates rejects non-finite or out-of-range latitude/longitude.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return models.NewValidationError("Coordinates must be finite numbers")
	}
	if lat < -90 || lat > 90 {
		return models.NewValidationError("Latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return models.NewValidationError("Longitude must be between -180 and 180")
	}
	return nil
}
