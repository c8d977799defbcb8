package geofence

import (
	"math"

	"github.com/Ayuu1305/squad-quest-sub002/internal/config"
	"github.com/Ayuu1305/squad-quest-sub002/internal/domain/hub"
)

const earthRadiusMeters = 6371000.0

const (
	// RadiusDevelopmentMeters is deliberately huge so the flow can be tested
	// without standing in front of the venue.
	RadiusDevelopmentMeters = 30000.0

	// RadiusProductionMeters is the real proximity requirement.
	RadiusProductionMeters = 100.0
)

// Result carries the outcome of a proximity check. Distance is always set so
// an out-of-range failure can tell the user how far off they are.
type Result struct {
	OK       bool    `json:"ok"`
	Distance float64 `json:"distanceMeters"`
	Radius   float64 `json:"radiusMeters"`
}

// RadiusFor picks the active geofence radius from the environment flag. The
// policy lives here so no caller hard-codes its own radius.
func RadiusFor(cfg config.Config) float64 {
	if cfg.IsProduction() {
		return RadiusProductionMeters
	}
	return RadiusDevelopmentMeters
}

// DistanceMeters computes the great-circle distance between two points using
// the haversine formula.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// CheckProximity passes iff the user is within the radius, boundary
// inclusive: standing exactly on the fence counts.
func CheckProximity(user, target hub.Coordinates, radiusMeters float64) Result {
	d := DistanceMeters(user.Latitude, user.Longitude, target.Latitude, target.Longitude)
	return Result{
		OK:       d <= radiusMeters,
		Distance: d,
		Radius:   radiusMeters,
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
