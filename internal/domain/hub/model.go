package hub

import (
	"math"
	"time"
)

// Hub is a physical venue a quest sends its squad to. It is read-only as far
// as this service is concerned: nothing here ever writes a hub.
type Hub struct {
	ID        string       `firestore:"id" json:"id"`
	Name      string       `firestore:"name" json:"name"`
	NameLower string       `firestore:"nameLower" json:"-"`
	Secret    string       `firestore:"secretCode" json:"-"`
	Coords    *Coordinates `firestore:"-" json:"coordinates,omitempty"`
	CreatedAt time.Time    `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Coordinates is a resolved latitude/longitude pair. Hubs written by older
// app versions stored their location under different field names; a Hub only
// carries Coordinates once ResolveCoordinates has picked a valid pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ResolveCoordinates normalizes the historical coordinate spellings into a
// typed pair. Precedence: the structured "location" map, then flat lat/lng,
// then flat latitude/longitude. The first pair where both values are finite
// numbers wins; if none resolves, ErrMissingCoordinates is returned so the
// caller can show a data problem instead of "too far away".
func ResolveCoordinates(data map[string]interface{}) (Coordinates, error) {
	if loc, ok := data["location"].(map[string]interface{}); ok {
		if c, ok := pair(loc["latitude"], loc["longitude"]); ok {
			return c, nil
		}
	}
	if c, ok := pair(data["lat"], data["lng"]); ok {
		return c, nil
	}
	if c, ok := pair(data["latitude"], data["longitude"]); ok {
		return c, nil
	}
	return Coordinates{}, ErrMissingCoordinates
}

func pair(latV, lonV interface{}) (Coordinates, bool) {
	lat, ok1 := toFloat(latV)
	lon, ok2 := toFloat(lonV)
	if !ok1 || !ok2 {
		return Coordinates{}, false
	}
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: lat, Longitude: lon}, true
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}
