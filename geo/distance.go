package geo

import "math"

// EarthRadius is the approximate radius of the earth in kilometers
const EarthRadius = 6373.0

type Point struct {
	Latitude  float64 `json:"latitude" envconfig:"LATITUDE"`
	Longitude float64 `json:"longitude" envconfig:"LONGITUDE"`
}

// Haversine returns the great circle distance between a and b in kilometers
func Haversine(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := lat2 - lat1
	dLon := radians(b.Longitude) - radians(a.Longitude)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLon/2), 2)
	return EarthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
