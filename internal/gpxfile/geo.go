package gpxfile

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	earthRadius = 6371000.0 // metres
	loopDelta   = 10.0      // metres
)

type latLon struct {
	lat, lon float64
}

// haversine returns the great-circle distance between a and b in metres.
func haversine(a, b latLon) float64 {
	phi1 := a.lat * math.Pi / 180
	phi2 := b.lat * math.Pi / 180
	dPhi := (b.lat - a.lat) * math.Pi / 180
	dLambda := (b.lon - a.lon) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func pathLength(pts []latLon) float64 {
	var d float64
	for i := 1; i < len(pts); i++ {
		d += haversine(pts[i-1], pts[i])
	}
	return d
}

// roundLength rounds a length to the nearest 10 metres.
func roundLength(metres float64) decimal.Decimal {
	return decimal.NewFromFloat(metres).Div(decimal.NewFromInt(10)).Round(0).Mul(decimal.NewFromInt(10))
}

func isLoop(pts []latLon) bool {
	if len(pts) < 4 {
		return false
	}
	return haversine(pts[0], pts[len(pts)-1]) < loopDelta
}
