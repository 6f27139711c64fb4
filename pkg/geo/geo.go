// Package geo provides the spherical geometry primitives shared by the
// graph builder, router, turn detector and progress tracker: great-circle
// distances, bearings, signed turn angles and point-to-segment projection.
package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// LatLng represents a geographic coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// Haversine returns the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Dist returns the great-circle distance in meters between a and b.
func Dist(a, b LatLng) float64 {
	return Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
}

// PathLength returns the sum of consecutive great-circle segment lengths.
func PathLength(points []LatLng) float64 {
	var total float64
	for i := 0; i+1 < len(points); i++ {
		total += Dist(points[i], points[i+1])
	}
	return total
}

// Bearing returns the initial compass bearing in degrees [0, 360) from a to b.
func Bearing(a, b LatLng) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lng - a.Lng) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := math.Atan2(y, x) * 180 / math.Pi

	return math.Mod(deg+360, 360)
}

// TurnAngle returns the signed change of direction in degrees when moving
// from a heading of `incoming` to a heading of `outgoing`, normalized to
// (-180, 180]. Positive is a right turn, negative a left turn.
func TurnAngle(incoming, outgoing float64) float64 {
	d := math.Mod(outgoing-incoming, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

// degToMeters converts degree-scaled equirectangular distances to meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters

// EquirectangularDist returns an approximate distance in meters.
// ~3x faster than Haversine and accurate to well under 0.1% at the segment
// lengths a campus walkway network contains. Use for candidate filtering
// and comparisons, not for final edge weights.
func EquirectangularDist(lat1, lon1, lat2, lon2 float64) float64 {
	x := (lon2 - lon1) * math.Cos((lat1+lat2)/2*math.Pi/180) * math.Pi / 180
	y := (lat2 - lat1) * math.Pi / 180
	return math.Sqrt(x*x+y*y) * earthRadiusMeters
}

// PointToSegmentDist computes the perpendicular distance from point P to
// segment AB, and returns the projection ratio along AB (clamped to [0,1]).
// dist is in meters; ratio 0.0 is at A, 1.0 at B.
func PointToSegmentDist(p, a, b LatLng) (dist float64, ratio float64) {
	// Work in equirectangular projection (good enough for short distances).
	cosLat := math.Cos((a.Lat + b.Lat) / 2 * math.Pi / 180)

	// Convert to approximate planar coordinates (degree-scaled).
	ax := a.Lng * cosLat
	ay := a.Lat
	bx := b.Lng * cosLat
	by := b.Lat
	px := p.Lng * cosLat
	py := p.Lat

	// Check for degenerate segment in original coordinates (exact comparison)
	// before working in projected space where floating-point noise in
	// cosLat multiplication can make identical coordinates differ by ~1e-15.
	if a.Lat == b.Lat && a.Lng == b.Lng {
		ex := px - ax
		ey := py - ay
		return math.Sqrt(ex*ex+ey*ey) * degToMeters, 0
	}

	dx := bx - ax
	dy := by - ay
	lenSq := dx*dx + dy*dy

	var t float64
	if lenSq > 0 {
		// Project P onto line AB, clamp to [0,1].
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}

	// Distance from P to the closest point, computed directly in the
	// projection (avoids Haversine trig for short distances).
	ex := px - (ax + t*dx)
	ey := py - (ay + t*dy)
	return math.Sqrt(ex*ex+ey*ey) * degToMeters, t
}

// PerpendicularDist returns only the distance part of PointToSegmentDist.
// Used by the Douglas-Peucker simplifier where the ratio is irrelevant.
func PerpendicularDist(p, a, b LatLng) float64 {
	d, _ := PointToSegmentDist(p, a, b)
	return d
}
