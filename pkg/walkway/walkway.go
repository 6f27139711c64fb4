// Package walkway loads campus walkway polylines from the formats the map
// data ships in: GeoJSON feature collections, Google encoded polylines, and
// OSM PBF extracts. All loaders produce the same []Polyline consumed by the
// graph builder.
package walkway

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	gopolyline "github.com/twpayne/go-polyline"

	"guidely/pkg/geo"
)

// Polyline is an ordered coordinate sequence representing one walkable
// segment. Consecutive points become graph edges.
type Polyline []geo.LatLng

// TotalPoints returns the number of coordinates across all polylines.
func TotalPoints(polylines []Polyline) int {
	n := 0
	for _, pl := range polylines {
		n += len(pl)
	}
	return n
}

// FromGeoJSON parses a GeoJSON FeatureCollection and returns every
// LineString / MultiLineString feature as walkway polylines. Other geometry
// types (building outlines, POI points) are skipped, not rejected;
// campus map exports usually mix them into one file.
func FromGeoJSON(data []byte) ([]Polyline, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "walkway: parse geojson")
	}

	var polylines []Polyline
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			if pl := fromLineString(g); len(pl) >= 2 {
				polylines = append(polylines, pl)
			}
		case orb.MultiLineString:
			for _, ls := range g {
				if pl := fromLineString(ls); len(pl) >= 2 {
					polylines = append(polylines, pl)
				}
			}
		}
	}
	return polylines, nil
}

func fromLineString(ls orb.LineString) Polyline {
	pl := make(Polyline, 0, len(ls))
	for _, pt := range ls {
		// orb points are (lng, lat).
		pl = append(pl, geo.LatLng{Lat: pt[1], Lng: pt[0]})
	}
	return pl
}

// FromEncoded decodes Google encoded polyline strings, one per walkway
// segment, into polylines.
func FromEncoded(encoded []string) ([]Polyline, error) {
	polylines := make([]Polyline, 0, len(encoded))
	for i, s := range encoded {
		coords, _, err := gopolyline.DecodeCoords([]byte(s))
		if err != nil {
			return nil, errors.Wrapf(err, "walkway: decode polyline %d", i)
		}
		pl := make(Polyline, 0, len(coords))
		for _, c := range coords {
			pl = append(pl, geo.LatLng{Lat: c[0], Lng: c[1]})
		}
		if len(pl) >= 2 {
			polylines = append(polylines, pl)
		}
	}
	return polylines, nil
}

// Encode returns the Google encoded polyline representation of points.
// Used by the debug API to ship route geometry compactly.
func Encode(points []geo.LatLng) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Lat, p.Lng}
	}
	return string(gopolyline.EncodeCoords(coords))
}
