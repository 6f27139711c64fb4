package guidance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guidely/pkg/geo"
)

const (
	degPerMeter = 1.0 / 111_320.0
	baseLat     = 1.3500
	baseLng     = 103.8200
)

// pt builds a coordinate offset from the base point by meters.
func pt(northMeters, eastMeters float64) geo.LatLng {
	return geo.LatLng{
		Lat: baseLat + northMeters*degPerMeter,
		Lng: baseLng + eastMeters*degPerMeter,
	}
}

func TestSimplifyCollinearReducesToEndpoints(t *testing.T) {
	points := []geo.LatLng{
		pt(0, 0), pt(0, 25), pt(0, 50), pt(0, 75), pt(0, 100),
	}

	got := Simplify(points, 3.0)

	require.Len(t, got, 2)
	assert.Equal(t, points[0], got[0])
	assert.Equal(t, points[len(points)-1], got[1])
}

func TestSimplifyKeepsCorner(t *testing.T) {
	// An L-shape: the corner deviates ~70 m from the chord, far over
	// tolerance.
	points := []geo.LatLng{
		pt(0, 0), pt(0, 100), pt(100, 100),
	}

	got := Simplify(points, 3.0)

	require.Len(t, got, 3)
	assert.Equal(t, pt(0, 100), got[1])
}

func TestSimplifyDropsSmallWiggle(t *testing.T) {
	// A 2 m sideways wobble on an otherwise straight path.
	points := []geo.LatLng{
		pt(0, 0), pt(2, 50), pt(0, 100),
	}

	got := Simplify(points, 3.0)

	assert.Len(t, got, 2)
}

func TestSimplifyShortInputs(t *testing.T) {
	assert.Empty(t, Simplify(nil, 3.0))

	single := []geo.LatLng{pt(0, 0)}
	assert.Equal(t, single, Simplify(single, 3.0))

	pair := []geo.LatLng{pt(0, 0), pt(0, 10)}
	assert.Equal(t, pair, Simplify(pair, 3.0))
}

func TestSimplifyWithIndexTracksRawPositions(t *testing.T) {
	points := []geo.LatLng{
		pt(0, 0), pt(0, 50), pt(0, 100), pt(100, 100), pt(200, 100),
	}

	kept, idx := simplifyWithIndex(points, 3.0)

	require.Equal(t, len(kept), len(idx))
	for i, raw := range idx {
		assert.Equal(t, points[raw], kept[i], "kept point %d must match its raw index", i)
	}
	assert.Equal(t, 0, idx[0])
	assert.Equal(t, len(points)-1, idx[len(idx)-1])
}

func TestSimplifyLongZigzagStaysBounded(t *testing.T) {
	// A long alternating path exercises the explicit stack; every apex
	// deviates well past tolerance, so nothing may be dropped.
	var points []geo.LatLng
	for i := 0; i < 2000; i++ {
		east := 0.0
		if i%2 == 1 {
			east = 20
		}
		points = append(points, pt(float64(i)*10, east))
	}

	got := Simplify(points, 3.0)

	assert.Equal(t, len(points), len(got))
}
