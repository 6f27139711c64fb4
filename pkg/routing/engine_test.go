package routing

import (
	"context"
	"errors"
	"math"
	"testing"

	"guidely/pkg/geo"
	"guidely/pkg/graph"
	"guidely/pkg/walkway"
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

func TestComputeRouteStraightPolyline(t *testing.T) {
	// A ---100m--- B ---100m--- C; route A→C must be exactly [A, B, C].
	a, b, c := pt(0, 0), pt(0, 100), pt(0, 200)
	pls := []walkway.Polyline{{a, b, c}}

	e := NewEngine()
	res, err := e.ComputeRoute(context.Background(), pls, a, c)
	if err != nil {
		t.Fatalf("ComputeRoute: %v", err)
	}

	want := []geo.LatLng{a, b, c}
	if len(res.Points) != len(want) {
		t.Fatalf("got %d points, want %d: %v", len(res.Points), len(want), res.Points)
	}
	for i := range want {
		if res.Points[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, res.Points[i], want[i])
		}
	}

	wantDist := geo.Dist(a, b) + geo.Dist(b, c)
	if math.Abs(res.DistanceMeters-wantDist) > 1e-6 {
		t.Errorf("DistanceMeters = %f, want %f", res.DistanceMeters, wantDist)
	}
}

func TestComputeRouteDisjointComponents(t *testing.T) {
	// Two walkways ~50 m apart, far beyond the 2 m snap tolerance.
	pls := []walkway.Polyline{
		{pt(0, 0), pt(0, 100)},
		{pt(50, 0), pt(50, 100)},
	}

	e := NewEngine()
	_, err := e.ComputeRoute(context.Background(), pls, pt(0, 0), pt(50, 100))
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestComputeRouteEmptyInput(t *testing.T) {
	e := NewEngine()
	_, err := e.ComputeRoute(context.Background(), nil, pt(0, 0), pt(0, 100))
	if !errors.Is(err, ErrNoGraphData) {
		t.Fatalf("err = %v, want ErrNoGraphData", err)
	}
}

func TestComputeRouteSplicesOffRouteEndpoints(t *testing.T) {
	a, b := pt(0, 0), pt(0, 100)
	pls := []walkway.Polyline{{a, b}}

	// Start 5 m off the walkway: exact coordinate must lead the result.
	start := pt(5, 0)
	e := NewEngine()
	res, err := e.ComputeRoute(context.Background(), pls, start, b)
	if err != nil {
		t.Fatalf("ComputeRoute: %v", err)
	}

	if res.Points[0] != start {
		t.Errorf("first point = %+v, want the requested start %+v", res.Points[0], start)
	}
	if res.Points[len(res.Points)-1] != b {
		t.Errorf("last point = %+v, want %+v", res.Points[len(res.Points)-1], b)
	}
}

func TestComputeRouteTakesShorterBranch(t *testing.T) {
	// Square with a diagonal shortcut through the middle:
	//
	//	A ---100--- B
	//	|           |
	//	100         100
	//	|           |
	//	D ---100--- C
	//
	// plus D-B directly (~141 m). Route A→C should go A→D→C or A→B→C
	// (200 m), never A→D→B→C (~341 m).
	a, b, c, d := pt(100, 0), pt(100, 100), pt(0, 100), pt(0, 0)
	pls := []walkway.Polyline{
		{a, b}, {b, c}, {c, d}, {d, a}, {d, b},
	}

	e := NewEngine()
	res, err := e.ComputeRoute(context.Background(), pls, a, c)
	if err != nil {
		t.Fatalf("ComputeRoute: %v", err)
	}
	if res.DistanceMeters > 210 {
		t.Errorf("DistanceMeters = %f, want ~200 (shortest of the alternatives)", res.DistanceMeters)
	}
}

// bruteForceShortest enumerates every simple path with DFS and returns the
// minimum length. Only usable on tiny graphs.
func bruteForceShortest(g *graph.Graph, src, dst int) float64 {
	best := math.Inf(1)
	visited := make([]bool, g.NumNodes())

	var dfs func(node int, dist float64)
	dfs = func(node int, dist float64) {
		if dist >= best {
			return
		}
		if node == dst {
			best = dist
			return
		}
		visited[node] = true
		for nb, w := range g.Nodes[node].Neighbors {
			if !visited[nb] {
				dfs(nb, dist+w)
			}
		}
		visited[node] = false
	}
	dfs(src, 0)
	return best
}

func TestDijkstraMatchesBruteForce(t *testing.T) {
	// Irregular mesh, 8 nodes.
	//
	//	A --- B --- C
	//	|  \  |     |
	//	D --- E --- F
	//	       \   /
	//	        G --- H
	nodes := []geo.LatLng{
		pt(200, 0), pt(200, 100), pt(200, 200), // A B C
		pt(100, 0), pt(100, 100), pt(100, 200), // D E F
		pt(0, 150), pt(0, 250), // G H
	}
	pls := []walkway.Polyline{
		{nodes[0], nodes[1], nodes[2]},
		{nodes[3], nodes[4], nodes[5]},
		{nodes[0], nodes[3]},
		{nodes[0], nodes[4]},
		{nodes[1], nodes[4]},
		{nodes[2], nodes[5]},
		{nodes[4], nodes[6]},
		{nodes[5], nodes[6]},
		{nodes[6], nodes[7]},
	}
	g := graph.Build(pls)

	for src := 0; src < g.NumNodes(); src++ {
		for dst := 0; dst < g.NumNodes(); dst++ {
			if src == dst {
				continue
			}
			_, got, ok := shortestPath(g, src, dst)
			if !ok {
				t.Fatalf("no path %d→%d in a connected graph", src, dst)
			}
			want := bruteForceShortest(g, src, dst)
			if math.Abs(got-want) > 1e-6 {
				t.Errorf("src=%d dst=%d: dijkstra=%f, brute force=%f", src, dst, got, want)
			}
		}
	}
}

func TestComputeRouteEndToEndPerpendicular(t *testing.T) {
	// Two perpendicular 100 m segments meeting at the origin; the route
	// from the west arm's end to the north arm's end runs via the origin.
	origin := pt(0, 0)
	west := pt(0, -100)
	north := pt(100, 0)
	pls := []walkway.Polyline{
		{west, origin},
		{origin, north},
	}

	e := NewEngine()
	res, err := e.ComputeRoute(context.Background(), pls, west, north)
	if err != nil {
		t.Fatalf("ComputeRoute: %v", err)
	}
	if math.Abs(res.DistanceMeters-200) > 1 {
		t.Errorf("DistanceMeters = %f, want ~200", res.DistanceMeters)
	}
	if len(res.Points) != 3 || res.Points[1] != origin {
		t.Errorf("expected route via the origin, got %v", res.Points)
	}
}

func TestFallbackRoute(t *testing.T) {
	a, b := pt(0, 0), pt(0, 100)
	res := FallbackRoute(a, b)
	if len(res.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(res.Points))
	}
	if math.Abs(res.DistanceMeters-geo.Dist(a, b)) > 1e-9 {
		t.Errorf("DistanceMeters = %f, want straight-line distance", res.DistanceMeters)
	}
}

func TestMinHeapOrdering(t *testing.T) {
	var h MinHeap
	for _, d := range []float64{5, 1, 4, 2, 3, 0.5} {
		h.Push(int(d * 10), d)
	}

	prev := math.Inf(-1)
	for h.Len() > 0 {
		item := h.Pop()
		if item.Dist < prev {
			t.Fatalf("heap popped %f after %f", item.Dist, prev)
		}
		prev = item.Dist
	}
}
