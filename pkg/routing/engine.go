// Package routing computes shortest walkable paths over the walkway graph:
// endpoint snapping, early-exit Dijkstra, and path reconstruction with the
// requested coordinates spliced back on.
package routing

import (
	"context"
	"errors"

	"guidely/pkg/geo"
	"guidely/pkg/graph"
	"guidely/pkg/walkway"
)

// ErrNoGraphData is returned when the polyline input produces an empty graph.
var ErrNoGraphData = errors.New("no walkway data")

// ErrNoRoute is returned when no walkable path connects start and end.
var ErrNoRoute = errors.New("no route found")

// PathResult is the output of a route query: the ordered point sequence
// from the requested start to the requested end, and its total length.
// It is a value produced once per request and never mutated.
type PathResult struct {
	Points         []geo.LatLng
	DistanceMeters float64
}

// Config holds the engine's tunable thresholds.
type Config struct {
	// EndpointSpliceMeters: when a requested endpoint is farther than this
	// from its snapped node, the exact coordinate is spliced onto the path
	// so results always begin and end where the caller asked.
	EndpointSpliceMeters float64
}

// DefaultConfig returns the thresholds tuned for pedestrian campus scale.
func DefaultConfig() Config {
	return Config{EndpointSpliceMeters: 1.0}
}

// Engine answers route queries against a cached walkway graph.
type Engine struct {
	cache *graph.Cache
	cfg   Config
}

// NewEngine creates an engine with default thresholds and a fresh graph
// cache.
func NewEngine() *Engine {
	return &Engine{cache: graph.NewCache(), cfg: DefaultConfig()}
}

// NewEngineWithConfig creates an engine using the supplied cache and
// thresholds. Tests use this to construct isolated instances.
func NewEngineWithConfig(cache *graph.Cache, cfg Config) *Engine {
	return &Engine{cache: cache, cfg: cfg}
}

// ComputeRoute finds the shortest walkable path from start to end over the
// graph built from polylines (reusing the cached graph when the input is
// unchanged). Returns ErrNoGraphData for empty input and ErrNoRoute when
// the endpoints snap to disconnected components.
func (e *Engine) ComputeRoute(ctx context.Context, polylines []walkway.Polyline, start, end geo.LatLng) (*PathResult, error) {
	g := e.cache.Get(polylines)

	srcID, ok := g.NearestNode(start)
	if !ok {
		return nil, ErrNoGraphData
	}
	dstID, _ := g.NearestNode(end)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nodePath, _, ok := shortestPath(g, srcID, dstID)
	if !ok {
		return nil, ErrNoRoute
	}

	points := make([]geo.LatLng, 0, len(nodePath)+2)

	// Splice the exact requested endpoints when they differ meaningfully
	// from the snapped nodes, so the path starts and ends where asked.
	if geo.Dist(start, g.Nodes[srcID].Pos) > e.cfg.EndpointSpliceMeters {
		points = append(points, start)
	}
	for _, id := range nodePath {
		points = append(points, g.Nodes[id].Pos)
	}
	if geo.Dist(end, g.Nodes[dstID].Pos) > e.cfg.EndpointSpliceMeters {
		points = append(points, end)
	}

	return &PathResult{
		Points:         points,
		DistanceMeters: geo.PathLength(points),
	}, nil
}

// InvalidateGraphCache drops the cached graph; the next route request
// rebuilds from the supplied polylines.
func (e *Engine) InvalidateGraphCache() {
	e.cache.Invalidate()
}

// GraphStats returns node and edge counts plus build count of the current
// cache, for the debug API.
func (e *Engine) GraphStats(polylines []walkway.Polyline) (nodes, edges, builds int) {
	g := e.cache.Get(polylines)
	return g.NumNodes(), g.NumEdges(), e.cache.Builds()
}

// FallbackRoute returns the degraded straight-line two-point route callers
// fall back to when routing fails (see ErrNoRoute).
func FallbackRoute(start, end geo.LatLng) *PathResult {
	points := []geo.LatLng{start, end}
	return &PathResult{Points: points, DistanceMeters: geo.Dist(start, end)}
}
