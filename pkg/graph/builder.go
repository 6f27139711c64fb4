package graph

import (
	"math"

	"github.com/tidwall/rtree"

	"guidely/pkg/geo"
	"guidely/pkg/walkway"
)

// BuildConfig holds the tunable thresholds of the graph build.
type BuildConfig struct {
	// SnapToleranceMeters is the maximum gap between two nodes that still
	// gets bridged in the merge pass. Two independently digitized walkways
	// whose endpoints fall within this distance become connected.
	SnapToleranceMeters float64
}

// DefaultBuildConfig returns the thresholds tuned for pedestrian campus
// scale.
func DefaultBuildConfig() BuildConfig {
	return BuildConfig{SnapToleranceMeters: 2.0}
}

// Build creates a walkway graph from polylines using default thresholds.
func Build(polylines []walkway.Polyline) *Graph {
	return BuildWithConfig(polylines, DefaultBuildConfig())
}

// BuildWithConfig creates an undirected weighted graph from walkway
// polylines. Every consecutive coordinate pair becomes an edge weighted by
// great-circle distance; coordinates are interned so shared vertices map to
// one node. A final merge pass bridges node pairs within the snap tolerance
// with an edge of their (near-zero) actual distance; identities are not
// merged, only connected.
func BuildWithConfig(polylines []walkway.Polyline, cfg BuildConfig) *Graph {
	g := &Graph{}
	index := make(map[geo.LatLng]int)

	intern := func(p geo.LatLng) int {
		if id, ok := index[p]; ok {
			return id
		}
		id := len(g.Nodes)
		index[p] = id
		g.Nodes = append(g.Nodes, &Node{
			ID:        id,
			Pos:       p,
			Neighbors: make(map[int]float64),
		})
		return id
	}

	// Pass 1: polyline segments become edges.
	for _, pl := range polylines {
		for i := 0; i+1 < len(pl); i++ {
			a, b := pl[i], pl[i+1]
			w := geo.Dist(a, b)
			if w == 0 {
				// Degenerate segment from duplicated digitizer clicks.
				continue
			}
			u := intern(a)
			v := intern(b)
			addEdge(g, u, v, w)
		}
	}

	if len(g.Nodes) == 0 {
		return g
	}

	// Pass 2: bridge physically coincident but topologically separate
	// nodes. The naive all-pairs scan is O(P²); an R-tree box query per
	// node keeps this near-linear on larger networks.
	var tr rtree.RTreeG[int]
	for _, n := range g.Nodes {
		pt := [2]float64{n.Pos.Lng, n.Pos.Lat}
		tr.Insert(pt, pt, n.ID)
	}

	for _, n := range g.Nodes {
		dLat := cfg.SnapToleranceMeters / 111_320.0
		dLng := dLat / math.Cos(n.Pos.Lat*math.Pi/180)

		min := [2]float64{n.Pos.Lng - dLng, n.Pos.Lat - dLat}
		max := [2]float64{n.Pos.Lng + dLng, n.Pos.Lat + dLat}

		tr.Search(min, max, func(_, _ [2]float64, other int) bool {
			// Each unordered pair is handled once.
			if other <= n.ID {
				return true
			}
			if _, connected := n.Neighbors[other]; connected {
				return true
			}
			d := geo.Dist(n.Pos, g.Nodes[other].Pos)
			if d <= cfg.SnapToleranceMeters {
				addEdge(g, n.ID, other, d)
			}
			return true
		})
	}

	return g
}

// addEdge inserts an undirected edge, keeping the lighter weight if the
// edge already exists (polyline data can repeat segments).
func addEdge(g *Graph, u, v int, w float64) {
	if u == v {
		return
	}
	if prev, ok := g.Nodes[u].Neighbors[v]; !ok || w < prev {
		g.Nodes[u].Neighbors[v] = w
		g.Nodes[v].Neighbors[u] = w
	}
}
