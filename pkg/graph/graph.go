// Package graph builds and caches the walkway graph: an undirected weighted
// graph over the campus walkway network, with nodes interned from polyline
// coordinates and edges weighted by great-circle distance.
package graph

import (
	"math"

	"guidely/pkg/geo"
)

// Node is a graph vertex. Nodes are created during the build and owned
// exclusively by their Graph; neither is mutated after construction.
type Node struct {
	ID        int
	Pos       geo.LatLng
	Neighbors map[int]float64 // neighbor node ID -> edge weight in meters
}

// Graph is an undirected weighted walkway graph. It is rebuilt wholesale
// when the input polylines change, never mutated incrementally, so reads
// need no locking.
type Graph struct {
	Nodes []*Node
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.Nodes)
}

// NumEdges returns the undirected edge count.
func (g *Graph) NumEdges() int {
	total := 0
	for _, n := range g.Nodes {
		total += len(n.Neighbors)
	}
	return total / 2
}

// NearestNode returns the ID of the node closest to p, by linear scan over
// all nodes. O(N), fine at campus scale; returns false on an empty graph.
func (g *Graph) NearestNode(p geo.LatLng) (int, bool) {
	if len(g.Nodes) == 0 {
		return 0, false
	}

	best := 0
	bestDist := math.Inf(1)
	for _, n := range g.Nodes {
		d := geo.EquirectangularDist(p.Lat, p.Lng, n.Pos.Lat, n.Pos.Lng)
		if d < bestDist {
			bestDist = d
			best = n.ID
		}
	}
	return best, true
}
