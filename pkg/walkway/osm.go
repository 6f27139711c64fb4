package walkway

import (
	"context"
	"fmt"
	"io"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"guidely/pkg/geo"
)

// footHighways lists highway tag values walkable by pedestrians.
var footHighways = map[string]bool{
	"footway":       true,
	"path":          true,
	"pedestrian":    true,
	"steps":         true,
	"track":         true,
	"living_street": true,
	"residential":   true,
	"service":       true,
	"unclassified":  true,
	"tertiary":      true,
	"cycleway":      true,
}

// isFootAccessible returns true if the way is walkable.
func isFootAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !footHighways[hw] {
		return false
	}

	// Explicit foot tag overrides the highway default either way.
	switch tags.Find("foot") {
	case "no", "private":
		return false
	case "yes", "designated", "permissive":
		return true
	}

	// Cycleways without a foot tag are not walkable.
	if hw == "cycleway" {
		return false
	}

	// Skip restricted access.
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}

	return true
}

// FromPBF reads an OSM PBF extract and returns the pedestrian network as
// walkway polylines, one per walkable way. Direction tags are irrelevant on
// foot, so every way contributes a single undirected polyline.
// The reader is consumed twice (ways, then node coordinates), so it must
// implement io.ReadSeeker.
func FromPBF(ctx context.Context, rs io.ReadSeeker) ([]Polyline, error) {
	// Pass 1: scan ways to collect referenced node IDs and way node lists.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways [][]osm.NodeID

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isFootAccessible(w.Tags) {
			continue
		}
		if len(w.Nodes) < 2 {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, nodeIDs)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLoc := make(map[osm.NodeID][2]float64, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLoc[n.ID] = [2]float64{n.Lat, n.Lon}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	// Assemble polylines, dropping nodes missing from the extract (ways are
	// clipped at extract boundaries).
	polylines := make([]Polyline, 0, len(ways))
	for _, way := range ways {
		pl := make(Polyline, 0, len(way))
		for _, id := range way {
			loc, ok := nodeLoc[id]
			if !ok {
				continue
			}
			pl = append(pl, geo.LatLng{Lat: loc[0], Lng: loc[1]})
		}
		if len(pl) >= 2 {
			polylines = append(polylines, pl)
		}
	}

	return polylines, nil
}
