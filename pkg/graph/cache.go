package graph

import (
	"encoding/binary"
	"hash/fnv"
	"sync"

	"github.com/mmcloughlin/geohash"

	"guidely/pkg/walkway"
)

// fingerprintGeohashPrecision gives ~±2.4 m cells, matching the scale at
// which walkway edits matter.
const fingerprintGeohashPrecision = 9

// Fingerprint is a cheap structural hash of a polyline collection: polyline
// and point counts plus geohashes of each polyline's first, middle and last
// coordinates. It is deliberately not a full content hash; collisions are
// an accepted limitation, and Cache.Invalidate exists for callers that know
// the data changed.
type Fingerprint uint64

// FingerprintOf computes the structural fingerprint of polylines.
func FingerprintOf(polylines []walkway.Polyline) Fingerprint {
	h := fnv.New64a()
	var buf [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeInt(len(polylines))
	for _, pl := range polylines {
		writeInt(len(pl))
		if len(pl) == 0 {
			continue
		}
		for _, i := range []int{0, len(pl) / 2, len(pl) - 1} {
			p := pl[i]
			h.Write([]byte(geohash.EncodeWithPrecision(p.Lat, p.Lng, fingerprintGeohashPrecision)))
		}
	}

	return Fingerprint(h.Sum64())
}

// Cache memoizes the most recently built graph, keyed by the fingerprint of
// the polylines that produced it. Concurrent readers are safe; a rebuild is
// computed outside the write lock and installed by swap, so no reader ever
// observes a partially built graph.
type Cache struct {
	cfg BuildConfig

	mu     sync.RWMutex
	fp     Fingerprint
	graph  *Graph
	builds int
}

// NewCache creates a cache that builds graphs with default thresholds.
func NewCache() *Cache {
	return NewCacheWithConfig(DefaultBuildConfig())
}

// NewCacheWithConfig creates a cache with custom build thresholds.
func NewCacheWithConfig(cfg BuildConfig) *Cache {
	return &Cache{cfg: cfg}
}

// Get returns the graph for polylines, reusing the cached build when the
// fingerprint matches and rebuilding otherwise.
func (c *Cache) Get(polylines []walkway.Polyline) *Graph {
	fp := FingerprintOf(polylines)

	c.mu.RLock()
	if c.graph != nil && c.fp == fp {
		g := c.graph
		c.mu.RUnlock()
		return g
	}
	c.mu.RUnlock()

	g := BuildWithConfig(polylines, c.cfg)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have built the same graph while we did; either
	// result is equally valid, keep ours and move on.
	c.fp = fp
	c.graph = g
	c.builds++
	return g
}

// Invalidate drops the cached graph. Callers that reload map data should
// invalidate explicitly rather than trusting the fingerprint to catch every
// change.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graph = nil
	c.fp = 0
}

// Builds returns how many graph builds this cache has performed.
func (c *Cache) Builds() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.builds
}
