package routing

import (
	"math"

	"guidely/pkg/graph"
)

// MinHeap is a concrete-typed min-heap for the Dijkstra frontier.
// Avoids interface boxing overhead of container/heap.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node int
	Dist float64
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node int, dist float64) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Dist >= h.items[parent].Dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Dist < h.items[smallest].Dist {
			smallest = left
		}
		if right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

const noNode = -1

// shortestPath runs Dijkstra from source and stops as soon as target is
// settled, so the rest of the graph is never relaxed. Returns the node ID
// path source..target and its length in meters, or ok=false when target is
// unreachable.
func shortestPath(g *graph.Graph, source, target int) (path []int, dist float64, ok bool) {
	n := g.NumNodes()
	tentative := make([]float64, n)
	pred := make([]int, n)
	settled := make([]bool, n)
	for i := range tentative {
		tentative[i] = math.Inf(1)
		pred[i] = noNode
	}
	tentative[source] = 0

	var pq MinHeap
	pq.Push(source, 0)

	for pq.Len() > 0 {
		cur := pq.Pop()
		if cur.Dist > tentative[cur.Node] {
			continue // stale entry
		}
		if settled[cur.Node] {
			continue
		}
		settled[cur.Node] = true

		// Early exit: target settled, its distance is final.
		if cur.Node == target {
			break
		}

		for nb, w := range g.Nodes[cur.Node].Neighbors {
			newDist := cur.Dist + w
			if newDist < tentative[nb] {
				tentative[nb] = newDist
				pred[nb] = cur.Node
				pq.Push(nb, newDist)
			}
		}
	}

	if !settled[target] {
		return nil, 0, false
	}

	// Reconstruct target ← ... ← source, then reverse.
	for node := target; node != noNode; node = pred[node] {
		path = append(path, node)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, tentative[target], true
}
