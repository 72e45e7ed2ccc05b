package graph

import (
	"math"

	"github.com/sociogram-live/influence-lab/internal/channels"
)

// Vector is a per-channel weight breakdown for one node.
type Vector map[channels.Channel]int

// Total sums the vector across all channels.
func (v Vector) Total() int {
	total := 0
	for _, w := range v {
		total += w
	}
	return total
}

// Dominant returns the channel with the strictly greatest weight. Ties
// resolve to the earlier channel in registry order. Returns false when the
// vector is empty or all zero.
func (v Vector) Dominant() (channels.Channel, bool) {
	best := channels.Channel("")
	bestWeight := 0
	for _, d := range channels.All() {
		if v[d.ID] > bestWeight {
			best = d.ID
			bestWeight = v[d.ID]
		}
	}
	return best, bestWeight > 0
}

// Embedding returns the raw accumulated incoming weight per channel for a
// node. A node with no incoming edges gets a zero vector.
func (s *Store) Embedding(id string) Vector {
	v := Vector{}
	for ch, w := range s.IncomingWeights(id) {
		v[ch] = w
	}
	for _, d := range channels.All() {
		if _, ok := v[d.ID]; !ok {
			v[d.ID] = 0
		}
	}
	return v
}

// NormalizePercent converts a raw vector into percentages of its total,
// rounding each component independently. The components may not sum to
// exactly 100; the rounding error is not redistributed. A zero vector
// normalizes to all zeros.
func NormalizePercent(v Vector) map[channels.Channel]int {
	out := make(map[channels.Channel]int, len(channels.All()))
	total := v.Total()
	for _, d := range channels.All() {
		if total == 0 {
			out[d.ID] = 0
			continue
		}
		out[d.ID] = int(math.Round(float64(v[d.ID]) * 100 / float64(total)))
	}
	return out
}

// Centrality is the structural summary for one node.
type Centrality struct {
	InDegree    int `json:"inDegree"`
	OutDegree   int `json:"outDegree"`
	Betweenness int `json:"betweenness"`
	TotalVolume int `json:"totalVolume"`
}

// CentralityOf computes weighted in/out degree, total volume, and a
// simplified betweenness proxy for a node.
//
// The proxy counts, over every unordered pair of other nodes, whether one
// side reaches this node directly and this node reaches the other side
// directly. Direct adjacency stands in for "lies on the shortest path",
// which undercounts in dense or cyclic graphs. That is a known limitation
// of the measure, kept as-is.
func (s *Store) CentralityOf(id string) Centrality {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := Centrality{}
	for _, w := range s.incomingLocked(id) {
		c.InDegree += w
	}
	if n, ok := s.nodes[id]; ok {
		for _, weights := range n.Outgoing {
			for _, w := range weights {
				c.OutDegree += w
			}
		}
	}
	c.TotalVolume = c.InDegree + c.OutDegree

	others := make([]string, 0, len(s.order))
	for _, other := range s.order {
		if other != id {
			others = append(others, other)
		}
	}
	for i := 0; i < len(others); i++ {
		for j := i + 1; j < len(others); j++ {
			if s.bridgesLocked(others[i], id, others[j]) || s.bridgesLocked(others[j], id, others[i]) {
				c.Betweenness++
			}
		}
	}
	return c
}

// bridgesLocked reports whether from reaches via directly and via reaches to
// directly, on any channel.
func (s *Store) bridgesLocked(from, via, to string) bool {
	f, ok := s.nodes[from]
	if !ok {
		return false
	}
	if len(f.Outgoing[via]) == 0 {
		return false
	}
	v, ok := s.nodes[via]
	if !ok {
		return false
	}
	return len(v.Outgoing[to]) > 0
}
