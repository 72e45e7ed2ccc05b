package graph

import (
	"sync"
	"time"

	"github.com/sociogram-live/influence-lab/internal/channels"
)

// Node is a participant's position in the graph. Outgoing maps a target
// node id to the accumulated weight per channel.
type Node struct {
	ID       string
	Outgoing map[string]map[channels.Channel]int
}

// Edge is the flat, enumerable record of accumulated nominations for one
// (source, target, channel) triple. Its weight always mirrors the source
// node's adjacency entry.
type Edge struct {
	Source    string
	Target    string
	Channel   channels.Channel
	Weight    int
	UpdatedAt time.Time
}

type edgeKey struct {
	source  string
	target  string
	channel channels.Channel
}

// Store owns the in-memory multigraph for the current session. All state is
// volatile; Clear wipes it on session boundaries.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	order []string // node ids in insertion order
	edges map[edgeKey]*Edge
}

// NewStore creates an empty graph store.
func NewStore() *Store {
	return &Store{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
	}
}

// AddNode registers a node with an empty adjacency map. Adding an existing
// id is a no-op.
func (s *Store) AddNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addNodeLocked(id)
}

func (s *Store) addNodeLocked(id string) *Node {
	if n, ok := s.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Outgoing: make(map[string]map[channels.Channel]int)}
	s.nodes[id] = n
	s.order = append(s.order, id)
	return n
}

// HasNode reports whether id exists in the graph.
func (s *Store) HasNode(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// NodeIDs returns node ids in insertion order.
func (s *Store) NodeIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// UpsertEdge increments the weight for (source, target, channel) by one,
// creating nodes and records as needed. Self-loops are not rejected here;
// callers are expected to filter them.
func (s *Store) UpsertEdge(source, target string, ch channels.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.addNodeLocked(source)
	s.addNodeLocked(target)

	if src.Outgoing[target] == nil {
		src.Outgoing[target] = make(map[channels.Channel]int)
	}
	src.Outgoing[target][ch]++

	key := edgeKey{source: source, target: target, channel: ch}
	e, ok := s.edges[key]
	if !ok {
		e = &Edge{Source: source, Target: target, Channel: ch}
		s.edges[key] = e
	}
	e.Weight = src.Outgoing[target][ch]
	e.UpdatedAt = time.Now()
}

// RetractEdge decrements the weight for (source, target, channel) by one,
// dropping the records when the weight reaches zero. Used when a response
// is overwritten before the question advances.
func (s *Store) RetractEdge(source, target string, ch channels.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.nodes[source]
	if !ok {
		return
	}
	weights, ok := src.Outgoing[target]
	if !ok || weights[ch] == 0 {
		return
	}
	weights[ch]--
	if weights[ch] == 0 {
		delete(weights, ch)
		if len(weights) == 0 {
			delete(src.Outgoing, target)
		}
	}

	key := edgeKey{source: source, target: target, channel: ch}
	if e, ok := s.edges[key]; ok {
		e.Weight--
		e.UpdatedAt = time.Now()
		if e.Weight <= 0 {
			delete(s.edges, key)
		}
	}
}

// IncomingWeights sums weight into target per channel across every source
// node's adjacency map.
func (s *Store) IncomingWeights(target string) map[channels.Channel]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.incomingLocked(target)
}

func (s *Store) incomingLocked(target string) map[channels.Channel]int {
	in := make(map[channels.Channel]int, 4)
	for _, n := range s.nodes {
		for ch, w := range n.Outgoing[target] {
			in[ch] += w
		}
	}
	return in
}

// OutgoingOf returns a copy of a node's adjacency map.
func (s *Store) OutgoingOf(id string) map[string]map[channels.Channel]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return nil
	}
	out := make(map[string]map[channels.Channel]int, len(n.Outgoing))
	for target, weights := range n.Outgoing {
		cp := make(map[channels.Channel]int, len(weights))
		for ch, w := range weights {
			cp[ch] = w
		}
		out[target] = cp
	}
	return out
}

// Edges returns a copy of every edge record.
func (s *Store) Edges() []Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	edges := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		edges = append(edges, *e)
	}
	return edges
}

// EdgeCount returns the number of distinct (source, target, channel) records.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// Clear removes all nodes and edges.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]*Node)
	s.order = nil
	s.edges = make(map[edgeKey]*Edge)
}
