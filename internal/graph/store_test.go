package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sociogram-live/influence-lab/internal/channels"
)

func TestUpsertEdgeAccumulates(t *testing.T) {
	s := NewStore()
	s.UpsertEdge("a", "b", channels.Technical)
	s.UpsertEdge("a", "b", channels.Technical)
	s.UpsertEdge("a", "b", channels.Social)

	edges := s.Edges()
	require.Len(t, edges, 2)

	out := s.OutgoingOf("a")
	assert.Equal(t, 2, out["b"][channels.Technical])
	assert.Equal(t, 1, out["b"][channels.Social])

	// the flat edge index mirrors the adjacency map
	for _, e := range edges {
		assert.Equal(t, out[e.Target][e.Channel], e.Weight)
		assert.False(t, e.UpdatedAt.IsZero())
	}
}

func TestUpsertEdgeCreatesNodes(t *testing.T) {
	s := NewStore()
	s.UpsertEdge("a", "b", channels.Creative)
	assert.True(t, s.HasNode("a"))
	assert.True(t, s.HasNode("b"))
	assert.Equal(t, 2, s.NodeCount())
}

func TestNodeIDsKeepInsertionOrder(t *testing.T) {
	s := NewStore()
	s.AddNode("c")
	s.AddNode("a")
	s.AddNode("b")
	s.AddNode("a") // duplicate add is a no-op
	assert.Equal(t, []string{"c", "a", "b"}, s.NodeIDs())
}

func TestIncomingWeights(t *testing.T) {
	s := NewStore()
	s.UpsertEdge("a", "c", channels.Technical)
	s.UpsertEdge("b", "c", channels.Technical)
	s.UpsertEdge("b", "c", channels.Cognitive)

	in := s.IncomingWeights("c")
	assert.Equal(t, 2, in[channels.Technical])
	assert.Equal(t, 1, in[channels.Cognitive])
	assert.Empty(t, s.IncomingWeights("a"))
}

func TestRetractEdge(t *testing.T) {
	s := NewStore()
	s.UpsertEdge("a", "b", channels.Social)
	s.UpsertEdge("a", "b", channels.Social)

	s.RetractEdge("a", "b", channels.Social)
	require.Equal(t, 1, s.EdgeCount())
	assert.Equal(t, 1, s.OutgoingOf("a")["b"][channels.Social])

	s.RetractEdge("a", "b", channels.Social)
	assert.Zero(t, s.EdgeCount())
	assert.Empty(t, s.OutgoingOf("a"))

	// retracting below zero is a no-op
	s.RetractEdge("a", "b", channels.Social)
	assert.Zero(t, s.EdgeCount())
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.UpsertEdge("a", "b", channels.Creative)
	s.Clear()
	assert.Zero(t, s.NodeCount())
	assert.Zero(t, s.EdgeCount())
	assert.Empty(t, s.NodeIDs())
}
