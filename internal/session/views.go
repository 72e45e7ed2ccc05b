package session

import (
	"time"

	"github.com/sociogram-live/influence-lab/internal/channels"
	"github.com/sociogram-live/influence-lab/internal/graph"
	"github.com/sociogram-live/influence-lab/internal/ws"
)

// Status is the synchronous session summary for the HTTP layer.
type Status struct {
	Active         bool   `json:"active"`
	SessionID      string `json:"sessionId,omitempty"`
	Participants   int    `json:"participants"`
	Cursor         int    `json:"cursor"`
	TotalQuestions int    `json:"totalQuestions"`
	Epoch          int    `json:"epoch"`
	Paused         bool   `json:"paused"`
	Completed      bool   `json:"completed"`
	Suppressed     bool   `json:"suppressed"`
}

// NodeView is one presentation-ready node.
type NodeView struct {
	ID          string                   `json:"id"`
	Label       string                   `json:"label"`
	Embedding   map[channels.Channel]int `json:"embedding"` // percentages
	Color       string                   `json:"color"`
	Size        float64                  `json:"size"`
	Centrality  graph.Centrality         `json:"centrality"`
	Role        graph.Role               `json:"role"`
	Description string                   `json:"description"`
	Active      bool                     `json:"active"`
}

// EdgeView is one presentation-ready edge.
type EdgeView struct {
	Source    string           `json:"source"`
	Target    string           `json:"target"`
	Channel   channels.Channel `json:"channel"`
	Color     string           `json:"color"`
	Weight    int              `json:"weight"`
	Thickness float64          `json:"thickness"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Snapshot is the full graph view for the renderer.
type Snapshot struct {
	SessionID  string                `json:"sessionId"`
	Epoch      int                   `json:"epoch"`
	Suppressed bool                  `json:"suppressed"`
	Nodes      []NodeView            `json:"nodes"`
	Edges      []EdgeView            `json:"edges"`
	Legend     []channels.Definition `json:"legend"`
}

// Connection is one outgoing adjacency entry in a node profile.
type Connection struct {
	Target      string                      `json:"target"`
	TargetLabel string                      `json:"targetLabel"`
	Weights     map[channels.Channel]int    `json:"weights"`
	Colors      map[channels.Channel]string `json:"colors"`
}

// Profile is the single-node view: the node plus its outgoing connections.
type Profile struct {
	NodeView
	Connections []Connection `json:"connections"`
}

// Status reports the current session state. Safe with no session active.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.statusLocked()
}

func (m *Manager) statusLocked() Status {
	if m.sess == nil {
		return Status{Cursor: -1}
	}
	return Status{
		Active:         true,
		SessionID:      m.sess.ID,
		Participants:   len(m.sess.Participants),
		Cursor:         m.sess.Cursor,
		TotalQuestions: len(m.sess.Questions),
		Epoch:          m.sess.Epoch,
		Paused:         m.sess.Paused,
		Completed:      m.sess.Completed,
		Suppressed:     m.sess.Labels.Suppressed(),
	}
}

// CurrentQuestion returns the question under the cursor, if any.
func (m *Manager) CurrentQuestion() (Question, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil || m.sess.Cursor < 0 || m.sess.Cursor >= len(m.sess.Questions) {
		return Question{}, -1, false
	}
	return m.sess.Questions[m.sess.Cursor], m.sess.Cursor, true
}

// GraphSnapshot derives the full presentation view from the current graph.
// Read-only; every derived metric is recomputed from live store state.
func (m *Manager) GraphSnapshot() (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return Snapshot{}, false
	}

	snap := Snapshot{
		SessionID:  m.sess.ID,
		Epoch:      m.sess.Epoch,
		Suppressed: m.sess.Labels.Suppressed(),
		Legend:     channels.All(),
	}
	for _, id := range m.sess.Graph.NodeIDs() {
		snap.Nodes = append(snap.Nodes, m.nodeViewLocked(id))
	}
	for _, e := range m.sess.Graph.Edges() {
		snap.Edges = append(snap.Edges, EdgeView{
			Source:    e.Source,
			Target:    e.Target,
			Channel:   e.Channel,
			Color:     channels.ColorOf(e.Channel).Hex(),
			Weight:    e.Weight,
			Thickness: edgeThickness(e.Weight),
			UpdatedAt: e.UpdatedAt,
		})
	}
	return snap, true
}

// NodeProfile returns the presentation view for one node plus its outgoing
// connections with per-channel weights and colors.
func (m *Manager) NodeProfile(id string) (Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil || !m.sess.Graph.HasNode(id) {
		return Profile{}, false
	}

	p := Profile{NodeView: m.nodeViewLocked(id)}
	for target, weights := range m.sess.Graph.OutgoingOf(id) {
		conn := Connection{
			Target:      target,
			TargetLabel: m.sess.labelFor(target),
			Weights:     weights,
			Colors:      make(map[channels.Channel]string, len(weights)),
		}
		for ch := range weights {
			conn.Colors[ch] = channels.ColorOf(ch).Hex()
		}
		p.Connections = append(p.Connections, conn)
	}
	return p, true
}

func (m *Manager) nodeViewLocked(id string) NodeView {
	embedding := m.sess.Graph.Embedding(id)
	centrality := m.sess.Graph.CentralityOf(id)
	role := graph.ClassifyRole(centrality)
	_, active := m.sess.Participants[id]
	return NodeView{
		ID:          id,
		Label:       m.sess.labelFor(id),
		Embedding:   graph.NormalizePercent(embedding),
		Color:       graph.BlendColor(embedding).Hex(),
		Size:        nodeSize(centrality.TotalVolume),
		Centrality:  centrality,
		Role:        role,
		Description: graph.Describe(embedding, role, centrality),
		Active:      active,
	}
}

// nodeSize scales render size with interaction volume, capped so one very
// active node cannot dwarf the scene.
func nodeSize(volume int) float64 {
	size := 1.0 + 0.15*float64(volume)
	if size > 3.0 {
		size = 3.0
	}
	return size
}

func edgeThickness(weight int) float64 {
	t := 0.5 + 0.5*float64(weight)
	if t > 4.0 {
		t = 4.0
	}
	return t
}

// Roster lists active participants for the HTTP layer.
func (m *Manager) Roster() []ws.RosterEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return nil
	}
	return m.rosterLocked()
}
