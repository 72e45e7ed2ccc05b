package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sociogram-live/influence-lab/internal/channels"
	"github.com/sociogram-live/influence-lab/internal/ws"
)

// recorder captures published events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []ws.Event
}

func (r *recorder) Publish(e ws.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) named(name string) []ws.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ws.Event
	for _, e := range r.events {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

func newTestManager(t *testing.T, opts Options) (*Manager, *recorder) {
	t.Helper()
	rec := &recorder{}
	return NewManager(opts, rec, zap.NewNop()), rec
}

func twoTechnicalQuestions() []Question {
	return []Question{
		{Text: "Who would you ask for help when stuck?", Channel: channels.Technical},
		{Text: "Whose technical judgment do you trust?", Channel: channels.Technical},
	}
}

func TestCreateResetsState(t *testing.T) {
	m, rec := newTestManager(t, Options{})
	m.Create(nil)
	_, err := m.Join("Ada", "conn-a")
	require.NoError(t, err)

	st := m.Create(nil)
	assert.True(t, st.Active)
	assert.Zero(t, st.Participants)
	assert.Equal(t, -1, st.Cursor)
	assert.Zero(t, st.Epoch)
	assert.Equal(t, 20, st.TotalQuestions)
	assert.False(t, st.Suppressed)

	ended := rec.named("session-ended")
	require.Len(t, ended, 1)
	assert.Equal(t, "superseded", ended[0].(ws.SessionEndedEvent).Reason)
}

func TestJoinRequiresSession(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	_, err := m.Join("Ada", "conn-a")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestJoinCapacity(t *testing.T) {
	m, _ := newTestManager(t, Options{Capacity: 2})
	m.Create(nil)
	_, err := m.Join("Ada", "conn-a")
	require.NoError(t, err)
	_, err = m.Join("Grace", "conn-b")
	require.NoError(t, err)
	_, err = m.Join("Edsger", "conn-c")
	assert.ErrorIs(t, err, ErrAtCapacity)
}

func TestAdvanceRefusals(t *testing.T) {
	m, _ := newTestManager(t, Options{})

	out := m.Advance()
	assert.False(t, out.Advanced)
	assert.Equal(t, "no active session", out.Reason)

	m.Create(twoTechnicalQuestions())
	a, _ := m.Join("Ada", "conn-a")
	_, err := m.Join("Grace", "conn-b")
	require.NoError(t, err)

	out = m.Advance() // starting the first question needs no responses
	require.True(t, out.Advanced)
	assert.Equal(t, 0, out.Index)

	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, ""))
	out = m.Advance()
	assert.False(t, out.Advanced)
	assert.Equal(t, 1, out.Waiting)

	require.True(t, m.Pause())
	out = m.Advance()
	assert.False(t, out.Advanced)
	assert.Equal(t, "session is paused", out.Reason)
}

func TestRecordResponseValidation(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	m.Create(twoTechnicalQuestions())
	a, _ := m.Join("Ada", "conn-a")
	b, _ := m.Join("Grace", "conn-b")

	// no question on screen yet
	assert.ErrorIs(t, m.RecordResponse(a.ParticipantID, 0, b.ParticipantID), ErrStaleQuestion)

	require.True(t, m.Advance().Advanced)
	assert.ErrorIs(t, m.RecordResponse("nobody", 0, b.ParticipantID), ErrUnknownParticipant)
	assert.ErrorIs(t, m.RecordResponse(a.ParticipantID, 1, b.ParticipantID), ErrStaleQuestion)
	assert.ErrorIs(t, m.RecordResponse(a.ParticipantID, 0, a.ParticipantID), ErrSelfTarget)
	assert.ErrorIs(t, m.RecordResponse(a.ParticipantID, 0, "ghost"), ErrUnknownTarget)

	// nothing above changed state
	snap, ok := m.GraphSnapshot()
	require.True(t, ok)
	assert.Empty(t, snap.Edges)
}

func TestResubmissionOverwritesWithoutDoubleCounting(t *testing.T) {
	m, _ := newTestManager(t, Options{AdvanceDelay: time.Hour})
	m.Create(twoTechnicalQuestions())
	a, _ := m.Join("Ada", "conn-a")
	b, _ := m.Join("Grace", "conn-b")
	c, _ := m.Join("Edsger", "conn-c")
	require.True(t, m.Advance().Advanced)

	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, b.ParticipantID))
	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, c.ParticipantID))

	snap, ok := m.GraphSnapshot()
	require.True(t, ok)
	require.Len(t, snap.Edges, 1)
	assert.Equal(t, a.ParticipantID, snap.Edges[0].Source)
	assert.Equal(t, c.ParticipantID, snap.Edges[0].Target)
	assert.Equal(t, 1, snap.Edges[0].Weight)

	// correcting to an abstention removes the edge entirely
	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, ""))
	snap, _ = m.GraphSnapshot()
	assert.Empty(t, snap.Edges)
}

func TestAutoAdvancePauseAndResume(t *testing.T) {
	m, _ := newTestManager(t, Options{AdvanceDelay: 30 * time.Millisecond})
	m.Create(twoTechnicalQuestions())
	a, _ := m.Join("Ada", "conn-a")
	require.True(t, m.Advance().Advanced)

	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, "")) // 1/1, timer armed
	require.True(t, m.Pause())

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, 0, m.Status().Cursor, "pause must cancel the pending advance")

	require.True(t, m.Resume()) // fully answered, so resume re-arms
	assert.Eventually(t, func() bool {
		return m.Status().Cursor == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, m.Status().Epoch)
}

func TestLeaveCanCompleteTheQuestion(t *testing.T) {
	m, _ := newTestManager(t, Options{AdvanceDelay: 20 * time.Millisecond})
	m.Create(twoTechnicalQuestions())
	a, _ := m.Join("Ada", "conn-a")
	b, _ := m.Join("Grace", "conn-b")
	require.True(t, m.Advance().Advanced)

	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, b.ParticipantID))
	require.True(t, m.Leave("conn-b"))

	assert.Eventually(t, func() bool {
		return m.Status().Cursor == 1
	}, time.Second, 10*time.Millisecond)

	// the departed participant's node and edges survive
	snap, ok := m.GraphSnapshot()
	require.True(t, ok)
	assert.Len(t, snap.Nodes, 2)
	assert.Len(t, snap.Edges, 1)
	for _, n := range snap.Nodes {
		if n.ID == b.ParticipantID {
			assert.False(t, n.Active)
		}
	}
}

func TestEndClearsEverything(t *testing.T) {
	m, rec := newTestManager(t, Options{})
	m.Create(nil)
	_, err := m.Join("Ada", "conn-a")
	require.NoError(t, err)

	require.True(t, m.End())
	assert.False(t, m.End(), "ending twice is a benign failure")

	st := m.Status()
	assert.False(t, st.Active)
	assert.Zero(t, st.Participants)
	assert.Equal(t, -1, st.Cursor)

	_, ok := m.GraphSnapshot()
	assert.False(t, ok)
	require.NotEmpty(t, rec.named("session-ended"))
}

func TestStaleTimerCannotTouchANewSession(t *testing.T) {
	m, _ := newTestManager(t, Options{AdvanceDelay: 20 * time.Millisecond})
	m.Create(twoTechnicalQuestions())
	a, _ := m.Join("Ada", "conn-a")
	require.True(t, m.Advance().Advanced)
	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, "")) // timer armed

	m.Create(twoTechnicalQuestions()) // supersedes before the timer fires
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, -1, m.Status().Cursor)
	assert.Zero(t, m.Status().Epoch)
}

func TestSuppressIdentities(t *testing.T) {
	m, _ := newTestManager(t, Options{})
	m.Create(nil)
	_, err := m.Join("Ada", "conn-a")
	require.NoError(t, err)
	_, err = m.Join("Grace", "conn-b")
	require.NoError(t, err)

	require.True(t, m.SuppressIdentities())
	st := m.Status()
	assert.True(t, st.Suppressed)

	snap, ok := m.GraphSnapshot()
	require.True(t, ok)
	assert.Equal(t, "Node-01", snap.Nodes[0].Label)
	assert.Equal(t, "Node-02", snap.Nodes[1].Label)
}

func TestEndToEndTwoParticipants(t *testing.T) {
	m, rec := newTestManager(t, Options{AdvanceDelay: 30 * time.Millisecond})
	m.Create(twoTechnicalQuestions())
	a, _ := m.Join("Ada", "conn-a")
	b, _ := m.Join("Grace", "conn-b")
	require.True(t, m.Advance().Advanced)

	require.NoError(t, m.RecordResponse(a.ParticipantID, 0, b.ParticipantID))
	require.NoError(t, m.RecordResponse(b.ParticipantID, 0, a.ParticipantID))

	counts := rec.named("response-count")
	require.NotEmpty(t, counts)
	last := counts[len(counts)-1].(ws.ResponseCountEvent)
	assert.Equal(t, 2, last.Count)
	assert.Equal(t, 2, last.Total)

	assert.Eventually(t, func() bool {
		st := m.Status()
		return st.Cursor == 1 && st.Epoch == 1
	}, time.Second, 10*time.Millisecond)

	snap, ok := m.GraphSnapshot()
	require.True(t, ok)
	require.Len(t, snap.Edges, 2)
	for _, e := range snap.Edges {
		assert.Equal(t, channels.Technical, e.Channel)
		assert.Equal(t, 1, e.Weight)
	}
	require.Len(t, snap.Nodes, 2)
	for _, n := range snap.Nodes {
		assert.Equal(t, 100, n.Embedding[channels.Technical])
		assert.Equal(t, 1, n.Centrality.InDegree)
		assert.Equal(t, 1, n.Centrality.OutDegree)
	}
}
