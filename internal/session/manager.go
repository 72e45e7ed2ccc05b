package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sociogram-live/influence-lab/internal/ws"
)

const (
	// DefaultCapacity is the roster limit for one session.
	DefaultCapacity = 20
	// DefaultAdvanceDelay is how long a fully answered question lingers
	// before the cursor advances on its own.
	DefaultAdvanceDelay = 5 * time.Second
)

// Publisher is the outbound side of the realtime transport.
type Publisher interface {
	Publish(e ws.Event)
}

// Options tunes a Manager. Zero values fall back to the defaults.
type Options struct {
	Capacity     int
	AdvanceDelay time.Duration
}

// Manager is the session state machine. Every external event (join, leave,
// response, advance, pause, resume, end) runs as one run-to-completion
// handler under the manager's lock; the auto-advance timer is the only
// asynchronous path and re-checks session identity when it fires.
type Manager struct {
	mu           sync.Mutex
	log          *zap.Logger
	pub          Publisher
	capacity     int
	advanceDelay time.Duration

	sess     *Session
	timer    *time.Timer
	timerGen int
}

// NewManager creates a manager with no active session.
func NewManager(opts Options, pub Publisher, log *zap.Logger) *Manager {
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.AdvanceDelay <= 0 {
		opts.AdvanceDelay = DefaultAdvanceDelay
	}
	return &Manager{
		log:          log,
		pub:          pub,
		capacity:     opts.Capacity,
		advanceDelay: opts.AdvanceDelay,
	}
}

// Create starts a fresh session, unconditionally discarding any prior one.
// The question sequence is shuffled once here and fixed for the session's
// duration; nil or empty questions selects the default bank.
func (m *Manager) Create(questions []Question) Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess != nil {
		m.cancelTimerLocked()
		m.pub.Publish(ws.SessionEndedEvent{Reason: "superseded"})
	}

	if len(questions) == 0 {
		questions = DefaultQuestions()
	} else {
		questions = append([]Question(nil), questions...)
	}
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	m.sess = newSession(uuid.New().String(), questions)
	m.log.Info("session created",
		zap.String("session", m.sess.ID),
		zap.Int("questions", len(questions)))
	return m.statusLocked()
}

// JoinResult confirms a successful join.
type JoinResult struct {
	SessionID     string `json:"sessionId"`
	ParticipantID string `json:"participantId"`
	Label         string `json:"label"`
}

// Join adds a participant to the roster and a node to the graph. The real
// name is only retained while identities are not suppressed.
func (m *Manager) Join(name, clientID string) (JoinResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return JoinResult{}, ErrNoSession
	}
	if len(m.sess.Participants) >= m.capacity {
		return JoinResult{}, ErrAtCapacity
	}

	p := &Participant{
		ID:       uuid.New().String(),
		Name:     name,
		ClientID: clientID,
		JoinedAt: time.Now(),
	}
	m.sess.Participants[p.ID] = p
	if clientID != "" {
		m.sess.byClient[clientID] = p.ID
	}
	m.sess.Graph.AddNode(p.ID)
	m.sess.Labels.SetName(p.ID, name)

	label := m.sess.labelFor(p.ID)
	m.log.Info("participant joined",
		zap.String("session", m.sess.ID),
		zap.String("participant", p.ID),
		zap.Int("count", len(m.sess.Participants)))
	m.pub.Publish(ws.ParticipantJoinedEvent{Label: label, Count: len(m.sess.Participants)})

	return JoinResult{SessionID: m.sess.ID, ParticipantID: p.ID, Label: label}, nil
}

// Leave removes the participant bound to a connection. The graph node and
// all historical edges stay; recorded history is immutable. A departure can
// complete the current question, so the auto-advance check runs afterwards.
func (m *Manager) Leave(clientID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return false
	}
	pid, ok := m.sess.byClient[clientID]
	if !ok {
		return false
	}
	label := m.sess.labelFor(pid)
	delete(m.sess.byClient, clientID)
	delete(m.sess.Participants, pid)

	m.log.Info("participant left",
		zap.String("session", m.sess.ID),
		zap.String("participant", pid),
		zap.Int("count", len(m.sess.Participants)))
	m.pub.Publish(ws.ParticipantLeftEvent{Label: label, Count: len(m.sess.Participants)})

	m.checkAutoAdvanceLocked()
	return true
}

// RecordResponse registers one participant's answer to the current
// question. A resubmission for the same index overwrites: the previous
// edge increment is retracted before the new target is applied, so
// correcting an answer never double-counts. An empty target abstains.
func (m *Manager) RecordResponse(participantID string, questionIndex int, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return ErrNoSession
	}
	if _, ok := m.sess.Participants[participantID]; !ok {
		return ErrUnknownParticipant
	}
	if m.sess.Cursor < 0 || questionIndex != m.sess.Cursor || m.sess.Completed {
		return ErrStaleQuestion
	}
	if targetID != "" {
		if targetID == participantID {
			return ErrSelfTarget
		}
		if !m.sess.Graph.HasNode(targetID) {
			return ErrUnknownTarget
		}
	}

	ch := m.sess.Questions[m.sess.Cursor].Channel
	table := m.sess.Responses[m.sess.Cursor]
	if table == nil {
		table = make(map[string]Response)
		m.sess.Responses[m.sess.Cursor] = table
	}
	if prior, ok := table[participantID]; ok && prior.Target != "" {
		m.sess.Graph.RetractEdge(participantID, prior.Target, ch)
	}
	table[participantID] = Response{Target: targetID, Channel: ch, At: time.Now()}
	if targetID != "" {
		m.sess.Graph.UpsertEdge(participantID, targetID, ch)
	}

	m.pub.Publish(ws.ResponseCountEvent{
		Index: m.sess.Cursor,
		Count: len(table),
		Total: len(m.sess.Participants),
	})
	m.checkAutoAdvanceLocked()
	return nil
}

// AdvanceOutcome reports what Advance did. A refusal is a structured
// outcome, not an error; the caller decides whether to retry.
type AdvanceOutcome struct {
	Advanced  bool   `json:"advanced"`
	Completed bool   `json:"completed,omitempty"`
	Index     int    `json:"index"`
	Reason    string `json:"reason,omitempty"`
	Waiting   int    `json:"waiting,omitempty"`
}

// Advance moves the cursor to the next question. Refused while paused, with
// no session, after completion, or while the current question still has
// outstanding respondents.
func (m *Manager) Advance() AdvanceOutcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sess == nil {
		return AdvanceOutcome{Index: -1, Reason: "no active session"}
	}
	if m.sess.Paused {
		return AdvanceOutcome{Index: m.sess.Cursor, Reason: "session is paused"}
	}
	if m.sess.Completed {
		return AdvanceOutcome{Index: m.sess.Cursor, Reason: "question sequence already complete"}
	}
	if m.sess.Cursor >= 0 {
		total := len(m.sess.Participants)
		answered := m.sess.responseCount()
		if total > 0 && answered < total {
			return AdvanceOutcome{
				Index:   m.sess.Cursor,
				Reason:  "waiting for responses",
				Waiting: total - answered,
			}
		}
	}
	return m.advanceLocked()
}

// advanceLocked performs the actual cursor move. The epoch counts completed
// rounds, so the initial move from -1 to 0 does not increment it.
func (m *Manager) advanceLocked() AdvanceOutcome {
	m.cancelTimerLocked()

	started := m.sess.Cursor >= 0
	m.sess.Cursor++
	if started {
		m.sess.Epoch++
		m.pub.Publish(ws.EpochEvent{Epoch: m.sess.Epoch})
	}

	if m.sess.Cursor >= len(m.sess.Questions) {
		m.sess.Completed = true
		m.log.Info("session complete",
			zap.String("session", m.sess.ID), zap.Int("epoch", m.sess.Epoch))
		m.pub.Publish(ws.SessionCompleteEvent{QuestionCount: len(m.sess.Questions)})
		return AdvanceOutcome{Advanced: true, Completed: true, Index: m.sess.Cursor}
	}

	q := m.sess.Questions[m.sess.Cursor]
	m.log.Info("question advanced",
		zap.String("session", m.sess.ID),
		zap.Int("index", m.sess.Cursor),
		zap.String("channel", string(q.Channel)))
	m.pub.Publish(ws.QuestionEvent{
		Index:   m.sess.Cursor,
		Text:    q.Text,
		Channel: q.Channel,
		Roster:  m.rosterLocked(),
	})
	return AdvanceOutcome{Advanced: true, Index: m.sess.Cursor}
}

// checkAutoAdvanceLocked arms the auto-advance timer when the current
// question is fully answered. Re-arming cancels any pending timer first, so
// at most one is ever outstanding.
func (m *Manager) checkAutoAdvanceLocked() {
	if m.sess == nil || m.sess.Paused || m.sess.Completed || m.sess.Cursor < 0 {
		return
	}
	total := len(m.sess.Participants)
	if total == 0 || m.sess.responseCount() < total {
		return
	}
	m.cancelTimerLocked()
	sid := m.sess.ID
	gen := m.timerGen
	m.timer = time.AfterFunc(m.advanceDelay, func() { m.autoAdvance(sid, gen) })
}

// autoAdvance is the timer callback. The session id and timer generation
// captured at scheduling time guard against a stale firing: a callback that
// already fired but lost the lock race to a cancel or re-arm is discarded.
func (m *Manager) autoAdvance(sid string, gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.timerGen {
		return
	}
	if m.sess == nil || m.sess.ID != sid || m.sess.Paused || m.sess.Completed {
		return
	}
	m.timer = nil
	m.advanceLocked()
}

func (m *Manager) cancelTimerLocked() {
	m.timerGen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// Pause suspends question flow and cancels any pending auto-advance.
// Returns false when there is nothing to pause.
func (m *Manager) Pause() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return false
	}
	m.sess.Paused = true
	m.cancelTimerLocked()
	m.log.Info("session paused", zap.String("session", m.sess.ID))
	return true
}

// Resume lifts a pause and re-arms the auto-advance if the current question
// is already fully answered.
func (m *Manager) Resume() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return false
	}
	m.sess.Paused = false
	m.checkAutoAdvanceLocked()
	m.log.Info("session resumed", zap.String("session", m.sess.ID))
	return true
}

// End terminates the session, broadcasts the notice, and discards all
// state. Returns false when no session is active.
func (m *Manager) End() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return false
	}
	m.cancelTimerLocked()
	m.log.Info("session ended", zap.String("session", m.sess.ID), zap.Int("epoch", m.sess.Epoch))
	m.pub.Publish(ws.SessionEndedEvent{Reason: "ended"})
	m.sess = nil
	return true
}

// IncrementEpoch bumps the epoch counter outside the normal advance path.
func (m *Manager) IncrementEpoch() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return 0, false
	}
	m.sess.Epoch++
	m.pub.Publish(ws.EpochEvent{Epoch: m.sess.Epoch})
	return m.sess.Epoch, true
}

// SuppressIdentities switches labels to the positional scheme and discards
// real names. One-way for the session's lifetime.
func (m *Manager) SuppressIdentities() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return false
	}
	m.sess.Labels.Suppress()
	m.log.Info("identities suppressed", zap.String("session", m.sess.ID))
	return true
}

// ParticipantByClient resolves the participant bound to a connection.
func (m *Manager) ParticipantByClient(clientID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return "", false
	}
	pid, ok := m.sess.byClient[clientID]
	return pid, ok
}

// rosterLocked lists active participants in graph enumeration order.
func (m *Manager) rosterLocked() []ws.RosterEntry {
	roster := make([]ws.RosterEntry, 0, len(m.sess.Participants))
	for _, id := range m.sess.Graph.NodeIDs() {
		if _, active := m.sess.Participants[id]; !active {
			continue
		}
		roster = append(roster, ws.RosterEntry{ID: id, Label: m.sess.labelFor(id)})
	}
	return roster
}
