// Package session owns the live exercise: the single process-wide session,
// its roster and question flow, and the only write path into the graph.
package session

import (
	"errors"
	"time"

	"github.com/sociogram-live/influence-lab/internal/anonymize"
	"github.com/sociogram-live/influence-lab/internal/channels"
	"github.com/sociogram-live/influence-lab/internal/graph"
)

// Validation errors returned to the submitting client. None of them leave
// any state changed.
var (
	ErrNoSession          = errors.New("no active session")
	ErrAtCapacity         = errors.New("session is full")
	ErrUnknownParticipant = errors.New("unknown participant")
	ErrStaleQuestion      = errors.New("response is for a question that is not current")
	ErrUnknownTarget      = errors.New("unknown target")
	ErrSelfTarget         = errors.New("cannot nominate yourself")
)

// Participant is one member of the roster.
type Participant struct {
	ID       string
	Name     string
	ClientID string
	JoinedAt time.Time
}

// Response is one participant's answer to one question. An empty Target is
// an abstention and creates no edge.
type Response struct {
	Target  string
	Channel channels.Channel
	At      time.Time
}

// Session is the process-wide aggregate. It is owned and mutated only by
// the Manager; readers get copies through the Manager's view methods.
type Session struct {
	ID           string
	Paused       bool
	Completed    bool
	Cursor       int // -1 before the first question
	Epoch        int
	Questions    []Question
	Participants map[string]*Participant
	byClient     map[string]string // connection id -> participant id
	Responses    map[int]map[string]Response
	Graph        *graph.Store
	Labels       *anonymize.Labeler
}

func newSession(id string, questions []Question) *Session {
	return &Session{
		ID:           id,
		Cursor:       -1,
		Questions:    questions,
		Participants: make(map[string]*Participant),
		byClient:     make(map[string]string),
		Responses:    make(map[int]map[string]Response),
		Graph:        graph.NewStore(),
		Labels:       anonymize.NewLabeler(),
	}
}

// responseCount returns how many responses exist for the current question.
func (s *Session) responseCount() int {
	if s.Cursor < 0 {
		return 0
	}
	return len(s.Responses[s.Cursor])
}

// labelFor resolves a node's display label using its current position in
// graph enumeration order.
func (s *Session) labelFor(id string) string {
	position := 0
	for i, nodeID := range s.Graph.NodeIDs() {
		if nodeID == id {
			position = i
			break
		}
	}
	return s.Labels.LabelFor(id, position)
}
