package ws

import "github.com/sociogram-live/influence-lab/internal/channels"

// Event is one outbound notification variant. The set of implementations
// is closed; every event carries fixed fields and a stable wire name.
type Event interface {
	EventName() string
}

// RosterEntry is the minimal participant view sent with question events.
type RosterEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// QuestionEvent announces the question the cursor just advanced to.
type QuestionEvent struct {
	Index   int              `json:"index"`
	Text    string           `json:"text"`
	Channel channels.Channel `json:"channel"`
	Roster  []RosterEntry    `json:"roster"`
}

func (QuestionEvent) EventName() string { return "question" }

// EpochEvent announces a new epoch count.
type EpochEvent struct {
	Epoch int `json:"epoch"`
}

func (EpochEvent) EventName() string { return "epoch-update" }

// ResponseCountEvent reports progress on the current question.
type ResponseCountEvent struct {
	Index int `json:"index"`
	Count int `json:"count"`
	Total int `json:"total"`
}

func (ResponseCountEvent) EventName() string { return "response-count" }

// ParticipantJoinedEvent announces a new roster size after a join.
type ParticipantJoinedEvent struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func (ParticipantJoinedEvent) EventName() string { return "participant-joined" }

// ParticipantLeftEvent announces a new roster size after a departure.
type ParticipantLeftEvent struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

func (ParticipantLeftEvent) EventName() string { return "participant-left" }

// SessionCompleteEvent signals that the question sequence is exhausted.
type SessionCompleteEvent struct {
	QuestionCount int `json:"questionCount"`
}

func (SessionCompleteEvent) EventName() string { return "session-complete" }

// SessionEndedEvent signals termination of the session.
type SessionEndedEvent struct {
	Reason string `json:"reason"`
}

func (SessionEndedEvent) EventName() string { return "session-ended" }

// JoinedEvent confirms a join to the joining client only.
type JoinedEvent struct {
	SessionID     string `json:"sessionId"`
	ParticipantID string `json:"participantId"`
	Label         string `json:"label"`
}

func (JoinedEvent) EventName() string { return "joined" }

// AckEvent confirms a recorded response to the submitting client only.
type AckEvent struct {
	Index int `json:"index"`
}

func (AckEvent) EventName() string { return "ack" }

// ErrorEvent carries a rejection reason to one client.
type ErrorEvent struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (ErrorEvent) EventName() string { return "error" }
