package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sociogram-live/influence-lab/internal/ws"
)

// inboundMessage is the closed set of actions a participant client sends.
type inboundMessage struct {
	Type   string `json:"type" validate:"required,oneof=join response"`
	Name   string `json:"name,omitempty"`
	Index  int    `json:"index"`
	Target string `json:"target,omitempty"`
}

// UpgradeRequired gates the websocket route behind a proper upgrade.
func (ctx *Context) UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleSocket owns one participant connection: it registers the client
// with the hub, drains outbound events onto the wire, and feeds join and
// response actions into the session. Disconnect is an implicit leave.
func (ctx *Context) HandleSocket(conn *websocket.Conn) {
	client := ctx.Hub.Register()
	defer func() {
		ctx.Hub.Unregister(client.ID)
		if ctx.Sessions.Leave(client.ID) {
			ctx.Log.Info("participant disconnected", zap.String("client", client.ID))
		}
		_ = conn.Close()
	}()

	// Writer: one goroutine per connection drains the hub channel, so the
	// hub never touches the socket directly. Unregistering closes Done and
	// stops it.
	go func() {
		for {
			select {
			case payload := <-client.Send():
				if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
					return
				}
			case <-client.Done():
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		ctx.handleInbound(client.ID, raw)
	}
}

func (ctx *Context) handleInbound(clientID string, raw []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		ctx.Hub.SendTo(clientID, ws.ErrorEvent{Code: "bad-message", Message: "malformed message"})
		return
	}
	if err := ctx.Validate.Struct(&msg); err != nil {
		ctx.Hub.SendTo(clientID, ws.ErrorEvent{Code: "bad-message", Message: err.Error()})
		return
	}

	switch msg.Type {
	case "join":
		if msg.Name == "" {
			ctx.Hub.SendTo(clientID, ws.ErrorEvent{Code: "bad-message", Message: "name is required"})
			return
		}
		result, err := ctx.Sessions.Join(msg.Name, clientID)
		if err != nil {
			ctx.Hub.SendTo(clientID, ws.ErrorEvent{Code: errCode(err), Message: err.Error()})
			return
		}
		ctx.Hub.SendTo(clientID, ws.JoinedEvent{
			SessionID:     result.SessionID,
			ParticipantID: result.ParticipantID,
			Label:         result.Label,
		})
		// Late joiners still need the question already on screen.
		if q, index, ok := ctx.Sessions.CurrentQuestion(); ok {
			ctx.Hub.SendTo(clientID, ws.QuestionEvent{
				Index:   index,
				Text:    q.Text,
				Channel: q.Channel,
				Roster:  ctx.Sessions.Roster(),
			})
		}

	case "response":
		pid, ok := ctx.Sessions.ParticipantByClient(clientID)
		if !ok {
			ctx.Hub.SendTo(clientID, ws.ErrorEvent{Code: "not-joined", Message: "join before responding"})
			return
		}
		if err := ctx.Sessions.RecordResponse(pid, msg.Index, msg.Target); err != nil {
			ctx.Hub.SendTo(clientID, ws.ErrorEvent{Code: errCode(err), Message: err.Error()})
			return
		}
		ctx.Hub.SendTo(clientID, ws.AckEvent{Index: msg.Index})
	}
}
