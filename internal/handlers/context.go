// Package handlers wires the HTTP and websocket surface to the session
// core. Handlers translate transport concerns only; all rules live in the
// session manager.
package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sociogram-live/influence-lab/internal/config"
	"github.com/sociogram-live/influence-lab/internal/session"
	"github.com/sociogram-live/influence-lab/internal/ws"
)

// Context carries the shared collaborators every handler needs.
type Context struct {
	Cfg      *config.Config
	Log      *zap.Logger
	Sessions *session.Manager
	Hub      *ws.Hub
	Validate *validator.Validate
}

// NewContext builds the handler context.
func NewContext(cfg *config.Config, log *zap.Logger, sessions *session.Manager, hub *ws.Hub) *Context {
	return &Context{
		Cfg:      cfg,
		Log:      log,
		Sessions: sessions,
		Hub:      hub,
		Validate: validator.New(),
	}
}

// errCode maps a session validation error to a stable reason code.
func errCode(err error) string {
	switch {
	case errors.Is(err, session.ErrNoSession):
		return "no-session"
	case errors.Is(err, session.ErrAtCapacity):
		return "session-full"
	case errors.Is(err, session.ErrUnknownParticipant):
		return "unknown-participant"
	case errors.Is(err, session.ErrStaleQuestion):
		return "stale-question"
	case errors.Is(err, session.ErrUnknownTarget):
		return "unknown-target"
	case errors.Is(err, session.ErrSelfTarget):
		return "self-target"
	default:
		return "invalid"
	}
}

func rejection(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "code": code, "message": message})
}
