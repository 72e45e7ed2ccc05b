package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sociogram-live/influence-lab/internal/session"
)

type createSessionRequest struct {
	Questions []session.Question `json:"questions" validate:"omitempty,dive"`
}

// HandleCreateSession starts a fresh session, discarding any prior one.
// An optional question list in the body replaces the default bank.
func (ctx *Context) HandleCreateSession(c *fiber.Ctx) error {
	var req createSessionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return rejection(c, fiber.StatusBadRequest, "bad-request", "malformed body")
		}
		if err := ctx.Validate.Struct(&req); err != nil {
			return rejection(c, fiber.StatusBadRequest, "bad-request", err.Error())
		}
		for _, q := range req.Questions {
			if q.Text == "" || q.Channel == "" {
				return rejection(c, fiber.StatusBadRequest, "bad-request", "question text and channel are required")
			}
		}
	}

	status := ctx.Sessions.Create(req.Questions)
	ctx.Log.Info("session created via api", zap.String("session", status.SessionID))
	return c.Status(fiber.StatusCreated).JSON(status)
}

// HandleEndSession terminates the active session. Benign when none is
// active; the flag in the body says whether anything happened.
func (ctx *Context) HandleEndSession(c *fiber.Ctx) error {
	ended := ctx.Sessions.End()
	return c.JSON(fiber.Map{"ok": ended})
}

// HandleAdvance moves the cursor to the next question. A refusal comes back
// as a structured outcome with the shortfall, not as an HTTP error body
// alone.
func (ctx *Context) HandleAdvance(c *fiber.Ctx) error {
	outcome := ctx.Sessions.Advance()
	if !outcome.Advanced {
		return c.Status(fiber.StatusConflict).JSON(outcome)
	}
	return c.JSON(outcome)
}

// HandlePause suspends question flow.
func (ctx *Context) HandlePause(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": ctx.Sessions.Pause()})
}

// HandleResume lifts a pause.
func (ctx *Context) HandleResume(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": ctx.Sessions.Resume()})
}

// HandleIncrementEpoch bumps the epoch counter manually.
func (ctx *Context) HandleIncrementEpoch(c *fiber.Ctx) error {
	epoch, ok := ctx.Sessions.IncrementEpoch()
	return c.JSON(fiber.Map{"ok": ok, "epoch": epoch})
}

// HandleSuppressIdentities irreversibly switches to anonymous labels.
func (ctx *Context) HandleSuppressIdentities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": ctx.Sessions.SuppressIdentities()})
}
