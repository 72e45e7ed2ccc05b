package handlers

import (
	"github.com/gofiber/fiber/v2"
	qrcode "github.com/skip2/go-qrcode"
)

// HandleStatus reports the session summary. Works with no session active.
func (ctx *Context) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(ctx.Sessions.Status())
}

// HandleGraphSnapshot returns the full presentation-ready graph.
func (ctx *Context) HandleGraphSnapshot(c *fiber.Ctx) error {
	snap, ok := ctx.Sessions.GraphSnapshot()
	if !ok {
		return rejection(c, fiber.StatusNotFound, "no-session", "no active session")
	}
	return c.JSON(snap)
}

// HandleNodeProfile returns one node plus its outgoing connections.
func (ctx *Context) HandleNodeProfile(c *fiber.Ctx) error {
	profile, ok := ctx.Sessions.NodeProfile(c.Params("id"))
	if !ok {
		return rejection(c, fiber.StatusNotFound, "unknown-node", "node not found")
	}
	return c.JSON(profile)
}

// HandleRoster lists active participants.
func (ctx *Context) HandleRoster(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"roster": ctx.Sessions.Roster()})
}

// HandleJoinQR renders the join URL as a PNG for the projector screen.
func (ctx *Context) HandleJoinQR(c *fiber.Ctx) error {
	png, err := qrcode.Encode(ctx.Cfg.BaseURL+"/", qrcode.Medium, 256)
	if err != nil {
		return rejection(c, fiber.StatusInternalServerError, "qr-failed", "could not render QR code")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}
