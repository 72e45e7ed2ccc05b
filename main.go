package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/sociogram-live/influence-lab/internal/config"
	"github.com/sociogram-live/influence-lab/internal/handlers"
	"github.com/sociogram-live/influence-lab/internal/session"
	"github.com/sociogram-live/influence-lab/internal/ws"
)

func main() {
	cfg := config.Load()

	var log *zap.Logger
	var err error
	if cfg.Debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	hub := ws.NewHub(log)
	sessions := session.NewManager(session.Options{
		Capacity:     cfg.MaxParticipants,
		AdvanceDelay: cfg.AdvanceDelay,
	}, hub, log)
	h := handlers.NewContext(cfg, log, sessions, hub)

	app := fiber.New()
	app.Use(logger.New())

	api := app.Group("/api")
	api.Post("/session", h.HandleCreateSession)
	api.Delete("/session", h.HandleEndSession)
	api.Get("/session", h.HandleStatus)
	api.Post("/session/advance", h.HandleAdvance)
	api.Post("/session/pause", h.HandlePause)
	api.Post("/session/resume", h.HandleResume)
	api.Post("/session/epoch", h.HandleIncrementEpoch)
	api.Post("/session/anonymize", h.HandleSuppressIdentities)
	api.Get("/graph", h.HandleGraphSnapshot)
	api.Get("/roster", h.HandleRoster)
	api.Get("/nodes/:id", h.HandleNodeProfile)

	app.Get("/qr", h.HandleJoinQR)
	app.Get("/ws", h.UpgradeRequired, websocket.New(h.HandleSocket))
	app.Static("/", "./static")

	log.Info("server starting", zap.String("port", cfg.Port), zap.String("base_url", cfg.BaseURL))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
