package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dbenamy/hack-retro/internal/api"
	"github.com/dbenamy/hack-retro/internal/api/handler"
	"github.com/dbenamy/hack-retro/internal/config"
	"github.com/dbenamy/hack-retro/internal/geometry"
	"github.com/dbenamy/hack-retro/internal/logging"
	"github.com/dbenamy/hack-retro/internal/render"
	"github.com/dbenamy/hack-retro/internal/service"
	"github.com/dbenamy/hack-retro/internal/transport/ws"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			fmt.Printf("Loaded .env from: %s\n", p)
			break
		}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger, logCloser, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer logCloser.Close()

	logger = logger.With().
		Str("instance", uuid.NewString()).
		Str("session", cfg.Session.ID).
		Logger()
	log.Logger = logger

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("Retro client stopped")
		logCloser.Close()
		os.Exit(1)
	}
	logger.Info().Msg("Retro client stopped")
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	url, err := ws.SessionURL(cfg.Server.URL, cfg.Session.ID)
	if err != nil {
		return err
	}

	conn, err := ws.Dial(ctx, url, ws.Options{
		HandshakeTimeout: cfg.Server.HandshakeTimeout,
		WriteTimeout:     cfg.Server.WriteTimeout,
		SendBuffer:       cfg.Server.SendBuffer,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to retro server: %w", err)
	}
	defer conn.Close()

	board := render.NewBoard(render.Layout{
		CharWidth:   cfg.Grouping.CardCharWidth,
		CardHeight:  cfg.Grouping.CardHeight,
		CardPadding: cfg.Grouping.CardPadding,
		WorkspaceOrigin: geometry.Point{
			X: cfg.Grouping.WorkspaceLeft,
			Y: cfg.Grouping.WorkspaceTop,
		},
	})
	session := service.NewSession(conn, board,
		service.WithLogger(logger.With().Str("component", "session").Logger()),
		service.WithMoveThrottle(cfg.Grouping.MoveThrottle),
	)
	loop := service.NewLoop(logger.With().Str("component", "loop").Logger())

	loopDone := make(chan error, 1)
	go func() { loopDone <- loop.Run(ctx) }()

	go func() {
		err := conn.ReadLoop(ctx, func(data []byte) {
			if err := loop.Post(ctx, func() { session.Receive(data) }); err != nil {
				logger.Debug().Err(err).Msg("dropping frame, loop stopped")
			}
		})
		if err == nil || ctx.Err() != nil {
			return
		}
		_ = loop.Post(ctx, func() { session.Disconnected(err) })
	}()

	if name := cfg.Session.Name; name != "" {
		// Joining needs the phase from init; the draft is used once it arrives.
		_ = loop.Post(ctx, func() { board.Type(service.FieldName, name) })
	}

	var server *http.Server
	if cfg.API.Enabled {
		sessionHandler := handler.NewSessionHandler(loop, session, board)
		server = &http.Server{
			Addr:         cfg.API.Addr(),
			Handler:      api.NewRouter(cfg.API, sessionHandler, logger.With().Str("component", "api").Logger()),
			ReadTimeout:  cfg.API.ReadTimeout,
			WriteTimeout: cfg.API.WriteTimeout,
		}

		go func() {
			logger.Info().Msgf("Control API listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("Control API failed")
				stop()
			}
		}()
	}

	logger.Info().Str("url", url).Msg("Retro client started")
	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Control API forced to shutdown")
		}
	}

	<-loopDone
	return nil
}
