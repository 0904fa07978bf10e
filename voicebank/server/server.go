package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/rragul902/voice-banking-assistant/voicebank/ledger"
	"github.com/rragul902/voice-banking-assistant/voicebank/pipeline"
)

// Server wires the pipeline behind a fiber application.
type Server struct {
	app      *fiber.App
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
}

// New builds the HTTP server and registers all routes.
func New(p *pipeline.Pipeline, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(cors.New())

	s := &Server{app: app, pipeline: p, logger: logger}
	s.routes()

	return s
}

// App exposes the underlying fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving HTTP on addr.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting new requests and drains active ones.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return OK(c, fiber.Map{"status": "ok"})
	})

	v1 := s.app.Group("/v1")
	v1.Post("/commands", s.handleCommand)
	v1.Get("/accounts/:id/balance", s.handleBalance)
	v1.Get("/accounts/:id/transactions", s.handleHistory)
	v1.Post("/accounts/:id/reset", s.handleReset)
}

type commandRequest struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req commandRequest
	if err := c.BodyParser(&req); err != nil {
		return BadRequest(c, "invalid_body", "body must be JSON with text and user_id")
	}

	if req.UserID == "" {
		return BadRequest(c, "missing_user_id", "user_id is required")
	}

	result, err := s.pipeline.Submit(c.Context(), req.Text, req.UserID)
	if err != nil {
		s.logger.Error("command processing failed",
			zap.String("user_id", req.UserID),
			zap.Error(err),
		)

		if errors.Is(err, ledger.ErrStoreUnavailable) {
			return ServiceUnavailable(c, "ledger_unavailable")
		}

		return InternalServerError(c, "command_failed")
	}

	return OK(c, result)
}

func (s *Server) handleBalance(c *fiber.Ctx) error {
	userID := c.Params("id")

	balance, err := s.pipeline.Balance(c.Context(), userID)
	if err != nil {
		s.logger.Error("balance query failed", zap.String("user_id", userID), zap.Error(err))

		if errors.Is(err, ledger.ErrStoreUnavailable) {
			return ServiceUnavailable(c, "ledger_unavailable")
		}

		return InternalServerError(c, "balance_failed")
	}

	return OK(c, fiber.Map{"user_id": userID, "balance": balance, "currency": "INR"})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	userID := c.Params("id")

	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return BadRequest(c, "invalid_limit", "limit must be a positive integer")
		}

		limit = parsed
	}

	history, err := s.pipeline.History(c.Context(), userID, limit)
	if err != nil {
		s.logger.Error("history query failed", zap.String("user_id", userID), zap.Error(err))

		if errors.Is(err, ledger.ErrStoreUnavailable) {
			return ServiceUnavailable(c, "ledger_unavailable")
		}

		return InternalServerError(c, "history_failed")
	}

	return OK(c, fiber.Map{"user_id": userID, "transactions": history})
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	userID := c.Params("id")

	if err := s.pipeline.Reset(c.Context(), userID); err != nil {
		s.logger.Error("reset failed", zap.String("user_id", userID), zap.Error(err))

		if errors.Is(err, ledger.ErrStoreUnavailable) {
			return ServiceUnavailable(c, "ledger_unavailable")
		}

		return InternalServerError(c, "reset_failed")
	}

	balance, err := s.pipeline.Balance(c.Context(), userID)
	if err != nil {
		return InternalServerError(c, "reset_failed")
	}

	return OK(c, fiber.Map{"user_id": userID, "balance": balance})
}
