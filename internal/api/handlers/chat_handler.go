package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/chat"
	"github.com/portfolio-assistant/backend/internal/faq"
	"github.com/portfolio-assistant/backend/internal/middleware/validation"
	"github.com/portfolio-assistant/backend/pkg/logger"
)

const errInternal = "An error occurred while processing your request"

// Replier produces a chat reply. *chat.Service implements it.
type Replier interface {
	Reply(ctx context.Context, message string) (faq.Response, chat.Source)
}

type ChatHandler struct {
	replier Replier
}

func NewChatHandler(replier Replier) *ChatHandler {
	return &ChatHandler{replier: replier}
}

// HandleChat expects validation.Message to run first. Panics are left to the
// recover middleware and rendered by ErrorHandler.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	message, ok := validation.MessageFrom(c)
	if !ok {
		logger.Error("Chat handler mounted without message validation", zap.String("path", c.Path()))
		return internalError(c)
	}

	resp, source := h.replier.Reply(c.UserContext(), message)
	c.Set("X-Reply-Source", string(source))

	return c.JSON(resp)
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": errInternal,
	})
}

// ErrorHandler renders errors that escape handlers as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
		})
	}

	logger.Error("Unhandled request error", zap.Error(err), zap.String("path", c.Path()))
	return internalError(c)
}
