package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/metrics"
)

// MessageKey is the fiber.Ctx local holding the validated chat message.
const MessageKey = "chat_message"

const (
	errMessageRequired   = "Message is required and must be a string"
	errUnsupportedMedia  = "Unsupported content type"
	defaultMaxMessageLen = 1000
)

type Config struct {
	MaxMessageLength int
	Logger           *zap.Logger
}

// Message validates a {"message": string} JSON body and stores the cleaned
// message under MessageKey.
func Message(cfg Config) fiber.Handler {
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = defaultMaxMessageLen
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if contentType := c.Get(fiber.HeaderContentType); contentType != "" &&
			!strings.HasPrefix(strings.ToLower(contentType), fiber.MIMEApplicationJSON) {
			return reject(c, fiber.StatusUnsupportedMediaType, "content_type", errUnsupportedMedia)
		}

		var req map[string]json.RawMessage
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return reject(c, fiber.StatusBadRequest, "invalid_json", errMessageRequired)
		}

		var message string
		raw, ok := req["message"]
		if !ok || json.Unmarshal(raw, &message) != nil {
			return reject(c, fiber.StatusBadRequest, "missing", errMessageRequired)
		}

		message = sanitizeString(message)
		if message == "" {
			return reject(c, fiber.StatusBadRequest, "missing", errMessageRequired)
		}

		if utf8.RuneCountInString(message) > cfg.MaxMessageLength {
			cfg.Logger.Warn("Chat message too long",
				zap.String("ip", c.IP()),
				zap.Int("length", utf8.RuneCountInString(message)),
			)
			return reject(c, fiber.StatusBadRequest, "too_long",
				fmt.Sprintf("Message must be at most %d characters", cfg.MaxMessageLength))
		}

		c.Locals(MessageKey, message)
		return c.Next()
	}
}

// MessageFrom returns the message stored by Message.
func MessageFrom(c *fiber.Ctx) (string, bool) {
	message, ok := c.Locals(MessageKey).(string)
	return message, ok
}

func reject(c *fiber.Ctx, status int, reason, msg string) error {
	metrics.RejectedMessages.WithLabelValues(reason).Inc()
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func sanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return strings.TrimSpace(input)
}
