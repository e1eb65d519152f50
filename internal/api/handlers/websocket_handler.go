package handlers

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/chat"
	"github.com/portfolio-assistant/backend/internal/faq"
	"github.com/portfolio-assistant/backend/internal/metrics"
	"github.com/portfolio-assistant/backend/internal/middleware/ratelimit"
	"github.com/portfolio-assistant/backend/pkg/logger"
)

type jsonWriter interface {
	WriteJSON(v interface{}) error
}

// ClientKeyLocal is the upgrade request local holding the caller's rate
// limit key.
const ClientKeyLocal = "ws_client_key"

type WebSocketHandler struct {
	replier          Replier
	limiter          ratelimit.Store
	maxMessageLength int
}

func NewWebSocketHandler(replier Replier, limiter ratelimit.Store, maxMessageLength int) *WebSocketHandler {
	return &WebSocketHandler{
		replier:          replier,
		limiter:          limiter,
		maxMessageLength: maxMessageLength,
	}
}

func (h *WebSocketHandler) HandleConnection(c *websocket.Conn) {
	key, _ := c.Locals(ClientKeyLocal).(string)
	if key == "" {
		key = "unknown"
	}
	logger.Info("WebSocket connection established", zap.String("key", key))

	defer func() {
		c.Close()
		logger.Info("WebSocket connection closed")
	}()

	for {
		var msg struct {
			Type    string `json:"type"`
			Content string `json:"content"`
		}

		if err := c.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("Failed to read WebSocket message", zap.Error(err))
			}
			break
		}

		if msg.Type != "message" {
			continue
		}

		if err := h.handleMessage(context.Background(), c, key, msg.Content); err != nil {
			logger.Error("Failed to stream reply", zap.Error(err))
			break
		}
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, w jsonWriter, key, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return sendError(w, "Message is required and must be a string")
	}
	if h.maxMessageLength > 0 && utf8.RuneCountInString(content) > h.maxMessageLength {
		return sendError(w, "Message is too long")
	}
	if h.limiter != nil && !h.limiter.Allow(key) {
		metrics.RateLimited.Inc()
		logger.Warn("Rate limit exceeded", zap.String("key", key), zap.String("path", "ws"))
		return sendError(w, ratelimit.TooManyRequests)
	}

	resp, source := h.replier.Reply(ctx, content)
	return streamReply(w, resp, source)
}

// streamReply sends the answer word by word followed by a completion frame.
func streamReply(w jsonWriter, resp faq.Response, source chat.Source) error {
	words := splitIntoWords(resp.Response)
	for i, word := range words {
		chunk := word
		if i < len(words)-1 && word != "\n" {
			chunk += " "
		}

		if err := w.WriteJSON(map[string]interface{}{
			"type":    "chunk",
			"content": chunk,
		}); err != nil {
			return err
		}
	}

	return w.WriteJSON(map[string]interface{}{
		"type":        "complete",
		"source":      source,
		"suggestions": resp.Suggestions,
	})
}

func sendError(w jsonWriter, errorMsg string) error {
	return w.WriteJSON(map[string]interface{}{
		"type":  "error",
		"error": errorMsg,
	})
}

// splitIntoWords splits on spaces and keeps line breaks as their own words.
func splitIntoWords(text string) []string {
	var words []string
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			words = append(words, "\n")
		}
		words = append(words, strings.Fields(line)...)
	}
	return words
}
