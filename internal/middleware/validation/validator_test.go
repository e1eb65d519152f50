package validation

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Post("/chat", Message(Config{MaxMessageLength: 10}), func(c *fiber.Ctx) error {
		message, _ := MessageFrom(c)
		return c.SendString(message)
	})
	return app
}

func post(t *testing.T, app *fiber.App, contentType, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func errorOf(t *testing.T, body string) string {
	t.Helper()
	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload["error"]
}

func TestMessage_Valid(t *testing.T) {
	status, body := post(t, newApp(), "application/json", `{"message":"  hi there "}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "hi there", body)
}

func TestMessage_Rejected(t *testing.T) {
	tests := map[string]string{
		"invalid json":  `{"message":`,
		"missing field": `{"text":"hello"}`,
		"not a string":  `{"message":42}`,
		"null":          `{"message":null}`,
		"empty":         `{"message":""}`,
		"whitespace":    `{"message":"   "}`,
		"array body":    `["hello"]`,
	}

	app := newApp()
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			status, resp := post(t, app, "application/json", body)
			assert.Equal(t, fiber.StatusBadRequest, status)
			assert.Equal(t, "Message is required and must be a string", errorOf(t, resp))
		})
	}
}

func TestMessage_TooLong(t *testing.T) {
	app := newApp()

	status, _ := post(t, app, "application/json", `{"message":"abcdefghij"}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, resp := post(t, app, "application/json", `{"message":"abcdefghijk"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Message must be at most 10 characters", errorOf(t, resp))
}

func TestMessage_CountsRunes(t *testing.T) {
	status, body := post(t, newApp(), "application/json", `{"message":"héllo wörl"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "héllo wörl", body)
}

func TestMessage_ContentType(t *testing.T) {
	app := newApp()

	status, _ := post(t, app, "text/plain", `{"message":"hi"}`)
	assert.Equal(t, fiber.StatusUnsupportedMediaType, status)

	status, _ = post(t, app, "application/json; charset=utf-8", `{"message":"hi"}`)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = post(t, app, "", `{"message":"hi"}`)
	assert.Equal(t, fiber.StatusOK, status)
}
