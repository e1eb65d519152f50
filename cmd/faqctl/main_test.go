package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(append([]string{
		"--faq", filepath.Join("..", "..", "data", "faq-data.json"),
		"--taxonomy", filepath.Join("..", "..", "data", "taxonomy.yaml"),
		"--no-color",
	}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "FAQs loaded")
}

func TestValidate_MissingFile(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs([]string{"--faq", filepath.Join(t.TempDir(), "missing.json"), "validate"})

	assert.Error(t, root.Execute())
}

func TestAsk_JSON(t *testing.T) {
	out, err := run(t, "--json", "ask", "What", "is", "Ronit's", "current", "role", "and", "company?")
	require.NoError(t, err)

	var payload struct {
		Match       string   `json:"match"`
		Score       int      `json:"score"`
		Intent      string   `json:"intent"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	assert.Equal(t, "current-role", payload.Match)
	assert.Greater(t, payload.Score, 1)
	assert.Empty(t, payload.Intent)
}

func TestAsk_Greeting(t *testing.T) {
	out, err := run(t, "ask", "hi")
	require.NoError(t, err)
	assert.Contains(t, out, `intent "greeting"`)
}

func TestAsk_WithAnswer(t *testing.T) {
	out, err := run(t, "--json", "ask", "--answer", "xyzzy", "plugh")
	require.NoError(t, err)

	var payload struct {
		Response    string   `json:"response"`
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))

	assert.Equal(t, "xyzzy", payload.Response)
	assert.NotEmpty(t, payload.Suggestions)
}

func TestScore_Top(t *testing.T) {
	out, err := run(t, "--json", "score", "--top", "3", "current role")
	require.NoError(t, err)

	var rows []scoreRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 3)
	assert.GreaterOrEqual(t, rows[0].Score, rows[1].Score)
	assert.GreaterOrEqual(t, rows[1].Score, rows[2].Score)
}
