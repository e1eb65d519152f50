package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsBadSettings(t *testing.T) {
	_, err := New("loud", "json", "stdout")
	assert.Error(t, err)

	_, err = New("info", "xml", "stdout")
	assert.Error(t, err)
}

func TestInit_WritesJSONToFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init("debug", "json", path))

	Info("engine ready")
	Debug("detail")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"engine ready"`)
	assert.Contains(t, string(data), `"level":"debug"`)
}

func TestLog_DefaultsToNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Warn("nobody listens")
		GetLogger().Info("still quiet")
	})
}
