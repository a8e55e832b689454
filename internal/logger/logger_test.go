package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_JSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Config{Level: "warn", Service: "bubbledash"}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	log.Info().Msg("dropped")
	log.Warn().Str("symbol", "NVDA").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "kept", entry["message"])
	require.Equal(t, "NVDA", entry["symbol"])
	require.Equal(t, "bubbledash", entry["service"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(Config{Level: "loud"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	log, closer, err := New(Config{FilePath: path, RotationSize: 1}, &bytes.Buffer{})
	require.NoError(t, err)

	log.Info().Msg("to file")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "to file")
}
