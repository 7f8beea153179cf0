package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLogsJSONAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "prod", "")

	log.Debug("hidden")
	log.Info("claim filed", "claim_id", "c1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "claim filed", line["msg"])
	assert.Equal(t, "c1", line["claim_id"])
	assert.Equal(t, "insureflow", line["service"])
}

func TestLevelOverride(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "dev", "warn")

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelError, parseLevel("ERROR", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, parseLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelDebug, parseLevel("chatty", slog.LevelDebug))
}
