package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/probe/internal/logging"
)

func TestJSONLogger_WritesOneEntryPerLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.NewJSONLogger("apirunner", &buf)

	logger.Info("sent request", logging.Field{Key: "status", Value: 201})
	logger.Warn("request failed", logging.Err(errors.New("boom")))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var entry struct {
		Level     string         `json:"level"`
		Msg       string         `json:"msg"`
		Component string         `json:"component"`
		Fields    map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, "sent request", entry.Msg)
	assert.Equal(t, "apirunner", entry.Component)
	assert.EqualValues(t, 201, entry.Fields["status"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "boom", entry.Fields["error"])
}

func TestJSONLogger_WithCarriesFieldsAndComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.NewJSONLogger("root", &buf).
		With(logging.Field{Key: "component", Value: "browser"}, logging.Field{Key: "page", Value: "p1"})

	logger.Debug("navigated")

	var entry struct {
		Component string         `json:"component"`
		Fields    map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "browser", entry.Component)
	assert.Equal(t, "p1", entry.Fields["page"])
	assert.NotContains(t, entry.Fields, "component")
}

func TestConsoleLogger_PlainWhenColorDisabled(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := logging.NewConsoleLogger("fixtureserver", &buf).With(logging.Field{Key: "addr", Value: ":9999"})

	logger.Error("listen failed", logging.Field{Key: "attempt", Value: 1})

	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "[fixtureserver] listen failed")
	assert.Contains(t, out, "addr=:9999 attempt=1")
}

func TestNop_DiscardsEverything(t *testing.T) {
	t.Parallel()
	logger := logging.Nop()
	logger.Info("ignored")
	assert.NotNil(t, logger.With(logging.Field{Key: "k", Value: "v"}))
}
