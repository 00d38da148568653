package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("DEBUG"))
	assert.Equal(t, Warn, ParseLevel(" warning "))
	assert.Equal(t, Error, ParseLevel("error"))
	assert.Equal(t, Info, ParseLevel(""))
	assert.Equal(t, Info, ParseLevel("verbose"))
}

func TestJSONLogger_FiltersByLevelAndMergesFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Format: FormatJSON, App: "petcheck", Output: &buf})

	l.Info("ignored", nil)
	l.With(map[string]any{"op": "appointments.list"}).Warn("fetch failed", map[string]any{
		"status": 500,
		"err":    errors.New("boom"),
		"":       "dropped",
	})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "fetch failed", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "petcheck", entry["app"])
	assert.Equal(t, "appointments.list", entry["op"])
	assert.Equal(t, "boom", entry["err"])
	assert.EqualValues(t, 500, entry["status"])
	assert.NotContains(t, entry, "")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing", map[string]any{"k": "v"})
	assert.NotNil(t, l.With(nil))
}
