package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLogsJSONWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("production", &buf)

	log.Debug("hidden")
	log.Info("booked", "room", "A1")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "booked", record["msg"])
	assert.Equal(t, "A1", record["room"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestDevelopmentKeepsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("development", &buf).With("component", "poller")

	log.Debug("tick")

	assert.Contains(t, buf.String(), "msg=tick")
	assert.Contains(t, buf.String(), "component=poller")
}
