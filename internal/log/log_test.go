package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)

	logger.Debug().Msg("hidden")
	logger.Info().Str("component", "racadm").Msg("command sent")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "racadm", entry["component"])
	assert.Equal(t, "command sent", entry["message"])
}

func TestNewWithWriter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, false)

	logger.Debug().Msg("polling job")
	assert.Contains(t, buf.String(), "polling job")
	assert.Contains(t, buf.String(), "DBG")
}
