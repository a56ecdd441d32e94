package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONOutputCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig("poller", Config{AppEnv: "production", Out: &buf, JSON: true})

	log.Info().Str("job_id", "job1").Msg("tick")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "poller", line["component"])
	assert.Equal(t, "job1", line["job_id"])
	assert.Equal(t, "tick", line["message"])
}

func TestProductionSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithConfig("store", Config{AppEnv: "production", Out: &buf, JSON: true})

	log.LogDebugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	log.LogWarnf("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestNamed(t *testing.T) {
	log := NewWithConfig("download", Config{Out: &bytes.Buffer{}})
	assert.Equal(t, "download.poller", log.Named("poller").Component())
}

func TestNopDiscards(t *testing.T) {
	log := Nop()
	log.LogErrorf("nothing %s", "here")
	log.LogError("nothing", nil)
}
