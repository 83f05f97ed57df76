package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_SerialIsLast(t *testing.T) {
	cfg := DefaultConfig()
	require.NotEmpty(t, cfg.Props)
	assert.Contains(t, cfg.Props[len(cfg.Props)-1], "Serial")
}

func TestDefaultConfig_EnvOverrideTriedFirst(t *testing.T) {
	t.Setenv(EnvVar, `{"mode": "OpenCL", "platform_id": 0, "device_id": 0}`)
	cfg := DefaultConfig()
	require.NotEmpty(t, cfg.Props)
	assert.Contains(t, cfg.Props[0], "OpenCL")
	// Serial fallback must survive the override
	assert.Contains(t, cfg.Props[len(cfg.Props)-1], "Serial")
}

func TestCreate_EmptyConfig(t *testing.T) {
	_, err := Create(Config{})
	require.Error(t, err)
}

func TestCreate_DefaultOrderOpensADevice(t *testing.T) {
	dev, err := Create(DefaultConfig())
	require.NoError(t, err)
	defer dev.Free()
	assert.NotEmpty(t, dev.Mode())
}

func TestCreate_ReportsEveryFailedAttempt(t *testing.T) {
	_, err := Create(Config{Props: []string{
		`{"mode": "NoSuchBackend"}`,
		`{"mode": "AlsoMissing"}`,
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NoSuchBackend")
	assert.Contains(t, err.Error(), "AlsoMissing")
}

func TestMustCreate(t *testing.T) {
	dev := MustCreate()
	defer dev.Free()
	assert.NotEmpty(t, dev.Mode())
}
