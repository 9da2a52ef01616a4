package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "log.yml")
	content := `
defaultLevel: debug
filters:
  - "warn:service.*"
`
	require.NoError(t, os.WriteFile(fn, []byte(content), 0o600))

	cfg, err := LoadConfig(fn)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.DefaultLevel)
	assert.Equal(t, []string{"warn:service.*"}, cfg.Filters)
}

func TestInitFromConfig_InvalidLevel(t *testing.T) {
	_, err := InitFromConfig(&Config{DefaultLevel: "nope"}, "text")
	assert.Error(t, err)
}

func TestInitFromConfig_Filters(t *testing.T) {
	cfg := &Config{
		DefaultLevel: "debug",
		Filters:      []string{"error:cache"},
	}
	l, err := InitFromConfig(cfg, "json")
	require.NoError(t, err)
	assert.NotNil(t, l)
}
