package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/svggraph/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "svggraph", cfg.Logger.ServiceName)
	assert.Equal(t, 30*time.Second, cfg.Network.RequestTimeout)
	assert.Equal(t, 50.0, cfg.Parser.InferenceRadius)
	assert.Contains(t, cfg.Parser.HiddenStyleMarkers, "display:none")
	assert.Equal(t, 10*1024*1024, cfg.Parser.MaxMarkupBytes)
	assert.Equal(t, 100*time.Millisecond, cfg.Parser.AbortGracePeriod)
	assert.Equal(t, 25, cfg.Parser.AbortCheckInterval)
}

func TestLoad_OverridesWinOverDefaults(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("parser.inference_radius", 120.5)
	v.Set("logger.level", "debug")

	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 120.5, cfg.Parser.InferenceRadius)
	assert.Equal(t, "debug", cfg.Logger.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, 25, cfg.Parser.AbortCheckInterval)
}
