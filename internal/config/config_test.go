package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoadDefaults(t *testing.T) {
	t.Setenv("NODE_URL", "http://node.local")
	t.Setenv("CLOCK_INTERVAL_SEC", "not-a-number")

	cfg := MustLoad()
	assert.Equal(t, "http://node.local", cfg.NodeURL)
	assert.Equal(t, 60*time.Second, cfg.ClockInterval)
	assert.Equal(t, time.Duration(0), cfg.DiscoveryInterval)
	assert.Equal(t, "ethoscopes", cfg.DevBucket)
}

func TestMustLoadEnv(t *testing.T) {
	t.Setenv("CLOCK_INTERVAL_SEC", "15")
	t.Setenv("DISCOVERY_INTERVAL_SEC", "300")
	t.Setenv("NATS_URL", "nats://bus:4222")

	cfg := MustLoad()
	assert.Equal(t, 15*time.Second, cfg.ClockInterval)
	assert.Equal(t, 5*time.Minute, cfg.DiscoveryInterval)
	assert.Equal(t, "nats://bus:4222", cfg.NATSURL)
}

func TestBindFlagsOverridesEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":8000")

	cfg := MustLoad()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--listen", ":7000", "--clock-interval", "30s"}))

	assert.Equal(t, ":7000", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.ClockInterval)
}
