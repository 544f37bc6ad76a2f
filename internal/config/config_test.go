package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "canned", cfg.ResponderProvider)
	assert.Equal(t, 1*time.Second, cfg.ResponderMinDelay)
	assert.Equal(t, 3*time.Second, cfg.ResponderMaxDelay)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TracingEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("RESPONDER_PROVIDER", "openai")
	t.Setenv("RESPONDER_MIN_DELAY", "250ms")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("RESPONDER_MAX_DELAY", "bogus")

	cfg := Load()

	assert.Equal(t, "openai", cfg.ResponderProvider)
	assert.Equal(t, 250*time.Millisecond, cfg.ResponderMinDelay)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, 3*time.Second, cfg.ResponderMaxDelay, "unparseable value falls back to default")
}
