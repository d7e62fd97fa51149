package logging

import (
	"bytes"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetupLevels(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Setup(false, &bytes.Buffer{}) })

	Setup(false, &buf)
	log.Debug("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	Setup(true, &buf)
	log.WithField("cmd", "docker").Debug("trace")
	assert.Contains(t, buf.String(), "trace")
	assert.Contains(t, buf.String(), "cmd=docker")
}

func TestDebugFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"0", false},
		{"yes", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(EnvDebug, tt.value)
			assert.Equal(t, tt.want, DebugFromEnv())
		})
	}
}
