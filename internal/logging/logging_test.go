package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   string
		enabled  zapcore.Level
		disabled zapcore.Level
		checkLow bool
	}{
		{name: "defaults", level: "", format: "", enabled: zapcore.InfoLevel, disabled: zapcore.DebugLevel, checkLow: true},
		{name: "json debug", level: "debug", format: "json", enabled: zapcore.DebugLevel},
		{name: "console warn", level: "warn", format: "console", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel, checkLow: true},
		{name: "upper case format", level: "error", format: "JSON", enabled: zapcore.ErrorLevel, disabled: zapcore.WarnLevel, checkLow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			require.NoError(t, err)
			require.NotNil(t, logger)

			assert.True(t, logger.Core().Enabled(tt.enabled))
			if tt.checkLow {
				assert.False(t, logger.Core().Enabled(tt.disabled))
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}
