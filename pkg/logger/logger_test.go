package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		verbose     bool
		debug       bool
	}{
		{name: "production", environment: Production, debug: false},
		{name: "development", environment: "development", debug: false},
		{name: "verbose", environment: "development", verbose: true, debug: true},
		{name: "verbose production", environment: Production, verbose: true, debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.environment, tt.verbose)
			require.NoError(t, err)
			require.NotNil(t, log)

			assert.Equal(t, tt.debug, log.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
