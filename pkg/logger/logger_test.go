package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	assert.NotNil(t, Logger())
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Configuration
		wantErr bool
	}{
		{name: "json info", cfg: Configuration{Level: "info"}},
		{name: "console debug", cfg: Configuration{Level: "debug", Encoding: "console"}},
		{name: "bad level", cfg: Configuration{Level: "loud"}, wantErr: true},
		{name: "bad encoding", cfg: Configuration{Level: "info", Encoding: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Initialize(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, Logger())
		})
	}
}
