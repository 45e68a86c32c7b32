package logger

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instalytics/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{
			name:    "valid config with info level",
			cfg:     &config.LoggingConfig{Level: "info"},
			wantErr: false,
		},
		{
			name:    "valid config with debug level",
			cfg:     &config.LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid log level",
			cfg:     &config.LoggingConfig{Level: "invalid"},
			wantErr: true,
		},
		{
			name:    "config with file output",
			cfg:     &config.LoggingConfig{Level: "info", File: "/tmp/instalytics_test.log"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)

			if tt.cfg.File != "" {
				os.Remove(tt.cfg.File)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
		wantErr  bool
	}{
		{"debug", zerolog.DebugLevel, false},
		{"DEBUG", zerolog.DebugLevel, false},
		{"info", zerolog.InfoLevel, false},
		{"warn", zerolog.WarnLevel, false},
		{"warning", zerolog.WarnLevel, false},
		{"error", zerolog.ErrorLevel, false},
		{"fatal", zerolog.FatalLevel, false},
		{"disabled", zerolog.Disabled, false},
		{"bogus", zerolog.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			level, err := parseLogLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestTestLoggerCapture(t *testing.T) {
	tl := NewTestLogger()

	tl.Info("plain message")
	tl.WithField("handle", "someuser").Warn("derived message")
	tl.ErrorWithFields("failed", map[string]interface{}{"code": 500})

	msgs := tl.Messages()
	require.Len(t, msgs, 3)

	assert.Equal(t, "INFO", msgs[0].Level)
	assert.True(t, tl.HasMessage("plain message"))

	assert.Equal(t, "WARN", msgs[1].Level)
	assert.Equal(t, "someuser", msgs[1].Fields["handle"])

	assert.Equal(t, "ERROR", msgs[2].Level)
	assert.Equal(t, 500, msgs[2].Fields["code"])
}

func TestWithFieldsImmutability(t *testing.T) {
	tl := NewTestLogger()
	derived := tl.WithField("a", 1)
	derived2 := derived.WithField("b", 2)

	derived2.Info("both fields")

	msgs := tl.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, msgs[0].Fields["a"])
	assert.Equal(t, 2, msgs[0].Fields["b"])
}
