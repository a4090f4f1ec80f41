package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zerolog.Level
		wantErr bool
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: "", want: zerolog.InfoLevel},
		{in: " INFO ", want: zerolog.InfoLevel},
		{in: "warning", want: zerolog.WarnLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "Error", want: zerolog.ErrorLevel},
		{in: "loud", want: zerolog.InfoLevel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_WritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("info", &buf)
	require.NoError(t, err)

	clog := Component(log, "acquisition")
	clog.Info().Int("shot", 3).Msg("captured")
	log.Debug().Msg("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "captured", entry["message"])
	assert.Equal(t, "acquisition", entry["component"])
	assert.Equal(t, float64(3), entry["shot"])
}

func TestNew_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	log, err := New("debug", &a, &b)
	require.NoError(t, err)

	log.Debug().Msg("both")
	assert.Contains(t, a.String(), "both")
	assert.Contains(t, b.String(), "both")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("chatty")
	assert.Error(t, err)
}
