package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "", want: DEFAULT},
		{in: "info", want: DEFAULT},
		{in: "Verbose", want: VERBOSE},
		{in: "debug", want: DEBUG},
		{in: "trace", want: TRACE},
		{in: "loud", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(DEBUG, true)
	require.NoError(t, err)
	assert.True(t, logger.V(DEBUG).Enabled())
	assert.False(t, logger.V(TRACE).Enabled())

	quiet, err := NewLogger(DEFAULT, false)
	require.NoError(t, err)
	assert.False(t, quiet.V(VERBOSE).Enabled())
}
