package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"monitor", ModeMonitor, false},
		{"ENFORCE", ModeEnforce, false},
		{" strict ", ModeStrict, false},
		{"", ModeMonitor, true},
		{"paranoid", ModeMonitor, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_Gates(t *testing.T) {
	assert.False(t, ModeMonitor.readds())
	assert.False(t, ModeMonitor.removes())
	assert.True(t, ModeEnforce.readds())
	assert.False(t, ModeEnforce.removes())
	assert.True(t, ModeStrict.readds())
	assert.True(t, ModeStrict.removes())
}

func TestMode_JSON(t *testing.T) {
	out, err := json.Marshal(struct{ Mode Mode }{ModeEnforce})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Mode":"enforce"}`, string(out))
	assert.Equal(t, "mode(7)", Mode(7).String())
}
