package timex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: "30", want: 30 * time.Second},
		{in: "10m", want: 10 * time.Minute},
		{in: " 5s ", want: 5 * time.Second},
		{in: "xd", wantErr: true},
		{in: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDurationOr(t *testing.T) {
	assert.Equal(t, time.Minute, DurationOr("1m", time.Second))
	assert.Equal(t, time.Second, DurationOr("", time.Second))
	assert.Equal(t, time.Second, DurationOr("0", time.Second))
	assert.Equal(t, time.Second, DurationOr("-3s", time.Second))
}
