package moderation

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"15", 15, false},
		{"5m", 5, false},
		{"1h", 60, false},
		{"1d5h3m10s", 1*24*60 + 5*60 + 3, false},
		{"90s", 1, false},
		{"30s", 0, false},
		{"1w", 7 * 24 * 60, false},
		{" 2H ", 120, false},
		{"abc", 0, true},
		{"5x", 0, true},
		{"5m junk", 0, true},
		{"-5", 0, true},
		{"200000w", 0, true},
		{"999999999999", 0, true},
		{"99999999999999999999", 0, true},
		{strconv.FormatInt(MaxMinutes, 10), int(MaxMinutes), false},
		{strconv.FormatInt(MaxMinutes, 10) + "m1s", int(MaxMinutes), false},
		{strconv.FormatInt(MaxMinutes, 10) + "m1m", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDuration(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "permanente", FormatMinutes(0))
	assert.Equal(t, "5m", FormatMinutes(5))
	assert.Equal(t, "1d 5h 3m", FormatMinutes(1*24*60+5*60+3))
	assert.Equal(t, "2h", FormatMinutes(120))
}
