package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"rfc3339", "2025-04-01T10:30:00Z", time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC), true},
		{"rfc3339 nano", "2025-04-01T10:30:00.123Z", time.Date(2025, 4, 1, 10, 30, 0, 123000000, time.UTC), true},
		{"offset", "2025-04-01T12:30:00+02:00", time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC), true},
		{"no zone", "2025-04-01T10:30:00", time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC), true},
		{"space separated", "2025-04-01 10:30:00", time.Date(2025, 4, 1, 10, 30, 0, 0, time.UTC), true},
		{"date only", "2025-04-01", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"padded", "  2025-04-01 ", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
		{"invalid day", "2025-02-30", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Timestamp(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestOptionalTimestamp(t *testing.T) {
	assert.Nil(t, OptionalTimestamp(nil))

	bad := "31/12/2024"
	assert.Nil(t, OptionalTimestamp(&bad))

	good := "2024-12-31"
	got := OptionalTimestamp(&good)
	if assert.NotNil(t, got) {
		assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *got)
	}
}
