package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestClassifyAge(t *testing.T) {
	tests := []struct {
		name      string
		createdAt *time.Time
		want      AgeStatus
	}{
		{"nil", nil, AgeUnknown},
		{"zero", ptr(time.Time{}), AgeUnknown},
		{"installed today", ptr(now), AgeNew},
		{"23 months", ptr(AddMonths(now, -23)), AgeNew},
		{"one second short of 24 months", ptr(AddMonths(now, -24).Add(time.Second)), AgeNew},
		{"24 months", ptr(AddMonths(now, -24)), AgeGood},
		{"47 months", ptr(AddMonths(now, -47)), AgeGood},
		{"48 months", ptr(AddMonths(now, -48)), AgeAging},
		{"72 months", ptr(AddMonths(now, -72)), AgeOld},
		{"ten years", ptr(AddMonths(now, -120)), AgeOld},
		{"future date", ptr(now.AddDate(0, 2, 0)), AgeNew},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyAge(tt.createdAt, now)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.want.Label(), got.Label)
			assert.Equal(t, tt.want.Color(), got.Color)
		})
	}
}

func TestClassifyAgeIsIdempotent(t *testing.T) {
	created := ptr(AddMonths(now, -30))
	assert.Equal(t, ClassifyAge(created, now), ClassifyAge(created, now))
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name      string
		createdAt *time.Time
		want      string
	}{
		{"unknown", nil, "unknown date"},
		{"fresh", ptr(now), "0 months"},
		{"one month", ptr(AddMonths(now, -1)), "1 month"},
		{"five months", ptr(AddMonths(now, -5)), "5 months"},
		{"one year", ptr(AddMonths(now, -12)), "1 year"},
		{"mixed", ptr(AddMonths(now, -27)), "2 years and 3 months"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAge(tt.createdAt, now))
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	jan31 := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"same instant", jan31, jan31, 0},
		{"end of month clamp", jan31, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), 1},
		{"day not reached", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), 1},
		{"day reached", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), 2},
		{"time of day not reached", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC), 0},
		{"negative", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsBetween(tt.from, tt.to))
		})
	}
}

func TestAddMonthsClampsToMonthEnd(t *testing.T) {
	assert.Equal(t, time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC), AddMonths(time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC), 1))
	assert.Equal(t, time.Date(2025, 2, 28, 8, 0, 0, 0, time.UTC), AddMonths(time.Date(2024, 11, 30, 8, 0, 0, 0, time.UTC), 3))
	assert.Equal(t, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), AddMonths(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), -3))
}
