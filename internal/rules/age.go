package rules

import (
	"fmt"
	"time"
)

type AgeStatus string

const (
	AgeUnknown AgeStatus = "unknown"
	AgeNew     AgeStatus = "new"
	AgeGood    AgeStatus = "good"
	AgeAging   AgeStatus = "aging"
	AgeOld     AgeStatus = "old"
)

// Age bucket boundaries, in whole months.
const (
	goodFromMonths  = 24
	agingFromMonths = 48
	oldFromMonths   = 72
)

var ageLabels = map[AgeStatus]struct{ label, color string }{
	AgeUnknown: {"Unknown", "gray"},
	AgeNew:     {"New", "green"},
	AgeGood:    {"Good condition", "blue"},
	AgeAging:   {"Aging", "yellow"},
	AgeOld:     {"To replace", "red"},
}

func (s AgeStatus) Label() string { return ageLabels[s].label }

func (s AgeStatus) Color() string { return ageLabels[s].color }

type AgeReport struct {
	Status AgeStatus `json:"status"`
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	Months int       `json:"months"`
	Age    string    `json:"age"`
}

// ClassifyAge buckets a stand by the whole months elapsed since createdAt.
// A nil or zero createdAt yields AgeUnknown.
func ClassifyAge(createdAt *time.Time, now time.Time) AgeReport {
	if createdAt == nil || createdAt.IsZero() {
		return newAgeReport(AgeUnknown, 0, FormatAge(nil, now))
	}

	months := MonthsBetween(*createdAt, now)
	status := AgeNew
	switch {
	case months >= oldFromMonths:
		status = AgeOld
	case months >= agingFromMonths:
		status = AgeAging
	case months >= goodFromMonths:
		status = AgeGood
	}
	return newAgeReport(status, months, FormatAge(createdAt, now))
}

func newAgeReport(status AgeStatus, months int, age string) AgeReport {
	return AgeReport{
		Status: status,
		Label:  status.Label(),
		Color:  status.Color(),
		Months: months,
		Age:    age,
	}
}

// FormatAge renders the elapsed time as "2 years and 3 months", "1 year" or
// "5 months".
func FormatAge(createdAt *time.Time, now time.Time) string {
	if createdAt == nil || createdAt.IsZero() {
		return "unknown date"
	}
	months := MonthsBetween(*createdAt, now)
	if months < 0 {
		months = 0
	}
	years, rest := months/12, months%12
	switch {
	case years == 0:
		return plural(rest, "month")
	case rest == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " and " + plural(rest, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
