package rules

import (
	"math"
	"sort"
	"time"
)

type MaintenanceType string

const (
	MaintenancePreventive MaintenanceType = "preventive"
	MaintenanceCurative   MaintenanceType = "curative"
)

type MaintenanceStatus string

const (
	MaintenancePending   MaintenanceStatus = "pending"
	MaintenanceCompleted MaintenanceStatus = "completed"
	MaintenanceRejected  MaintenanceStatus = "rejected"
	MaintenanceApproved  MaintenanceStatus = "approved"
	MaintenanceCancelled MaintenanceStatus = "cancelled"
)

// DefaultPreventiveIntervalMonths is used when an organization has no usable
// interval configured.
const DefaultPreventiveIntervalMonths = 3

// MaintenanceRecord is the rule-engine view of a maintenance entry. A zero
// Date marks a record whose stored date could not be read; such records are
// ignored by date-based rules.
type MaintenanceRecord struct {
	Type   MaintenanceType
	Status MaintenanceStatus
	Date   time.Time
}

type MaintenanceReason string

const (
	ReasonNone       MaintenanceReason = ""
	ReasonPreventive MaintenanceReason = "preventive"
	ReasonCurative   MaintenanceReason = "curative"
)

type MaintenanceDue struct {
	Needed bool              `json:"needed"`
	Reason MaintenanceReason `json:"reason,omitempty"`
}

// EvaluateMaintenance decides whether a stand needs maintenance. A pending
// curative request always wins. Otherwise preventive maintenance is due when
// none was ever completed or when the last one is more than intervalMonths old.
func EvaluateMaintenance(history []MaintenanceRecord, intervalMonths int, now time.Time) MaintenanceDue {
	for _, r := range history {
		if r.Type == MaintenanceCurative && r.Status == MaintenancePending {
			return MaintenanceDue{Needed: true, Reason: ReasonCurative}
		}
	}

	last, ok := lastPreventive(history)
	if !ok {
		return MaintenanceDue{Needed: true, Reason: ReasonPreventive}
	}
	if AddMonths(last, interval(intervalMonths)).Before(now) {
		return MaintenanceDue{Needed: true, Reason: ReasonPreventive}
	}
	return MaintenanceDue{}
}

// NextMaintenanceDate is the date the next preventive maintenance falls due.
// A stand that was never maintained is due now.
func NextMaintenanceDate(history []MaintenanceRecord, intervalMonths int, now time.Time) time.Time {
	last, ok := lastPreventive(history)
	if !ok {
		return now
	}
	return AddMonths(last, interval(intervalMonths))
}

// MTBF returns the mean number of whole days between completed curative
// interventions, rounded to the nearest day. Each gap is truncated to whole
// days before averaging. Fewer than two failures yield 0.
func MTBF(history []MaintenanceRecord) int {
	var failures []time.Time
	for _, r := range history {
		if r.Type == MaintenanceCurative && r.Status == MaintenanceCompleted && !r.Date.IsZero() {
			failures = append(failures, r.Date)
		}
	}
	if len(failures) < 2 {
		return 0
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Before(failures[j]) })

	var total float64
	for i := 1; i < len(failures); i++ {
		total += math.Floor(failures[i].Sub(failures[i-1]).Hours() / 24)
	}
	return int(math.Round(total / float64(len(failures)-1)))
}

func lastPreventive(history []MaintenanceRecord) (time.Time, bool) {
	var last time.Time
	for _, r := range history {
		if r.Type != MaintenancePreventive || r.Status != MaintenanceCompleted || r.Date.IsZero() {
			continue
		}
		if r.Date.After(last) {
			last = r.Date
		}
	}
	return last, !last.IsZero()
}

func interval(months int) int {
	if months <= 0 {
		return DefaultPreventiveIntervalMonths
	}
	return months
}
