package appointment

import "github.com/BruksfildServices01/sto-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending          Status = "pending"
	StatusConfirmed        Status = "confirmed"
	StatusCompleted        Status = "completed"
	StatusCancelled        Status = "cancelled"
	StatusCancelledByAdmin Status = "cancelled_by_admin"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusCancelledByAdmin},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusCancelledByAdmin},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusCancelledByAdmin:
		return st, true
	}
	return "", false
}

// IsActive reports whether an appointment in this status occupies its box.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusCancelledByAdmin
}

func ActiveStatuses() []string {
	return []string{string(StatusPending), string(StatusConfirmed)}
}

// ===============================
// Validations
// ===============================

// Transition is the only place that decides whether a status change is legal.
func Transition(from, to Status) error {
	if from.IsTerminal() {
		return httperr.InvalidTransition(
			"appointment_closed",
			"Appointment is already "+string(from)+".",
		)
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.InvalidTransition(
		"invalid_transition",
		"Cannot change status from "+string(from)+" to "+string(to)+".",
	)
}

// InitialStatus of every new appointment.
func InitialStatus() Status {
	return StatusPending
}
