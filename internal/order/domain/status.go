package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusDraft      Status = "draft"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIllegalDeletion   = errors.New("only draft orders can be deleted")
	ErrOrderLocked       = errors.New("order is in a terminal state")
	ErrNotFound          = errors.New("order not found")
)

// transitions is the single source of truth for the order lifecycle. It is
// consumed both to render the operator's choices and to validate a requested
// change; delivered and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusDraft:      {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func AllowedTransitions(s Status) []Status {
	next := transitions[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the order to target, stamping confirmed_at or delivered_at
// on the matching edge. On an illegal target the order is left untouched.
func (o *Order) Transition(target Status, now time.Time) error {
	if !CanTransition(o.Status, target) {
		return ErrInvalidTransition
	}
	o.Status = target
	switch target {
	case StatusConfirmed:
		t := now
		o.ConfirmedAt = &t
	case StatusDelivered:
		t := now
		o.DeliveredAt = &t
	}
	return nil
}

func (o *Order) Deletable() bool {
	return o.Status == StatusDraft
}

// ItemsEditable reports whether line items may still be replaced. Terminal
// orders are frozen.
func (o *Order) ItemsEditable() bool {
	return len(transitions[o.Status]) > 0
}
