package domain

import (
	"testing"
	"time"
)

var now = time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)

func TestAllowedTransitions(t *testing.T) {
	cases := []struct {
		status Status
		want   []Status
	}{
		{StatusDraft, []Status{StatusConfirmed, StatusCancelled}},
		{StatusConfirmed, []Status{StatusProcessing, StatusCancelled}},
		{StatusProcessing, []Status{StatusDelivered, StatusCancelled}},
		{StatusDelivered, []Status{}},
		{StatusCancelled, []Status{}},
	}
	for _, c := range cases {
		got := AllowedTransitions(c.status)
		if len(got) != len(c.want) {
			t.Errorf("AllowedTransitions(%s) = %v, want %v", c.status, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("AllowedTransitions(%s)[%d] = %s, want %s", c.status, i, got[i], c.want[i])
			}
		}
	}
}

func TestTransitionSucceedsIffAllowed(t *testing.T) {
	all := []Status{StatusDraft, StatusConfirmed, StatusProcessing, StatusDelivered, StatusCancelled}
	for _, from := range all {
		for _, to := range all {
			o := Order{ID: 1, Status: from}
			err := o.Transition(to, now)
			if CanTransition(from, to) {
				if err != nil {
					t.Errorf("%s -> %s: unexpected error %v", from, to, err)
				}
				if o.Status != to {
					t.Errorf("%s -> %s: status = %s", from, to, o.Status)
				}
			} else {
				if err != ErrInvalidTransition {
					t.Errorf("%s -> %s: err = %v, want ErrInvalidTransition", from, to, err)
				}
				if o.Status != from {
					t.Errorf("%s -> %s: order mutated on rejected transition", from, to)
				}
			}
		}
	}
}

func TestConfirmSetsConfirmedAtOnly(t *testing.T) {
	o := Order{ID: 1, Status: StatusDraft}
	if err := o.Transition(StatusConfirmed, now); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if o.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", o.Status)
	}
	if o.ConfirmedAt == nil || !o.ConfirmedAt.Equal(now) {
		t.Errorf("confirmed_at = %v, want %v", o.ConfirmedAt, now)
	}
	if o.DeliveredAt != nil {
		t.Errorf("delivered_at = %v, want nil", o.DeliveredAt)
	}
}

func TestDeliverSetsDeliveredAt(t *testing.T) {
	o := Order{ID: 2, Status: StatusProcessing}
	if err := o.Transition(StatusDelivered, now); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if o.DeliveredAt == nil || !o.DeliveredAt.Equal(now) {
		t.Errorf("delivered_at = %v, want %v", o.DeliveredAt, now)
	}
	if o.ConfirmedAt != nil {
		t.Errorf("confirmed_at touched on delivery: %v", o.ConfirmedAt)
	}
}

func TestDeliveredAtIffDelivered(t *testing.T) {
	// Walk every reachable path and check the timestamp invariant at each step.
	var walk func(o Order)
	walk = func(o Order) {
		gotDelivered := o.DeliveredAt != nil
		if gotDelivered != (o.Status == StatusDelivered) {
			t.Errorf("status %s: delivered_at set = %v", o.Status, gotDelivered)
		}
		for _, next := range AllowedTransitions(o.Status) {
			c := o
			if err := c.Transition(next, now); err != nil {
				t.Fatalf("transition %s -> %s: %v", o.Status, next, err)
			}
			walk(c)
		}
	}
	walk(Order{ID: 3, Status: StatusDraft})
}

func TestRejectedTransitionBackToDraft(t *testing.T) {
	o := Order{ID: 4, Status: StatusConfirmed}
	if err := o.Transition(StatusDraft, now); err != ErrInvalidTransition {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if o.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", o.Status)
	}
}

func TestDeletable(t *testing.T) {
	cases := map[Status]bool{
		StatusDraft:      true,
		StatusConfirmed:  false,
		StatusProcessing: false,
		StatusDelivered:  false,
		StatusCancelled:  false,
	}
	for status, want := range cases {
		o := Order{Status: status}
		if o.Deletable() != want {
			t.Errorf("Deletable(%s) = %v, want %v", status, !want, want)
		}
	}
}
