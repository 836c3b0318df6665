package domain

import (
	"testing"
	"time"
)

var now = time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

func TestMarkReported(t *testing.T) {
	r := Report{ID: 1, ReportStatus: StatusPending}
	if err := r.MarkReported("KPIS-2024-0042", now); err != nil {
		t.Fatalf("MarkReported: %v", err)
	}
	if r.ReportStatus != StatusReported {
		t.Errorf("status = %s, want reported", r.ReportStatus)
	}
	if r.ReferenceNumber == nil || *r.ReferenceNumber != "KPIS-2024-0042" {
		t.Errorf("reference_number = %v", r.ReferenceNumber)
	}
	if r.ReportedAt == nil || !r.ReportedAt.Equal(now) {
		t.Errorf("reported_at = %v", r.ReportedAt)
	}
}

func TestMarkReportedRequiresReference(t *testing.T) {
	r := Report{ID: 2, ReportStatus: StatusPending}
	if err := r.MarkReported("", now); err != ErrReferenceRequired {
		t.Fatalf("err = %v, want ErrReferenceRequired", err)
	}
	if r.ReportStatus != StatusPending {
		t.Errorf("status mutated on rejection: %s", r.ReportStatus)
	}
	if r.ReportedAt != nil {
		t.Errorf("reported_at set on rejection")
	}
}

func TestMarkReportedOnlyFromPending(t *testing.T) {
	for _, status := range []ReportStatus{StatusReported, StatusConfirmed} {
		r := Report{ReportStatus: status}
		if err := r.MarkReported("X-1", now); err != ErrNotPending {
			t.Errorf("%s: err = %v, want ErrNotPending", status, err)
		}
	}
}

func TestConfirm(t *testing.T) {
	r := Report{ReportStatus: StatusReported}
	if err := r.Confirm(); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if r.ReportStatus != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", r.ReportStatus)
	}

	pending := Report{ReportStatus: StatusPending}
	if err := pending.Confirm(); err != ErrNotReported {
		t.Errorf("confirm from pending: err = %v, want ErrNotReported", err)
	}
}
