package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("kpis report not found")
	ErrReferenceRequired = errors.New("reference number required to report")
	ErrNotPending        = errors.New("report is not pending")
	ErrNotReported       = errors.New("report is not reported")
)

type ReportStatus string

const (
	StatusPending   ReportStatus = "pending"
	StatusReported  ReportStatus = "reported"
	StatusConfirmed ReportStatus = "confirmed"
)

// Report is the per-item regulatory distribution filing. One report per
// dispensed order item; it trails the order lifecycle and never blocks it.
type Report struct {
	ID              int64        `json:"id"`
	OrderItemID     int64        `json:"order_item_id"`
	ReportStatus    ReportStatus `json:"report_status"`
	ReferenceNumber *string      `json:"reference_number"`
	ReportedAt      *time.Time   `json:"reported_at"`
	Notes           *string      `json:"notes"`
	CreatedAt       time.Time    `json:"created_at"`

	// Joined display fields.
	OrderNumber  string `json:"order_number,omitempty"`
	HospitalName string `json:"hospital_name,omitempty"`
	ProductText  string `json:"product_text,omitempty"`
}

// MarkReported files the report. The authority's reference number is what
// proves the filing happened, so pending -> reported requires one.
func (r *Report) MarkReported(referenceNumber string, now time.Time) error {
	if r.ReportStatus != StatusPending {
		return ErrNotPending
	}
	if referenceNumber == "" {
		return ErrReferenceRequired
	}
	r.ReportStatus = StatusReported
	r.ReferenceNumber = &referenceNumber
	t := now
	r.ReportedAt = &t
	return nil
}

func (r *Report) Confirm() error {
	if r.ReportStatus != StatusReported {
		return ErrNotReported
	}
	r.ReportStatus = StatusConfirmed
	return nil
}
