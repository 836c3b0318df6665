package domain

import (
	"encoding/json"
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrNotFound = errors.New("message not found")

type ParseStatus string

const (
	ParsePending ParseStatus = "pending"
	ParseParsed  ParseStatus = "parsed"
	ParseFailed  ParseStatus = "failed"
	ParseSkipped ParseStatus = "skipped"
)

const (
	SourceKakaoTalk = "kakaotalk"
	SourceSMS       = "sms"
	SourceTelegram  = "telegram"
	SourceManual    = "manual"
)

// Message is one inbound communication captured by a device sync agent.
// The external parse pipeline owns parse_status, parse_result and order_id;
// the dashboard only reads and deletes. OrderID is a weak reference: the
// order it points at may have been deleted since.
type Message struct {
	ID             int64           `json:"id"`
	SourceApp      string          `json:"source_app"`
	Sender         *string         `json:"sender"`
	Content        string          `json:"content"`
	ReceivedAt     time.Time       `json:"received_at"`
	DeviceID       *string         `json:"device_id"`
	HospitalID     *int64          `json:"hospital_id"`
	ParseStatus    ParseStatus     `json:"parse_status"`
	ParseMethod    *string         `json:"parse_method"`
	ParseResult    json.RawMessage `json:"parse_result"`
	OrderID        *int64          `json:"order_id"`
	IsOrderMessage *bool           `json:"is_order_message"`
	SyncedAt       time.Time       `json:"synced_at"`
}

// ReceivedDate is the calendar-day key the calendar aggregates by. The store
// buckets on the UTC date, so the client-side key must be UTC too.
func (m Message) ReceivedDate() string {
	return m.ReceivedAt.UTC().Format(DateLayout)
}

// MessageReceived is the outbox event handed to the parse pipeline. The
// message id rides along as the event's aggregate id.
type MessageReceived struct {
	SourceApp  string `json:"source_app"`
	ReceivedAt string `json:"received_at"`
}
