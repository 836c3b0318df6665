package domain

import (
	"fmt"
	"time"

	messagedomain "github.com/notiflow/notiflow/internal/message/domain"
	orderdomain "github.com/notiflow/notiflow/internal/order/domain"
	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// Day is the per-date rollup shown on the calendar. It is a projection,
// recomputed per month fetch and never mutated in place.
type Day struct {
	Date         string          `json:"date"`
	MessageCount int             `json:"message_count"`
	OrderCount   int             `json:"order_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

type Totals struct {
	Messages int             `json:"messages"`
	Orders   int             `json:"orders"`
	Amount   decimal.Decimal `json:"amount"`
}

// DailyStats backs the dashboard stat cards for a single date.
type DailyStats struct {
	Date             string  `json:"date"`
	TotalMessages    int     `json:"total_messages"`
	ParseSuccess     int     `json:"parse_success"`
	OrdersCreated    int     `json:"orders_created"`
	ParseSuccessRate float64 `json:"parse_success_rate"`
}

// Snapshot holds one month's working set: the store-computed per-day
// aggregates plus the raw order and message collections for the same range.
// Week and day views re-derive from these collections without another fetch.
// A snapshot is immutable after construction.
type Snapshot struct {
	month            string
	days             map[string]Day
	orders           []orderdomain.Order
	messages         []messagedomain.Message
	excludeCancelled bool
}

type Option func(*Snapshot)

// ExcludeCancelled drops cancelled orders from client-side amount sums.
// Whether the upstream aggregate does the same is the store's choice; the
// two must be configured together to keep derivations consistent.
func ExcludeCancelled() Option {
	return func(s *Snapshot) { s.excludeCancelled = true }
}

func NewSnapshot(month string, days []Day, orders []orderdomain.Order, messages []messagedomain.Message, opts ...Option) *Snapshot {
	s := &Snapshot{
		month:    month,
		days:     make(map[string]Day, len(days)),
		orders:   append([]orderdomain.Order(nil), orders...),
		messages: append([]messagedomain.Message(nil), messages...),
	}
	for _, d := range days {
		s.days[d.Date] = d
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Snapshot) Month() string { return s.month }

// DayFor returns the provided aggregate for date. A date absent from the
// aggregate is identical to a date with zero activity.
func (s *Snapshot) DayFor(date string) Day {
	if d, ok := s.days[date]; ok {
		return d
	}
	return Day{Date: date}
}

// Days returns one entry per calendar date of the snapshot month.
func (s *Snapshot) Days() ([]Day, error) {
	dates, err := DaysInMonth(s.month)
	if err != nil {
		return nil, err
	}
	out := make([]Day, 0, len(dates))
	for _, date := range dates {
		out = append(out, s.DayFor(date))
	}
	return out, nil
}

// DeriveDay recomputes a date's aggregate from the raw collections. For any
// date inside the loaded month it must agree with DayFor.
func (s *Snapshot) DeriveDay(date string) Day {
	d := Day{Date: date}
	for _, o := range s.orders {
		if o.OrderDate != date {
			continue
		}
		d.OrderCount++
		if o.Status == orderdomain.StatusCancelled && s.excludeCancelled {
			continue
		}
		if o.TotalAmount.Valid {
			d.TotalAmount = d.TotalAmount.Add(o.TotalAmount.Decimal)
		}
	}
	for _, m := range s.messages {
		if m.ReceivedDate() == date {
			d.MessageCount++
		}
	}
	return d
}

// Orders returns the snapshot's raw order collection.
func (s *Snapshot) Orders() []orderdomain.Order {
	return append([]orderdomain.Order(nil), s.orders...)
}

// Messages returns the snapshot's raw message collection.
func (s *Snapshot) Messages() []messagedomain.Message {
	return append([]messagedomain.Message(nil), s.messages...)
}

func (s *Snapshot) OrdersOn(date string) []orderdomain.Order {
	var out []orderdomain.Order
	for _, o := range s.orders {
		if o.OrderDate == date {
			out = append(out, o)
		}
	}
	return out
}

func (s *Snapshot) MessagesOn(date string) []messagedomain.Message {
	var out []messagedomain.Message
	for _, m := range s.messages {
		if m.ReceivedDate() == date {
			out = append(out, m)
		}
	}
	return out
}

// WeekTotals reduces the 7 days of the week containing anchor. Counts come
// from the raw collections, the amount from the provided aggregate; days of
// the displayed week that fall outside the loaded month contribute zero
// because their data was never fetched.
func (s *Snapshot) WeekTotals(anchor string) (Totals, error) {
	days, err := WeekDays(anchor)
	if err != nil {
		return Totals{}, err
	}
	var t Totals
	for _, date := range days {
		t.Messages += len(s.MessagesOn(date))
		t.Orders += len(s.OrdersOn(date))
		t.Amount = t.Amount.Add(s.DayFor(date).TotalAmount)
	}
	return t, nil
}

// WeekDays returns the Sunday-through-Saturday dates of the week holding
// anchor.
func WeekDays(anchor string) ([]string, error) {
	t, err := time.Parse(DateLayout, anchor)
	if err != nil {
		return nil, fmt.Errorf("bad anchor date %q: %w", anchor, err)
	}
	start := t.AddDate(0, 0, -int(t.Weekday()))
	days := make([]string, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i).Format(DateLayout)
	}
	return days, nil
}

func DaysInMonth(month string) ([]string, error) {
	first, err := time.Parse(MonthLayout, month)
	if err != nil {
		return nil, fmt.Errorf("bad month %q: %w", month, err)
	}
	var days []string
	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days, nil
}

// MonthRange returns the first and last date of month.
func MonthRange(month string) (string, string, error) {
	days, err := DaysInMonth(month)
	if err != nil {
		return "", "", err
	}
	return days[0], days[len(days)-1], nil
}

func MonthOf(date string) string {
	if len(date) < len(MonthLayout) {
		return ""
	}
	return date[:len(MonthLayout)]
}

func InMonth(date, month string) bool {
	return MonthOf(date) == month
}
