package domain

import (
	"testing"
	"time"

	messagedomain "github.com/notiflow/notiflow/internal/message/domain"
	orderdomain "github.com/notiflow/notiflow/internal/order/domain"
	"github.com/shopspring/decimal"
)

func amount(v int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(v), Valid: true}
}

func orderOn(id int64, date string, total int64) orderdomain.Order {
	return orderdomain.Order{
		ID:          id,
		OrderNumber: "ORD-TEST",
		OrderDate:   date,
		Status:      orderdomain.StatusConfirmed,
		TotalAmount: amount(total),
	}
}

func messageOn(id int64, ts string) messagedomain.Message {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return messagedomain.Message{ID: id, SourceApp: "kakaotalk", Content: "x", ReceivedAt: t}
}

func juneSnapshot(opts ...Option) *Snapshot {
	orders := []orderdomain.Order{
		orderOn(1, "2024-06-03", 30000),
		orderOn(2, "2024-06-03", 30000),
		orderOn(3, "2024-06-03", 30000),
		orderOn(4, "2024-06-03", 30000),
		orderOn(5, "2024-06-03", 30000),
		orderOn(6, "2024-06-10", 99000),
	}
	messages := []messagedomain.Message{
		messageOn(1, "2024-06-03T08:12:00Z"),
		messageOn(2, "2024-06-03T09:40:00Z"),
		messageOn(3, "2024-06-03T18:05:00Z"),
		messageOn(4, "2024-06-10T07:00:00Z"),
	}
	days := []Day{
		{Date: "2024-06-03", MessageCount: 3, OrderCount: 5, TotalAmount: decimal.NewFromInt(150000)},
		{Date: "2024-06-10", MessageCount: 1, OrderCount: 1, TotalAmount: decimal.NewFromInt(99000)},
	}
	return NewSnapshot("2024-06", days, orders, messages, opts...)
}

func TestDayForScenario(t *testing.T) {
	s := juneSnapshot()
	d := s.DayFor("2024-06-03")
	if d.OrderCount != 5 {
		t.Errorf("order_count = %d, want 5", d.OrderCount)
	}
	if d.MessageCount != 3 {
		t.Errorf("message_count = %d, want 3", d.MessageCount)
	}
	if !d.TotalAmount.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("total_amount = %s, want 150000", d.TotalAmount)
	}
}

func TestDayForAbsentDateIsZero(t *testing.T) {
	s := juneSnapshot()
	d := s.DayFor("2024-06-15")
	if d.Date != "2024-06-15" || d.OrderCount != 0 || d.MessageCount != 0 || !d.TotalAmount.IsZero() {
		t.Errorf("empty date not zero-valued: %+v", d)
	}
}

func TestDeriveDayMatchesAggregate(t *testing.T) {
	s := juneSnapshot()
	for _, date := range []string{"2024-06-03", "2024-06-10", "2024-06-15"} {
		derived := s.DeriveDay(date)
		provided := s.DayFor(date)
		if derived.OrderCount != provided.OrderCount {
			t.Errorf("%s: derived orders %d != aggregate %d", date, derived.OrderCount, provided.OrderCount)
		}
		if derived.MessageCount != provided.MessageCount {
			t.Errorf("%s: derived messages %d != aggregate %d", date, derived.MessageCount, provided.MessageCount)
		}
		if !derived.TotalAmount.Equal(provided.TotalAmount) {
			t.Errorf("%s: derived amount %s != aggregate %s", date, derived.TotalAmount, provided.TotalAmount)
		}
	}
}

func TestDeriveDayExcludeCancelled(t *testing.T) {
	cancelled := orderOn(7, "2024-06-03", 50000)
	cancelled.Status = orderdomain.StatusCancelled

	with := NewSnapshot("2024-06", nil, []orderdomain.Order{orderOn(1, "2024-06-03", 10000), cancelled}, nil)
	without := NewSnapshot("2024-06", nil, []orderdomain.Order{orderOn(1, "2024-06-03", 10000), cancelled}, nil, ExcludeCancelled())

	if got := with.DeriveDay("2024-06-03").TotalAmount; !got.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("inclusive amount = %s, want 60000", got)
	}
	if got := without.DeriveDay("2024-06-03").TotalAmount; !got.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("exclusive amount = %s, want 10000", got)
	}
	// The cancelled order still counts either way.
	if got := without.DeriveDay("2024-06-03").OrderCount; got != 2 {
		t.Errorf("order_count = %d, want 2", got)
	}
}

func TestDeriveDayMatchesAggregateWithCancelledExclusion(t *testing.T) {
	cancelled := orderOn(2, "2024-06-03", 50000)
	cancelled.Status = orderdomain.StatusCancelled

	// The store aggregate counts the cancelled order but omits it from the
	// amount, the same split DeriveDay applies.
	days := []Day{{Date: "2024-06-03", OrderCount: 2, TotalAmount: decimal.NewFromInt(10000)}}
	s := NewSnapshot("2024-06", days,
		[]orderdomain.Order{orderOn(1, "2024-06-03", 10000), cancelled},
		nil, ExcludeCancelled())

	derived := s.DeriveDay("2024-06-03")
	provided := s.DayFor("2024-06-03")
	if derived.OrderCount != provided.OrderCount {
		t.Errorf("derived orders %d != aggregate %d", derived.OrderCount, provided.OrderCount)
	}
	if !derived.TotalAmount.Equal(provided.TotalAmount) {
		t.Errorf("derived amount %s != aggregate %s", derived.TotalAmount, provided.TotalAmount)
	}
}

func TestWeekDaysSundayStart(t *testing.T) {
	days, err := WeekDays("2024-06-05") // a Wednesday
	if err != nil {
		t.Fatalf("WeekDays: %v", err)
	}
	want := []string{"2024-06-02", "2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07", "2024-06-08"}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, days[i], want[i])
		}
	}
}

func TestWeekTotals(t *testing.T) {
	s := juneSnapshot()
	totals, err := s.WeekTotals("2024-06-05") // week of Jun 2-8, contains the 3rd
	if err != nil {
		t.Fatalf("WeekTotals: %v", err)
	}
	if totals.Orders != 5 {
		t.Errorf("orders = %d, want 5", totals.Orders)
	}
	if totals.Messages != 3 {
		t.Errorf("messages = %d, want 3", totals.Messages)
	}
	if !totals.Amount.Equal(decimal.NewFromInt(150000)) {
		t.Errorf("amount = %s, want 150000", totals.Amount)
	}
}

func TestWeekTotalsCrossMonthContributesZero(t *testing.T) {
	// Week of Jun 30 - Jul 6: only June 30 is in the loaded month, so the
	// July days add nothing even though the real store may have data there.
	s := NewSnapshot("2024-06",
		[]Day{{Date: "2024-06-30", OrderCount: 2, TotalAmount: decimal.NewFromInt(5000)}},
		[]orderdomain.Order{orderOn(1, "2024-06-30", 2500), orderOn(2, "2024-06-30", 2500)},
		nil)

	totals, err := s.WeekTotals("2024-07-02")
	if err != nil {
		t.Fatalf("WeekTotals: %v", err)
	}
	if totals.Orders != 2 {
		t.Errorf("orders = %d, want 2", totals.Orders)
	}
	if !totals.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("amount = %s, want 5000", totals.Amount)
	}
}

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		month string
		count int
	}{
		{"2024-06", 30},
		{"2024-02", 29},
		{"2023-02", 28},
		{"2024-12", 31},
	}
	for _, c := range cases {
		days, err := DaysInMonth(c.month)
		if err != nil {
			t.Fatalf("DaysInMonth(%s): %v", c.month, err)
		}
		if len(days) != c.count {
			t.Errorf("DaysInMonth(%s) = %d days, want %d", c.month, len(days), c.count)
		}
	}
	if _, err := DaysInMonth("junk"); err == nil {
		t.Error("expected error for malformed month")
	}
}

func TestSnapshotIsolatedFromCallerSlices(t *testing.T) {
	orders := []orderdomain.Order{orderOn(1, "2024-06-03", 1000)}
	s := NewSnapshot("2024-06", nil, orders, nil)
	orders[0].OrderDate = "2024-06-04"

	if got := s.DeriveDay("2024-06-03").OrderCount; got != 1 {
		t.Errorf("snapshot shares caller's slice: count = %d, want 1", got)
	}
}
