package domain

import (
	"testing"
	"time"
)

func TestReceivedDateIsUTC(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"plain utc", time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC), "2024-06-03"},
		{"local after midnight, utc previous day", time.Date(2024, 6, 4, 1, 30, 0, 0, seoul), "2024-06-03"},
		{"local evening, same utc day", time.Date(2024, 6, 3, 20, 0, 0, 0, seoul), "2024-06-03"},
	}
	for _, c := range cases {
		m := Message{ReceivedAt: c.at}
		if got := m.ReceivedDate(); got != c.want {
			t.Errorf("%s: ReceivedDate() = %s, want %s", c.name, got, c.want)
		}
	}
}
