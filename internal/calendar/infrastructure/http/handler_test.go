package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notiflow/notiflow/internal/calendar/application"
	"github.com/notiflow/notiflow/internal/calendar/domain"
	messagedomain "github.com/notiflow/notiflow/internal/message/domain"
	orderdomain "github.com/notiflow/notiflow/internal/order/domain"
)

type fakeStats struct{}

func (fakeStats) MonthAggregates(context.Context, string) ([]domain.Day, error) {
	return nil, nil
}

func (fakeStats) DailyStats(_ context.Context, date string) (domain.DailyStats, error) {
	return domain.DailyStats{Date: date}, nil
}

type fakeOrders struct{}

func (fakeOrders) ListByDateRange(context.Context, string, string) ([]orderdomain.Order, error) {
	return nil, nil
}

type fakeMessages struct{}

func (fakeMessages) ListByDateRange(context.Context, string, string) ([]messagedomain.Message, error) {
	return nil, nil
}

func newTestHandler() *Handler {
	log := slog.New(slog.DiscardHandler)
	svc := application.NewService(log, fakeStats{}, fakeOrders{}, fakeMessages{}, false)
	return NewHandler(log, svc)
}

func TestMonthRejectsMalformedParam(t *testing.T) {
	h := newTestHandler()
	for _, month := range []string{"junk", "2024-13", "2024-06-03"} {
		req := httptest.NewRequest(http.MethodGet, "/?month="+month, nil)
		rec := httptest.NewRecorder()
		h.Routes().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("month=%q: status = %d, want %d", month, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestMonthServesValidParam(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodGet, "/?month=2024-06", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
