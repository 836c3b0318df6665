package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/notiflow/notiflow/internal/order/domain"
	"github.com/notiflow/notiflow/pkg/notify"
)

// ErrPersistence wraps store failures so the HTTP layer can tell them apart
// from domain rejections. The wrapped cause stays available via errors.Unwrap.
var ErrPersistence = errors.New("persistence failure")

const table = "orders"

// Service is the single chokepoint for order mutations. Every UI-initiated
// status change or deletion passes through here exactly once; there is no
// retry, and on failure the stored order is untouched.
type Service struct {
	log      *slog.Logger
	repo     OrderRepository
	notifier notify.Publisher
	now      func() time.Time
}

func NewService(log *slog.Logger, repo OrderRepository, notifier notify.Publisher) *Service {
	return &Service{log: log, repo: repo, notifier: notifier, now: time.Now}
}

func (s *Service) ApplyStatusChange(ctx context.Context, id int64, target domain.Status, traceparent string) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}

	from := o.Status
	if err := o.Transition(target, s.now().UTC()); err != nil {
		return domain.Order{}, err
	}

	event := domain.StatusChanged{OrderID: o.ID, OrderNumber: o.OrderNumber, From: from, To: target}
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Order{}, err
	}
	if err := s.repo.UpdateStatusWithOutbox(ctx, o, "OrderStatusChanged", payload, traceparent); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(ctx)
	return o, nil
}

// Confirm is the draft-review shortcut; same machine, fixed target.
func (s *Service) Confirm(ctx context.Context, id int64, traceparent string) (domain.Order, error) {
	return s.ApplyStatusChange(ctx, id, domain.StatusConfirmed, traceparent)
}

func (s *Service) MarkDelivered(ctx context.Context, id int64, traceparent string) (domain.Order, error) {
	return s.ApplyStatusChange(ctx, id, domain.StatusDelivered, traceparent)
}

// Delete removes a draft order and, via the schema's cascade, its items.
// Raw messages that referenced the order keep their order_id; message history
// outlives the orders parsed from it.
func (s *Service) Delete(ctx context.Context, id int64, traceparent string) error {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !o.Deletable() {
		return domain.ErrIllegalDeletion
	}

	event := domain.OrderDeleted{OrderID: o.ID, OrderNumber: o.OrderNumber}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteWithOutbox(ctx, id, "OrderDeleted", payload, traceparent); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.publish(ctx)
	return nil
}

type CreateOrder struct {
	OrderDate  string `json:"order_date" validate:"required"`
	HospitalID int64  `json:"hospital_id" validate:"required"`
	Notes      string `json:"notes"`
}

// Create adds a manual draft order. Orders normally arrive from the parse
// pipeline; this path backs the dashboard's add-order form.
func (s *Service) Create(ctx context.Context, req CreateOrder) (domain.Order, error) {
	now := s.now().UTC()
	o := domain.NewDraft(newOrderNumber(now), req.OrderDate, req.HospitalID, now)
	if req.Notes != "" {
		o.Notes = &req.Notes
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.publish(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int64, f FieldUpdates) error {
	if err := s.repo.UpdateFields(ctx, id, f); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.publish(ctx)
	return nil
}

// UpdateItems replaces the order's line items and recomputes the item-count
// and amount rollups. Terminal orders reject the edit.
func (s *Service) UpdateItems(ctx context.Context, id int64, items []domain.Item) (domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if !o.ItemsEditable() {
		return domain.Order{}, domain.ErrOrderLocked
	}

	count, total := domain.ItemTotals(items)
	if err := s.repo.ReplaceItems(ctx, id, items, count, total); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	s.publish(ctx)
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Order, int, error) {
	if f.Limit <= 0 {
		f.Limit = 25
	}
	return s.repo.List(ctx, f)
}

func (s *Service) TodayDeliveries(ctx context.Context) ([]domain.Order, error) {
	return s.repo.DeliveriesDueOn(ctx, s.now().UTC().Format(domain.DateLayout))
}

// publish is best-effort: a lost refresh signal only delays the view until
// the next fetch, so it never fails the mutation.
func (s *Service) publish(ctx context.Context) {
	if err := s.notifier.Publish(ctx, table); err != nil {
		s.log.Error("change notification failed", "table", table, "err", err)
	}
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
