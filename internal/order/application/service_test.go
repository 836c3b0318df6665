package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/notiflow/notiflow/internal/order/domain"
	"github.com/shopspring/decimal"
)

type fakeRepo struct {
	orders      map[int64]domain.Order
	updateCalls int
	deleteCalls int
	failUpdate  error
}

func newFakeRepo(orders ...domain.Order) *fakeRepo {
	m := make(map[int64]domain.Order, len(orders))
	for _, o := range orders {
		m[o.ID] = o
	}
	return &fakeRepo{orders: m}
}

func (r *fakeRepo) Get(_ context.Context, id int64) (domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return o, nil
}

func (r *fakeRepo) List(context.Context, ListFilter) ([]domain.Order, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) ListByDateRange(context.Context, string, string) ([]domain.Order, error) {
	return nil, nil
}

func (r *fakeRepo) DeliveriesDueOn(context.Context, string) ([]domain.Order, error) {
	return nil, nil
}

func (r *fakeRepo) Create(_ context.Context, o domain.Order) (domain.Order, error) {
	o.ID = int64(len(r.orders) + 1)
	r.orders[o.ID] = o
	return o, nil
}

func (r *fakeRepo) UpdateFields(_ context.Context, id int64, _ FieldUpdates) error {
	if _, ok := r.orders[id]; !ok {
		return domain.ErrNotFound
	}
	return nil
}

func (r *fakeRepo) ReplaceItems(_ context.Context, orderID int64, items []domain.Item, totalItems int, totalAmount decimal.NullDecimal) error {
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.Items = items
	o.TotalItems = totalItems
	o.TotalAmount = totalAmount
	r.orders[orderID] = o
	return nil
}

func (r *fakeRepo) UpdateStatusWithOutbox(_ context.Context, o domain.Order, _ string, _ []byte, _ string) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	r.updateCalls++
	r.orders[o.ID] = o
	return nil
}

func (r *fakeRepo) DeleteWithOutbox(_ context.Context, id int64, _ string, _ []byte, _ string) error {
	r.deleteCalls++
	delete(r.orders, id)
	return nil
}

type fakePublisher struct {
	calls []string
}

func (p *fakePublisher) Publish(_ context.Context, table string) error {
	p.calls = append(p.calls, table)
	return nil
}

func newService(repo *fakeRepo, pub *fakePublisher) *Service {
	svc := NewService(slog.New(slog.DiscardHandler), repo, pub)
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestApplyStatusChangeConfirm(t *testing.T) {
	repo := newFakeRepo(domain.Order{ID: 1, Status: domain.StatusDraft})
	pub := &fakePublisher{}
	svc := newService(repo, pub)

	got, err := svc.ApplyStatusChange(context.Background(), 1, domain.StatusConfirmed, "")
	if err != nil {
		t.Fatalf("ApplyStatusChange: %v", err)
	}
	if got.Status != domain.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	if got.ConfirmedAt == nil {
		t.Error("confirmed_at not set")
	}
	if got.DeliveredAt != nil {
		t.Error("delivered_at set on confirm")
	}
	if repo.updateCalls != 1 {
		t.Errorf("updateCalls = %d, want 1", repo.updateCalls)
	}
	if len(pub.calls) != 1 || pub.calls[0] != "orders" {
		t.Errorf("publish calls = %v", pub.calls)
	}
}

func TestApplyStatusChangeRejectsIllegalTarget(t *testing.T) {
	repo := newFakeRepo(domain.Order{ID: 2, Status: domain.StatusConfirmed})
	pub := &fakePublisher{}
	svc := newService(repo, pub)

	_, err := svc.ApplyStatusChange(context.Background(), 2, domain.StatusDraft, "")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if repo.orders[2].Status != domain.StatusConfirmed {
		t.Errorf("stored status = %s, want confirmed", repo.orders[2].Status)
	}
	if repo.updateCalls != 0 {
		t.Errorf("repo touched on rejected transition: %d calls", repo.updateCalls)
	}
	if len(pub.calls) != 0 {
		t.Errorf("notification published on failure: %v", pub.calls)
	}
}

func TestApplyStatusChangeNotFound(t *testing.T) {
	svc := newService(newFakeRepo(), &fakePublisher{})
	_, err := svc.ApplyStatusChange(context.Background(), 99, domain.StatusConfirmed, "")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestApplyStatusChangeWrapsStoreFailure(t *testing.T) {
	repo := newFakeRepo(domain.Order{ID: 3, Status: domain.StatusDraft})
	repo.failUpdate = errors.New("connection refused")
	svc := newService(repo, &fakePublisher{})

	_, err := svc.ApplyStatusChange(context.Background(), 3, domain.StatusConfirmed, "")
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
	if repo.orders[3].Status != domain.StatusDraft {
		t.Errorf("stored status = %s, want draft", repo.orders[3].Status)
	}
}

func TestDeleteDraft(t *testing.T) {
	repo := newFakeRepo(domain.Order{ID: 42, Status: domain.StatusDraft})
	pub := &fakePublisher{}
	svc := newService(repo, pub)

	if err := svc.Delete(context.Background(), 42, ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := repo.orders[42]; ok {
		t.Error("order still present after delete")
	}
	if len(pub.calls) != 1 {
		t.Errorf("publish calls = %v", pub.calls)
	}
}

func TestDeleteNonDraftRejected(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusConfirmed, domain.StatusProcessing, domain.StatusDelivered, domain.StatusCancelled} {
		repo := newFakeRepo(domain.Order{ID: 5, Status: status})
		svc := newService(repo, &fakePublisher{})

		err := svc.Delete(context.Background(), 5, "")
		if !errors.Is(err, domain.ErrIllegalDeletion) {
			t.Errorf("%s: err = %v, want ErrIllegalDeletion", status, err)
		}
		if _, ok := repo.orders[5]; !ok {
			t.Errorf("%s: order removed despite rejection", status)
		}
		if repo.deleteCalls != 0 {
			t.Errorf("%s: repo delete called", status)
		}
	}
}

func TestUpdateItemsRecomputesTotals(t *testing.T) {
	repo := newFakeRepo(domain.Order{ID: 8, Status: domain.StatusDraft})
	pub := &fakePublisher{}
	svc := newService(repo, pub)

	items := []domain.Item{
		{Quantity: 2, LineTotal: decimal.NewNullDecimal(decimal.NewFromInt(30000)), MatchStatus: domain.MatchMatched},
		{Quantity: 1, LineTotal: decimal.NewNullDecimal(decimal.NewFromInt(15000)), MatchStatus: domain.MatchReview},
		{Quantity: 1, MatchStatus: domain.MatchUnmatched},
	}
	o, err := svc.UpdateItems(context.Background(), 8, items)
	if err != nil {
		t.Fatalf("UpdateItems: %v", err)
	}
	if o.TotalItems != 3 {
		t.Errorf("total_items = %d, want 3", o.TotalItems)
	}
	if !o.TotalAmount.Valid || !o.TotalAmount.Decimal.Equal(decimal.NewFromInt(45000)) {
		t.Errorf("total_amount = %v", o.TotalAmount)
	}
	if len(pub.calls) != 1 {
		t.Errorf("publish calls = %v", pub.calls)
	}
}

func TestUpdateItemsRejectedOnTerminalOrder(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusDelivered, domain.StatusCancelled} {
		repo := newFakeRepo(domain.Order{ID: 9, Status: status, TotalItems: 2})
		svc := newService(repo, &fakePublisher{})

		_, err := svc.UpdateItems(context.Background(), 9, nil)
		if !errors.Is(err, domain.ErrOrderLocked) {
			t.Errorf("%s: err = %v, want ErrOrderLocked", status, err)
		}
		if repo.orders[9].TotalItems != 2 {
			t.Errorf("%s: items mutated despite rejection", status)
		}
	}
}

func TestCreateGeneratesOrderNumber(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo, &fakePublisher{})

	o, err := svc.Create(context.Background(), CreateOrder{OrderDate: "2024-06-03", HospitalID: 7})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.Status != domain.StatusDraft {
		t.Errorf("status = %s, want draft", o.Status)
	}
	if len(o.OrderNumber) == 0 {
		t.Error("empty order number")
	}
	const prefix = "ORD-20240603-"
	if o.OrderNumber[:len(prefix)] != prefix {
		t.Errorf("order number = %s, want prefix %s", o.OrderNumber, prefix)
	}
}
