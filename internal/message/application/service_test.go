package application

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/notiflow/notiflow/internal/message/domain"
)

type fakeRepo struct {
	messages map[int64]domain.Message
	nextID   int64
	saved    []savedCall
}

type savedCall struct {
	eventType string
	payload   []byte
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{messages: map[int64]domain.Message{}, nextID: 1}
}

func (f *fakeRepo) Get(_ context.Context, id int64) (domain.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return domain.Message{}, domain.ErrNotFound
	}
	return m, nil
}

func (f *fakeRepo) List(context.Context, ListFilter) ([]domain.Message, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) ListByDateRange(context.Context, string, string) ([]domain.Message, error) {
	return nil, nil
}

func (f *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.messages[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.messages, id)
	return nil
}

func (f *fakeRepo) SaveWithOutbox(_ context.Context, m domain.Message, eventType string, payload []byte, _ map[string]string, _ string) (domain.Message, error) {
	m.ID = f.nextID
	f.nextID++
	f.messages[m.ID] = m
	f.saved = append(f.saved, savedCall{eventType: eventType, payload: payload})
	return m, nil
}

type fakePublisher struct {
	tables []string
}

func (f *fakePublisher) Publish(_ context.Context, table string) error {
	f.tables = append(f.tables, table)
	return nil
}

func TestIngest(t *testing.T) {
	repo := newFakeRepo()
	pub := &fakePublisher{}
	svc := NewService(slog.New(slog.DiscardHandler), repo, pub)
	svc.now = func() time.Time { return time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC) }

	in := Inbound{
		SourceApp:  domain.SourceKakaoTalk,
		Sender:     "Seoul General",
		Content:    "aspirin 10 boxes",
		ReceivedAt: time.Date(2024, 6, 3, 9, 29, 0, 0, time.UTC),
		DeviceID:   "device-7",
	}
	m, err := svc.Ingest(context.Background(), in, nil, "")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if m.ID == 0 {
		t.Error("id not assigned")
	}
	if m.ParseStatus != domain.ParsePending {
		t.Errorf("parse_status = %s, want pending", m.ParseStatus)
	}
	if m.Sender == nil || *m.Sender != "Seoul General" {
		t.Errorf("sender = %v", m.Sender)
	}
	if m.SyncedAt != time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC) {
		t.Errorf("synced_at = %v", m.SyncedAt)
	}
	if len(repo.saved) != 1 || repo.saved[0].eventType != "MessageReceived" {
		t.Errorf("outbox calls = %+v", repo.saved)
	}
	if len(pub.tables) != 1 || pub.tables[0] != "raw_messages" {
		t.Errorf("published tables = %v", pub.tables)
	}
}

func TestIngestOmitsEmptyOptionals(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(slog.New(slog.DiscardHandler), repo, &fakePublisher{})

	m, err := svc.Ingest(context.Background(), Inbound{
		SourceApp:  domain.SourceSMS,
		Content:    "hi",
		ReceivedAt: time.Now(),
	}, nil, "")
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if m.Sender != nil || m.DeviceID != nil {
		t.Errorf("empty optionals stored: sender=%v device=%v", m.Sender, m.DeviceID)
	}
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	repo.messages[1] = domain.Message{ID: 1}
	pub := &fakePublisher{}
	svc := NewService(slog.New(slog.DiscardHandler), repo, pub)

	if err := svc.Delete(context.Background(), 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(pub.tables) != 1 {
		t.Errorf("published tables = %v", pub.tables)
	}

	if err := svc.Delete(context.Background(), 99); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing message err = %v, want ErrNotFound", err)
	}
}
