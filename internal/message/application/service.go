package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/notiflow/notiflow/internal/message/domain"
	"github.com/notiflow/notiflow/pkg/notify"
)

const table = "raw_messages"

type Service struct {
	log      *slog.Logger
	repo     MessageRepository
	notifier notify.Publisher
	now      func() time.Time
}

func NewService(log *slog.Logger, repo MessageRepository, notifier notify.Publisher) *Service {
	return &Service{log: log, repo: repo, notifier: notifier, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id int64) (domain.Message, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Message, int, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	return s.repo.List(ctx, f)
}

// Delete is unconditional: message history is operator-curated and carries no
// lifecycle of its own. Linked orders are never touched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.notifier.Publish(ctx, table); err != nil {
		s.log.Error("change notification failed", "table", table, "err", err)
	}
	return nil
}

// Inbound is the wire form the device sync agents publish.
type Inbound struct {
	SourceApp  string    `json:"source_app"`
	Sender     string    `json:"sender"`
	Content    string    `json:"content"`
	ReceivedAt time.Time `json:"received_at"`
	DeviceID   string    `json:"device_id"`
}

// Ingest stores an inbound message in parse_status pending and emits a
// MessageReceived event for the parse pipeline, in one transaction.
func (s *Service) Ingest(ctx context.Context, in Inbound, headers map[string]string, traceparent string) (domain.Message, error) {
	m := domain.Message{
		SourceApp:   in.SourceApp,
		Content:     in.Content,
		ReceivedAt:  in.ReceivedAt,
		ParseStatus: domain.ParsePending,
		SyncedAt:    s.now().UTC(),
	}
	if in.Sender != "" {
		m.Sender = &in.Sender
	}
	if in.DeviceID != "" {
		m.DeviceID = &in.DeviceID
	}

	event := domain.MessageReceived{
		SourceApp:  m.SourceApp,
		ReceivedAt: m.ReceivedAt.Format(time.RFC3339),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return domain.Message{}, err
	}

	saved, err := s.repo.SaveWithOutbox(ctx, m, "MessageReceived", payload, headers, traceparent)
	if err != nil {
		return domain.Message{}, fmt.Errorf("save message: %w", err)
	}
	if err := s.notifier.Publish(ctx, table); err != nil {
		s.log.Error("change notification failed", "table", table, "err", err)
	}
	return saved, nil
}
