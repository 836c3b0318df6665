package application

import (
	"context"

	"github.com/notiflow/notiflow/internal/message/domain"
)

type ListFilter struct {
	From        string
	To          string
	ParseStatus domain.ParseStatus
	SourceApp   string
	Limit       int
	Offset      int
}

type MessageRepository interface {
	Get(ctx context.Context, id int64) (domain.Message, error)
	List(ctx context.Context, f ListFilter) ([]domain.Message, int, error)
	ListByDateRange(ctx context.Context, from, to string) ([]domain.Message, error)
	Delete(ctx context.Context, id int64) error
	SaveWithOutbox(ctx context.Context, m domain.Message, eventType string, payload []byte, headers map[string]string, traceparent string) (domain.Message, error)
}
