package notify

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Publisher is the write side of the change-notification channel. A
// publication carries no payload beyond "something in this table changed";
// subscribers re-derive their views from current data.
type Publisher interface {
	Publish(ctx context.Context, table string) error
}

type Broker struct {
	log    *slog.Logger
	rdb    *redis.Client
	prefix string
}

func NewBroker(log *slog.Logger, rdb *redis.Client) *Broker {
	return &Broker{log: log, rdb: rdb, prefix: "notiflow:changes:"}
}

func (b *Broker) Publish(ctx context.Context, table string) error {
	return b.rdb.Publish(ctx, b.prefix+table, "1").Err()
}

// Subscribe invokes fn every time a change is published for table, until the
// returned cancel func is called or ctx ends. Callbacks run on a dedicated
// goroutine per subscription.
func (b *Broker) Subscribe(ctx context.Context, table string, fn func()) func() {
	sub := b.rdb.Subscribe(ctx, b.prefix+table)
	id := uuid.NewString()

	go func() {
		for range sub.Channel() {
			fn()
		}
		b.log.Debug("subscription closed", "table", table, "sub_id", id)
	}()

	return func() { _ = sub.Close() }
}
