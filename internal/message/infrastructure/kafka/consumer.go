package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/notiflow/notiflow/internal/message/application"
	"github.com/notiflow/notiflow/pkg/idempotency"
	"github.com/notiflow/notiflow/pkg/tracing"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Consumer drains the raw-messages topic fed by the device sync agents.
// Parsing happens elsewhere; this loop only lands messages in the store.
type Consumer struct {
	log    *slog.Logger
	reader *kafka.Reader
	svc    *application.Service
	idem   *idempotency.Store
	tracer trace.Tracer
}

func NewConsumer(log *slog.Logger, brokers []string, topic, group string, svc *application.Service, idem *idempotency.Store) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
	return &Consumer{
		log:    log,
		reader: r,
		svc:    svc,
		idem:   idem,
		tracer: otel.Tracer("ingest-consumer"),
	}
}

func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}
		key := c.idem.Key(msg.Topic, msg.Partition, msg.Offset)
		seen, err := c.idem.Seen(ctx, key)
		if err != nil {
			c.log.Error("idempotency check failed", "err", err)
			continue
		}
		if seen {
			c.log.Info("duplicate message skipped", "key", key)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		msgCtx, span := c.tracer.Start(msgCtx, "IngestRawMessage")

		var in application.Inbound
		if err := json.Unmarshal(msg.Value, &in); err != nil {
			c.log.Error("unmarshal failed", "err", err)
			span.End()
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		headers := map[string]string{"source": "ingest-worker"}
		traceparent := headerValue(msg.Headers, tracing.TraceparentHeader)

		if saved, err := c.svc.Ingest(msgCtx, in, headers, traceparent); err != nil {
			c.log.Error("ingest failed", "source_app", in.SourceApp, "err", err)
		} else {
			c.log.Info("message ingested", "message_id", saved.ID, "source_app", saved.SourceApp)
		}
		span.End()
		_ = c.reader.CommitMessages(ctx, msg)
	}
}

func headerValue(h []kafka.Header, key string) string {
	for _, hh := range h {
		if hh.Key == key {
			return string(hh.Value)
		}
	}
	return ""
}
