package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmehdipour/customer-service/internal/kafka"
	"github.com/jmehdipour/customer-service/internal/metrics"
	"github.com/jmehdipour/customer-service/internal/model"
	"github.com/jmehdipour/customer-service/internal/repository"
	"go.uber.org/zap"
)

// EventSource is the part of the Kafka consumer the projector uses.
type EventSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, msgs ...kafka.Message) error
}

var _ EventSource = (*kafka.Consumer)(nil)

// AuditProjector:
// - fetches customer events relayed from the outbox,
// - batches them into ClickHouse (size/time flush),
// - commits offsets only after the batch is stored.
type AuditProjector struct {
	Source EventSource
	Events repository.CustomerEventsRepository
	Log    *zap.Logger

	BatchSize int           // max buffered messages per flush
	BatchWait time.Duration // max time to wait before flush
}

func NewAuditProjector(src EventSource, events repository.CustomerEventsRepository, log *zap.Logger) *AuditProjector {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditProjector{
		Source:    src,
		Events:    events,
		Log:       log,
		BatchSize: 200,
		BatchWait: 500 * time.Millisecond,
	}
}

const shutdownFlushTimeout = 5 * time.Second

// Run blocks until ctx is cancelled, then flushes what is buffered.
func (w *AuditProjector) Run(ctx context.Context) error {
	if w.Source == nil || w.Events == nil {
		return errors.New("audit: source and events store are required")
	}
	if w.BatchSize <= 0 {
		w.BatchSize = 200
	}
	if w.BatchWait <= 0 {
		w.BatchWait = 500 * time.Millisecond
	}

	msgCh := make(chan kafka.Message, w.BatchSize)
	go w.fetch(ctx, msgCh)

	b := &batch{}
	tick := time.NewTicker(w.BatchWait)
	defer tick.Stop()

	for {
		// stop reading while a full batch waits for the store
		in := msgCh
		if len(b.msgs) >= w.BatchSize {
			in = nil
		}

		select {
		case <-ctx.Done():
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownFlushTimeout)
			err := w.flush(fctx, b)
			cancel()
			return err
		case m, ok := <-in:
			if !ok {
				continue
			}
			w.add(b, m)
			if len(b.msgs) >= w.BatchSize {
				_ = w.flush(ctx, b)
			}
		case <-tick.C:
			_ = w.flush(ctx, b)
		}
	}
}

func (w *AuditProjector) fetch(ctx context.Context, out chan<- kafka.Message) {
	defer close(out)
	for {
		m, err := w.Source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.Log.Warn("audit: kafka fetch", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(200 * time.Millisecond):
			}
			continue
		}
		select {
		case out <- m:
		case <-ctx.Done():
			return
		}
	}
}

type batch struct {
	msgs   []kafka.Message
	events []model.CustomerEvent
}

func (b *batch) reset() {
	b.msgs = b.msgs[:0]
	b.events = b.events[:0]
}

// add buffers m. Undecodable messages are kept only for their offset, so they
// are committed and skipped with the rest of the batch.
func (w *AuditProjector) add(b *batch, m kafka.Message) {
	b.msgs = append(b.msgs, m)

	ev, err := DecodeCustomerEvent(m.Value)
	if err != nil {
		metrics.CustomerEventsTotal.WithLabelValues("unknown", "failed").Inc()
		w.Log.Warn("audit: skipping poison message",
			zap.Int("partition", m.Partition),
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		return
	}
	b.events = append(b.events, ev)
}

func (w *AuditProjector) flush(ctx context.Context, b *batch) error {
	if len(b.msgs) == 0 {
		return nil
	}

	if len(b.events) > 0 {
		if err := w.Events.InsertBatch(ctx, b.events); err != nil {
			w.Log.Error("audit: insert batch", zap.Int("events", len(b.events)), zap.Error(err))
			return err
		}
	}
	for _, ev := range b.events {
		metrics.CustomerEventsTotal.WithLabelValues(ev.Type.String(), "projected").Inc()
	}

	// offsets are committed only once the rows are stored; a crash in between
	// replays the batch, which the store deduplicates by event id
	if err := w.Source.Commit(ctx, b.msgs...); err != nil {
		w.Log.Error("audit: commit offsets", zap.Int("messages", len(b.msgs)), zap.Error(err))
		return err
	}

	w.Log.Debug("audit: flushed", zap.Int("messages", len(b.msgs)), zap.Int("events", len(b.events)))
	b.reset()
	return nil
}

// DecodeCustomerEvent parses a relayed outbox payload. The relay may deliver
// the payload column either as a JSON object or as a JSON-encoded string.
func DecodeCustomerEvent(value []byte) (model.CustomerEvent, error) {
	var ev model.CustomerEvent

	value = bytes.TrimSpace(value)
	if len(value) > 0 && value[0] == '"' {
		var inner string
		if err := json.Unmarshal(value, &inner); err != nil {
			return ev, fmt.Errorf("decode payload string: %w", err)
		}
		value = []byte(inner)
	}

	if err := json.Unmarshal(value, &ev); err != nil {
		return ev, fmt.Errorf("decode customer event: %w", err)
	}
	if ev.ID == "" {
		return ev, errors.New("customer event missing id")
	}
	if !ev.Type.Valid() {
		return ev, fmt.Errorf("unknown customer event type %q", ev.Type)
	}
	return ev, nil
}
