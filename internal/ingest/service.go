package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/PratikDhanave/event-ingest-service/internal/metrics"
	"github.com/PratikDhanave/event-ingest-service/internal/store"
)

// Receipt describes a stored batch.
type Receipt struct {
	Events    int
	Bytes     int
	Container string
	Key       string
}

// Service validates event batches and overwrites the events object with them.
type Service struct {
	store   store.ObjectStore
	log     *slog.Logger
	timeout time.Duration

	container string
	key       string
}

// NewService targets store.DefaultContainer/store.DefaultKey. A zero timeout
// leaves the upload bounded only by ctx.
func NewService(st store.ObjectStore, log *slog.Logger, timeout time.Duration) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		store:     st,
		log:       log,
		timeout:   timeout,
		container: store.DefaultContainer,
		key:       store.DefaultKey,
	}
}

// Save stores body as the new content of the events object. The returned
// error, if any, is an *Error. Concurrent calls race on the same object and
// the last write to complete wins.
func (s *Service) Save(ctx context.Context, body []byte) (Receipt, error) {
	batch, err := DecodeBatch(body)
	if err != nil {
		metrics.ObserveOutcome(metrics.OutcomeInvalid)
		return Receipt{}, err
	}

	data, err := EncodeBatch(batch)
	if err != nil {
		metrics.ObserveOutcome(metrics.OutcomeFailed)
		return Receipt{}, storageFailure("encode batch", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	began := time.Now()
	err = s.store.Put(ctx, store.Object{
		Container:   s.container,
		Key:         s.key,
		Data:        data,
		ContentType: store.ContentTypeJSON,
	})
	metrics.ObserveUpload(time.Since(began))
	if err != nil {
		metrics.ObserveOutcome(metrics.OutcomeFailed)
		return Receipt{}, storageFailure("put object", err)
	}

	metrics.ObserveOutcome(metrics.OutcomeStored)
	metrics.AddEvents(batch.Len())

	receipt := Receipt{
		Events:    batch.Len(),
		Bytes:     len(data),
		Container: s.container,
		Key:       s.key,
	}
	s.log.InfoContext(ctx, "events saved",
		"events", receipt.Events,
		"bytes", receipt.Bytes,
		"container", receipt.Container,
		"key", receipt.Key,
	)
	return receipt, nil
}
