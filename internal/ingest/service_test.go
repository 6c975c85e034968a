package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/kinbiko/jsonassert"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/event-ingest-service/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSaveWritesFixedObject(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, discardLogger(), time.Second)

	receipt, err := svc.Save(context.Background(), []byte(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)

	assert.Equal(t, Receipt{Events: 2, Bytes: 19, Container: "data", Key: "events.json"}, receipt)

	got, err := st.Get(context.Background(), "data", "events.json")
	require.NoError(t, err)
	jsonassert.New(t).Assertf(string(got), `[{"id":1},{"id":2}]`)
	assert.Equal(t, "application/json", st.ContentType("data", "events.json"))
}

func TestSaveInvalidInputSkipsStore(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, discardLogger(), 0)

	_, err := svc.Save(context.Background(), []byte(`{"id":1}`))

	var ingestErr *Error
	require.ErrorAs(t, err, &ingestErr)
	assert.Equal(t, KindInvalidInput, ingestErr.Kind)
	assert.Zero(t, st.Puts())
}

func TestSaveStorageFailureIsTagged(t *testing.T) {
	cause := errors.New("403 AuthenticationFailed")
	st := store.NewMemoryStore()
	st.PutErr = cause
	svc := NewService(st, discardLogger(), 0)

	_, err := svc.Save(context.Background(), []byte(`[1]`))

	var ingestErr *Error
	require.ErrorAs(t, err, &ingestErr)
	assert.Equal(t, KindStorage, ingestErr.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, st.Puts())
}

type slowStore struct {
	*store.MemoryStore
}

func (s slowStore) Put(ctx context.Context, obj store.Object) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSaveBoundsUploadWithTimeout(t *testing.T) {
	svc := NewService(slowStore{store.NewMemoryStore()}, discardLogger(), 20*time.Millisecond)

	_, err := svc.Save(context.Background(), []byte(`[]`))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
