package store

import (
	"context"
	"testing"
	"time"

	"github.com/kinbiko/jsonassert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("events"),
		tcpostgres.WithUsername("events"),
		tcpostgres.WithPassword("events"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(ctx) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := NewPostgresStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, WaitReady(ctx, st, 30*time.Second, discardLog()))

	_, err = st.Get(ctx, DefaultContainer, DefaultKey)
	require.ErrorIs(t, err, ErrObjectNotFound)

	for _, body := range []string{`[{"id":1},{"id":2}]`, `[]`} {
		require.NoError(t, st.Put(ctx, Object{Container: DefaultContainer, Key: DefaultKey, Data: []byte(body), ContentType: ContentTypeJSON}))

		got, err := st.Get(ctx, DefaultContainer, DefaultKey)
		require.NoError(t, err)
		jsonassert.New(t).Assertf(string(got), body)
	}
}
