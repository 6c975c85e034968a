package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backend names accepted by Open.
const (
	BackendAzure    = "azure"
	BackendPostgres = "postgres"
	BackendFile     = "file"
	BackendMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	AzureConnectionString string
	AzureMaxRetries       int32
	CreateContainer       bool

	DBURL    string
	FileRoot string
}

// Open builds the configured backend without contacting it.
func Open(ctx context.Context, opts Options) (ObjectStore, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendAzure:
		return NewAzureStore(opts.AzureConnectionString, AzureOptions{
			MaxRetries:      opts.AzureMaxRetries,
			Container:       DefaultContainer,
			CreateContainer: opts.CreateContainer,
		})
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DBURL)
	case BackendFile:
		return NewFileStore(opts.FileRoot)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// bootstrapper is implemented by backends that create their container or
// schema on startup. Bootstrap must be idempotent.
type bootstrapper interface {
	Bootstrap(ctx context.Context) error
}

// WaitReady bootstraps and pings st with exponential backoff until both
// succeed or maxWait elapses. Used at startup only; request handling never
// retries.
func WaitReady(ctx context.Context, st ObjectStore, maxWait time.Duration, log *slog.Logger) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = maxWait

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		opCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if b, ok := st.(bootstrapper); ok {
			if err := b.Bootstrap(opCtx); err != nil {
				return err
			}
		}
		return st.Ping(opCtx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		log.Warn("storage not ready", "attempt", attempt, "retry_in", next, "error", err)
	})
}
