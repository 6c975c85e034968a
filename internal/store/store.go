package store

import (
	"context"
	"errors"
)

const (
	// DefaultContainer is the container every event batch is written to.
	DefaultContainer = "data"
	// DefaultKey is the object key holding the latest event batch.
	DefaultKey = "events.json"
	// ContentTypeJSON is the media type recorded with stored batches.
	ContentTypeJSON = "application/json"
)

var (
	// ErrObjectNotFound is returned by Get when nothing is stored under the key.
	ErrObjectNotFound = errors.New("object not found")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Object is a full-content write: Data replaces whatever was stored under
// Container/Key before.
type Object struct {
	Container   string
	Key         string
	Data        []byte
	ContentType string
}

// ObjectStore is the persistence layer for event batches.
// Implementations must overwrite atomically: readers observe either the
// previous content or the new content, never a mix.
type ObjectStore interface {
	Put(ctx context.Context, obj Object) error
	Ping(ctx context.Context) error
	Close() error
}

// Reader reads back stored objects. It is not exposed over HTTP.
type Reader interface {
	Get(ctx context.Context, container, key string) ([]byte, error)
}

func validate(obj Object) error {
	if obj.Container == "" || obj.Key == "" {
		return errors.New("container/key required")
	}
	return nil
}
