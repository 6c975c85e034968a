package ingest

import "fmt"

// Kind classifies why a batch was not stored.
type Kind int

const (
	// KindInvalidInput means the request body is not a JSON array. Nothing
	// was written.
	KindInvalidInput Kind = iota + 1
	// KindStorage covers every unexpected failure: reading the body,
	// encoding, or writing to the object store.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error is returned by Service.Save.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidInput(reason string, err error) *Error {
	return &Error{Kind: KindInvalidInput, Reason: reason, Err: err}
}

func storageFailure(reason string, err error) *Error {
	return &Error{Kind: KindStorage, Reason: reason, Err: err}
}
