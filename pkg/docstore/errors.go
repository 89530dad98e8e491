package docstore

import (
	"errors"
	"strings"
)

var (
	// ErrNotLoaded is returned by every operation while the store is not
	// [StateLoaded], either because the initial load is still running or
	// because it failed. Retrying later is safe.
	ErrNotLoaded = errors.New("document store not loaded")

	// ErrLoad reports that the backing file could not be read or parsed.
	// It is terminal for the [Store] instance.
	ErrLoad = errors.New("load failed")

	// ErrPersist reports that a mutation was applied in memory but the
	// backing file could not be rewritten. Durability is uncertain.
	ErrPersist = errors.New("persist failed")

	ErrEmptyKey    = errors.New("empty key")
	ErrKeyMismatch = errors.New("key does not match record identity")

	// ErrInvalidRecord reports a record that cannot be encoded, usually a
	// malformed value in its free-form [Fields]. Nothing is changed.
	ErrInvalidRecord = errors.New("record cannot be encoded")
)

// Error is the error type returned by all public [Store] operations.
//
// The underlying cause comes first, followed by the operation context:
//
//	persist failed: write /data/recipes.json: no space left on device (op=upsert collection=recipes key=Soup)
//
// Use [errors.Is] against the package sentinels, [errors.As] for the fields.
type Error struct {
	// Op is the store operation that failed (find, upsert, load, ...).
	Op string

	// Collection is recipes, pantry or users. Empty when the failure is not
	// specific to one collection.
	Collection string

	// Key is the record key involved, when there is exactly one.
	Key string

	Err error
}

// Error formats as "<cause> (op=X collection=Y key=Z)".
func (e *Error) Error() string {
	if e == nil {
		return ""
	}

	var cause string
	if e.Err != nil {
		cause = e.Err.Error()
	}

	suffix := e.suffix()

	switch {
	case suffix == "":
		return cause
	case cause == "":
		return suffix
	default:
		return cause + " " + suffix
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

func (e *Error) suffix() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, "op="+e.Op)
	}

	if e.Collection != "" {
		parts = append(parts, "collection="+e.Collection)
	}

	if e.Key != "" {
		parts = append(parts, "key="+e.Key)
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, " ") + ")"
}

// withContext attaches operation context at the API boundary.
// If err is already an *Error, only missing fields are filled in.
func withContext(err error, op, collection, key string) error {
	if err == nil {
		return nil
	}

	existing := &Error{}
	if errors.As(err, &existing) {
		if existing.Op == "" {
			existing.Op = op
		}

		if existing.Collection == "" {
			existing.Collection = collection
		}

		if existing.Key == "" {
			existing.Key = key
		}

		return existing
	}

	return &Error{Op: op, Collection: collection, Key: key, Err: err}
}
