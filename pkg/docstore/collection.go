package docstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Collection names as they appear in the backing file and in [Error].
const (
	collRecipes = "recipes"
	collPantry  = "pantry"
	collUsers   = "users"
)

// collection is a keyed set of records that remembers insertion order.
// Overwriting a key keeps its position.
type collection[T any] struct {
	keys  []string
	items map[string]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) len() int { return len(c.keys) }

func (c *collection[T]) get(key string) (T, bool) {
	v, ok := c.items[key]

	return v, ok
}

func (c *collection[T]) has(key string) bool {
	_, ok := c.items[key]

	return ok
}

func (c *collection[T]) put(key string, v T) {
	if _, ok := c.items[key]; !ok {
		c.keys = append(c.keys, key)
	}

	c.items[key] = v
}

func (c *collection[T]) remove(key string) bool {
	if _, ok := c.items[key]; !ok {
		return false
	}

	delete(c.items, key)

	idx := slices.Index(c.keys, key)
	c.keys = slices.Delete(c.keys, idx, idx+1)

	return true
}

// all yields records in insertion order.
func (c *collection[T]) all() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for _, key := range c.keys {
			if !yield(key, c.items[key]) {
				return
			}
		}
	}
}

// MarshalJSON writes the collection as a JSON object in insertion order.
func (c *collection[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for idx, key := range c.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(c.items[key])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// identityFunc returns a pointer to the identity field of a record.
type identityFunc[T any] func(*T) *string

var errCollectionShape = errors.New("collection must be a JSON object or array")

// decodeCollection parses one collection of the backing file.
//
// The canonical shape is an object keyed by identity. An array of records
// is also accepted and keyed by each record's identity field. A record with
// an empty identity inside an object inherits its key; a record whose
// identity disagrees with its key is rejected.
func decodeCollection[T any](name string, raw json.RawMessage, identity identityFunc[T]) (*collection[T], error) {
	c := newCollection[T]()

	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, collectionError(name, "", err)
	}

	switch tok {
	case nil:
		return c, nil

	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, collectionError(name, "", err)
			}

			key, _ := keyTok.(string)

			var v T
			if err := dec.Decode(&v); err != nil {
				return nil, collectionError(name, key, err)
			}

			id := identity(&v)

			switch {
			case key == "":
				return nil, collectionError(name, "", ErrEmptyKey)
			case *id == "":
				*id = key
			case *id != key:
				return nil, collectionError(name, key, fmt.Errorf("%w: record has %q", ErrKeyMismatch, *id))
			}

			c.put(key, v)
		}

	case json.Delim('['):
		for idx := 0; dec.More(); idx++ {
			var v T
			if err := dec.Decode(&v); err != nil {
				return nil, collectionError(name, "", fmt.Errorf("element %d: %w", idx, err))
			}

			key := *identity(&v)
			if key == "" {
				return nil, collectionError(name, "", fmt.Errorf("element %d: %w", idx, ErrEmptyKey))
			}

			c.put(key, v)
		}

	default:
		return nil, collectionError(name, "", errCollectionShape)
	}

	// Closing delimiter.
	if _, err := dec.Token(); err != nil {
		return nil, collectionError(name, "", err)
	}

	return c, nil
}

func collectionError(name, key string, err error) error {
	if key == "" {
		return fmt.Errorf("%s: %w", name, err)
	}

	return fmt.Errorf("%s[%q]: %w", name, key, err)
}

func recipeTitle(r *Recipe) *string { return &r.Title }
func ingredientName(i *Ingredient) *string { return &i.Name }
func userUsername(u *User) *string { return &u.Username }
