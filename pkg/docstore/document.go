package docstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var errNotObject = errors.New("backing file is not a JSON object")

// document is the whole in-memory state mirrored by the backing file.
type document struct {
	recipes *collection[Recipe]
	pantry  *collection[Ingredient]
	users   *collection[User]

	// extra holds top-level members other than the three collections.
	// They are written back unchanged.
	extra map[string]json.RawMessage
}

func newDocument() *document {
	return &document{
		recipes: newCollection[Recipe](),
		pantry:  newCollection[Ingredient](),
		users:   newCollection[User](),
	}
}

// decodeDocument parses the backing file. Missing collections are empty.
func decodeDocument(data []byte) (*document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}

	if top == nil {
		return nil, errNotObject
	}

	doc := newDocument()

	var err error

	if raw, ok := top[collRecipes]; ok {
		delete(top, collRecipes)

		if doc.recipes, err = decodeCollection(collRecipes, raw, recipeTitle); err != nil {
			return nil, err
		}
	}

	if raw, ok := top[collPantry]; ok {
		delete(top, collPantry)

		if doc.pantry, err = decodeCollection(collPantry, raw, ingredientName); err != nil {
			return nil, err
		}
	}

	if raw, ok := top[collUsers]; ok {
		delete(top, collUsers)

		if doc.users, err = decodeCollection(collUsers, raw, userUsername); err != nil {
			return nil, err
		}
	}

	if len(top) > 0 {
		doc.extra = top
	}

	return doc, nil
}

// encode serializes the whole document. All three collections are always
// present, followed by any extra members in key order.
func (d *document) encode() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	members := []struct {
		name string
		v    json.Marshaler
	}{
		{collRecipes, d.recipes},
		{collPantry, d.pantry},
		{collUsers, d.users},
	}

	for idx, m := range members {
		if idx > 0 {
			buf.WriteByte(',')
		}

		data, err := m.v.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", m.name, err)
		}

		fmt.Fprintf(&buf, "%q:", m.name)
		buf.Write(data)
	}

	for _, key := range slices.Sorted(maps.Keys(d.extra)) {
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(d.extra[key])
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
