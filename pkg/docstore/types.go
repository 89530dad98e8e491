package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Fields holds the JSON members of a record that the store does not
// interpret (instructions, quantity, unit, ...). They round-trip verbatim.
type Fields map[string]json.RawMessage

// String returns the field as a string if it holds a JSON string.
func (f Fields) String(key string) (string, bool) {
	raw, ok := f[key]
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}

	return s, true
}

// Set stores v under key, encoded as JSON.
func (f Fields) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding field %q: %w", key, err)
	}

	f[key] = raw

	return nil
}

func (f Fields) clone() Fields {
	if f == nil {
		return nil
	}

	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = bytes.Clone(v)
	}

	return out
}

// Ingredient is a pantry entry, and also the shape of an ingredient
// reference inside a [Recipe]. Identity is Name.
type Ingredient struct {
	Name   string
	Fields Fields
}

// Clone returns a deep copy of i.
func (i Ingredient) Clone() Ingredient {
	return Ingredient{Name: i.Name, Fields: i.Fields.clone()}
}

func (i Ingredient) MarshalJSON() ([]byte, error) {
	return marshalRecord(i.Fields, map[string]any{"name": i.Name})
}

func (i *Ingredient) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalRecord(data)
	if err != nil || raw == nil {
		return err
	}

	name, err := takeString(raw, "name")
	if err != nil {
		return err
	}

	*i = Ingredient{Name: name, Fields: remaining(raw)}

	return nil
}

// Recipe is a stored recipe. Identity is Title (case-sensitive).
type Recipe struct {
	Title       string
	Ingredients []Ingredient
	Fields      Fields
}

// Clone returns a deep copy of r.
func (r Recipe) Clone() Recipe {
	out := Recipe{Title: r.Title, Fields: r.Fields.clone()}

	if r.Ingredients != nil {
		out.Ingredients = make([]Ingredient, len(r.Ingredients))
		for idx, ing := range r.Ingredients {
			out.Ingredients[idx] = ing.Clone()
		}
	}

	return out
}

func (r Recipe) MarshalJSON() ([]byte, error) {
	ingredients := r.Ingredients
	if ingredients == nil {
		ingredients = []Ingredient{}
	}

	return marshalRecord(r.Fields, map[string]any{
		"title":       r.Title,
		"ingredients": ingredients,
	})
}

func (r *Recipe) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalRecord(data)
	if err != nil || raw == nil {
		return err
	}

	title, err := takeString(raw, "title")
	if err != nil {
		return err
	}

	var ingredients []Ingredient

	if rawIngredients, ok := raw["ingredients"]; ok {
		delete(raw, "ingredients")

		if err := json.Unmarshal(rawIngredients, &ingredients); err != nil {
			return fmt.Errorf("field %q: %w", "ingredients", err)
		}
	}

	*r = Recipe{Title: title, Ingredients: ingredients, Fields: remaining(raw)}

	return nil
}

// User is a stored account. Password is opaque to the store; callers hash
// it before it gets here. Identity is Username.
type User struct {
	Username string
	Password string
	Fields   Fields
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	return User{Username: u.Username, Password: u.Password, Fields: u.Fields.clone()}
}

func (u User) MarshalJSON() ([]byte, error) {
	return marshalRecord(u.Fields, map[string]any{
		"username": u.Username,
		"password": u.Password,
	})
}

func (u *User) UnmarshalJSON(data []byte) error {
	raw, err := unmarshalRecord(data)
	if err != nil || raw == nil {
		return err
	}

	username, err := takeString(raw, "username")
	if err != nil {
		return err
	}

	password, err := takeString(raw, "password")
	if err != nil {
		return err
	}

	*u = User{Username: username, Password: password, Fields: remaining(raw)}

	return nil
}

// unmarshalRecord decodes a JSON object into its raw members.
// A JSON null yields a nil map and no error.
func unmarshalRecord(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	return raw, nil
}

// marshalRecord encodes fields plus the known members. Known members win
// over a free-form field of the same name.
func marshalRecord(fields Fields, known map[string]any) ([]byte, error) {
	out := make(map[string]any, len(fields)+len(known))

	for k, v := range fields {
		out[k] = v
	}

	maps.Copy(out, known)

	return json.Marshal(out)
}

// takeString removes key from raw and decodes it as a string.
// A missing member or JSON null yields "".
func takeString(raw map[string]json.RawMessage, key string) (string, error) {
	value, ok := raw[key]
	if !ok {
		return "", nil
	}

	delete(raw, key)

	var s *string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", fmt.Errorf("field %q: %w", key, err)
	}

	if s == nil {
		return "", nil
	}

	return *s, nil
}

func remaining(raw map[string]json.RawMessage) Fields {
	if len(raw) == 0 {
		return nil
	}

	return Fields(raw)
}
