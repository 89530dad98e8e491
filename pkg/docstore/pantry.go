package docstore

import "go.uber.org/zap"

// ListPantry returns a copy of the pantry keyed by ingredient name.
// An empty pantry yields an empty, non-nil map.
func (s *Store) ListPantry() (map[string]Ingredient, error) {
	var out map[string]Ingredient

	err := s.read("list", collPantry, func(d *document) {
		out = make(map[string]Ingredient, d.pantry.len())
		for name, ing := range d.pantry.all() {
			out[name] = ing.Clone()
		}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// AddIngredientIfAbsent inserts ing into the pantry unless an ingredient
// with the same name is stored. It reports whether it inserted; the backing
// file is only rewritten in that case.
func (s *Store) AddIngredientIfAbsent(ing Ingredient) (bool, error) {
	if err := s.checkLoaded("add", collPantry); err != nil {
		return false, err
	}

	if ing.Name == "" {
		return false, &Error{Op: "add", Collection: collPantry, Err: ErrEmptyKey}
	}

	if err := validateRecord("add", collPantry, ing.Name, ing); err != nil {
		return false, err
	}

	var added bool

	err := s.write("add", collPantry, ing.Name, func(d *document) bool {
		if d.pantry.has(ing.Name) {
			return false
		}

		d.pantry.put(ing.Name, ing.Clone())
		added = true

		s.log.Debug("ingredient added", zap.String("name", ing.Name))

		return true
	})

	return added, err
}
