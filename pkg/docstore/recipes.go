package docstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// FindOptions selects how [Store.Find] matches a query.
// The zero value enables nothing and matches no recipe.
type FindOptions struct {
	// MatchTitle matches recipes whose title contains the query, or equals
	// it when ExactMatch is set.
	MatchTitle bool

	// MatchIngredients matches recipes with at least one ingredient whose
	// name contains the query. It is only consulted for recipes the title
	// check did not match.
	MatchIngredients bool

	// ExactMatch switches title matching from substring to equality.
	// Ingredient matching is always by substring.
	ExactMatch bool
}

func (o FindOptions) matches(query string, r *Recipe) bool {
	if o.MatchTitle {
		if (o.ExactMatch && r.Title == query) || (!o.ExactMatch && strings.Contains(r.Title, query)) {
			return true
		}
	}

	if o.MatchIngredients {
		for _, ing := range r.Ingredients {
			if strings.Contains(ing.Name, query) {
				return true
			}
		}
	}

	return false
}

// Find returns copies of the recipes matching query, in collection order.
// No match yields an empty, non-nil slice.
func (s *Store) Find(query string, opts FindOptions) ([]Recipe, error) {
	out := []Recipe{}

	err := s.read("find", collRecipes, func(d *document) {
		for _, r := range d.recipes.all() {
			if opts.matches(query, &r) {
				out = append(out, r.Clone())
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetRecipe returns a copy of the recipe stored under title.
func (s *Store) GetRecipe(title string) (Recipe, bool, error) {
	var (
		out   Recipe
		found bool
	)

	err := s.read("get", collRecipes, func(d *document) {
		var r Recipe
		if r, found = d.recipes.get(title); found {
			out = r.Clone()
		}
	})

	return out, found, err
}

// UpsertAll inserts each recipe, overwriting any existing recipe with the
// same title, then rewrites the backing file.
//
// A recipe with an empty title rejects the whole batch with [ErrEmptyKey],
// one that cannot be encoded with [ErrInvalidRecord], before anything
// changes. On [ErrPersist] the in-memory change is kept.
func (s *Store) UpsertAll(recipes []Recipe) error {
	if err := s.checkLoaded("upsert", collRecipes); err != nil {
		return err
	}

	if err := validateRecipes("upsert", recipes); err != nil {
		return err
	}

	return s.write("upsert", collRecipes, batchKey(recipes), func(d *document) bool {
		for _, r := range recipes {
			d.recipes.put(r.Title, r.Clone())
		}

		s.log.Debug("recipes upserted", zap.Int("count", len(recipes)))

		return true
	})
}

// AddAllIfAbsent inserts the recipes whose title is not stored yet and
// leaves existing ones untouched. The backing file is rewritten even when
// nothing was inserted. The batch is validated like in [Store.UpsertAll].
func (s *Store) AddAllIfAbsent(recipes []Recipe) error {
	if err := s.checkLoaded("add", collRecipes); err != nil {
		return err
	}

	if err := validateRecipes("add", recipes); err != nil {
		return err
	}

	return s.write("add", collRecipes, batchKey(recipes), func(d *document) bool {
		added := 0

		for _, r := range recipes {
			if d.recipes.has(r.Title) {
				continue
			}

			d.recipes.put(r.Title, r.Clone())
			added++
		}

		s.log.Debug("recipes added", zap.Int("count", len(recipes)), zap.Int("added", added))

		return true
	})
}

// DeleteRecipe removes the recipe stored under title. It reports whether a
// recipe was removed; the backing file is only rewritten in that case.
func (s *Store) DeleteRecipe(title string) (bool, error) {
	var removed bool

	err := s.write("delete", collRecipes, title, func(d *document) bool {
		removed = d.recipes.remove(title)

		if removed {
			s.log.Debug("recipe deleted", zap.String("title", title))
		}

		return removed
	})

	return removed, err
}

func validateRecipes(op string, recipes []Recipe) error {
	for idx, r := range recipes {
		if r.Title == "" {
			return &Error{
				Op:         op,
				Collection: collRecipes,
				Err:        fmt.Errorf("record %d: %w", idx, ErrEmptyKey),
			}
		}

		if err := validateRecord(op, collRecipes, r.Title, r); err != nil {
			return err
		}
	}

	return nil
}

// validateRecord rejects v if it would make every later persist fail.
func validateRecord(op, collection, key string, v any) error {
	if _, err := json.Marshal(v); err != nil {
		return &Error{
			Op:         op,
			Collection: collection,
			Key:        key,
			Err:        fmt.Errorf("%w: %w", ErrInvalidRecord, err),
		}
	}

	return nil
}

// batchKey names the key in errors when a batch holds exactly one recipe.
func batchKey(recipes []Recipe) string {
	if len(recipes) == 1 {
		return recipes[0].Title
	}

	return ""
}
