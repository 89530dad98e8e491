package recipebox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/calvinalkan/recipebox/pkg/docstore"
)

// RecipeFinder is the part of [docstore.Store] that search needs.
type RecipeFinder interface {
	Find(query string, opts docstore.FindOptions) ([]docstore.Recipe, error)
}

// SearchRequest is a validated search. At least one of Title and
// Ingredients must be set.
type SearchRequest struct {
	Term        string
	Title       bool
	Ingredients bool
	Exact       bool
}

func (r SearchRequest) validate() error {
	if !r.Title && !r.Ingredients {
		return ErrSearchModeRequired
	}

	return nil
}

func (r SearchRequest) options() docstore.FindOptions {
	return docstore.FindOptions{
		MatchTitle:       r.Title,
		MatchIngredients: r.Ingredients,
		ExactMatch:       r.Exact,
	}
}

// Searcher runs a find against the store and gives up after Timeout.
// A search that outlives the timeout keeps running; its result is dropped.
type Searcher struct {
	Finder  RecipeFinder
	Timeout time.Duration
}

// Search returns the matching recipes, de-duplicated by title, in store
// order.
func (s Searcher) Search(ctx context.Context, req SearchRequest) ([]docstore.Recipe, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	recipes, err := docstore.Await(ctx, docstore.Go(func() ([]docstore.Recipe, error) {
		return s.Finder.Find(req.Term, req.options())
	}))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrSearchTimeout, s.Timeout)
		}

		return nil, err
	}

	return dedupeByTitle(recipes), nil
}

func dedupeByTitle(recipes []docstore.Recipe) []docstore.Recipe {
	seen := make(map[string]struct{}, len(recipes))
	out := make([]docstore.Recipe, 0, len(recipes))

	for _, r := range recipes {
		if _, dup := seen[r.Title]; dup {
			continue
		}

		seen[r.Title] = struct{}{}
		out = append(out, r)
	}

	return out
}
