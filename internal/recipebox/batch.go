package recipebox

import (
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/recipebox/pkg/docstore"
)

// recipeBatch is the body accepted by add and edit: {"recipes": [...]}.
type recipeBatch struct {
	Recipes *[]docstore.Recipe `json:"recipes"`
}

// ParseRecipeBatch decodes a JSONC recipe batch and validates every recipe.
func ParseRecipeBatch(data []byte) ([]docstore.Recipe, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSONC: %w", ErrInvalidBatch, err)
	}

	var batch recipeBatch
	if err := json.Unmarshal(standardized, &batch); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBatch, err)
	}

	if batch.Recipes == nil {
		return nil, fmt.Errorf("%w: missing \"recipes\" array", ErrInvalidBatch)
	}

	if err := ValidateRecipes(*batch.Recipes); err != nil {
		return nil, err
	}

	return *batch.Recipes, nil
}
