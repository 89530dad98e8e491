package recipebox

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/calvinalkan/recipebox/pkg/docstore"
)

// recipeShape is what a recipe must look like before it reaches the store.
type recipeShape struct {
	Title       string            `validate:"required"`
	Ingredients []ingredientShape `validate:"dive"`
}

type ingredientShape struct {
	Name string `validate:"required"`
}

type accountShape struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})

	return validate
}

// ValidateRecipe checks that r has a title and that every ingredient has a
// name.
func ValidateRecipe(r docstore.Recipe) error {
	shape := recipeShape{Title: r.Title, Ingredients: make([]ingredientShape, len(r.Ingredients))}
	for idx, ing := range r.Ingredients {
		shape.Ingredients[idx] = ingredientShape{Name: ing.Name}
	}

	if err := validatorInstance().Struct(shape); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRecipe, describeValidation(err))
	}

	return nil
}

// ValidateRecipes validates every recipe and reports all failures at once.
func ValidateRecipes(recipes []docstore.Recipe) error {
	var errs []error

	for idx, r := range recipes {
		if err := ValidateRecipe(r); err != nil {
			errs = append(errs, fmt.Errorf("recipe %d: %w", idx, err))
		}
	}

	return errors.Join(errs...)
}

// ValidateIngredient checks that ing has a name.
func ValidateIngredient(ing docstore.Ingredient) error {
	if err := validatorInstance().Struct(ingredientShape{Name: ing.Name}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidIngredient, describeValidation(err))
	}

	return nil
}

func validateAccount(username, password string) error {
	if err := validatorInstance().Struct(accountShape{Username: username, Password: password}); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAccount, describeValidation(err))
	}

	return nil
}

// describeValidation turns validator errors into "Field is required" style
// messages.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))

	for _, fe := range verrs {
		// Drop the struct name: "recipeShape.Ingredients[0].Name" -> "ingredients[0].name".
		_, field, _ := strings.Cut(fe.Namespace(), ".")
		field = strings.ToLower(field)

		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}

	return strings.Join(msgs, ", ")
}
