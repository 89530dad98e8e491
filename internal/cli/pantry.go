package cli

import (
	"context"
	"maps"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/recipebox/internal/recipebox"
	"github.com/calvinalkan/recipebox/pkg/docstore"
)

// PantryCmd returns the pantry command.
func PantryCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("pantry", flag.ContinueOnError),
		Usage: "pantry",
		Short: "List pantry ingredients",
		Long:  "List pantry ingredients sorted by name, with quantity and unit when known.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args); err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			pantry, err := store.ListPantry()
			if err != nil {
				return err
			}

			for _, name := range slices.Sorted(maps.Keys(pantry)) {
				io.Println(formatIngredient(pantry[name]))
			}

			return nil
		},
	}
}

// PantryAddCmd returns the pantry-add command.
func PantryAddCmd(a *app) *Command {
	fs := flag.NewFlagSet("pantry-add", flag.ContinueOnError)
	quantity := fs.StringP("quantity", "q", "", "Amount on hand")
	unit := fs.StringP("unit", "u", "", "Unit of the quantity")

	return &Command{
		Flags: fs,
		Usage: "pantry-add <name> [flags]",
		Short: "Add an ingredient to the pantry",
		Long:  "Add <name> to the pantry unless it is already there. An existing entry is not changed.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args, "<name>"); err != nil {
				return err
			}

			ing := docstore.Ingredient{Name: args[0], Fields: docstore.Fields{}}

			if fs.Changed("quantity") {
				if err := ing.Fields.Set("quantity", *quantity); err != nil {
					return err
				}
			}

			if fs.Changed("unit") {
				if err := ing.Fields.Set("unit", *unit); err != nil {
					return err
				}
			}

			if err := recipebox.ValidateIngredient(ing); err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			added, err := store.AddIngredientIfAbsent(ing)
			if err != nil {
				return err
			}

			if !added {
				io.Warnf("already in pantry, not changed: %s", ing.Name)

				return nil
			}

			io.Println("Added", ing.Name)

			return nil
		},
	}
}

func formatIngredient(ing docstore.Ingredient) string {
	parts := []string{ing.Name}

	if q, ok := fieldText(ing.Fields, "quantity"); ok {
		parts = append(parts, q)
	}

	if u, ok := fieldText(ing.Fields, "unit"); ok {
		parts = append(parts, u)
	}

	return strings.Join(parts, "\t")
}

// fieldText renders a free-form field: strings as is, other JSON verbatim.
func fieldText(f docstore.Fields, key string) (string, bool) {
	if s, ok := f.String(key); ok {
		return s, s != ""
	}

	raw, ok := f[key]
	if !ok || string(raw) == "null" {
		return "", false
	}

	return string(raw), true
}
