package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/recipebox/internal/recipebox"
	"github.com/calvinalkan/recipebox/pkg/docstore"
)

const batchFormat = `<file> holds {"recipes": [...]} (comments allowed); "-" reads stdin.
Every recipe needs a title and every ingredient a name.`

// AddCmd returns the add command.
func AddCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("add", flag.ContinueOnError),
		Usage: "add <file>",
		Short: "Add recipes, keeping existing ones",
		Long:  "Add the recipes in <file> whose title is not stored yet. Existing recipes are left as they are.\n" + batchFormat,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args, "<file>"); err != nil {
				return err
			}

			return execAdd(ctx, io, a, args[0])
		},
	}
}

// EditCmd returns the edit command.
func EditCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("edit", flag.ContinueOnError),
		Usage: "edit <file>",
		Short: "Add or overwrite recipes",
		Long:  "Store every recipe in <file>, replacing recipes with the same title.\n" + batchFormat,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args, "<file>"); err != nil {
				return err
			}

			return execEdit(ctx, io, a, args[0])
		},
	}
}

func execAdd(ctx context.Context, io *IO, a *app, file string) error {
	recipes, err := readBatch(io, a, file)
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(recipes))
	added := 0

	for _, r := range recipes {
		_, exists, err := store.GetRecipe(r.Title)
		if err != nil {
			return err
		}

		switch {
		case exists:
			io.Warnf("recipe already exists, not changed: %s (use edit to overwrite)", r.Title)
		case seen[r.Title]:
			io.Warnf("duplicate title in input, first one kept: %s", r.Title)
		default:
			added++
		}

		seen[r.Title] = true
	}

	if err := store.AddAllIfAbsent(recipes); err != nil {
		return err
	}

	io.Printf("Added %d recipe(s).\n", added)

	return nil
}

func execEdit(ctx context.Context, io *IO, a *app, file string) error {
	recipes, err := readBatch(io, a, file)
	if err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	if err := store.UpsertAll(recipes); err != nil {
		return err
	}

	io.Printf("Saved %d recipe(s).\n", len(recipes))

	return nil
}

func readBatch(o *IO, a *app, file string) ([]docstore.Recipe, error) {
	var (
		data []byte
		err  error
	)

	if file == "-" {
		if o.in == nil {
			return nil, fmt.Errorf("%w: stdin", ErrEmptyInput)
		}

		data, err = io.ReadAll(o.in)
	} else {
		if !filepath.IsAbs(file) {
			file = filepath.Join(a.cfg.EffectiveCwd, file)
		}

		data, err = os.ReadFile(file)
	}

	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}

	return recipebox.ParseRecipeBatch(data)
}
