package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
)

// ShowCmd returns the show command.
func ShowCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show <title>",
		Short: "Show a recipe as JSON",
		Long:  "Print the recipe stored under exactly <title> as JSON, or {} if there is none.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args, "<title>"); err != nil {
				return err
			}

			return execShow(ctx, io, a, args[0])
		},
	}
}

func execShow(ctx context.Context, io *IO, a *app, title string) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	recipe, ok, err := store.GetRecipe(title)
	if err != nil {
		return err
	}

	if !ok {
		io.Println("{}")

		return nil
	}

	data, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}

	io.Println(string(data))

	return nil
}
