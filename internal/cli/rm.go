package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"
)

// RmCmd returns the rm command.
func RmCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <title>",
		Short: "Delete a recipe",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args, "<title>"); err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			removed, err := store.DeleteRecipe(args[0])
			if err != nil {
				return err
			}

			if !removed {
				return fmt.Errorf("%w: %s", ErrRecipeNotFound, args[0])
			}

			io.Println("Removed", args[0])

			return nil
		},
	}
}
