package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/recipebox/pkg/docstore"
)

// InitCmd returns the init command.
func InitCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("init", flag.ContinueOnError),
		Usage: "init",
		Short: "Create an empty backing file",
		Long:  "Create the backing file with empty recipes, pantry and users. Fails if it exists.",
		Exec: func(_ context.Context, io *IO, args []string) error {
			if err := exactArgs(args); err != nil {
				return err
			}

			err := docstore.Create(a.cfg.DBPathAbs, docstore.WithFS(a.fs), docstore.WithLogger(a.log))
			if errors.Is(err, os.ErrExist) {
				return fmt.Errorf("%w: %s", ErrAlreadyInitialized, a.cfg.DBPathAbs)
			}

			if err != nil {
				return err
			}

			io.Println("Created", a.cfg.DBPathAbs)

			return nil
		},
	}
}
