package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"
)

// LoginCmd returns the login command.
func LoginCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("login", flag.ContinueOnError),
		Usage: "login <username>",
		Short: "Check a user's password",
		Long:  "Ask for the password of <username> and check it against the stored hash.",
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args, "<username>"); err != nil {
				return err
			}

			p := newPrompter(io.in, io.errOut)

			_, password, err := promptCredentials(p, args)

			closeErr := p.Close()
			if err = errors.Join(err, closeErr); err != nil {
				return err
			}

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}

			user, err := a.accounts(store).Authenticate(args[0], password)
			if err != nil {
				return err
			}

			io.Println("Authenticated as", user.Username)

			return nil
		},
	}
}
