package cli

import (
	"context"
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/recipebox/internal/recipebox"
)

// UserAddCmd returns the useradd command.
func UserAddCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("useradd", flag.ContinueOnError),
		Usage: "useradd [username]",
		Short: "Create a user account",
		Long: `Create a user account. Asks for the username (unless given) and the
password; on a terminal the password is not echoed, otherwise both are read
as lines from stdin. The password is stored as a bcrypt hash.
Requires allow_account_creation in the config.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if len(args) > 1 {
				return exactArgs(args, "[username]")
			}

			return execUserAdd(ctx, io, a, args)
		},
	}
}

func execUserAdd(ctx context.Context, io *IO, a *app, args []string) error {
	if !a.cfg.AllowAccountCreation {
		return recipebox.ErrAccountCreationDisabled
	}

	p := newPrompter(io.in, io.errOut)

	username, password, err := promptCredentials(p, args)

	closeErr := p.Close()
	if err = errors.Join(err, closeErr); err != nil {
		return err
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	if err := a.accounts(store).Register(username, password); err != nil {
		return err
	}

	io.Println("Added.")

	return nil
}

// promptCredentials asks for what args does not already provide.
func promptCredentials(p prompter, args []string) (string, string, error) {
	var username string

	if len(args) > 0 {
		username = args[0]
	} else {
		var err error

		username, err = p.Prompt("Username: ")
		if err != nil {
			return "", "", err
		}
	}

	password, err := p.PasswordPrompt("Password: ")
	if err != nil {
		return "", "", err
	}

	return username, password, nil
}
