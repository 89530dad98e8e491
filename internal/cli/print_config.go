package cli

import (
	"context"
	"strconv"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration, which files it was loaded from, and the state of the backing file.",
		Exec: func(ctx context.Context, io *IO, _ []string) error {
			return execPrintConfig(ctx, io, a)
		},
	}
}

func execPrintConfig(ctx context.Context, io *IO, a *app) error {
	cfg := a.cfg

	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("db_path=" + cfg.DBPathAbs)
	io.Println("allow_account_creation=" + strconv.FormatBool(cfg.AllowAccountCreation))
	io.Println("request_timeout_ms=" + strconv.Itoa(cfg.RequestTimeoutMS))
	io.Println("log_level=" + cfg.LogLevel)
	io.Println("log_format=" + cfg.LogFormat)

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}

	io.Println("")
	io.Println("# store")

	store, err := a.openStore(ctx)
	if err != nil {
		io.Println("state=" + a.store.State().String())
		io.Println("error=" + err.Error())

		return nil
	}

	stats, err := store.Stats()
	if err != nil {
		return err
	}

	io.Println("state=" + store.State().String())
	io.Println("recipes=" + strconv.Itoa(stats.Recipes))
	io.Println("pantry=" + strconv.Itoa(stats.Pantry))
	io.Println("users=" + strconv.Itoa(stats.Users))

	return nil
}
