package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/recipebox/internal/recipebox"
	"github.com/calvinalkan/recipebox/pkg/fs"
)

// Run is the main entry point. Returns exit code.
//
// A signal on sigCh cancels the command's context; a nil channel never
// fires.
func Run(in io.Reader, out, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("recipebox", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(io.Discard)

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	dbPath := globals.String("db", "", "Use the backing `file` at this path")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) > 0 {
		args = args[1:]
	}

	if err := globals.Parse(args); err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	rest := globals.Args()

	if *help || len(rest) == 0 {
		printUsage(out, nil)

		return 0
	}

	if globals.Changed("db") && *dbPath == "" {
		fprintln(errOut, "error: --db:", recipebox.ErrDBPathEmpty)

		return 1
	}

	cfg, err := recipebox.LoadConfig(recipebox.LoadConfigInput{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		DBPathOverride:  *dbPath,
		Env:             env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	log, err := recipebox.NewLogger(errOut, cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	defer func() { _ = log.Sync() }()

	a := &app{cfg: cfg, log: log, fs: fs.NewReal()}
	commands := allCommands(a)

	cmd, ok := commands[rest[0]]
	if !ok {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, rest[0]))
		printUsage(errOut, a)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	o := NewIO(in, out, errOut)

	code := cmd.Run(ctx, o, rest[1:])
	o.Finish()

	return code
}

func allCommands(a *app) map[string]*Command {
	cmds := commandList(a)

	m := make(map[string]*Command, len(cmds))
	for _, c := range cmds {
		m[c.Name()] = c
	}

	return m
}

func commandList(a *app) []*Command {
	return []*Command{
		InitCmd(a),
		FindCmd(a),
		ShowCmd(a),
		AddCmd(a),
		EditCmd(a),
		RmCmd(a),
		PantryCmd(a),
		PantryAddCmd(a),
		UserAddCmd(a),
		LoginCmd(a),
		PrintConfigCmd(a),
	}
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, a *app) {
	if a == nil {
		a = &app{cfg: recipebox.DefaultConfig()}
	}

	fprintln(w, `recipebox - recipes, pantry and users in one JSON file

Usage: recipebox [options] <command> [args]

Options:
  -C, --cwd <dir>      Run as if started in <dir>
  -c, --config <file>  Use specified config file
      --db <file>      Use the backing file at this path

Commands:`)

	for _, c := range commandList(a) {
		fprintln(w, c.HelpLine())
	}
}
