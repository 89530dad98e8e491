package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/recipebox/internal/recipebox"
)

// FindCmd returns the find command.
func FindCmd(a *app) *Command {
	fs := flag.NewFlagSet("find", flag.ContinueOnError)
	title := fs.BoolP("title", "t", false, "Match recipe titles")
	ingredients := fs.BoolP("ingredients", "i", false, "Match ingredient names")
	exact := fs.BoolP("exact", "e", false, "Require the title to equal <term>")
	asJSON := fs.Bool("json", false, "Print matching recipes as a JSON array")

	return &Command{
		Flags: fs,
		Usage: "find <term> [flags]",
		Short: "Search recipes by title or ingredient",
		Long: `Search recipes whose title contains <term> (--title), or that use an
ingredient whose name contains <term> (--ingredients). With both, a recipe
is checked against its ingredients only if its title did not match.
Prints one title per line. Gives up after request_timeout_ms.`,
		Exec: func(ctx context.Context, io *IO, args []string) error {
			if err := exactArgs(args, "<term>"); err != nil {
				return err
			}

			req := recipebox.SearchRequest{
				Term:        args[0],
				Title:       *title,
				Ingredients: *ingredients,
				Exact:       *exact,
			}

			return execFind(ctx, io, a, req, *asJSON)
		},
	}
}

func execFind(ctx context.Context, io *IO, a *app, req recipebox.SearchRequest, asJSON bool) error {
	// Check flags before paying for the load.
	if !req.Title && !req.Ingredients {
		return recipebox.ErrSearchModeRequired
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	recipes, err := a.searcher(store).Search(ctx, req)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(recipes, "", "  ")
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}

		io.Println(string(data))

		return nil
	}

	for _, r := range recipes {
		io.Println(r.Title)
	}

	return nil
}
