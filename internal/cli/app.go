package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/calvinalkan/recipebox/internal/recipebox"
	"github.com/calvinalkan/recipebox/pkg/docstore"
	"github.com/calvinalkan/recipebox/pkg/fs"
)

// app is what commands share for one invocation: the resolved config, the
// logger and the lazily opened store.
type app struct {
	cfg recipebox.Config
	log *zap.Logger
	fs  fs.FS

	store *docstore.Store
}

// openStore opens the backing file on first use and waits for the load.
// A failed load is returned as is; the store never becomes usable.
func (a *app) openStore(ctx context.Context) (*docstore.Store, error) {
	if a.store == nil {
		a.store = docstore.Open(a.cfg.DBPathAbs,
			docstore.WithFS(a.fs),
			docstore.WithLogger(a.log),
		)
	}

	if err := a.store.Wait(ctx); err != nil {
		return nil, fmt.Errorf("open %s: %w", a.cfg.DBPathAbs, err)
	}

	return a.store, nil
}

func (a *app) searcher(store *docstore.Store) recipebox.Searcher {
	return recipebox.Searcher{Finder: store, Timeout: a.cfg.RequestTimeout()}
}

func (a *app) accounts(store *docstore.Store) recipebox.Accounts {
	return recipebox.Accounts{Users: store}
}
