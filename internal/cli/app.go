package cli

import (
	"fmt"

	"github.com/lazypower/halflife/internal/engine"
	"github.com/lazypower/halflife/internal/loader"
	"github.com/lazypower/halflife/internal/store"
)

// openDB opens the configured database, or the default one.
func openDB() (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	return store.Open(dbPath)
}

// openEngine opens the database and loads the configured decks into a new
// engine. The returned func closes both.
func openEngine() (*engine.Engine, func(), error) {
	db, err := openDB()
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	triples, err := loader.LoadDir(cfg.Decks.Dir, loader.Options{Reverse: cfg.Decks.Reverse})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("load decks: %w", err)
	}

	eng := engine.New(db, engine.WithPriors(engine.PriorsFromConfig(cfg.Priors)))
	if _, err := eng.Load(triples); err != nil {
		db.Close()
		return nil, nil, err
	}
	return eng, func() {
		eng.Stop()
		db.Close()
	}, nil
}

// handSize is the -n flag, or the configured session size when unset.
func handSize(n int) int {
	if n == 0 {
		return cfg.Session.Size
	}
	return n
}
