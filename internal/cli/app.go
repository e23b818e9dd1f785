// Package cli implements the feecompare subcommands.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"feeCompare/internal/config"
	"feeCompare/internal/logger"
	"feeCompare/internal/storage"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&compareCmd{}, "analysis")
	c.Register(&feeCmd{}, "analysis")
	c.Register(&fundsCmd{}, "registry")
	c.Register(&historyCmd{}, "registry")
}

// stdout and stderr are swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func loadConfig(path string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log, err := logger.NewWithWriter(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, stderr)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, log, nil
}

func openStore(dbPath string, log zerolog.Logger) (*storage.Store, func() error, error) {
	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(dbPath), 0o755)
	db, err := storage.OpenSQLite("file:" + dbPath + "?_fk=1")
	if err != nil {
		return nil, nil, err
	}
	if err := storage.InitSchema(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("init schema: %w", err)
	}
	log.Debug().Str("path", dbPath).Msg("db: opened sqlite")
	return storage.NewStore(db), db.Close, nil
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(stderr, "error: %v\n", err)
	return subcommands.ExitFailure
}
