package repositories

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Options configures the badger store.
type Options struct {
	Dir      string
	InMemory bool
	Logger   *zap.Logger
}

// Open opens the badger database described by opts.
func Open(opts Options) (*badger.DB, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, errors.New("database directory is required")
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}

	bopts = bopts.
		WithNumVersionsToKeep(1).
		WithLogger(newBadgerLogger(opts.Logger))

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	return db, nil
}

// Backup writes a full backup of db to w and returns the version it covers.
func Backup(db *badger.DB, w io.Writer) (uint64, error) {
	version, err := db.Backup(w, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to backup database: %w", err)
	}
	return version, nil
}

// Restore loads a backup produced by Backup into db.
func Restore(db *badger.DB, r io.Reader) error {
	if err := db.Load(r, 256); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// IsEmpty reports whether db holds no keys.
func IsEmpty(db *badger.DB) (bool, error) {
	empty := true
	err := db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Rewind()
		empty = !it.Valid()
		return nil
	})
	return empty, err
}

// badgerLogger routes badger's internal logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func newBadgerLogger(log *zap.Logger) badger.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return badgerLogger{log.Named("badger").Sugar()}
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
