package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"quill/app/config"
	"quill/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Version is reported by the version command.
const Version = "1.0.0"

// HandleCommand runs the subcommand named by args[0] and returns an exit code.
// With no arguments the server is started.
func HandleCommand(ctx context.Context, args []string, cfg config.Config, log *zap.Logger, out io.Writer) int {
	cmd := "serve"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "serve":
		if err := RunAppServer(ctx, cfg, log); err != nil {
			log.Error("server stopped", zap.Error(err))
			return 1
		}
		return 0
	case "init":
		return initDb(cfg, log, out)
	case "clean":
		force := len(args) > 1 && (args[1] == "--force" || args[1] == "-f")
		return clean(cfg, log, out, force)
	case "backup":
		if len(args) < 2 {
			fmt.Fprintln(out, "Error: backup file path required for backup")
			return 1
		}
		return backup(cfg, log, out, args[1])
	case "restore":
		if len(args) < 2 {
			fmt.Fprintln(out, "Error: backup file path required for restore")
			return 1
		}
		return restore(cfg, log, out, args[1])
	case "version":
		fmt.Fprintf(out, "quill version %s\n", Version)
		return 0
	case "help", "-h", "--help":
		printHelp(out)
		return 0
	default:
		fmt.Fprintf(out, "Unknown command: %s\n\n", cmd)
		printHelp(out)
		return 1
	}
}

func printHelp(out io.Writer) {
	helpText := `Usage: quill [command]

Commands:
  serve             Run the blog API server (default)
  init              Initialize a new empty database
  clean --force     Remove the database directory (cannot be undone)
  backup <file>     Write a backup of the database to file
  restore <file>    Restore an empty database from a backup file
  version           Show version information
  help              Display this help message

Configuration is read from QUILL_* environment variables.
`
	fmt.Fprintln(out, helpText)
}

// openDataDir opens the on-disk database named by cfg.
func openDataDir(cfg config.Config, log *zap.Logger) (*badger.DB, error) {
	if cfg.InMemory {
		return nil, errors.New("command requires an on-disk database, unset QUILL_IN_MEMORY")
	}
	return repositories.Open(repositories.Options{Dir: cfg.DataDir, Logger: log})
}

// initDb creates an empty database at the configured directory.
func initDb(cfg config.Config, log *zap.Logger, out io.Writer) int {
	if _, err := os.Stat(cfg.DataDir); err == nil {
		fmt.Fprintf(out, "Database already exists at %s\n", cfg.DataDir)
		return 0
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(out, "Failed to create database directory: %v\n", err)
		return 1
	}

	db, err := openDataDir(cfg, log)
	if err != nil {
		fmt.Fprintf(out, "Failed to initialize database: %v\n", err)
		return 1
	}
	defer db.Close()

	fmt.Fprintln(out, "Database initialized successfully")
	return 0
}

// clean removes the database directory. It refuses to run without force.
func clean(cfg config.Config, log *zap.Logger, out io.Writer, force bool) int {
	if cfg.InMemory {
		fmt.Fprintln(out, "Nothing to clean for an in-memory database")
		return 0
	}
	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		fmt.Fprintln(out, "Database is already clean (does not exist)")
		return 0
	}
	if !force {
		fmt.Fprintf(out, "Refusing to remove %s without --force. This cannot be undone.\n", cfg.DataDir)
		return 1
	}

	if err := os.RemoveAll(cfg.DataDir); err != nil {
		fmt.Fprintf(out, "Failed to clean database: %v\n", err)
		return 1
	}
	log.Info("database removed", zap.String("dir", cfg.DataDir))
	fmt.Fprintln(out, "Database cleaned successfully")
	return 0
}

// backup writes a full backup of the database to path.
func backup(cfg config.Config, log *zap.Logger, out io.Writer, path string) int {
	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		fmt.Fprintf(out, "No database exists to backup at %s\n", cfg.DataDir)
		return 1
	}

	db, err := openDataDir(cfg, log)
	if err != nil {
		fmt.Fprintf(out, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(out, "Failed to create backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	version, err := repositories.Backup(db, f)
	if err != nil {
		fmt.Fprintf(out, "Failed to backup database: %v\n", err)
		return 1
	}
	if err := f.Sync(); err != nil {
		fmt.Fprintf(out, "Failed to flush backup file: %v\n", err)
		return 1
	}

	log.Info("database backed up", zap.String("file", path), zap.Uint64("version", version))
	fmt.Fprintf(out, "Database backed up successfully to %s\n", path)
	return 0
}

// restore loads a backup into the configured database, which must be empty.
func restore(cfg config.Config, log *zap.Logger, out io.Writer, path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(out, "Failed to open backup file: %v\n", err)
		return 1
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		fmt.Fprintf(out, "Failed to stat backup file: %v\n", err)
		return 1
	}
	if fi.Size() == 0 {
		fmt.Fprintf(out, "Backup file is empty: %s\n", path)
		return 1
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Fprintf(out, "Failed to create database directory: %v\n", err)
		return 1
	}
	db, err := openDataDir(cfg, log)
	if err != nil {
		fmt.Fprintf(out, "Failed to open database: %v\n", err)
		return 1
	}
	defer db.Close()

	empty, err := repositories.IsEmpty(db)
	if err != nil {
		fmt.Fprintf(out, "Failed to inspect database: %v\n", err)
		return 1
	}
	if !empty {
		fmt.Fprintf(out, "Database at %s is not empty, refusing to restore\n", cfg.DataDir)
		return 1
	}

	if err := repositories.Restore(db, f); err != nil {
		fmt.Fprintf(out, "Failed to restore database: %v\n", err)
		return 1
	}

	log.Info("database restored", zap.String("file", path))
	fmt.Fprintln(out, "Database restored successfully")
	return 0
}
