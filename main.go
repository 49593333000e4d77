package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quill/app/config"
	"quill/app/logging"
	"quill/service"
)

var exit = os.Exit

func main() {
	exit(run(os.Args[1:]))
}

// run loads the configuration and dispatches to the requested command.
func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return service.HandleCommand(ctx, args, cfg, log, os.Stdout)
}
