// Package main is the entry point for the tasktalk CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tasktalk/internal/backend/gemini"
	"tasktalk/internal/backend/sqlite"
	"tasktalk/internal/cli"
	"tasktalk/internal/commands"
	"tasktalk/internal/config"
	"tasktalk/internal/prompt"
	"tasktalk/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := cli.Factory{
		Store: func(ctx context.Context, cfg *config.Config) (service.Store, error) {
			store, err := sqlite.New(cfg.Settings.Database)
			if err != nil {
				return nil, err
			}
			if err := store.Init(ctx); err != nil {
				return nil, err
			}
			return store, nil
		},
		Assistant: func(ctx context.Context, cfg *config.Config) (service.Assistant, error) {
			if !cfg.HasModelCredentials() {
				return nil, config.ErrNoModelCredentials
			}
			client, err := gemini.New(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return prompt.NewAssistant(client), nil
		},
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
