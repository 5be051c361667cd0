// Command marketctl runs operator tasks against the marketplace store:
// provisioning the admin account, reviewing users and reading counters.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/abdofull/LibyaParts/internal/app"
	"github.com/abdofull/LibyaParts/internal/core/service"
	"github.com/abdofull/LibyaParts/internal/pkg/config"
	"github.com/abdofull/LibyaParts/pkg/logger"
)

func main() {
	root := newRootCmd(openAdmin)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openAdmin connects the configured store. The returned func releases it.
func openAdmin(ctx context.Context) (*service.AdminService, func(), error) {
	cfg, err := config.Process(ctx, cliLookuper())
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: os.Stderr, Service: "marketctl"})

	store, err := app.Open(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	admin := service.NewAdminService(store.Users, store.Parts, store.Requests, store.Cache, log)
	return admin, func() { _ = store.Close(context.Background()) }, nil
}
