package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/ventas-admin/internal/application/console"
	"github.com/jhoicas/ventas-admin/internal/infrastructure/apiclient"
	"github.com/jhoicas/ventas-admin/internal/interfaces/cli"
	"github.com/jhoicas/ventas-admin/pkg/config"
	"github.com/jhoicas/ventas-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	// Los logs van a stderr para no mezclarse con las tablas.
	log := logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.App.LogLevel,
		Output: os.Stderr,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(&cli.App{
		Client: apiclient.NewFromConfig(cfg.Client, log),
		Log:    log,
		In:     os.Stdin,
		Out:    os.Stdout,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, console.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}
