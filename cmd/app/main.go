package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"mealplanner/internal/adapters/cli"
	"mealplanner/internal/app"
	"mealplanner/internal/config"
	"mealplanner/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	// Keep the terminal for command output; only warnings and errors are logged.
	log := logger.New(cfg.LogLevel)
	log.SetOutput(os.Stderr)
	if cfg.LogLevel == "info" {
		log.SetLevel(logrus.WarnLevel)
	}

	ctx := context.Background()
	rt, err := app.Bootstrap(ctx, cfg, log, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup:", err)
		os.Exit(1)
	}
	defer rt.Close()

	if err := cli.NewRootCommand(rt.Service).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		rt.Close()
		os.Exit(1)
	}
}
