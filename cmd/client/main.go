package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/teamdeck/internal/buildinfo"
	"github.com/dmitrijs2005/teamdeck/internal/client/cli"
	"github.com/dmitrijs2005/teamdeck/internal/client/config"
	"github.com/dmitrijs2005/teamdeck/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	level, ok := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewTextLogger(os.Stderr, level)
	if !ok {
		logger.Warn(ctx, "unknown log level, using info", "level", cfg.LogLevel)
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
