package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/teamdeck/internal/buildinfo"
	"github.com/dmitrijs2005/teamdeck/internal/logging"
	"github.com/dmitrijs2005/teamdeck/internal/server"
	"github.com/dmitrijs2005/teamdeck/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	cfg := config.LoadConfig()

	level, ok := logging.ParseLevel(cfg.LogLevel)
	logger := logging.NewJSONLogger(os.Stdout, level)
	if !ok {
		logger.Warn(ctx, "unknown log level, using info", "level", cfg.LogLevel)
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
