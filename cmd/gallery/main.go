package main

import (
	"context"
	"time"

	"fe/config"
	"fe/internal/mediator"
	"fe/utils"

	"github.com/TypeTerrors/gonfig"
	"github.com/charmbracelet/log"
)

func main() {

	cfg, err := gonfig.Load[config.Config](
		gonfig.WithConfigFile("config/config.yaml"),
		gonfig.WithDotenv(".env"), // ignored if missing
		gonfig.WithStrict(),       // fail if ${VAR} has no value/default
	)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", "err", err)
	}

	// the screen owns the terminal, so logs go to the configured file
	logFile, err := utils.ConfigureLogger(cfg.Log)
	if err != nil {
		log.Fatal("failed to configure logging", "err", err)
	}
	defer logFile.Close()

	app, err := mediator.NewApp(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer app.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	app.CheckServer(ctx)
	cancel()

	if err := app.Start(); err != nil {
		log.Error("gallery exited", "err", err)
	}
}
