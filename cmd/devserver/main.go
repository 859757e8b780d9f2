package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fe/config"
	"fe/internal/devserver"
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

	// the devserver always logs to the terminal
	cfg.Log.File = ""
	if _, err := utils.ConfigureLogger(cfg.Log); err != nil {
		log.Fatal("failed to configure logging", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := devserver.NewApi(cfg.Server)

	go func() {
		<-ctx.Done()
		log.Info("shutting down devserver")
		if err := api.Shutdown(); err != nil {
			log.Error("devserver shutdown failed", "err", err)
		}
	}()

	if err := api.Start(); err != nil {
		log.Fatal("devserver stopped", "err", err)
	}
}
