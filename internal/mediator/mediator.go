package mediator

import (
	"context"
	"fmt"

	"fe/config"
	"fe/internal/clients/galleryapi"
	"fe/internal/formstate"
	"fe/internal/gallery"
	"fe/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type App struct {
	api     *galleryapi.Client
	client  *gallery.Client
	program *tea.Program
	cancel  context.CancelFunc
	// settings
	Config config.Config
}

func NewApp(cfg config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	api := galleryapi.NewClient(cfg.Api)
	store := formstate.NewStore(cfg.Client.StateFile)
	bridge := tui.NewBridge()

	client, err := gallery.New(ctx, api, store, bridge, gallery.OptionsFromConfig(cfg))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("error creating newapp: %w", err)
	}

	return &App{
		api:     api,
		client:  client,
		program: tui.NewProgram(ctx, client, bridge),
		cancel:  cancel,
		Config:  cfg,
	}, nil
}

// CheckServer logs whether the gallery server answers its health probe. An
// unreachable server is not fatal; the screen shows the errors as they come.
func (a *App) CheckServer(ctx context.Context) {
	if err := a.api.Health(ctx); err != nil {
		log.Warn("gallery server is not healthy", "url", a.Config.Api.BaseUrl, "err", err)
		return
	}
	log.Info("gallery server is healthy", "url", a.Config.Api.BaseUrl)
}

// Start runs the screen until the user quits.
func (a *App) Start() error {
	_, err := a.program.Run()
	return err
}

func (a *App) Shutdown() {
	if a.client != nil {
		a.client.Close()
	}
	a.cancel()
}
