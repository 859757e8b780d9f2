package gallery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"fe/config"
	"fe/internal/formstate"
	"fe/types"
	"fe/utils"

	"github.com/charmbracelet/log"
)

type Options struct {
	PollInterval           time.Duration
	MaxPollAttempts        int
	DownloadDir            string
	MaxConcurrentDownloads int
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		PollInterval:           cfg.Client.PollInterval,
		MaxPollAttempts:        cfg.Client.MaxPollAttempts,
		DownloadDir:            cfg.Download.Dir,
		MaxConcurrentDownloads: cfg.Download.MaxConcurrent,
	}
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = config.DefaultPollInterval
	}
	if o.MaxPollAttempts <= 0 {
		o.MaxPollAttempts = config.DefaultMaxPollAttempts
	}
	if o.DownloadDir == "" {
		o.DownloadDir = config.DefaultDownloadDir
	}
	if o.MaxConcurrentDownloads <= 0 {
		o.MaxConcurrentDownloads = config.DefaultMaxConcurrent
	}
	return o
}

// Client owns all gallery state: the form, the page being shown, the
// in-flight generation and the open dialogs. It is built once at startup.
type Client struct {
	api    API
	store  *formstate.Store
	view   View
	opts   Options
	logger *log.Logger

	// lifetime bounds every background task; Close cancels it.
	lifetime context.Context
	stop     context.CancelFunc

	mu          sync.Mutex
	form        formstate.FormState
	currentPage int
	totalPages  int
	images      []types.GalleryImage

	improving  bool
	status     GenerationStatus
	cancelTask context.CancelFunc
	taskDone   chan struct{}

	pendingDelete string
	previewOpen   string
}

func New(ctx context.Context, api API, store *formstate.Store, view View, opts Options) (*Client, error) {
	if api == nil {
		return nil, errors.New("api is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if view == nil {
		return nil, errors.New("view is required")
	}

	lifetime, stop := context.WithCancel(ctx)

	return &Client{
		api:         api,
		store:       store,
		view:        view,
		opts:        opts.withDefaults(),
		logger:      log.With("component", "gallery"),
		lifetime:    lifetime,
		stop:        stop,
		form:        formstate.Defaults(),
		currentPage: 1,
		totalPages:  1,
		status:      StatusIdle,
	}, nil
}

// Init restores the persisted form and loads the first gallery page.
func (c *Client) Init(ctx context.Context) error {
	state, found := formstate.Load(c.store)

	c.mu.Lock()
	if found {
		c.form = state
	}
	form := c.form
	c.mu.Unlock()

	c.view.SetForm(form)
	return c.LoadGallery(ctx, 1)
}

// Close cancels any running generation task and waits for it to end.
func (c *Client) Close() {
	c.stop()
	c.Wait()
}

func (c *Client) Form() formstate.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

func (c *Client) SetPrompt(prompt string) {
	c.updateForm(func(f *formstate.FormState) { f.Prompt = prompt })
}

func (c *Client) SetModel(model string) {
	c.updateForm(func(f *formstate.FormState) { f.Model = model })
}

func (c *Client) SetAspectRatio(ratio string) {
	c.updateForm(func(f *formstate.FormState) { f.AspectRatio = ratio })
}

// SetForm replaces all three fields at once and pushes them to the view.
func (c *Client) SetForm(state formstate.FormState) {
	c.updateForm(func(f *formstate.FormState) { *f = state })
	c.view.SetForm(c.Form())
}

func (c *Client) updateForm(apply func(*formstate.FormState)) {
	c.mu.Lock()
	apply(&c.form)
	form := c.form
	c.mu.Unlock()

	c.saveForm(form)
}

func (c *Client) saveForm(form formstate.FormState) {
	if err := formstate.Save(c.store, form); err != nil {
		c.logger.Warn("failed to persist form state", "err", err)
	}
}

func (c *Client) CurrentPage() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentPage
}

func (c *Client) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages
}

// Images returns the entries of the page last loaded.
func (c *Client) Images() []types.GalleryImage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.GalleryImage(nil), c.images...)
}

func (c *Client) IsGenerating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status.IsActive()
}

func (c *Client) Status() GenerationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Client) busyLocked() bool {
	return c.status.IsActive() || c.improving
}

func (c *Client) card(img types.GalleryImage) Card {
	return Card{
		Filename: img.ImageFilename,
		ID:       utils.ImageID(img.ImageFilename),
		Prompt:   img.Prompt,
		URL:      c.api.ImageURL(img.ImageFilename),
	}
}

// LoadGallery fetches one page and redraws cards and pagination. State is
// only updated on success.
func (c *Client) LoadGallery(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}

	resp, err := c.api.ListImages(ctx, page)
	if err != nil {
		c.logger.Error("failed to load gallery", "page", page, "err", err)
		c.view.ShowError(err.Error())
		return fmt.Errorf("load gallery page %d: %w", page, err)
	}

	total := max(resp.TotalPages, 1)

	// a delete can empty the last page; fall back to the new last one
	if len(resp.Images) == 0 && page > total {
		return c.LoadGallery(ctx, total)
	}

	cards := make([]Card, 0, len(resp.Images))
	for _, img := range resp.Images {
		cards = append(cards, c.card(img))
	}

	c.mu.Lock()
	c.currentPage = page
	c.totalPages = total
	c.images = resp.Images
	c.mu.Unlock()

	c.view.RenderGallery(cards)
	c.view.RenderPagination(BuildPagination(page, total))
	return nil
}

// SelectPage follows a pagination control. Disabled controls and the
// current page are ignored.
func (c *Client) SelectPage(ctx context.Context, control PageControl) error {
	if control.Disabled || control.Page < 1 {
		return nil
	}
	if control.Page == c.CurrentPage() {
		return nil
	}
	return c.LoadGallery(ctx, control.Page)
}

func (c *Client) NextPage(ctx context.Context) error {
	return c.step(ctx, ControlNext)
}

func (c *Client) PrevPage(ctx context.Context) error {
	return c.step(ctx, ControlPrev)
}

func (c *Client) step(ctx context.Context, kind ControlKind) error {
	c.mu.Lock()
	controls := BuildPagination(c.currentPage, c.totalPages)
	c.mu.Unlock()

	for _, control := range controls {
		if control.Kind == kind {
			return c.SelectPage(ctx, control)
		}
	}
	return nil
}
