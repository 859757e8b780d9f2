package tui

import (
	"context"
	"errors"

	"fe/internal/formstate"
	"fe/internal/gallery"
	"fe/types"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Controller is what the screen drives. *gallery.Client satisfies it.
type Controller interface {
	Init(ctx context.Context) error
	Form() formstate.FormState
	SetPrompt(prompt string)
	SetModel(model string)
	SetAspectRatio(ratio string)
	Submit(ctx context.Context) error
	ImprovePrompt(ctx context.Context) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	RequestDelete(filename string)
	ConfirmDelete(ctx context.Context) error
	CancelDelete()
	CopySettings(ctx context.Context, filename string) error
	Download(ctx context.Context, filename string) (string, error)
	DownloadPage(ctx context.Context) error
	OpenPreview(ctx context.Context, filename string)
	ClosePreview()
}

var _ Controller = (*gallery.Client)(nil)

type focus int

const (
	focusPrompt focus = iota
	focusModel
	focusRatio
	focusGallery
	focusCount
)

var copyToClipboard = clipboard.WriteAll

type Model struct {
	ctx    context.Context
	ctrl   Controller
	logger *log.Logger

	width  int
	height int

	keys    keyMap
	help    help.Model
	prompt  textarea.Model
	spinner spinner.Model
	styles  styles

	focus       focus
	model       string
	aspectRatio string
	loading     bool
	errText     string
	notice      string
	promptDirty bool

	cards    []gallery.Card
	controls []gallery.PageControl
	selected int

	confirmID string
	preview   *gallery.Preview
}

func NewModel(ctx context.Context, ctrl Controller) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe the image you want"
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(4)
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	form := ctrl.Form()
	ta.SetValue(form.Prompt)

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		logger:      log.With("component", "tui"),
		keys:        defaultKeyMap(),
		help:        help.New(),
		prompt:      ta,
		spinner:     s,
		styles:      defaultStyles(),
		focus:       focusPrompt,
		model:       form.Model,
		aspectRatio: form.AspectRatio,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.run(m.ctrl.Init))
}

// run executes a controller call off the update loop; the controller reports
// back through the bridge.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionResultMsg{err: fn(ctx)}
	}
}

func (m Model) selectedCard() (gallery.Card, bool) {
	if m.selected < 0 || m.selected >= len(m.cards) {
		return gallery.Card{}, false
	}
	return m.cards[m.selected], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.SetWidth(max(msg.Width*2/5-4, 20))
		m.help.Width = msg.Width
		return m, nil

	case formMsg:
		if m.prompt.Value() != msg.Prompt {
			m.prompt.SetValue(msg.Prompt)
		}
		m.promptDirty = false
		m.model = msg.Model
		m.aspectRatio = msg.AspectRatio
		return m, nil

	case loadingMsg:
		m.loading = bool(msg)
		if m.loading {
			m.errText = ""
			m.notice = ""
		}
		return m, nil

	case errorMsg:
		m.errText = string(msg)
		m.notice = ""
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case galleryMsg:
		m.cards = msg
		m.selected = min(m.selected, max(len(m.cards)-1, 0))
		return m, nil

	case paginationMsg:
		m.controls = msg
		return m, nil

	case confirmMsg:
		m.confirmID = string(msg)
		return m, nil

	case hideConfirmMsg:
		m.confirmID = ""
		return m, nil

	case previewMsg:
		p := gallery.Preview(msg)
		m.preview = &p
		return m, nil

	case hidePreviewMsg:
		m.preview = nil
		return m, nil

	case actionResultMsg:
		if errors.Is(msg.err, gallery.ErrBusy) {
			m.notice = "please wait for the current request to finish"
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// savePrompt hands an edited prompt to the controller, which persists it.
func (m Model) savePrompt() (Model, tea.Cmd) {
	if !m.promptDirty {
		return m, nil
	}
	m.promptDirty = false
	prompt := m.prompt.Value()
	return m, func() tea.Msg {
		m.ctrl.SetPrompt(prompt)
		return nil
	}
}

// withPrompt runs fn after any pending prompt edit has reached the controller.
func (m Model) withPrompt(fn func(ctx context.Context) error) (Model, tea.Cmd) {
	dirty := m.promptDirty
	prompt := m.prompt.Value()
	m.promptDirty = false
	return m, m.run(func(ctx context.Context) error {
		if dirty {
			m.ctrl.SetPrompt(prompt)
		}
		return fn(ctx)
	})
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		var save tea.Cmd
		m, save = m.savePrompt()
		if save == nil {
			return m, tea.Quit
		}
		return m, tea.Sequence(save, tea.Quit)
	}

	// the error dialog sits above every other overlay until dismissed
	if m.errText != "" {
		if key.Matches(msg, m.keys.closeOverlay, m.keys.preview) {
			m.errText = ""
		}
		return m, nil
	}

	if m.confirmID != "" {
		return m.handleConfirmKey(msg)
	}
	if m.preview != nil {
		return m.handlePreviewKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.submit):
		return m.withPrompt(m.ctrl.Submit)
	case key.Matches(msg, m.keys.improve):
		return m.withPrompt(m.ctrl.ImprovePrompt)
	case key.Matches(msg, m.keys.nextFocus):
		var cmd tea.Cmd
		if m.focus == focusPrompt {
			m, cmd = m.savePrompt()
		}
		return m.cycleFocus(), cmd
	}

	switch m.focus {
	case focusPrompt:
		before := m.prompt.Value()
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		if m.prompt.Value() != before {
			m.promptDirty = true
		}
		return m, cmd
	case focusModel:
		if value, ok := m.cycleOption(msg, types.Models, m.model); ok {
			m.model = value
			m.ctrl.SetModel(value)
		}
		return m, nil
	case focusRatio:
		if value, ok := m.cycleOption(msg, types.RatioNames(), m.aspectRatio); ok {
			m.aspectRatio = value
			m.ctrl.SetAspectRatio(value)
		}
		return m, nil
	}

	return m.handleGalleryKey(msg)
}

func (m Model) cycleFocus() Model {
	m.focus = (m.focus + 1) % focusCount
	if m.focus == focusPrompt {
		m.prompt.Focus()
	} else {
		m.prompt.Blur()
	}
	return m
}

func (m Model) cycleOption(msg tea.KeyMsg, values []string, current string) (string, bool) {
	switch {
	case key.Matches(msg, m.keys.cycleRight):
		return types.Next(values, current), true
	case key.Matches(msg, m.keys.cycleLeft):
		reversed := make([]string, len(values))
		for i, v := range values {
			reversed[len(values)-1-i] = v
		}
		return types.Next(reversed, current), true
	}
	return "", false
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.prevPage):
		m.selected = 0
		return m, m.run(m.ctrl.PrevPage)
	case key.Matches(msg, m.keys.nextPage):
		m.selected = 0
		return m, m.run(m.ctrl.NextPage)
	case key.Matches(msg, m.keys.up):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.down):
		if m.selected < len(m.cards)-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.downloadPage):
		return m, m.run(m.ctrl.DownloadPage)
	}

	card, ok := m.selectedCard()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.copySettings):
		return m, m.run(func(ctx context.Context) error {
			return m.ctrl.CopySettings(ctx, card.Filename)
		})
	case key.Matches(msg, m.keys.download):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.ctrl.Download(ctx, card.Filename)
			return err
		})
	case key.Matches(msg, m.keys.remove):
		return m, m.run(func(context.Context) error {
			m.ctrl.RequestDelete(card.Filename)
			return nil
		})
	case key.Matches(msg, m.keys.preview):
		return m, m.run(func(ctx context.Context) error {
			m.ctrl.OpenPreview(ctx, card.Filename)
			return nil
		})
	case key.Matches(msg, m.keys.copyURL):
		return m.copyURL(card.URL), nil
	}
	return m, nil
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		return m, m.run(m.ctrl.ConfirmDelete)
	case key.Matches(msg, m.keys.closeOverlay):
		return m, m.run(func(context.Context) error {
			m.ctrl.CancelDelete()
			return nil
		})
	}
	return m, nil
}

// While the preview is open only closing it and copying its URL are allowed.
func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.closeOverlay), key.Matches(msg, m.keys.preview):
		return m, m.run(func(context.Context) error {
			m.ctrl.ClosePreview()
			return nil
		})
	case key.Matches(msg, m.keys.copyURL):
		return m.copyURL(m.preview.Card.URL), nil
	}
	return m, nil
}

func (m Model) copyURL(url string) Model {
	if err := copyToClipboard(url); err != nil {
		m.logger.Warn("clipboard unavailable", "err", err)
		m.errText = "could not copy to clipboard"
		return m
	}
	m.notice = "copied " + url
	return m
}
