package tui

import (
	"sync"

	"fe/internal/formstate"
	"fe/internal/gallery"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	formMsg         formstate.FormState
	loadingMsg      bool
	errorMsg        string
	noticeMsg       string
	galleryMsg      []gallery.Card
	paginationMsg   []gallery.PageControl
	confirmMsg      string
	hideConfirmMsg  struct{}
	previewMsg      gallery.Preview
	hidePreviewMsg  struct{}
	actionResultMsg struct{ err error }
)

var _ gallery.View = (*Bridge)(nil)

type sender interface {
	Send(msg tea.Msg)
}

// Bridge implements gallery.View by forwarding every call to the running
// program as a message. Calls made before Attach are dropped.
type Bridge struct {
	mu sync.RWMutex
	p  sender
}

func NewBridge() *Bridge {
	return &Bridge{}
}

func (b *Bridge) Attach(p sender) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.p = p
}

func (b *Bridge) send(msg tea.Msg) {
	b.mu.RLock()
	p := b.p
	b.mu.RUnlock()

	if p != nil {
		p.Send(msg)
	}
}

func (b *Bridge) SetForm(state formstate.FormState) { b.send(formMsg(state)) }
func (b *Bridge) SetLoading(loading bool)           { b.send(loadingMsg(loading)) }
func (b *Bridge) ShowError(message string)          { b.send(errorMsg(message)) }
func (b *Bridge) ShowNotice(message string)         { b.send(noticeMsg(message)) }
func (b *Bridge) RenderGallery(cards []gallery.Card) {
	b.send(galleryMsg(cards))
}
func (b *Bridge) RenderPagination(controls []gallery.PageControl) {
	b.send(paginationMsg(controls))
}
func (b *Bridge) ShowDeleteConfirm(imageID string) { b.send(confirmMsg(imageID)) }
func (b *Bridge) HideDeleteConfirm()               { b.send(hideConfirmMsg{}) }
func (b *Bridge) ShowPreview(p gallery.Preview)    { b.send(previewMsg(p)) }
func (b *Bridge) HidePreview()                     { b.send(hidePreviewMsg{}) }
