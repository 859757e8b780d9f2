package gallery

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fe/internal/clients/transport"
	"fe/internal/formstate"
	"fe/types"

	"github.com/stretchr/testify/require"
)

type recordingView struct {
	mu          sync.Mutex
	forms       []formstate.FormState
	loading     []bool
	errors      []string
	notices     []string
	galleries   [][]Card
	paginations [][]PageControl
	confirm     string
	confirmOpen bool
	preview     *Preview
}

func (v *recordingView) SetForm(state formstate.FormState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.forms = append(v.forms, state)
}

func (v *recordingView) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = append(v.loading, loading)
}

func (v *recordingView) ShowError(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errors = append(v.errors, message)
}

func (v *recordingView) ShowNotice(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notices = append(v.notices, message)
}

func (v *recordingView) RenderGallery(cards []Card) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.galleries = append(v.galleries, cards)
}

func (v *recordingView) RenderPagination(controls []PageControl) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.paginations = append(v.paginations, controls)
}

func (v *recordingView) ShowDeleteConfirm(imageID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirm = imageID
	v.confirmOpen = true
}

func (v *recordingView) HideDeleteConfirm() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.confirmOpen = false
}

func (v *recordingView) ShowPreview(p Preview) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = &p
}

func (v *recordingView) HidePreview() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.preview = nil
}

func (v *recordingView) Errors() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.errors...)
}

func (v *recordingView) Loading() []bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]bool(nil), v.loading...)
}

func (v *recordingView) LastForm() formstate.FormState {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.forms) == 0 {
		return formstate.FormState{}
	}
	return v.forms[len(v.forms)-1]
}

func (v *recordingView) LastPagination() []PageControl {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.paginations) == 0 {
		return nil
	}
	return v.paginations[len(v.paginations)-1]
}

// fakeAPI serves canned responses and counts calls.
type fakeAPI struct {
	mu sync.Mutex

	pages     map[int]types.ListImagesResponse
	listErr   error
	listCalls []int

	generateErr  error
	generateReqs []types.GenerateImageRequest
	generateHook func()

	// metadataReady is the probe number from which Metadata succeeds; 0
	// means never.
	metadataReady int
	metadataCalls int
	metadata      types.Metadata
	// metadataErr replaces the 404 returned before metadataReady
	metadataErr error

	improved     string
	improveErr   error
	improveBlock chan struct{}

	deleteErr  error
	deleted    []string
	downloads  []string
	downloadFn func(filename string) error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages: map[int]types.ListImagesResponse{
			1: {TotalPages: 1, Page: 1},
		},
	}
}

func (f *fakeAPI) ListImages(_ context.Context, page int) (types.ListImagesResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, page)
	if f.listErr != nil {
		return types.ListImagesResponse{}, f.listErr
	}
	resp, ok := f.pages[page]
	if !ok {
		total := 0
		for _, p := range f.pages {
			total = max(total, p.TotalPages)
		}
		return types.ListImagesResponse{TotalPages: total, Page: page}, nil
	}
	return resp, nil
}

func (f *fakeAPI) GenerateImage(ctx context.Context, req types.GenerateImageRequest) (types.GenerateImageResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateReqs = append(f.generateReqs, req)
	if f.generateHook != nil {
		f.generateHook()
	}
	if f.generateErr != nil {
		return types.GenerateImageResponse{}, f.generateErr
	}
	return types.GenerateImageResponse{Status: "success", ImageID: "img-1", ImageURL: "/images/img-1.webp"}, nil
}

func (f *fakeAPI) Metadata(ctx context.Context, id string) (types.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.metadataCalls++
	if f.metadataReady > 0 && f.metadataCalls >= f.metadataReady {
		return f.metadata, nil
	}
	if f.metadataErr != nil {
		return types.Metadata{}, f.metadataErr
	}
	return types.Metadata{}, &transport.APIError{Status: 404, Message: "Metadata not found"}
}

func (f *fakeAPI) ImprovePrompt(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	block := f.improveBlock
	f.mu.Unlock()
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.improveErr != nil {
		return "", f.improveErr
	}
	return f.improved, nil
}

func (f *fakeAPI) DeleteImage(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) DownloadImage(ctx context.Context, filename, dir string) (string, error) {
	f.mu.Lock()
	f.downloads = append(f.downloads, filename)
	fn := f.downloadFn
	f.mu.Unlock()
	if fn != nil {
		if err := fn(filename); err != nil {
			return "", err
		}
	}
	return filepath.Join(dir, filename), nil
}

func (f *fakeAPI) ImageURL(filename string) string {
	return "http://gallery.test/images/" + filename
}

func (f *fakeAPI) ListCalls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listCalls...)
}

func (f *fakeAPI) MetadataCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.metadataCalls
}

func (f *fakeAPI) GenerateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.generateReqs)
}

var errBoom = errors.New("boom")

func newTestClient(t *testing.T, api API) (*Client, *recordingView, *formstate.Store) {
	t.Helper()
	return newTestClientWithOptions(t, api, Options{
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 12,
		DownloadDir:     t.TempDir(),
	})
}

func newTestClientWithOptions(t *testing.T, api API, opts Options) (*Client, *recordingView, *formstate.Store) {
	t.Helper()

	store := formstate.NewStore(filepath.Join(t.TempDir(), "state.json"))
	view := &recordingView{}

	c, err := New(context.Background(), api, store, view, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, view, store
}

func images(names ...string) []types.GalleryImage {
	out := make([]types.GalleryImage, 0, len(names))
	for _, n := range names {
		out = append(out, types.GalleryImage{ImageFilename: n, Prompt: "prompt " + n})
	}
	return out
}
