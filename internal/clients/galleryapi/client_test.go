package galleryapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fe/config"
	"fe/internal/clients/transport"
	"fe/internal/devserver"
	"fe/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, perPage int) (*Client, *devserver.Api) {
	t.Helper()

	api := devserver.NewApi(config.ServerConfig{PerPage: 12})
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return NewClient(config.ApiConfig{
		BaseUrl: srv.URL + "/",
		Timeout: 5 * time.Second,
		PerPage: perPage,
	}), api
}

func TestUrlWithID(t *testing.T) {
	assert.Equal(t, "http://h/api/metadata/abc", urlWithID("http://h/api/metadata/{id}", "abc"))
	assert.Equal(t, "http://h/api/image/abc", urlWithID("http://h/api/image/", "abc"))
	assert.Equal(t, "http://h/images/abc", urlWithID("http://h/images", "abc"))
	assert.Equal(t, "http://h/images/a%20b.webp", urlWithID("http://h/images/", "a b.webp"))
	assert.Equal(t, "", urlWithID("  ", "abc"))
}

func TestClient_GenerateListMetadata(t *testing.T) {
	c, _ := newTestClient(t, 0)
	ctx := context.Background()

	gen, err := c.GenerateImage(ctx, types.GenerateImageRequest{Prompt: "a fox", Model: "flux-1.1-pro", AspectRatio: "4:3"})
	require.NoError(t, err)
	require.NotEmpty(t, gen.ImageID)

	list, err := c.ListImages(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 1, list.TotalPages)
	require.Len(t, list.Images, 1)
	assert.Equal(t, gen.ImageID+".webp", list.Images[0].ImageFilename)

	meta, err := c.Metadata(ctx, gen.ImageID)
	require.NoError(t, err)
	assert.Equal(t, "a fox", meta.Prompt)
	assert.Equal(t, 768, meta.Height)
}

func TestClient_ListImagesPerPage(t *testing.T) {
	c, server := newTestClient(t, 1)
	server.Store().Add(types.Metadata{Prompt: "one"}, nil, 0)
	server.Store().Add(types.Metadata{Prompt: "two"}, nil, 0)

	list, err := c.ListImages(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, list.TotalPages)
	assert.Equal(t, 1, list.PerPage)
	assert.Len(t, list.Images, 1)
}

func TestClient_MetadataNotFound(t *testing.T) {
	c, _ := newTestClient(t, 0)

	_, err := c.Metadata(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, transport.IsNotFound(err))
	assert.Equal(t, "Metadata not found", err.Error())
}

func TestClient_ServerErrorText(t *testing.T) {
	c, _ := newTestClient(t, 0)

	_, err := c.GenerateImage(context.Background(), types.GenerateImageRequest{Prompt: "x", Model: "dall-e"})
	require.Error(t, err)
	assert.Equal(t, "Unsupported model: dall-e", err.Error())

	var apiErr *transport.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestClient_ImprovePrompt(t *testing.T) {
	c, _ := newTestClient(t, 0)

	improved, err := c.ImprovePrompt(context.Background(), "a cat")
	require.NoError(t, err)
	assert.Contains(t, improved, "a cat,")

	_, err = c.ImprovePrompt(context.Background(), " ")
	assert.EqualError(t, err, "Prompt is required")
}

func TestClient_DeleteImage(t *testing.T) {
	c, server := newTestClient(t, 0)
	id := server.Store().Add(types.Metadata{Prompt: "x"}, nil, 0)

	require.NoError(t, c.DeleteImage(context.Background(), id))
	assert.Equal(t, 0, server.Store().Page(1, 12).Total)

	err := c.DeleteImage(context.Background(), id)
	assert.EqualError(t, err, "Image "+id+".webp not found")
}

func TestClient_Health(t *testing.T) {
	c, _ := newTestClient(t, 0)
	require.NoError(t, c.Health(context.Background()))

	down := NewClient(config.ApiConfig{BaseUrl: "http://127.0.0.1:1", Timeout: time.Second})
	assert.Error(t, down.Health(context.Background()))
}

func TestClient_ImageURL(t *testing.T) {
	c := NewClient(config.ApiConfig{BaseUrl: " http://localhost:5000/ "})
	assert.Equal(t, "http://localhost:5000/images/abc.webp", c.ImageURL("abc.webp"))
}

func TestClient_DownloadImage(t *testing.T) {
	c, server := newTestClient(t, 0)
	id := server.Store().Add(types.Metadata{}, []byte("webp-bytes"), 0)
	dir := filepath.Join(t.TempDir(), "nested")

	path, err := c.DownloadImage(context.Background(), id+".webp", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, id+".webp"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "webp-bytes", string(data))

	_, err = os.Stat(path + ".part")
	assert.True(t, os.IsNotExist(err))
}

func TestClient_DownloadImageStaysInDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../../escaped.webp"`)
		_, _ = w.Write([]byte("webp-bytes"))
	}))
	t.Cleanup(srv.Close)

	root := t.TempDir()
	dir := filepath.Join(root, "downloads")
	c := NewClient(config.ApiConfig{BaseUrl: srv.URL, Timeout: 5 * time.Second})

	path, err := c.DownloadImage(context.Background(), "a.webp", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escaped.webp"), path)

	_, err = os.Stat(filepath.Join(root, "escaped.webp"))
	assert.True(t, os.IsNotExist(err))
}

func TestClient_DownloadImageErrors(t *testing.T) {
	c, _ := newTestClient(t, 0)
	dir := t.TempDir()

	_, err := c.DownloadImage(context.Background(), " ", dir)
	assert.EqualError(t, err, "missing image filename")

	_, err = c.DownloadImage(context.Background(), "nope.webp", dir)
	require.Error(t, err)
	assert.True(t, transport.IsNotFound(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
