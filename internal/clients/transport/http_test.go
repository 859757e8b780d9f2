package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fe/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_DecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		assert.Equal(t, "yes", r.Header.Get("X-Test"))
		w.Write([]byte(`{"images":[{"image_filename":"a.webp","prompt":"cat"}],"total_pages":3}`))
	}))
	defer srv.Close()

	got, err := Get[types.ListImagesResponse](srv.Client(), context.Background(), srv.URL, map[string]string{"X-Test": "yes"})
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalPages)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "a.webp", got.Images[0].ImageFilename)
}

func TestGet_ErrorFieldIsTheMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Metadata not found","message":"no such file","type":"NotFoundError"}`))
	}))
	defer srv.Close()

	_, err := Get[types.Metadata](srv.Client(), context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, "Metadata not found", err.Error())
	assert.True(t, IsNotFound(err))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "NotFoundError", apiErr.Type)
	assert.Equal(t, "no such file", apiErr.Detail)
}

func TestGet_NonJSONErrorFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Get[types.Metadata](srv.Client(), context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Equal(t, "http 502: bad gateway", err.Error())
	assert.False(t, IsNotFound(err))
}

func TestPost_SendsJSONAndValidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body types.GenerateImageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "16:9", body.AspectRatio)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	req := types.GenerateImageRequest{Prompt: "cat", Model: "flux-pro", AspectRatio: "16:9"}
	_, err := Post[types.GenerateImageRequest, types.GenerateImageResponse](srv.Client(), context.Background(), srv.URL, req, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing image_id")
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	got, err := Delete[types.DeleteImageResponse](srv.Client(), context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "success", got.Status)
}

func TestGet_UnmarshalError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := Get[types.Metadata](srv.Client(), context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestGet_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Get[types.Metadata](srv.Client(), ctx, srv.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Not found"}`))
			return
		}
		w.Write([]byte("RIFFdata"))
	}))
	defer srv.Close()

	resp, err := Download(srv.Client(), context.Background(), srv.URL+"/img.webp", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "RIFFdata", string(b))

	_, err = Download(srv.Client(), context.Background(), srv.URL+"/missing", nil)
	require.Error(t, err)
	assert.Equal(t, "Not found", err.Error())
}
