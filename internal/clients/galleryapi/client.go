package galleryapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"fe/config"
	"fe/internal/clients/transport"
	"fe/types"
	"fe/utils"

	"github.com/charmbracelet/log"
)

// Client talks to the gallery server's REST API.
type Client struct {
	baseUrl    string
	perPage    int
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(cfg config.ApiConfig) *Client {
	return NewClientWithHTTP(cfg, &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("too many redirects")
			}
			return nil
		},
	})
}

// NewClientWithHTTP lets tests and callers supply their own http.Client.
func NewClientWithHTTP(cfg config.ApiConfig, httpClient *http.Client) *Client {
	return &Client{
		baseUrl:    strings.TrimRight(strings.TrimSpace(cfg.BaseUrl), "/"),
		perPage:    cfg.PerPage,
		httpClient: httpClient,
		logger:     log.With("component", "galleryapi"),
	}
}

func urlWithID(template, id string) string {
	template = strings.TrimSpace(template)
	if template == "" {
		return ""
	}
	id = url.PathEscape(id)
	if strings.Contains(template, "{id}") {
		return strings.ReplaceAll(template, "{id}", id)
	}
	if strings.HasSuffix(template, "/") {
		return template + id
	}
	return template + "/" + id
}

func (c *Client) ListImages(ctx context.Context, page int) (types.ListImagesResponse, error) {
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	if c.perPage > 0 {
		query.Set("per_page", strconv.Itoa(c.perPage))
	}

	endpoint := c.baseUrl + "/api/images?" + query.Encode()
	resp, err := transport.Get[types.ListImagesResponse](c.httpClient, ctx, endpoint, nil)
	if err != nil {
		return types.ListImagesResponse{}, err
	}

	c.logger.Debug("listed images", "page", page, "count", len(resp.Images), "totalPages", resp.TotalPages)
	return resp, nil
}

func (c *Client) GenerateImage(ctx context.Context, req types.GenerateImageRequest) (types.GenerateImageResponse, error) {
	endpoint := c.baseUrl + "/api/generate-image"
	resp, err := transport.Post[types.GenerateImageRequest, types.GenerateImageResponse](c.httpClient, ctx, endpoint, req, nil)
	if err != nil {
		return types.GenerateImageResponse{}, err
	}

	c.logger.Info("generation submitted", "imageId", resp.ImageID, "model", req.Model, "aspectRatio", req.AspectRatio)
	return resp, nil
}

// Metadata doubles as the completion probe while a generation is polled.
func (c *Client) Metadata(ctx context.Context, id string) (types.Metadata, error) {
	endpoint := urlWithID(c.baseUrl+"/api/metadata/{id}", id)
	return transport.Get[types.Metadata](c.httpClient, ctx, endpoint, nil)
}

func (c *Client) ImprovePrompt(ctx context.Context, prompt string) (string, error) {
	endpoint := c.baseUrl + "/api/improve-prompt"
	resp, err := transport.Post[types.ImprovePromptRequest, types.ImprovePromptResponse](c.httpClient, ctx, endpoint, types.ImprovePromptRequest{Prompt: prompt}, nil)
	if err != nil {
		return "", err
	}
	return resp.ImprovedPrompt, nil
}

func (c *Client) DeleteImage(ctx context.Context, id string) error {
	endpoint := urlWithID(c.baseUrl+"/api/image/", id)
	if _, err := transport.Delete[types.DeleteImageResponse](c.httpClient, ctx, endpoint, nil); err != nil {
		return err
	}

	c.logger.Info("image deleted", "imageId", id)
	return nil
}

func (c *Client) Health(ctx context.Context) error {
	resp, err := transport.Get[types.HealthResponse](c.httpClient, ctx, c.baseUrl+"/health", nil)
	if err != nil {
		return err
	}
	if resp.Status != "healthy" {
		return fmt.Errorf("server reports %q", resp.Status)
	}
	return nil
}

// ImageURL is the static path of a gallery image.
func (c *Client) ImageURL(filename string) string {
	return urlWithID(c.baseUrl+"/images/", filename)
}

// DownloadImage saves one gallery image into dir and returns the written path.
func (c *Client) DownloadImage(ctx context.Context, filename, dir string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", errors.New("missing image filename")
	}

	resp, err := transport.Download(c.httpClient, ctx, c.ImageURL(filename), nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	name := filename
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if fn := utils.FileNameFromCd(cd); fn != "" {
			name = fn
		}
	}
	name = utils.SanitizeFilename(name, "image.webp")

	finalPath, err := utils.PathWithin(dir, name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return "", err
	}
	tmpPath := finalPath + ".part"

	out, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}

	_, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()

	if copyErr != nil {
		_ = os.Remove(tmpPath)
		return "", copyErr
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return "", closeErr
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	c.logger.Info("image downloaded", "file", finalPath)
	return finalPath, nil
}
