package gallery

import (
	"context"
	"fmt"

	"fe/internal/formstate"
	"fe/types"
	"fe/utils"

	"golang.org/x/sync/errgroup"
)

// RequestDelete asks the user to confirm deleting filename.
func (c *Client) RequestDelete(filename string) {
	id := utils.ImageID(filename)
	if id == "" {
		return
	}

	c.mu.Lock()
	c.pendingDelete = id
	c.mu.Unlock()

	c.view.ShowDeleteConfirm(id)
}

func (c *Client) PendingDelete() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete
}

// CancelDelete closes the confirmation without any request.
func (c *Client) CancelDelete() {
	c.mu.Lock()
	had := c.pendingDelete != ""
	c.pendingDelete = ""
	c.mu.Unlock()

	if had {
		c.view.HideDeleteConfirm()
	}
}

// ConfirmDelete deletes the pending image and reloads the current page.
func (c *Client) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	id := c.pendingDelete
	c.pendingDelete = ""
	page := c.currentPage
	c.mu.Unlock()

	if id == "" {
		return nil
	}

	err := c.api.DeleteImage(ctx, id)
	c.view.HideDeleteConfirm()
	if err != nil {
		c.logger.Error("failed to delete image", "imageId", id, "err", err)
		c.view.ShowError(err.Error())
		return err
	}

	return c.LoadGallery(ctx, page)
}

// CopySettings fills the form with the parameters an image was made with.
func (c *Client) CopySettings(ctx context.Context, filename string) error {
	id := utils.ImageID(filename)

	meta, err := c.api.Metadata(ctx, id)
	if err != nil {
		c.logger.Error("failed to load image settings", "imageId", id, "err", err)
		c.view.ShowError(err.Error())
		return err
	}

	c.SetForm(formstate.FormState{
		Prompt:      meta.Prompt,
		Model:       meta.Model,
		AspectRatio: meta.AspectRatio,
	}.WithDefaults())
	return nil
}

// Download saves one image into the download directory.
func (c *Client) Download(ctx context.Context, filename string) (string, error) {
	path, err := c.api.DownloadImage(ctx, filename, c.opts.DownloadDir)
	if err != nil {
		c.logger.Error("failed to download image", "file", filename, "err", err)
		c.view.ShowError(err.Error())
		return "", err
	}

	c.view.ShowNotice("saved " + path)
	return path, nil
}

// DownloadPage saves every image of the current page, a few at a time.
func (c *Client) DownloadPage(ctx context.Context) error {
	images := c.Images()
	if len(images) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.MaxConcurrentDownloads)

	for _, img := range images {
		g.Go(func() error {
			_, err := c.api.DownloadImage(gctx, img.ImageFilename, c.opts.DownloadDir)
			if err != nil {
				return fmt.Errorf("%s: %w", img.ImageFilename, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logger.Error("page download failed", "page", c.CurrentPage(), "err", err)
		c.view.ShowError(err.Error())
		return err
	}

	c.view.ShowNotice(fmt.Sprintf("saved %d images to %s", len(images), c.opts.DownloadDir))
	return nil
}

// OpenPreview shows an image full size. Navigation is locked until
// ClosePreview.
func (c *Client) OpenPreview(ctx context.Context, filename string) {
	img := types.GalleryImage{ImageFilename: filename}
	for _, candidate := range c.Images() {
		if candidate.ImageFilename == filename {
			img = candidate
			break
		}
	}

	preview := Preview{Card: c.card(img)}
	if meta, err := c.api.Metadata(ctx, preview.Card.ID); err == nil {
		preview.Metadata = &meta
	} else {
		c.logger.Debug("preview without metadata", "imageId", preview.Card.ID, "err", err)
	}

	c.mu.Lock()
	c.previewOpen = filename
	c.mu.Unlock()

	c.view.ShowPreview(preview)
}

func (c *Client) ClosePreview() {
	c.mu.Lock()
	open := c.previewOpen != ""
	c.previewOpen = ""
	c.mu.Unlock()

	if open {
		c.view.HidePreview()
	}
}

// ScrollLocked reports whether the preview holds the screen.
func (c *Client) ScrollLocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewOpen != ""
}
