package gallery

import (
	"context"
	"strings"
	"time"

	"fe/internal/clients/transport"
	"fe/internal/formstate"
	"fe/types"
)

// Submit starts a generation for the current form. It returns once the job
// is accepted; completion is tracked by a background poll task. A second
// Submit while one is in flight is a no-op returning ErrBusy.
func (c *Client) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return ErrBusy
	}

	form := c.form
	prompt := strings.TrimSpace(form.Prompt)
	if prompt == "" {
		c.mu.Unlock()
		c.view.ShowError(ErrEmptyPrompt.Error())
		return ErrEmptyPrompt
	}

	if c.cancelTask != nil {
		c.cancelTask()
	}
	taskCtx, cancel := context.WithCancel(c.lifetime)
	done := make(chan struct{})

	c.status = StatusSubmitting
	c.cancelTask = cancel
	c.taskDone = done
	c.mu.Unlock()

	c.saveForm(form)
	c.view.SetLoading(true)

	// the caller may abandon the submit itself, but not the poll that follows
	detach := context.AfterFunc(ctx, cancel)
	resp, err := c.api.GenerateImage(taskCtx, types.GenerateImageRequest{
		Prompt:      prompt,
		Model:       form.Model,
		AspectRatio: form.AspectRatio,
	})
	if !detach() && err == nil {
		// the caller went away after the job was accepted; keep polling
		c.mu.Lock()
		taskCtx, cancel = context.WithCancel(c.lifetime)
		c.cancelTask = cancel
		c.mu.Unlock()
	}

	if err != nil {
		defer close(done)
		if taskCtx.Err() != nil {
			c.finish(StatusCancelled)
			return taskCtx.Err()
		}
		c.logger.Error("generation failed", "err", err)
		c.finish(StatusFailed)
		c.view.ShowError(err.Error())
		return err
	}

	c.mu.Lock()
	c.status = StatusPolling
	c.mu.Unlock()

	go c.poll(taskCtx, resp.ImageID, done)
	return nil
}

// poll probes the image metadata on a fixed interval. An OK answer means the
// generation is complete.
func (c *Client) poll(ctx context.Context, imageID string, done chan struct{}) {
	defer close(done)

	logger := c.logger.With("imageId", imageID)
	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	attempts := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("generation polling cancelled", "attempts", attempts)
			c.finish(StatusCancelled)
			return
		case <-ticker.C:
			attempts++

			_, err := c.api.Metadata(ctx, imageID)
			if err == nil {
				logger.Info("generation complete", "attempts", attempts)
				c.finish(StatusDone)
				_ = c.LoadGallery(c.lifetime, 1)
				return
			}
			if ctx.Err() != nil {
				c.finish(StatusCancelled)
				return
			}
			if transport.IsNotFound(err) {
				logger.Debug("generation not ready", "attempt", attempts)
			} else {
				logger.Warn("metadata check failed", "attempt", attempts, "err", err)
			}

			if attempts >= c.opts.MaxPollAttempts {
				logger.Warn("generation timed out", "attempts", attempts)
				c.finish(StatusTimedOut)
				c.view.ShowError(ErrGenerationTimeout.Error())
				return
			}
		}
	}
}

// finish moves the task to a terminal state and releases the in-flight gate.
func (c *Client) finish(status GenerationStatus) {
	c.mu.Lock()
	c.status = status
	cancel := c.cancelTask
	c.cancelTask = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	c.view.SetLoading(false)
}

// Cancel stops the running generation task, if any. No error is shown.
func (c *Client) Cancel() {
	c.mu.Lock()
	cancel := c.cancelTask
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current generation task has ended.
func (c *Client) Wait() {
	c.mu.Lock()
	done := c.taskDone
	c.mu.Unlock()

	if done != nil {
		<-done
	}
}

// ImprovePrompt replaces the prompt with the server's rewrite.
func (c *Client) ImprovePrompt(ctx context.Context) error {
	c.mu.Lock()
	if c.busyLocked() {
		c.mu.Unlock()
		return ErrBusy
	}
	prompt := strings.TrimSpace(c.form.Prompt)
	if prompt == "" {
		c.mu.Unlock()
		c.view.ShowError(ErrEmptyImprove.Error())
		return ErrEmptyImprove
	}
	c.improving = true
	c.mu.Unlock()

	c.view.SetLoading(true)
	defer func() {
		c.mu.Lock()
		c.improving = false
		c.mu.Unlock()
		c.view.SetLoading(false)
	}()

	improved, err := c.api.ImprovePrompt(ctx, prompt)
	if err != nil {
		c.logger.Error("failed to improve prompt", "err", err)
		c.view.ShowError(err.Error())
		return err
	}

	c.updateForm(func(f *formstate.FormState) { f.Prompt = improved })
	c.view.SetForm(c.Form())
	return nil
}
