package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"fe/types"
	"fe/utils"
)

const snippetLimit = 8 << 10

// APIError is a non-2xx answer from the server. Error() is the server's own
// "error" text whenever the body carried one.
type APIError struct {
	URL     string
	Status  int
	Message string
	Detail  string
	Type    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Detail)
}

func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}

func Get[r any](h *http.Client, ctx context.Context, url string, headers map[string]string) (r, error) {
	return do[r](h, ctx, http.MethodGet, url, nil, headers)
}

func Post[b, r any](h *http.Client, ctx context.Context, url string, body b, headers map[string]string) (r, error) {
	var response r

	payload, err := json.Marshal(body)
	if err != nil {
		return response, fmt.Errorf("marshal %s: %w", url, err)
	}

	return do[r](h, ctx, http.MethodPost, url, payload, headers)
}

func Delete[r any](h *http.Client, ctx context.Context, url string, headers map[string]string) (r, error) {
	return do[r](h, ctx, http.MethodDelete, url, nil, headers)
}

func do[r any](h *http.Client, ctx context.Context, method, url string, payload []byte, headers map[string]string) (r, error) {

	var response r

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return response, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", utils.NewRequestID())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, val := range headers {
		req.Header.Set(key, val)
	}

	resp, err := h.Do(req)
	if err != nil {
		return response, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return response, fmt.Errorf("read %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return response, newAPIError(url, resp.StatusCode, responseBytes)
	}

	if err := json.Unmarshal(responseBytes, &response); err != nil {
		return response, fmt.Errorf("unmarshal %s: %w: %s", url, err, snippet(responseBytes))
	}

	if v, ok := any(response).(types.Validator); ok {
		if err := v.Validate(); err != nil {
			return response, fmt.Errorf("invalid response from %s: %w", url, err)
		}
	}

	return response, nil
}

func Download(h *http.Client, ctx context.Context, url string, headers map[string]string) (*http.Response, error) {

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("X-Request-Id", utils.NewRequestID())
	for key, val := range headers {
		req.Header.Set(key, val)
	}

	resp, err := h.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, snippetLimit))
		_ = resp.Body.Close()
		return nil, newAPIError(url, resp.StatusCode, body)
	}

	return resp, nil
}

func newAPIError(url string, status int, body []byte) *APIError {
	apiErr := &APIError{
		URL:    url,
		Status: status,
		Detail: snippet(body),
	}

	var errBody types.ErrorResponse
	if err := json.Unmarshal(body, &errBody); err == nil {
		apiErr.Message = errBody.Error
		apiErr.Type = errBody.Type
		if errBody.Message != "" {
			apiErr.Detail = errBody.Message
		}
	}
	return apiErr
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > snippetLimit {
		s = s[:snippetLimit]
	}
	return s
}
