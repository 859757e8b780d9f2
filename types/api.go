package types

import (
	"errors"
	"fmt"
	"strings"
)

type GalleryImage struct {
	ImageFilename string `json:"image_filename"`
	Prompt        string `json:"prompt,omitempty"`
}

type ListImagesResponse struct {
	Images     []GalleryImage `json:"images"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page,omitempty"`
	PerPage    int            `json:"per_page,omitempty"`
	Total      int            `json:"total,omitempty"`
}

func (r ListImagesResponse) Validate() error {
	if r.TotalPages < 0 {
		return fmt.Errorf("invalid total_pages %d", r.TotalPages)
	}
	for i, img := range r.Images {
		if strings.TrimSpace(img.ImageFilename) == "" {
			return fmt.Errorf("image %d has no image_filename", i)
		}
	}
	return nil
}

type GenerateImageRequest struct {
	Prompt      string `json:"prompt"`
	Model       string `json:"model"`
	AspectRatio string `json:"aspect_ratio"`
}

type GenerateImageResponse struct {
	Status   string `json:"status,omitempty"`
	ImageID  string `json:"image_id"`
	ImageURL string `json:"image_url,omitempty"`
}

func (r GenerateImageResponse) Validate() error {
	if strings.TrimSpace(r.ImageID) == "" {
		return errors.New("response is missing image_id")
	}
	return nil
}

// Metadata is what the server stored next to a generated image.
type Metadata struct {
	Prompt           string `json:"prompt"`
	Model            string `json:"model"`
	AspectRatio      string `json:"aspect_ratio"`
	Width            int    `json:"width,omitempty"`
	Height           int    `json:"height,omitempty"`
	OriginalPrompt   string `json:"original_prompt,omitempty"`
	TranslatedPrompt string `json:"translated_prompt,omitempty"`
}

type ImprovePromptRequest struct {
	Prompt string `json:"prompt"`
}

type ImprovePromptResponse struct {
	ImprovedPrompt string `json:"improved_prompt"`
}

func (r ImprovePromptResponse) Validate() error {
	if strings.TrimSpace(r.ImprovedPrompt) == "" {
		return errors.New("response is missing improved_prompt")
	}
	return nil
}

type DeleteImageResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Type    string `json:"type,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// Validator is implemented by responses with required fields.
type Validator interface {
	Validate() error
}
