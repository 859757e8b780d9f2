package gallery

import "errors"

var (
	ErrEmptyPrompt       = errors.New("enter a prompt to generate an image")
	ErrEmptyImprove      = errors.New("enter a prompt to improve")
	ErrGenerationTimeout = errors.New("image generation timed out")
	ErrBusy              = errors.New("a request is already in progress")
)
