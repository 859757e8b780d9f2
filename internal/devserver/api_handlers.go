package devserver

import (
	"errors"
	"fmt"
	"strings"

	"fe/types"

	"github.com/gofiber/fiber/v2"
)

// placeholder bytes served for every generated image
var placeholderWebp = []byte("RIFF\x1a\x00\x00\x00WEBPVP8L\x0d\x00\x00\x00/\x00\x00\x00\x10\x07\x10\x11\x11\x88\x88\xfe\x07\x00")

func (a *Api) Health() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(types.HealthResponse{Status: "healthy"})
	}
}

func (a *Api) GenerateImage() fiber.Handler {
	return func(ctx *fiber.Ctx) error {

		var requestBody types.GenerateImageRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "invalid body",
			})
		}

		if strings.TrimSpace(requestBody.Prompt) == "" {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: "Prompt is required"})
		}
		if requestBody.Model == "" {
			requestBody.Model = types.DefaultModel
		}
		if requestBody.AspectRatio == "" {
			requestBody.AspectRatio = types.DefaultAspectRatio
		}
		if !types.IsModel(requestBody.Model) {
			return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
				Error: fmt.Sprintf("Unsupported model: %s", requestBody.Model),
			})
		}
		ratio, ok := types.LookupAspectRatio(requestBody.AspectRatio)
		if !ok {
			return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
				Error: fmt.Sprintf("Unsupported aspect ratio: %s", requestBody.AspectRatio),
			})
		}

		id := a.store.Add(types.Metadata{
			Prompt:           requestBody.Prompt,
			Model:            requestBody.Model,
			AspectRatio:      ratio.Ratio,
			Width:            ratio.Width,
			Height:           ratio.Height,
			OriginalPrompt:   requestBody.Prompt,
			TranslatedPrompt: requestBody.Prompt,
		}, placeholderWebp, a.delay)

		HttpLogger("generate", ctx).Info("image queued", "imageId", id, "model", requestBody.Model)

		return ctx.Status(fiber.StatusOK).JSON(types.GenerateImageResponse{
			Status:   "success",
			ImageID:  id,
			ImageURL: "/images/" + id + ".webp",
		})
	}
}

func (a *Api) ImprovePrompt() fiber.Handler {
	return func(ctx *fiber.Ctx) error {

		var requestBody types.ImprovePromptRequest
		if err := ctx.BodyParser(&requestBody); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{
				Error:   err.Error(),
				Message: "invalid body",
			})
		}

		prompt := strings.TrimSpace(requestBody.Prompt)
		if prompt == "" {
			return ctx.Status(fiber.StatusBadRequest).JSON(types.ErrorResponse{Error: "Prompt is required"})
		}

		return ctx.Status(fiber.StatusOK).JSON(types.ImprovePromptResponse{
			ImprovedPrompt: prompt + ", highly detailed, dramatic lighting, digital painting",
		})
	}
}

func (a *Api) ListImages() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		page := ctx.QueryInt("page", 1)
		perPage := ctx.QueryInt("per_page", a.perPage)
		return ctx.Status(fiber.StatusOK).JSON(a.store.Page(page, perPage))
	}
}

func (a *Api) Metadata() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		meta, err := a.store.Metadata(ctx.Params("id"))
		if err != nil {
			return ctx.Status(fiber.StatusNotFound).JSON(types.ErrorResponse{Error: "Metadata not found"})
		}
		return ctx.Status(fiber.StatusOK).JSON(meta)
	}
}

func (a *Api) DeleteImage() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id := ctx.Params("id")
		if err := a.store.Delete(id); err != nil {
			if errors.Is(err, ErrImageNotFound) {
				return ctx.Status(fiber.StatusInternalServerError).JSON(types.ErrorResponse{
					Error: fmt.Sprintf("Image %s.webp not found", id),
				})
			}
			return err
		}

		HttpLogger("delete", ctx).Info("image deleted", "imageId", id)
		return ctx.Status(fiber.StatusOK).JSON(types.DeleteImageResponse{Status: "success"})
	}
}

func (a *Api) ServeImage() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		data, err := a.store.File(ctx.Params("filename"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		ctx.Set(fiber.HeaderContentType, "image/webp")
		return ctx.Send(data)
	}
}
