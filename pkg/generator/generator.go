package generator

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/imaging"
	"github.com/adrianliechti/sketchify/pkg/provider"
)

type Client struct {
	renderer provider.Renderer
}

func New(renderer provider.Renderer) *Client {
	return &Client{
		renderer: renderer,
	}
}

// Prompt joins a description and a style label into the generation prompt.
func Prompt(description, style string) string {
	return description + "\nStyle: " + style
}

// Generate renders prompt conditioned on img. Failures are logged and
// returned as *provider.ServiceError; no substitute image is produced.
func (c *Client) Generate(ctx context.Context, prompt string, img image.Image) (image.Image, error) {
	data, err := imaging.EncodePNG(img)

	if err != nil {
		return nil, err
	}

	rendering, err := c.renderer.Render(ctx, prompt, &provider.RenderOptions{
		Images: []provider.File{
			{
				Name: "sketch.png",

				Content:     data,
				ContentType: "image/png",
			},
		},
	})

	if err != nil {
		err = provider.ClassifyError(err)
		logError(ctx, err)

		return nil, err
	}

	result, err := imaging.DecodeBytes(rendering.Content)

	if err != nil {
		serviceErr := provider.UnknownError(http.StatusOK, "invalid image data")
		serviceErr.Err = err

		logError(ctx, serviceErr)

		return nil, serviceErr
	}

	return result, nil
}

func logError(ctx context.Context, err error) {
	var serviceErr *provider.ServiceError

	if !errors.As(err, &serviceErr) {
		slog.ErrorContext(ctx, "generation failed", "operation", "generate", "error", err)
		return
	}

	slog.ErrorContext(ctx, "generation failed",
		"operation", "generate",
		"kind", serviceErr.Kind,
		"status", serviceErr.Status,
		"message", serviceErr.Message,
		"error", err,
	)
}
