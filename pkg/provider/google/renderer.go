package google

import (
	"context"
	"errors"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/google/uuid"
	"google.golang.org/genai"
)

var _ provider.Renderer = (*Renderer)(nil)

type Renderer struct {
	*Config
}

func NewRenderer(model string, options ...Option) (*Renderer, error) {
	cfg := &Config{
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Renderer{
		Config: cfg,
	}, nil
}

func (r *Renderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	client, err := r.newClient(ctx)

	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(input),
	}

	for _, i := range options.Images {
		parts = append(parts, genai.NewPartFromBytes(i.Content, i.ContentType))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	image, err := client.Models.GenerateContent(ctx, r.model, contents, config)

	if err != nil {
		return nil, convertError(err)
	}

	if len(image.Candidates) == 0 || image.Candidates[0].Content == nil {
		return nil, provider.UnknownError(0, "no image returned")
	}

	result := &provider.Rendering{
		ID:    uuid.NewString(),
		Model: r.model,
	}

	for _, part := range image.Candidates[0].Content.Parts {
		if part.InlineData == nil {
			continue
		}

		result.Content = part.InlineData.Data
		result.ContentType = part.InlineData.MIMEType
	}

	if len(result.Content) == 0 {
		if reason := image.Candidates[0].FinishReason; reason != "" && reason != genai.FinishReasonStop {
			return nil, provider.UnknownError(0, "image generation stopped: "+string(reason))
		}

		return nil, errors.New("no image data found")
	}

	return result, nil
}
