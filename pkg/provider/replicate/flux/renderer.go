package flux

import (
	"context"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/adrianliechti/sketchify/pkg/provider"
	"github.com/adrianliechti/sketchify/pkg/provider/replicate"

	"github.com/google/uuid"
)

var _ provider.Renderer = (*Renderer)(nil)

type Renderer struct {
	*replicate.Client
}

const (
	FluxKontextDev string = "black-forest-labs/flux-kontext-dev"
	FluxKontextPro string = "black-forest-labs/flux-kontext-pro"
	FluxKontextMax string = "black-forest-labs/flux-kontext-max"
)

// SupportedModels lists the flux models that accept an input image.
var SupportedModels = []string{
	FluxKontextDev,
	FluxKontextPro,
	FluxKontextMax,
}

func NewRenderer(model string, options ...replicate.Option) (*Renderer, error) {
	if model == "" {
		model = FluxKontextPro
	}

	if !slices.Contains(SupportedModels, model) {
		return nil, errors.New("unsupported model")
	}

	client, err := replicate.New(model, options...)

	if err != nil {
		return nil, err
	}

	return &Renderer{
		Client: client,
	}, nil
}

func (r *Renderer) Render(ctx context.Context, prompt string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil || len(options.Images) == 0 {
		return nil, errors.New("image input required")
	}

	if len(options.Images) > 1 {
		return nil, errors.New("only one image input is supported")
	}

	file, err := r.UploadFile(ctx, options.Images[0])

	if err != nil {
		return nil, err
	}

	defer r.DeleteFile(context.WithoutCancel(ctx), file.ID)

	input := r.convertInput(prompt, file.URLs["get"])

	output, err := r.Run(ctx, input)

	if err != nil {
		return nil, err
	}

	return r.convertImage(output)
}

func (r *Renderer) convertInput(prompt, imageURL string) replicate.PredictionInput {
	// https://replicate.com/black-forest-labs/flux-kontext-pro/api/schema#input-schema
	input := replicate.PredictionInput{
		"prompt": prompt,

		"input_image":   imageURL,
		"output_format": "png",
	}

	if r.Model() == FluxKontextDev {
		input["disable_safety_checker"] = true
	} else {
		input["safety_tolerance"] = 2
	}

	return input
}

func (r *Renderer) convertImage(output replicate.PredictionOutput) (*provider.Rendering, error) {
	file, ok := output.(*replicate.FileOutput)

	if !ok {
		return nil, provider.UnknownError(http.StatusOK, "unsupported output")
	}

	data, err := io.ReadAll(file)

	if err != nil {
		return nil, provider.ClassifyError(err)
	}

	return &provider.Rendering{
		ID:    uuid.NewString(),
		Model: r.Model(),

		Content:     data,
		ContentType: http.DetectContentType(data),
	}, nil
}
