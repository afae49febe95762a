package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/google/uuid"
	"github.com/openai/openai-go/v3"
)

var _ provider.Renderer = (*Renderer)(nil)

type Renderer struct {
	*Config
	images openai.ImageService
}

func NewRenderer(url, model string, options ...Option) (*Renderer, error) {
	cfg := &Config{
		url:   url,
		model: model,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Renderer{
		Config: cfg,
		images: openai.NewImageService(cfg.Options()...),
	}, nil
}

func (r *Renderer) Render(ctx context.Context, input string, options *provider.RenderOptions) (*provider.Rendering, error) {
	if options == nil {
		options = new(provider.RenderOptions)
	}

	var image *openai.ImagesResponse
	var err error

	if len(options.Images) > 0 {
		var files []io.Reader

		for _, i := range options.Images {
			files = append(files, openai.File(bytes.NewReader(i.Content), i.Name, i.ContentType))
		}

		params := openai.ImageEditParams{
			Model:  openai.ImageModel(r.model),
			Prompt: input,
		}

		if len(files) == 1 {
			params.Image = openai.ImageEditParamsImageUnion{OfFile: files[0]}
		} else {
			params.Image = openai.ImageEditParamsImageUnion{OfFileArray: files}
		}

		image, err = r.images.Edit(ctx, params)
	} else {
		image, err = r.images.Generate(ctx, openai.ImageGenerateParams{
			Model:  openai.ImageModel(r.model),
			Prompt: input,
		})
	}

	if err != nil {
		return nil, convertError(err)
	}

	if len(image.Data) == 0 {
		return nil, provider.UnknownError(0, "no image returned")
	}

	data, err := r.getData(ctx, image.Data[0])

	if err != nil {
		return nil, err
	}

	return &provider.Rendering{
		ID:    uuid.NewString(),
		Model: r.model,

		Content:     data,
		ContentType: http.DetectContentType(data),
	}, nil
}

func (r *Renderer) getData(ctx context.Context, image openai.Image) ([]byte, error) {
	if image.B64JSON != "" {
		return base64.StdEncoding.DecodeString(image.B64JSON)
	}

	if image.URL != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, image.URL, nil)

		if err != nil {
			return nil, err
		}

		client := r.client

		if client == nil {
			client = http.DefaultClient
		}

		resp, err := client.Do(req)

		if err != nil {
			return nil, provider.ConnectionError(err)
		}

		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			data, _ := io.ReadAll(resp.Body)
			return nil, provider.StatusError(resp.StatusCode, data)
		}

		return io.ReadAll(resp.Body)
	}

	return nil, errors.New("invalid image data")
}
