package stability

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/adrianliechti/sketchify/pkg/provider"

	"github.com/google/uuid"
)

var _ provider.Renderer = (*Renderer)(nil)

type Renderer struct {
	*Config
}

func NewRenderer(url, model string, options ...Option) (*Renderer, error) {
	cfg := &Config{
		url:   url,
		model: model,

		client: http.DefaultClient,
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

	if len(options.Images) > 1 {
		return nil, errors.New("only one image input is supported")
	}

	body, contentType, err := r.convertRequest(input, options)

	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint(), body)

	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "image/*")
	req.Header.Set("Content-Type", contentType)

	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)

	if err != nil {
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ctx.Err()
		}

		return nil, provider.ConnectionError(err)
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, provider.ConnectionError(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, provider.StatusError(resp.StatusCode, data)
	}

	resultType := resp.Header.Get("Content-Type")

	if resultType == "" {
		resultType = "image/png"
	}

	return &provider.Rendering{
		ID:    uuid.NewString(),
		Model: r.model,

		Content:     data,
		ContentType: resultType,
	}, nil
}

// https://platform.stability.ai/docs/api-reference#tag/Generate
func (r *Renderer) convertRequest(prompt string, options *provider.RenderOptions) (io.Reader, string, error) {
	var body bytes.Buffer

	w := multipart.NewWriter(&body)

	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, "", err
	}

	if len(options.Images) > 0 {
		image := options.Images[0]

		if err := w.WriteField("mode", "image-to-image"); err != nil {
			return nil, "", err
		}

		name := image.Name

		if name == "" {
			name = "image.png"
		}

		contentType := image.ContentType

		if contentType == "" {
			contentType = http.DetectContentType(image.Content)
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, name))
		header.Set("Content-Type", contentType)

		part, err := w.CreatePart(header)

		if err != nil {
			return nil, "", err
		}

		if _, err := part.Write(image.Content); err != nil {
			return nil, "", err
		}

		if r.strength != nil {
			if err := w.WriteField("strength", strconv.FormatFloat(*r.strength, 'f', -1, 64)); err != nil {
				return nil, "", err
			}
		}
	}

	if err := w.WriteField("output_format", "png"); err != nil {
		return nil, "", err
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &body, w.FormDataContentType(), nil
}
