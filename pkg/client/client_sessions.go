package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/adrianliechti/sketchify/pkg/provider"
)

type SessionService struct {
	Options []RequestOption
}

func NewSessionService(opts ...RequestOption) SessionService {
	return SessionService{
		Options: opts,
	}
}

type File = provider.File

type Session struct {
	ID string `json:"id"`

	Style string `json:"style,omitempty"`
	Hint  string `json:"hint,omitempty"`

	Description string `json:"description,omitempty"`

	HasSketch bool `json:"has_sketch"`
	HasImage  bool `json:"has_image"`

	Busy bool `json:"busy"`
}

type SessionOptions struct {
	Style *string `json:"style,omitempty"`
	Hint  *string `json:"hint,omitempty"`
}

type description struct {
	Description string `json:"description"`
}

func (r *SessionService) New(ctx context.Context, opts ...RequestOption) (*Session, error) {
	var result Session

	if err := r.doJson(ctx, "POST", "", nil, &result, opts...); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *SessionService) Get(ctx context.Context, id string, opts ...RequestOption) (*Session, error) {
	var result Session

	if err := r.doJson(ctx, "GET", "/"+url.PathEscape(id), nil, &result, opts...); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *SessionService) Delete(ctx context.Context, id string, opts ...RequestOption) error {
	return r.doJson(ctx, "DELETE", "/"+url.PathEscape(id), nil, nil, opts...)
}

// UploadSketch uploads an encoded image file as the session's sketch.
func (r *SessionService) UploadSketch(ctx context.Context, id string, file File, opts ...RequestOption) (*Session, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	name := file.Name

	if name == "" {
		name = "sketch.png"
	}

	part, err := w.CreateFormFile("file", name)

	if err != nil {
		return nil, err
	}

	if _, err := part.Write(file.Content); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	resp, err := r.do(ctx, "PUT", "/"+url.PathEscape(id)+"/sketch", w.FormDataContentType(), &body, opts...)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	var result Session

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

// UploadCanvas uploads a raw RGBA canvas buffer as the session's sketch.
func (r *SessionService) UploadCanvas(ctx context.Context, id string, width, height int, pix []byte, opts ...RequestOption) (*Session, error) {
	query := url.Values{}
	query.Set("width", strconv.Itoa(width))
	query.Set("height", strconv.Itoa(height))

	resp, err := r.do(ctx, "PUT", "/"+url.PathEscape(id)+"/sketch?"+query.Encode(), "application/octet-stream", bytes.NewReader(pix), opts...)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	var result Session

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *SessionService) SetOptions(ctx context.Context, id string, options SessionOptions, opts ...RequestOption) (*Session, error) {
	var result Session

	if err := r.doJson(ctx, "PUT", "/"+url.PathEscape(id)+"/options", options, &result, opts...); err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *SessionService) Describe(ctx context.Context, id string, opts ...RequestOption) (string, error) {
	var result description

	if err := r.doJson(ctx, "POST", "/"+url.PathEscape(id)+"/description", nil, &result, opts...); err != nil {
		return "", err
	}

	return result.Description, nil
}

func (r *SessionService) EditDescription(ctx context.Context, id, text string, opts ...RequestOption) error {
	return r.doJson(ctx, "PUT", "/"+url.PathEscape(id)+"/description", description{Description: text}, nil, opts...)
}

// Generate renders the session's description and returns the PNG.
func (r *SessionService) Generate(ctx context.Context, id string, opts ...RequestOption) (*File, error) {
	return r.doFile(ctx, "POST", "/"+url.PathEscape(id)+"/image", opts...)
}

// Convert describes and renders the sketch in one call and returns the PNG.
func (r *SessionService) Convert(ctx context.Context, id string, opts ...RequestOption) (*File, error) {
	return r.doFile(ctx, "POST", "/"+url.PathEscape(id)+"/convert", opts...)
}

// Download returns the last generated image.
func (r *SessionService) Download(ctx context.Context, id string, opts ...RequestOption) (*File, error) {
	return r.doFile(ctx, "GET", "/"+url.PathEscape(id)+"/image", opts...)
}

func (r *SessionService) doFile(ctx context.Context, method, path string, opts ...RequestOption) (*File, error) {
	resp, err := r.do(ctx, method, path, "", nil, opts...)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	file := &File{
		Content:     data,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		file.Name = params["filename"]
	}

	return file, nil
}

func (r *SessionService) doJson(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	var body io.Reader
	var contentType string

	if in != nil {
		data, err := json.Marshal(in)

		if err != nil {
			return err
		}

		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	resp, err := r.do(ctx, method, path, contentType, body, opts...)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (r *SessionService) do(ctx context.Context, method, path, contentType string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, err := http.NewRequestWithContext(ctx, method, c.URL+"/v1/sessions"+path, body)

	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, convertError(resp)
	}

	return resp, nil
}
