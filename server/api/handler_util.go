package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/adrianliechti/sketchify/pkg/auth"
	"github.com/adrianliechti/sketchify/pkg/imaging"
	"github.com/adrianliechti/sketchify/pkg/provider"
	"github.com/adrianliechti/sketchify/pkg/sketch"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

func (h *Handler) session(r *http.Request) (*sketch.Session, error) {
	id := chi.URLParam(r, "id")
	return h.store.Get(id, auth.User(r.Context()))
}

func (h *Handler) readFile(r *http.Request) (*provider.File, error) {
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()

		data, err := io.ReadAll(file)

		if err != nil {
			return nil, err
		}

		return &provider.File{
			Name: header.Filename,

			Content:     data,
			ContentType: header.Header.Get("Content-Type"),
		}, nil
	}

	contentType := r.Header.Get("Content-Type")
	contentDisposition := r.Header.Get("Content-Disposition")

	_, params, _ := mime.ParseMediaType(contentDisposition)

	filename := params["filename*"]
	filename = strings.TrimPrefix(filename, "UTF-8''")
	filename = strings.TrimPrefix(filename, "utf-8''")

	if filename == "" {
		filename = params["filename"]
	}

	data, err := io.ReadAll(r.Body)

	if err != nil {
		return nil, err
	}

	return &provider.File{
		Name: filename,

		Content:     data,
		ContentType: contentType,
	}, nil
}

// readSketch reads a raw canvas buffer when width and height are given for
// an octet-stream body, and an encoded image upload otherwise.
func (h *Handler) readSketch(r *http.Request) (imaging.Source, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/octet-stream" && r.URL.Query().Has("width") {
		width, err := strconv.Atoi(r.URL.Query().Get("width"))

		if err != nil {
			return nil, errors.New("invalid width")
		}

		height, err := strconv.Atoi(r.URL.Query().Get("height"))

		if err != nil {
			return nil, errors.New("invalid height")
		}

		data, err := io.ReadAll(r.Body)

		if err != nil {
			return nil, err
		}

		return imaging.NewDrawn(width, height, data)
	}

	file, err := h.readFile(r)

	if err != nil {
		return nil, err
	}

	return imaging.Decode(bytes.NewReader(file.Content))
}

func readJson(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()

	return dec.Decode(v)
}

func writePNG(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))

	if filename != "" {
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": filename,
		}))
	}

	w.Write(data)
}

// writeSessionError maps session and service failures to HTTP responses.
func writeSessionError(w http.ResponseWriter, err error) {
	var serviceErr *provider.ServiceError

	if errors.As(err, &serviceErr) {
		code := http.StatusBadGateway

		if serviceErr.Kind == provider.ErrorKindConnectionFailed {
			code = http.StatusGatewayTimeout
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)

		writeJsonBody(w, ErrorResponse{
			Error: Error{
				Type:    errorType(code),
				Kind:    string(serviceErr.Kind),
				Message: serviceErr.Message,
			},
		})

		return
	}

	switch {
	case errors.Is(err, sketch.ErrNotFound):
		writeError(w, http.StatusNotFound, err)

	case errors.Is(err, sketch.ErrBusy):
		writeError(w, http.StatusConflict, err)

	case errors.Is(err, sketch.ErrInvalidStyle):
		writeError(w, http.StatusBadRequest, err)

	case sketch.IsWarning(err):
		writeError(w, http.StatusPreconditionFailed, err)

	case errors.Is(err, sketch.ErrClosed):
		writeError(w, http.StatusGone, err)

	case errors.Is(err, imaging.ErrInvalidCanvas), errors.Is(err, imaging.ErrInvalidImage), errors.Is(err, imaging.ErrImageTooLarge):
		writeError(w, http.StatusBadRequest, err)

	case errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, err)

	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJsonBody(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}
