package api

import (
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/sketch"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	store  *sketch.Store
	styles []string
}

func New(store *sketch.Store, styles []string) (*Handler, error) {
	if len(styles) == 0 {
		styles = sketch.Styles
	}

	h := &Handler{
		store:  store,
		styles: styles,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/styles", h.handleStyles)

	r.Post("/sessions", h.handleSessionCreate)

	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", h.handleSessionGet)
		r.Delete("/", h.handleSessionDelete)

		r.Put("/sketch", h.handleSketch)
		r.Put("/options", h.handleOptions)

		r.Post("/description", h.handleDescriptionSubmit)
		r.Put("/description", h.handleDescriptionEdit)

		r.Post("/image", h.handleImageSubmit)
		r.Get("/image", h.handleImageDownload)

		r.Post("/convert", h.handleConvert)
	})
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	writeJsonBody(w, v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	message := http.StatusText(code)

	if err != nil {
		message = err.Error()
	}

	resp := ErrorResponse{
		Error: Error{
			Type:    errorType(code),
			Message: message,
		},
	}

	writeJsonBody(w, resp)
}

func errorType(code int) string {
	switch code {
	case http.StatusNotFound:
		return "not_found"

	case http.StatusConflict, http.StatusPreconditionFailed:
		return "warning"

	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return "service_error"
	}

	if code >= 500 {
		return "internal_server_error"
	}

	return "invalid_request_error"
}
