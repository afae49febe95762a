package api

import (
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/auth"
	"github.com/adrianliechti/sketchify/pkg/sketch"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleStyles(w http.ResponseWriter, r *http.Request) {
	writeJson(w, h.styles)
}

func (h *Handler) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	session := h.store.Create(auth.User(r.Context()))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	writeJsonBody(w, toSession(session.State()))
}

func (h *Handler) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJson(w, toSession(session.State()))
}

func (h *Handler) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(id, auth.User(r.Context())); err != nil {
		writeSessionError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSketch(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	source, err := h.readSketch(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := session.SetSketch(source); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJson(w, toSession(session.State()))
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	var options SessionOptions

	if err := readJson(r, &options); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if options.Style != nil {
		if err := session.SetStyle(*options.Style); err != nil {
			writeSessionError(w, err)
			return
		}
	}

	if options.Hint != nil {
		session.SetHint(*options.Hint)
	}

	writeJson(w, toSession(session.State()))
}

func toSession(state sketch.State) Session {
	return Session{
		ID: state.ID,

		Style: state.Style,
		Hint:  state.Hint,

		Description: state.Description,

		HasSketch: state.HasSketch,
		HasImage:  state.HasImage,

		Busy: state.Busy,
	}
}
