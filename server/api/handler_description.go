package api

import (
	"net/http"
)

func (h *Handler) handleDescriptionSubmit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	description, err := session.SubmitDescription(r.Context())

	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJson(w, Description{
		Description: description,
	})
}

func (h *Handler) handleDescriptionEdit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	var body Description

	if err := readJson(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := session.EditDescription(body.Description); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJson(w, Description{
		Description: session.Description(),
	})
}
