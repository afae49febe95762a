package api

import (
	"net/http"

	"github.com/adrianliechti/sketchify/pkg/imaging"
)

func (h *Handler) handleImageSubmit(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	result, err := session.SubmitGeneration(r.Context())

	if err != nil {
		writeSessionError(w, err)
		return
	}

	data, err := imaging.EncodePNG(result)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writePNG(w, data, "")
}

func (h *Handler) handleImageDownload(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	artifact, err := session.Artifact()

	if err != nil {
		writeSessionError(w, err)
		return
	}

	writePNG(w, artifact.Content, artifact.Name)
}

func (h *Handler) handleConvert(w http.ResponseWriter, r *http.Request) {
	session, err := h.session(r)

	if err != nil {
		writeSessionError(w, err)
		return
	}

	job, err := session.Convert(r.Context())

	if err != nil {
		writeSessionError(w, err)
		return
	}

	if err := job.Wait(); err != nil {
		writeSessionError(w, err)
		return
	}

	data, err := imaging.EncodePNG(job.Image())

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writePNG(w, data, "")
}
