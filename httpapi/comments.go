package httpapi

import (
	"net/http"
)

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.engine.ListComments(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *Handler) commentDetail(w http.ResponseWriter, r *http.Request) {
	comment, err := h.engine.GetComment(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w)
		return
	}
	comment, fieldErrs, err := h.engine.CreateComment(r.Context(), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"comment": comment, "errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": comment, "created": true})
}

func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w)
		return
	}
	comment, fieldErrs, err := h.engine.UpdateComment(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"comment": comment, "errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": comment, "updated": true})
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.engine.DeleteComment(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"comment": comment, "deleted": true})
}
