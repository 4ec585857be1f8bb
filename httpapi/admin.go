package httpapi

import (
	"net/http"
)

func (h *Handler) adminIndex(w http.ResponseWriter, r *http.Request) {
	counts, err := h.engine.CountAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handler) adminWipe(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.WipeAll(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users":    result.Users,
		"posts":    result.Posts,
		"comments": result.Comments,
		"deleted":  true,
	})
}
