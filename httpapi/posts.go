package httpapi

import (
	"net/http"
)

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.engine.ListPosts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (h *Handler) postDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.engine.PostDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w)
		return
	}
	post, fieldErrs, err := h.engine.CreatePost(r.Context(), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"post": post, "errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post, "created": true})
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w)
		return
	}
	post, fieldErrs, err := h.engine.UpdatePost(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"post": post, "errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post, "updated": true})
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request) {
	post, deps, err := h.engine.DeletePost(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if deps != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"post":       post,
			"commentsId": deps.CommentIDs,
			"error":      deps.BlockMessage("post"),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"post": post, "deleted": true})
}
