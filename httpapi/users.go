package httpapi

import (
	"net/http"
)

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.engine.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) userDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.engine.UserDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w)
		return
	}
	user, fieldErrs, err := h.engine.CreateUser(r.Context(), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"user": user, "errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "created": true})
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		badRequest(w)
		return
	}
	user, fieldErrs, err := h.engine.UpdateUser(r.Context(), r.PathValue("id"), fields)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"user": user, "errors": fieldErrs})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "updated": true})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	user, deps, err := h.engine.DeleteUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if deps != nil {
		body := map[string]any{"user": user, "error": deps.BlockMessage("user")}
		if len(deps.PostIDs) > 0 {
			body["postsId"] = deps.PostIDs
		}
		if len(deps.CommentIDs) > 0 {
			body["commentsId"] = deps.CommentIDs
		}
		writeJSON(w, http.StatusOK, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": user, "deleted": true})
}
