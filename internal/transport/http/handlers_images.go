package httptransport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dErrors "secureeye/pkg/domain-errors"
	"secureeye/pkg/platform/httputil"
	"secureeye/pkg/platform/sentinel"
)

// HandleImage handles GET /images/{key}?token=... — the signed view link
// embedded in notifications. An invalid or expired token answers 404, same
// as a missing image, so the endpoint does not reveal which keys exist.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	token := r.URL.Query().Get("token")

	if err := h.tokens.Validate(token, key); err != nil {
		httputil.WriteError(w, err)
		return
	}

	data, err := h.images.Get(r.Context(), key)
	if errors.Is(err, sentinel.ErrNotFound) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "image not found"))
		return
	}
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "image storage unavailable"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleHealth handles GET /healthz.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
