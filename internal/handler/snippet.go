package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/devsync/devsync-go/internal/middleware"
	"github.com/devsync/devsync-go/internal/model"
	"github.com/devsync/devsync-go/internal/service"
	"github.com/go-chi/chi/v5"
)

// SnippetHandler handles HTTP requests for snippet operations.
type SnippetHandler struct {
	service *service.SnippetService
}

// NewSnippetHandler creates a new SnippetHandler.
func NewSnippetHandler(svc *service.SnippetService) *SnippetHandler {
	return &SnippetHandler{service: svc}
}

// HandleListPublic handles GET /api/snippets requests.
func (h *SnippetHandler) HandleListPublic(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.service.ListPublic(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleListOwned handles GET /api/snippets/my-snippets requests.
func (h *SnippetHandler) HandleListOwned(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	snippets, err := h.service.ListOwned(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleSearch handles GET /api/snippets/search?q= requests.
func (h *SnippetHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleGet handles GET /api/snippets/{id} requests. A successful read
// counts as a view.
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeSnippetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate handles POST /api/snippets requests.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CreateSnippetRequest
	if err := decodeBody(w, r, &req, false); err != nil {
		writeDecodeError(w, err)
		return
	}

	snippet, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		writeSnippetError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate handles PUT /api/snippets/{id} requests with a strict
// allow-listed patch body.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.UpdateSnippetRequest
	if err := decodeBody(w, r, &req, true); err != nil {
		writeDecodeError(w, err)
		return
	}

	snippet, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		writeSnippetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete handles DELETE /api/snippets/{id} requests.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeSnippetError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ackResponse("snippet deleted"))
}

// HandleDownload handles GET /api/snippets/download/{id} requests. The
// snippet body is served as a plain-text attachment and the download
// counter is bumped.
func (h *SnippetHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.service.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeSnippetError(w, err)
		return
	}

	filename := downloadFilename(snippet.Title, snippet.Language)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(snippet.Snippet))
}

// downloadFilename derives the attachment name as <title>.<language>,
// stripping characters that would break the header value.
func downloadFilename(title, language string) string {
	clean := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r < 0x20 || r == '"' || r == '\\' || r == '/' {
				return '_'
			}
			return r
		}, s)
	}
	return clean(title) + "." + clean(language)
}

// writeSnippetError maps snippet service errors to HTTP statuses.
func writeSnippetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSnippetFieldsRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrSnippetNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotSnippetOwner):
		writeJSON(w, http.StatusForbidden, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
