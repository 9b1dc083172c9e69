package document

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eduvault/service/internal/response"
)

// Handler holds HTTP handlers for document read endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new document Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type listResponse struct {
	Count int         `json:"count"`
	Items []*ListItem `json:"items"`
}

// List godoc
//
//	@Summary		List metadata documents
//	@Description	Lists document projections across one entity kind or all of them, newest first.
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			class_id	query		string	true	"10/11/12/all"
//	@Param			type_name	query		string	true	"subject|topic|lesson|chunk|keyword|all"
//	@Param			q			query		string	false	"case-insensitive match on name/url"
//	@Param			limit		query		int		false	"1-5000, default 500"
//	@Success		200			{object}	listResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		401			{object}	response.ErrorBody
//	@Failure		403			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Router			/admin/documents [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	classID := r.URL.Query().Get("class_id")
	typeName := r.URL.Query().Get("type_name")
	if classID == "" || typeName == "" {
		response.BadRequest(w, "class_id and type_name are required")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))

	items, err := h.svc.ListDocuments(r.Context(), classID, typeName, r.URL.Query().Get("q"), limit)
	if errors.Is(err, ErrInvalidType) {
		response.BadRequest(w, err.Error())
		return
	}
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, listResponse{Count: len(items), Items: items})
}

// Detail godoc
//
//	@Summary		Get a metadata document
//	@Description	Returns the detail projection for one document. Without type_name all collections are probed.
//	@Tags			documents
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id			path		string	true	"document id"
//	@Param			type_name	query		string	false	"subject|topic|lesson|chunk|keyword"
//	@Success		200			{object}	DetailItem
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		401			{object}	response.ErrorBody
//	@Failure		403			{object}	response.ErrorBody
//	@Failure		404			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Router			/admin/documents/{id} [get]
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "id")

	item, err := h.svc.GetDocument(r.Context(), docID, r.URL.Query().Get("type_name"))
	switch {
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidType):
		response.BadRequest(w, err.Error())
		return
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "document not found")
		return
	case err != nil:
		response.InternalError(w, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, item)
}

// parseLimit clamps the limit query parameter to 1..5000, defaulting to 500.
func parseLimit(raw string) int64 {
	if raw == "" {
		return 500
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 500
	}
	if n > 5000 {
		return 5000
	}
	return n
}
