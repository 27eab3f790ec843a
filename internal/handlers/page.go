package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"publish/internal/logger"
	"publish/internal/models"
	"publish/internal/services"
	helpers "publish/internal/utils/helpres"

	"go.uber.org/zap"
)

// Envelope messages shown to the author as-is.
const (
	msgSaved         = "Saved"
	msgInvalidJSON   = "Invalid JSON"
	msgNoTitle       = "Provide a title"
	msgNoID          = "Provide an id"
	msgPageNotFound  = "This page does not exist."
	msgUnknownName   = "This page name does not exist."
	msgPermission    = "Permission denied."
	msgInternalError = "Internal Error. Please try again later."
)

const maxPageBodyBytes = 1 << 20

type PageHandler struct {
	svc services.PageService
}

func NewPageHandler(svc services.PageService) *PageHandler {
	return &PageHandler{svc: svc}
}

// Get godoc
// @Summary      Load a page for editing
// @Description  Returns every field of the page whose secret id matches.
// @Tags         api
// @Produce      json
// @Param        id   query     string  true  "Page id (edit key)"
// @Success      200  {object}  helpers.Response{payload=models.Page}
// @Failure      400  {object}  helpers.Response
// @Failure      404  {object}  helpers.Response
// @Router       /api [get]
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")

	page, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusOK, "", page)
}

// Create godoc
// @Summary      Create a page
// @Description  Stores a new page. The server picks the id and the public name.
// @Tags         api
// @Accept       json
// @Produce      json
// @Param        body  body      models.SavePageRequest  true  "Draft fields"
// @Success      200   {object}  helpers.Response{payload=models.SavedPage}
// @Failure      400   {object}  helpers.Response
// @Router       /api [put]
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSaveRequest(w, r)
	if !ok {
		return
	}

	saved, err := h.svc.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusOK, msgSaved, saved)
}

// Update godoc
// @Summary      Update a page
// @Description  Overwrites the editable fields of the page named in the body; id must match.
// @Tags         api
// @Accept       json
// @Produce      json
// @Param        body  body      models.SavePageRequest  true  "Draft fields plus id and name"
// @Success      200   {object}  helpers.Response{payload=models.SavedPage}
// @Failure      400   {object}  helpers.Response
// @Failure      403   {object}  helpers.Response
// @Failure      404   {object}  helpers.Response
// @Router       /api [post]
func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSaveRequest(w, r)
	if !ok {
		return
	}

	saved, err := h.svc.Update(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	helpers.JSON(w, http.StatusOK, msgSaved, saved)
}

func decodeSaveRequest(w http.ResponseWriter, r *http.Request) (models.SavePageRequest, bool) {
	var req models.SavePageRequest
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPageBodyBytes))
	if err := dec.Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("invalid JSON in save request", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return req, false
	}
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	return req, true
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNoTitle):
		helpers.Error(w, http.StatusBadRequest, msgNoTitle)
	case errors.Is(err, services.ErrNoID):
		helpers.Error(w, http.StatusBadRequest, msgNoID)
	case errors.Is(err, services.ErrPageNotFound):
		helpers.Error(w, http.StatusNotFound, msgPageNotFound)
	case errors.Is(err, services.ErrUnknownName):
		helpers.Error(w, http.StatusNotFound, msgUnknownName)
	case errors.Is(err, services.ErrPermissionDenied):
		helpers.Error(w, http.StatusForbidden, msgPermission)
	default:
		logger.WithCtx(r.Context()).Error("page request failed", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, msgInternalError)
	}
}
