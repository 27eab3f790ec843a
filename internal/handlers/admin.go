package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"publish/internal/logger"
	"publish/internal/services"
	helpers "publish/internal/utils/helpres"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AdminHandler struct {
	svc services.PageService
}

func NewAdminHandler(svc services.PageService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListPages godoc
// @Summary      List pages (admin only)
// @Tags         admin
// @Security     ApiKeyAuth
// @Produce      json
// @Param        limit   query  int  false  "Page size (default 50, max 500)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  helpers.Response{payload=[]models.Page}
// @Failure      401  {string}  string  "unauthorized"
// @Router       /api/admin/pages [get]
func (h *AdminHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	limit := clampAtoi(r.URL.Query().Get("limit"), 50, 1, 500)
	offset := clampAtoi(r.URL.Query().Get("offset"), 0, 0, 1_000_000)

	list, err := h.svc.List(r.Context(), limit, offset)
	if err != nil {
		helpers.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	logger.WithCtx(r.Context()).Info("admin listed pages", zap.Int("count", len(list)))
	helpers.JSON(w, http.StatusOK, "", list)
}

// DeletePage godoc
// @Summary      Delete a page (admin only)
// @Tags         admin
// @Security     ApiKeyAuth
// @Produce      json
// @Param        name  path  string  true  "Page name"
// @Success      200  {object}  helpers.Response
// @Failure      404  {object}  helpers.Response
// @Router       /api/admin/pages/{name} [delete]
func (h *AdminHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	if err := h.svc.Delete(r.Context(), name); err != nil {
		if errors.Is(err, services.ErrPageNotFound) {
			helpers.Error(w, http.StatusNotFound, msgPageNotFound)
			return
		}
		helpers.Error(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	logger.WithCtx(r.Context()).Info("admin deleted page", zap.String("name", name))
	helpers.JSON(w, http.StatusOK, "Deleted", nil)
}

func clampAtoi(s string, def, min, max int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < min {
			return min
		}
		if n > max {
			return max
		}
		return n
	}
	return def
}
