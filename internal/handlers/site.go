package handlers

import (
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"publish/internal/logger"
	"publish/internal/models"
	"publish/internal/render"
	"publish/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// SiteHandler serves the HTML side: the landing page and published pages.
type SiteHandler struct {
	svc    services.PageService
	tmpl   *template.Template
	static fs.FS
}

func NewSiteHandler(svc services.PageService, tmpl *template.Template, static fs.FS) *SiteHandler {
	return &SiteHandler{svc: svc, tmpl: tmpl, static: static}
}

func (h *SiteHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, h.static, "index.html")
}

func (h *SiteHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("User-agent: *\nDisallow: /api\n"))
}

func (h *SiteHandler) Static() http.Handler {
	return http.StripPrefix("/s/", http.FileServer(http.FS(h.static)))
}

// Page renders the published page at /{name}.
func (h *SiteHandler) Page(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	log := logger.WithCtx(r.Context()).With(zap.String("name", name))

	page, err := h.svc.GetByName(r.Context(), name)
	if errors.Is(err, services.ErrPageNotFound) {
		log.Debug("page not found")
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error("load page failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	content, err := render.Markdown(page.Content)
	if err != nil {
		log.Error("render markdown failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := struct {
		Page    *models.Page
		Content template.HTML
	}{Page: page, Content: content}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		log.Error("execute template failed", zap.Error(err))
	}
}
