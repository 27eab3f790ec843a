package routes

import (
	"net/http"

	"publish/internal/handlers"
	"publish/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	pageHandler *handlers.PageHandler,
	siteHandler *handlers.SiteHandler,
	adminHandler *handlers.AdminHandler,
	logsHandler *handlers.AdminLogsHandler,
	jwtSecret string,
) {
	router.Use(middleware.RequestID, middleware.Recoverer, middleware.Logging)

	// --- Editor API: one path, the verb picks the operation ---
	router.HandleFunc("/api", pageHandler.Get).Methods(http.MethodGet)
	router.HandleFunc("/api", pageHandler.Create).Methods(http.MethodPut)
	router.HandleFunc("/api", pageHandler.Update).Methods(http.MethodPost)

	// --- Protected by JWT ---
	admin := router.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.JWTAuth(jwtSecret), middleware.OnlyRole("admin"))
	admin.HandleFunc("/pages", adminHandler.ListPages).Methods(http.MethodGet)
	admin.HandleFunc("/pages/{name}", adminHandler.DeletePage).Methods(http.MethodDelete)
	admin.HandleFunc("/logs", logsHandler.GetLogs).Methods(http.MethodGet)

	// --- Site ---
	router.PathPrefix("/s/").Handler(siteHandler.Static())
	router.HandleFunc("/robots.txt", siteHandler.Robots).Methods(http.MethodGet)
	router.HandleFunc("/", siteHandler.Home).Methods(http.MethodGet)
	router.HandleFunc("/{name}", siteHandler.Page).Methods(http.MethodGet)
}
