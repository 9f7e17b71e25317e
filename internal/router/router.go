package router

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/BerylCAtieno/paper-simplifier/internal/config"
	"github.com/BerylCAtieno/paper-simplifier/internal/handlers"
	"github.com/BerylCAtieno/paper-simplifier/internal/middleware"
	"github.com/BerylCAtieno/paper-simplifier/internal/services"
	"github.com/BerylCAtieno/paper-simplifier/internal/utils"
)

func NewRouter(paperService services.PaperService, cfg *config.Config, logger *utils.Logger) http.Handler {
	r := mux.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Recovery(logger))

	paperHandler := handlers.NewPaperHandler(paperService, cfg.MaxFileSize, logger)

	api := r.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// Paper endpoints
	api.HandleFunc("/process", paperHandler.ProcessPaper).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/chat", paperHandler.Chat).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/recent", paperHandler.RecentPapers).Methods(http.MethodGet)
	api.HandleFunc("/stats", paperHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/categories", paperHandler.Categories).Methods(http.MethodGet)
	api.HandleFunc("/papers/{category}", paperHandler.PapersByCategory).Methods(http.MethodGet)
	api.HandleFunc("/queue", paperHandler.QueueStatus).Methods(http.MethodGet)

	// Frontend
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir))).Methods(http.MethodGet, http.MethodHead)
	}

	return r
}
