package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gobenford/app"
	"gobenford/internal"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App is the web front end for the analysis service
type App struct {
	router       *chi.Mux
	service      *app.AnalysisService
	templates    *template.Template
	logger       *internal.Logger
	maxUpload    int64
	historyLimit int
}

// Config holds UI application configuration
type Config struct {
	MaxUploadBytes int64
	HistoryLimit   int
}

// NewApp creates a new UI application
func NewApp(service *app.AnalysisService, config Config, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}

	templates, err := template.New("").ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:       chi.NewRouter(),
		service:      service,
		templates:    templates,
		logger:       logger.WithComponent("http"),
		maxUpload:    config.MaxUploadBytes,
		historyLimit: config.HistoryLimit,
	}
	if a.historyLimit <= 0 {
		a.historyLimit = 50
	}

	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Pages
	a.router.Get("/", a.handleIndex)
	a.router.Post("/results", a.handleResults)

	// JSON API
	a.router.Post("/api/analyses", a.handleCreateAnalysis)
	a.router.Get("/api/analyses", a.handleListAnalyses)
	a.router.Get("/api/analyses/{id}", a.handleGetAnalysis)

	a.router.Get("/healthz", a.handleHealth)
}

// Handler exposes the router for an http.Server
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template %s: %v", templateName, err)
	}
}
