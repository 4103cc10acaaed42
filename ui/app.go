package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"sheetsplit/app"
	"sheetsplit/ports"
)

//go:embed templates/*.html
var templateFiles embed.FS

// introMarkdown is shown above the upload form
const introMarkdown = `This tool will:

- Keep only the **first 22 rows** of the workbook (1 header row + 21 data rows).
- Split those **21 data rows** into **3 parts**.
- Produce 3 Excel files ` + "`1.xlsx`, `2.xlsx`, `3.xlsx`" + `, each repeating the header row.
`

// App represents the browser-facing upload application
type App struct {
	router    *chi.Mux
	service   *app.SplitService
	store     ports.ResultStore
	templates *template.Template
	gate      *semaphore.Weighted
	intro     template.HTML
	config    Config
	logger    *zap.Logger
}

// Config holds UI application configuration
type Config struct {
	MaxUploadBytes int64
	MaxConcurrent  int64
	MetricsPath    string
	MetricsHandler http.Handler // nil disables the metrics route
}

// NewApp creates a new UI application
func NewApp(config Config, service *app.SplitService, store ports.ResultStore, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}

	templates, err := template.New("").Funcs(templateFuncs()).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		store:     store,
		templates: templates,
		gate:      semaphore.NewWeighted(config.MaxConcurrent),
		intro:     template.HTML(markdown.ToHTML([]byte(introMarkdown), nil, nil)),
		config:    config,
		logger:    logger.Named("ui"),
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(a.requestLogger)
	a.router.Use(middleware.Recoverer)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/upload", a.handleUpload)
	a.router.Get("/downloads/{batch}/{name}", a.handleDownload)
	a.router.Get("/healthz", a.handleHealth)

	if a.config.MetricsHandler != nil {
		path := a.config.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		a.router.Handle(path, a.config.MetricsHandler)
	}
}

// ServeHTTP makes App an http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}
