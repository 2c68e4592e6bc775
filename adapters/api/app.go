package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"peoplestats/app"
	"peoplestats/internal"
)

// App is the JSON read surface over the analysis engines.
type App struct {
	router *chi.Mux
	svc    *app.AnalysisService
	batch  *app.BatchRunner
	log    *internal.Logger
}

// NewApp wires routes and middleware around the analysis service.
func NewApp(svc *app.AnalysisService, batch *app.BatchRunner, log *internal.Logger) *App {
	a := &App{
		router: chi.NewRouter(),
		svc:    svc,
		batch:  batch,
		log:    log,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Get("/api/people", a.handlePeople)
	a.router.Get("/api/people/{person}/years", a.handlePersonYears)
	a.router.Get("/api/people/{person}/history", a.handleHistory)
	a.router.Get("/api/people/{person}/years/{year}/behaviors", a.handleBehaviors)
	a.router.Get("/api/people/{person}/years/{year}/patterns", a.handlePatterns)

	a.router.Get("/api/years", a.handleYears)
	a.router.Get("/api/years/{year}/criteria", a.handleYearCriteria)
	a.router.Get("/api/years/{year}/comparison", a.handleYearComparison)

	a.router.Post("/api/batch", a.handleBatch)
}

// Handler exposes the router for serving and tests.
func (a *App) Handler() http.Handler {
	return a.router
}

// Start runs the HTTP server on the given port, blocking until it exits.
func (a *App) Start(port string) error {
	a.log.Info("listening on :%s", port)
	return http.ListenAndServe(":"+port, a.router)
}
