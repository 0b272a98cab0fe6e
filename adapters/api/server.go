// Package api exposes the fitting and significance pipeline over HTTP.
// Statistical non-significance is a data outcome, never an HTTP error.
package api

import (
	"log"

	"github.com/gin-gonic/gin"

	"golattice/app"
	"golattice/internal/config"
	"golattice/ports"
)

// Server represents the HTTP surface over the resonance pipeline.
type Server struct {
	router   *gin.Engine
	service  *app.ResonanceService
	baseline ports.BaselinePort
	// repo is optional; without it the run endpoints answer 404.
	repo     ports.ReportRepository
	defaults config.StudyConfig
}

// NewServer wires the routes. repo may be nil.
func NewServer(service *app.ResonanceService, baseline ports.BaselinePort, repo ports.ReportRepository, defaults config.StudyConfig) *Server {
	s := &Server{
		router:   gin.Default(),
		service:  service,
		baseline: baseline,
		repo:     repo,
		defaults: defaults,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/fit", s.handleFit)
		api.POST("/baseline", s.handleBaseline)
		api.POST("/study", s.handleStudy)
		api.GET("/runs", s.handleListRuns)
		api.GET("/runs/:id", s.handleGetRun)
		api.GET("/runs/:id/report", s.handleRunReport)
	}
}

// Run starts the server on the given port.
func (s *Server) Run(port string) error {
	log.Printf("lattice API listening on :%s", port)
	return s.router.Run(":" + port)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
