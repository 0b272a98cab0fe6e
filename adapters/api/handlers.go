package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"golattice/app"
	"golattice/domain/core"
	"golattice/domain/lattice"
	"golattice/ports"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fitRequest fits one value. Base and MMax fall back to the configured
// study defaults when omitted.
type fitRequest struct {
	Value float64 `json:"value" binding:"required"`
	Base  float64 `json:"base"`
	MMax  int     `json:"m_max"`
}

func (s *Server) handleFit(c *gin.Context) {
	var req fitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := lattice.SearchConfig{Base: req.Base, MMax: req.MMax}
	if cfg.Base == 0 {
		cfg.Base = s.defaults.Base
	}
	if cfg.MMax == 0 {
		cfg.MMax = s.defaults.MMax
	}

	single, err := lattice.FitSingle(req.Value, cfg)
	if err != nil {
		s.renderError(c, err)
		return
	}
	double, err := lattice.FitDouble(req.Value, cfg)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"single": single, "double": double})
}

func (s *Server) handleBaseline(c *gin.Context) {
	var req ports.BaselineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Search.Base == 0 {
		req.Search.Base = s.defaults.Base
	}
	if req.Search.MMax == 0 {
		req.Search.MMax = s.defaults.MMax
	}

	estimate, err := s.baseline.Sample(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, estimate)
}

func (s *Server) handleStudy(c *gin.Context) {
	req := ports.StudyRequest{
		Search:    lattice.SearchConfig{Base: s.defaults.Base, MMax: s.defaults.MMax},
		Mode:      lattice.ModeSingle,
		Threshold: s.defaults.Threshold,
		AltRate:   s.defaults.AltRate,
		Samples:   s.defaults.Samples,
		LogMin:    s.defaults.LogMin,
		LogMax:    s.defaults.LogMax,
		Seed:      s.defaults.Seed,
	}
	// An empty body runs the configured defaults; a JSON body overrides
	// individual fields.
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := s.service.RunStudy(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	if s.repo != nil {
		if err := s.repo.Save(c.Request.Context(), result); err != nil {
			// The study itself succeeded; archive failure is reported but
			// does not fail the request.
			c.JSON(http.StatusOK, gin.H{"result": result, "archive_error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run archive configured"})
		return
	}
	runs, err := s.repo.ListRecent(c.Request.Context(), 20)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	result, ok := s.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRunReport(c *gin.Context) {
	result, ok := s.loadRun(c)
	if !ok {
		return
	}

	md := app.RenderMarkdown(result)
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	html := markdown.ToHTML([]byte(md), p, renderer)

	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (s *Server) loadRun(c *gin.Context) (*ports.StudyResult, bool) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run archive configured"})
		return nil, false
	}
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	result, err := s.repo.Get(c.Request.Context(), id)
	if err != nil {
		s.renderError(c, err)
		return nil, false
	}
	return result, true
}

// renderError maps the domain error taxonomy onto HTTP status codes.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case core.IsDomainError(err), core.IsConfigError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
