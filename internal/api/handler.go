package api

import (
	"errors"
	"net/http"

	"github.com/fuelradar/backend-go/internal/locate"
	"github.com/fuelradar/backend-go/internal/theme"
	"github.com/fuelradar/backend-go/internal/view"
	"github.com/gin-gonic/gin"
)

// Server exposes the coordinator's view model and its callbacks over HTTP.
// The presentation layer polls the view and posts interactions back.
type Server struct {
	coordinator *view.Coordinator
	themes      *theme.Service
	engine      *gin.Engine
}

func NewServer(coordinator *view.Coordinator, themes *theme.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{coordinator: coordinator, themes: themes, engine: engine}
	s.registerRoutes()
	return s
}

// Engine exposes the underlying gin engine (for tests and for main).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	api.GET("/view", s.handleView)
	api.POST("/locate", s.handleLocate)
	api.POST("/locate/retry", s.handleLocate)
	api.POST("/locate/manual", s.handleManualCoordinate)
	api.POST("/locate/manual/request", s.handleRequestManualEntry)
	api.POST("/locate/manual/cancel", s.handleCancelManualEntry)
	api.POST("/stations/select", s.handleSelectStation)
	api.POST("/theme/toggle", s.handleToggleTheme)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type viewResponse struct {
	view.Snapshot
	CenterOnUser bool       `json:"centerOnUser"`
	Theme        theme.Mode `json:"theme"`
}

// handleView returns the current snapshot. Reading it consumes the one-shot
// centering signal, so exactly one poll observes centerOnUser=true per
// first resolution.
func (s *Server) handleView(c *gin.Context) {
	c.JSON(http.StatusOK, viewResponse{
		Snapshot:     s.coordinator.Snapshot(),
		CenterOnUser: s.coordinator.TakeCenterOnUser(),
		Theme:        s.themes.Mode(),
	})
}

func (s *Server) handleLocate(c *gin.Context) {
	s.coordinator.RetryLocate()
	c.JSON(http.StatusAccepted, gin.H{"status": "locating"})
}

type manualCoordinateRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lon *float64 `json:"lon" binding:"required"`
}

func (s *Server) handleManualCoordinate(c *gin.Context) {
	var req manualCoordinateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lon are required numbers"})
		return
	}

	if err := s.coordinator.SubmitManualCoordinate(*req.Lat, *req.Lon); err != nil {
		var vErr *locate.ValidationError
		if errors.As(err, &vErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not apply coordinate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}

func (s *Server) handleRequestManualEntry(c *gin.Context) {
	s.coordinator.RequestManualEntry()
	c.JSON(http.StatusOK, gin.H{"status": "manual entry"})
}

func (s *Server) handleCancelManualEntry(c *gin.Context) {
	s.coordinator.CancelManualEntry()
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

type selectStationRequest struct {
	ID string `json:"id" binding:"required"`
}

// handleSelectStation accepts ids like "node/101"; an id not present in the
// current ranking is a no-op rather than an error.
func (s *Server) handleSelectStation(c *gin.Context) {
	var req selectStationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	s.coordinator.SelectStation(req.ID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleToggleTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": s.themes.Toggle()})
}
