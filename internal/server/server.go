package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/cobalt/internal/core"
	"github.com/agenthands/cobalt/internal/logging"
)

// Server exposes the question-answering flow over HTTP. Sessions are held
// in memory, keyed by id, and vanish on restart like any other transcript.
type Server struct {
	Engine *core.Engine
	Log    *logging.Logger

	mu       sync.Mutex
	sessions map[string]*core.Session
}

func New(engine *core.Engine, log *logging.Logger) *Server {
	return &Server{
		Engine:   engine,
		Log:      log,
		sessions: make(map[string]*core.Session),
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/load", s.Load)
	r.POST("/sessions", s.CreateSession)
	r.DELETE("/sessions/:id", s.DeleteSession)
	r.POST("/sessions/:id/ask", s.Ask)
	r.GET("/sessions/:id/history", s.History)

	return r
}

func (s *Server) Health(c *gin.Context) {
	if err := s.Engine.Store.Ping(c.Request.Context()); err != nil {
		s.Log.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type LoadRequest struct {
	Dir string `json:"dir"`
}

func (s *Server) Load(c *gin.Context) {
	var req LoadRequest
	// The body is optional; an empty one loads the configured directory.
	_ = c.ShouldBindJSON(&req)
	dir := req.Dir
	if dir == "" {
		dir = s.Engine.Config.Data.Dir
	}

	report, err := s.Engine.LoadFixtures(c.Request.Context(), dir)
	if err != nil {
		s.Log.Error("fixture load failed", "dir", dir, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load fixtures"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "loaded": report})
}

func (s *Server) CreateSession(c *gin.Context) {
	session := s.Engine.NewSession()

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"session_id": session.ID})
}

func (s *Server) DeleteSession(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	session.Close()
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

type AskRequest struct {
	Question string `json:"question"`
}

func (s *Server) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	result, err := session.Ask(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusGone, gin.H{"error": "Session is closed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"answer":     result.Answer,
		"context":    result.Context,
	})
}

func (s *Server) History(c *gin.Context) {
	session, ok := s.session(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": session.ID,
		"history":    session.History(),
	})
}

func (s *Server) session(id string) (*core.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}
