// Package devserver serves an in-memory task API for local development.
package devserver

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Task is the JSON shape served by the API.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Options configures a Server.
type Options struct {
	// RejectDuplicates answers 409 when a created title already exists.
	RejectDuplicates bool

	// Seed is the initial collection. Tasks without an ID get one.
	Seed []Task
}

// Server is the dev task API.
type Server struct {
	router *gin.Engine
	opts   Options

	mu    sync.Mutex
	tasks []Task
}

// SampleTasks returns a small collection that includes the legacy
// "complete" status some older backends still return.
func SampleTasks() []Task {
	return []Task{
		{Title: "Write project plan", Description: "Outline milestones for Q3", Status: "pending"},
		{Title: "Review pull requests", Description: "Go through the open review queue", Status: "completed"},
		{Title: "Update dependencies", Description: "Bump minor versions", Status: "complete"},
	}
}

// NewServer creates a dev server.
func NewServer(opts Options) *Server {
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router: router,
		opts:   opts,
	}
	for _, t := range opts.Seed {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		s.tasks = append(s.tasks, t)
	}

	router.GET("/tasks", s.handleList)
	router.POST("/tasks", s.handleCreate)
	router.PATCH("/tasks/:id", s.handleUpdate)
	router.DELETE("/tasks/:id", s.handleDelete)

	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Tasks returns a copy of the current collection.
func (s *Server) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Server) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, s.Tasks())
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if req.Status == "" {
		req.Status = "pending"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.RejectDuplicates && s.hasTitleLocked(req.Title) {
		c.JSON(http.StatusConflict, gin.H{"error": "a task with this title already exists"})
		return
	}

	task := Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	s.tasks = append(s.tasks, task)
	c.JSON(http.StatusCreated, task)
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (s *Server) handleUpdate(c *gin.Context) {
	id := c.Param("id")
	var req updateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if req.Title != nil {
			s.tasks[i].Title = *req.Title
		}
		if req.Description != nil {
			s.tasks[i].Description = *req.Description
		}
		if req.Status != nil {
			s.tasks[i].Status = *req.Status
		}
		c.JSON(http.StatusOK, s.tasks[i])
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
}

func (s *Server) hasTitleLocked(title string) bool {
	want := strings.ToLower(strings.TrimSpace(title))
	for _, t := range s.tasks {
		if strings.ToLower(strings.TrimSpace(t.Title)) == want {
			return true
		}
	}
	return false
}
