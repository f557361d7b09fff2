// Package api exposes the email agent over HTTP. It is a thin caller of
// the agent: request in, structured results and the step trail out.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mailwright/mailwright/pkg/agent"
	"github.com/mailwright/mailwright/pkg/config"
)

// defaultTimeout bounds synchronous send requests.
const defaultTimeout = 30 * time.Second

// Runner executes instructions against providers. Satisfied by
// *agent.Agent; narrowed to an interface so the server is testable
// without a browser.
type Runner interface {
	Execute(ctx context.Context, instruction string, providers []string) ([]agent.Result, error)
}

// SendRequest is the body of POST /send-email.
type SendRequest struct {
	Instruction string `json:"instruction" binding:"required"`
	Provider    string `json:"provider"`
	Async       bool   `json:"async"`
	TimeoutSec  int    `json:"timeout"`
}

// SendResponse is the body returned for send requests.
type SendResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	Results       []agent.Result `json:"results,omitempty"`
	ExecutionTime float64        `json:"execution_time,omitempty"`
	TaskID        string         `json:"task_id,omitempty"`
}

// task tracks one background send.
type task struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"` // "running", "done", "failed"
	Results  []agent.Result `json:"results,omitempty"`
	Error    string         `json:"error,omitempty"`
	Started  time.Time      `json:"started"`
	Finished *time.Time     `json:"finished,omitempty"`
}

// Server is the HTTP API wrapper around the agent.
type Server struct {
	engine *gin.Engine
	runner Runner

	mu    sync.RWMutex
	tasks map[string]*task
}

// NewServer builds the API server and its routes.
func NewServer(runner Runner, cfg config.ServerSection) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		engine.Use(cors.New(corsConfig))
	}

	s := &Server{
		engine: engine,
		runner: runner,
		tasks:  make(map[string]*task),
	}

	engine.GET("/health", s.handleHealth)
	engine.GET("/providers", s.handleProviders)
	engine.POST("/send-email", s.handleSend)
	engine.POST("/send-email-batch", s.handleSendBatch)
	engine.GET("/tasks/:id", s.handleTask)

	return s
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mailwright",
	})
}

func (s *Server) handleProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": agent.Providers()})
}

func (s *Server) handleSend(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Async {
		id := s.startTask(req)
		c.JSON(http.StatusAccepted, SendResponse{
			Success: true,
			Message: "email task queued for background processing",
			TaskID:  id,
		})
		return
	}
	s.runSync(c, req)
}

func (s *Server) runSync(c *gin.Context, req SendRequest) {
	timeout := defaultTimeout
	if req.TimeoutSec > 0 {
		timeout = time.Duration(req.TimeoutSec) * time.Second
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	start := time.Now()
	results, err := s.runner.Execute(ctx, req.Instruction, providerList(req.Provider))
	elapsed := time.Since(start).Seconds()

	if err != nil {
		c.JSON(http.StatusInternalServerError, SendResponse{
			Success:       false,
			Message:       err.Error(),
			Results:       results,
			ExecutionTime: elapsed,
		})
		return
	}

	c.JSON(http.StatusOK, SendResponse{
		Success:       allSucceeded(results),
		Message:       "email automation completed",
		Results:       results,
		ExecutionTime: elapsed,
	})
}

// startTask queues a background send and returns its task ID. Progress
// is polled via GET /tasks/:id.
func (s *Server) startTask(req SendRequest) string {
	t := &task{
		ID:      uuid.NewString(),
		Status:  "running",
		Started: time.Now(),
	}

	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()

	go func() {
		timeout := defaultTimeout
		if req.TimeoutSec > 0 {
			timeout = time.Duration(req.TimeoutSec) * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		results, err := s.runner.Execute(ctx, req.Instruction, providerList(req.Provider))
		now := time.Now()

		s.mu.Lock()
		defer s.mu.Unlock()
		t.Results = results
		t.Finished = &now
		if err != nil {
			t.Status = "failed"
			t.Error = err.Error()
			return
		}
		t.Status = "done"
	}()

	return t.ID
}

func (s *Server) handleTask(c *gin.Context) {
	// Serialize a snapshot so the background goroutine can keep writing
	// the live task.
	s.mu.RLock()
	t, ok := s.tasks[c.Param("id")]
	var snapshot task
	if ok {
		snapshot = *t
	}
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (s *Server) handleSendBatch(c *gin.Context) {
	var reqs []SendRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Requests run sequentially: each already fans out across providers
	// with one browser session per provider.
	responses := make([]SendResponse, 0, len(reqs))
	for _, req := range reqs {
		timeout := defaultTimeout
		if req.TimeoutSec > 0 {
			timeout = time.Duration(req.TimeoutSec) * time.Second
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)

		start := time.Now()
		results, err := s.runner.Execute(ctx, req.Instruction, providerList(req.Provider))
		cancel()

		resp := SendResponse{
			Success:       err == nil && allSucceeded(results),
			Message:       "email automation completed",
			Results:       results,
			ExecutionTime: time.Since(start).Seconds(),
		}
		if err != nil {
			resp.Message = err.Error()
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{"responses": responses})
}

func providerList(provider string) []string {
	if provider == "" {
		return nil
	}
	return []string{provider}
}

func allSucceeded(results []agent.Result) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if !r.Success {
			return false
		}
	}
	return true
}
