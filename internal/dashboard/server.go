// Package dashboard serves the work-order kanban board over HTTP.
package dashboard

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelar/pitlane/internal/board"
	"github.com/avelar/pitlane/internal/notify"
	"github.com/avelar/pitlane/internal/pipeline"
	"github.com/avelar/pitlane/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets/*
var assetsFS embed.FS

// StartOpts holds configuration for the dashboard server.
type StartOpts struct {
	DB       *gorm.DB
	Port     int
	Org      string
	Refresh  string // 5-field cron expression for board reloads, empty disables
	Notifier notify.Notifier
	Out      io.Writer
}

// Server wires the board core to the HTTP layer. One server hosts one
// organization's board.
type Server struct {
	repo     *store.Repo
	org      string
	board    *board.Store
	mutator  *board.Mutator
	coord    *board.Coordinator
	selected *board.Selection
	hub      *eventHub
	notifier notify.Notifier

	mu        sync.Mutex
	lastError string // last fetch failure, cleared by a successful refresh
}

// newServer builds the board core around the repository.
func newServer(db *gorm.DB, org string, notifier notify.Notifier) *Server {
	s := &Server{
		repo:     store.NewRepo(db),
		org:      org,
		board:    board.NewStore(),
		hub:      newEventHub(),
		notifier: notifier,
	}
	s.selected = board.NewSelection(s.board)
	s.board.Subscribe(func() {
		s.hub.broadcast("board_changed", map[string]string{"org": org})
	})
	s.mutator = board.NewMutator(s.board, s.repo, board.ReporterFunc(s.reportTransitionFailure))
	s.coord = board.NewCoordinator(s.board, s.mutator)
	return s
}

// reportTransitionFailure is the mutator's error signal: the board is
// already rolled back, the UI gets a toast over SSE, and the configured
// chat destinations get an alert.
func (s *Server) reportTransitionFailure(orderID string, from, to pipeline.Stage, err error) {
	s.hub.broadcast("transition_failed", map[string]string{
		"order_id": orderID,
		"from":     string(from),
		"to":       string(to),
		"error":    fmt.Sprintf("failed to update order status: %v", err),
	})
	if s.notifier != nil {
		s.notifier.Send(context.Background(), notify.TransitionFailed(orderID, from, to, err))
	}
}

// refresh re-fetches the organization's orders and reloads the board. A
// failed fetch keeps the previous board contents and records the error
// for the UI's retry affordance.
func (s *Server) refresh(ctx context.Context) error {
	orders, err := s.repo.FetchOrders(ctx, s.org)
	if err != nil {
		s.mu.Lock()
		s.lastError = fmt.Sprintf("failed to load orders: %v", err)
		s.mu.Unlock()
		s.hub.broadcast("fetch_failed", map[string]string{"error": err.Error()})
		if s.notifier != nil {
			s.notifier.Send(ctx, notify.FetchFailed(s.org, err))
		}
		return err
	}
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
	s.board.Load(orders)
	return nil
}

// fetchError returns the last fetch failure message, empty when healthy.
func (s *Server) fetchError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// Start launches the dashboard HTTP server. It blocks until ctx is
// cancelled, then shuts down gracefully after draining in-flight writes.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("dashboard: db is required")
	}
	if opts.Org == "" {
		return fmt.Errorf("dashboard: org is required")
	}
	if opts.Port <= 0 {
		opts.Port = 8080
	}

	srv := newServer(opts.DB, opts.Org, opts.Notifier)

	// First load. A failure here is not fatal: the board starts empty
	// and the UI offers a retry.
	if err := srv.refresh(ctx); err != nil && opts.Out != nil {
		fmt.Fprintf(opts.Out, "Initial load failed: %v\n", err)
	}

	if opts.Refresh != "" {
		go srv.refreshLoop(ctx, opts.Refresh)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	tmpl, err := parseTemplates()
	if err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	registerRoutes(router, srv)

	addr := fmt.Sprintf(":%d", opts.Port)
	httpSrv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.mutator.Wait()
		httpSrv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Board for %s running at http://localhost:%d\n", opts.Org, opts.Port)
	}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

// parseTemplates loads the embedded HTML templates.
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
