package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"financie/internal/advisor"
	"financie/internal/core"
	"financie/internal/log"
	"financie/internal/middleware/ratelimit"
	"financie/internal/middleware/security"
	"financie/internal/middleware/trace"
	appweb "financie/web"
)

// RecordService is the record surface the handlers need.
type RecordService interface {
	Add(ctx context.Context, d core.Draft) (core.Record, error)
	Remove(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]core.Record, error)
	Summary(ctx context.Context) (core.Summary, []core.Record, error)
	Stats() (created, deleted int64)
}

// TipTracker runs tip requests in the background and exposes their state.
type TipTracker interface {
	Request(breakdown core.Breakdown) <-chan advisor.State
	State() advisor.State
	Stats() (requested, generated, failed int64)
}

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type Server struct {
	http.Server
	templates *template.Template
	records   RecordService
	tips      TipTracker
	logger    *log.Logger

	rateLimiter     *ratelimit.Limiter
	traceMiddleware *trace.Middleware

	checksMu sync.Mutex
	checks   map[string]ReadinessCheck

	startedAt    time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, records RecordService, tips TipTracker, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		records:         records,
		tips:            tips,
		logger:          logger,
		rateLimiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		traceMiddleware: trace.NewMiddleware(logger, clientIP),
		checks:          make(map[string]ReadinessCheck),
		startedAt:       time.Now(),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/records", s.handleCreateRecord)
	mux.HandleFunc("/records/delete", s.handleDeleteRecord)
	mux.HandleFunc("/tip", s.handleRequestTip)

	// UI partials
	mux.HandleFunc("/ui/summary", s.handleSummaryPartial)
	mux.HandleFunc("/ui/records", s.handleRecordsPartial)
	mux.HandleFunc("/ui/breakdown", s.handleBreakdownPartial)
	mux.HandleFunc("/ui/categories", s.handleCategoriesPartial)
	mux.HandleFunc("/ui/tip", s.handleTipPartial)

	mux.HandleFunc("/api/records", s.handleAPIRecords)
	mux.HandleFunc("/api/summary", s.handleAPISummary)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(clientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, clientIP(r), "path", r.URL.Path)
		NewHTMXResponse().
			Status(http.StatusTooManyRequests).
			TriggerErrorNotification("Muitas requisições. Tente novamente em instantes.").
			Write(w)
	})

	s.Handler = chain(mux,
		s.traceMiddleware.Middleware,
		log.Middleware(logger),
		log.RequestIDMiddleware(trace.RequestID),
		headers.Middleware,
		limit,
	)
	return s
}

// chain wraps h so that the first middleware is the outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// AddReadinessCheck registers a dependency probed by /readyz.
func (s *Server) AddReadinessCheck(name string, check ReadinessCheck) {
	s.checksMu.Lock()
	defer s.checksMu.Unlock()
	s.checks[name] = check
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// render executes a named template, logging failures with the request logger.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldOperation, log.OpRender, "template", name, log.FieldError, err)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (s *Server) renderString(name string, data any) (string, error) {
	if s.templates == nil {
		return "", errors.New("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
