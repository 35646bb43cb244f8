// Package server exposes the renderers over HTTP.
//
// Routes:
//
//	GET  /healthz                  liveness probe
//	GET  /version                  build information
//	GET  /api/v1/render/{format}   options from the query string
//	POST /api/v1/render/{format}   options from a JSON body
//
// {format} is one of svg, txt or png. Errors are returned as JSON objects
// with a machine-readable code.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/scannable/internal/config"
	"github.com/matzehuels/scannable/pkg/buildinfo"
	"github.com/matzehuels/scannable/pkg/errors"
	"github.com/matzehuels/scannable/pkg/observability"
	"github.com/matzehuels/scannable/pkg/pipeline"
)

const (
	// maxBodyBytes bounds POST bodies; values are capped well below this.
	maxBodyBytes = 64 << 10

	requestTimeout  = 10 * time.Second
	shutdownTimeout = 5 * time.Second

	headerRequestID = "X-Request-ID"
	headerCache     = "X-Cache"
)

// Server serves render requests through a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults config.RenderConfig
	router   chi.Router
}

// New builds a server and its routes.
func New(runner *pipeline.Runner, logger *log.Logger, defaults config.RenderConfig) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, defaults: defaults}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/render/{format}", s.handleRenderQuery)
		r.Post("/render/{format}", s.handleRenderJSON)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.logger.Info("listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleRenderQuery(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	s.render(w, r, opts)
}

func (s *Server) handleRenderJSON(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body"))
		return
	}
	s.render(w, r, opts)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, opts pipeline.Options) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	opts.Formats = []string{format}
	s.defaults.Apply(&opts)

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		if !errors.IsInvalid(err) {
			s.logger.Error("render failed", "format", format, "request_id", w.Header().Get(headerRequestID), "err", err)
		}
		writeError(w, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheInfo.RenderHit {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", pipeline.ContentType(format))
	w.Header().Set(headerCache, cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// optionsFromQuery maps query parameters onto pipeline options. Parameter
// names match the JSON body fields; absent parameters stay zero and take
// defaults later.
func optionsFromQuery(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Value:           q.Get("value"),
		Level:           q.Get("level"),
		BackgroundColor: q.Get("background_color"),
		ForegroundColor: q.Get("foreground_color"),
		Solid:           q.Get("solid"),
		SolidTop:        q.Get("solid_top"),
		SolidBottom:     q.Get("solid_bottom"),
		Empty:           q.Get("empty"),
	}

	var err error
	if opts.Margin, err = optionalInt(q.Get("margin"), "margin"); err != nil {
		return opts, err
	}
	if opts.BackgroundAlpha, err = optionalFloat(q.Get("background_alpha"), "background_alpha"); err != nil {
		return opts, err
	}
	if opts.ForegroundAlpha, err = optionalFloat(q.Get("foreground_alpha"), "foreground_alpha"); err != nil {
		return opts, err
	}
	if v, err := optionalFloat(q.Get("width"), "width"); err != nil {
		return opts, err
	} else if v != nil {
		opts.Width = *v
	}
	if v, err := optionalFloat(q.Get("height"), "height"); err != nil {
		return opts, err
	} else if v != nil {
		opts.Height = *v
	}
	if v, err := optionalInt(q.Get("size"), "size"); err != nil {
		return opts, err
	} else if v != nil {
		opts.Size = *v
	}
	return opts, nil
}

func optionalInt(s, name string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be an integer", name)
	}
	return &v, nil
}

func optionalFloat(s, name string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s must be a number", name)
	}
	return &v, nil
}

// =============================================================================
// Middleware
// =============================================================================

// requestID propagates X-Request-ID, minting a UUID when the client sent
// none.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", ww.Header().Get(headerRequestID),
			"duration", elapsed.Round(time.Microsecond))
	})
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	writeJSON(w, statusFor(err), errorBody{Code: code, Message: msg})
}

func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeEncode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusBadRequest
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
