// Package devserver is an in-memory implementation of the form structure API
// used for local development, the CLI serve command and integration tests.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-formstruct/pkg/apidoc"
	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

// Server routes structure API requests to a Memory backend.
type Server struct {
	memory *Memory
	logger *slog.Logger
	prefix string
	router chi.Router
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithPrefix mounts the API under prefix instead of transport.DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = "/" + strings.Trim(prefix, "/")
		if s.prefix == "/" {
			s.prefix = ""
		}
	}
}

// New builds the router over memory.
func New(memory *Memory, opts ...Option) (*Server, error) {
	if memory == nil {
		return nil, fmt.Errorf("devserver: memory backend is required")
	}
	s := &Server{
		memory: memory,
		logger: slog.Default(),
		prefix: transport.DefaultPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.router = s.routes()
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the chi router, for route inspection.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("devserver listening", slog.String("addr", addr), slog.String("prefix", s.prefix))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("devserver: %w", err)
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/openapi.json", s.openAPI)

	api := func(r chi.Router) {
		r.Get("/template", s.getTemplate)
		r.Get("/draft/{draftId}", s.getScoped(structure.ScopeDraft, "draftId"))
		r.Get("/project/{projectId}", s.getScoped(structure.ScopeProject, "projectId"))
		r.Get("/field-types", s.listFieldTypes)

		r.Post("/steps", s.createStep)
		r.Put("/steps/{id}", s.updateStep)
		r.Delete("/steps/{id}", s.deleteStep)
		r.Put("/steps/{id}/visibility", s.toggleStepVisibility)
		r.Put("/steps-reorder", s.reorder(s.memory.ReorderSteps, "Steps reordered successfully"))

		r.Post("/fields", s.createField)
		r.Put("/fields/{id}", s.updateField)
		r.Delete("/fields/{id}", s.deleteField)
		r.Put("/fields/{id}/visibility", s.toggleFieldVisibility)
		r.Put("/fields/{id}/move", s.moveField)
		r.Put("/fields-reorder", s.reorder(s.memory.ReorderFields, "Fields reordered successfully"))

		r.Post("/clone-to-draft", s.clone(structure.ScopeDraft, "draftId"))
		r.Post("/clone-template", s.clone(structure.ScopeProject, "projectId"))
		r.Post("/reset-draft/{draftId}", s.reset(structure.ScopeDraft, "draftId"))
		r.Post("/reset/{projectId}", s.reset(structure.ScopeProject, "projectId"))
	}
	if s.prefix == "" {
		api(r)
	} else {
		r.Route(s.prefix, api)
	}
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("devserver request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) openAPI(w http.ResponseWriter, r *http.Request) {
	raw, err := apidoc.JSON(s.prefix)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func documentType(r *http.Request) string {
	query := r.URL.Query()
	if dt := query.Get("documentType"); dt != "" {
		return dt
	}
	return query.Get("bepType")
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	trees, _ := s.memory.Structure(structure.TemplateScope(documentType(r)))
	s.writeList(w, trees, len(trees))
}

func (s *Server) getScoped(kind structure.ScopeKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := structure.Scope{Kind: kind, ID: chi.URLParam(r, param), DocumentType: documentType(r)}
		trees, custom := s.memory.Structure(scope)
		count := len(trees)
		s.writeJSON(w, http.StatusOK, envelope{
			Success:            true,
			Data:               trees,
			Count:              &count,
			HasCustomStructure: &custom,
		})
	}
}

func (s *Server) listFieldTypes(w http.ResponseWriter, _ *http.Request) {
	types := s.memory.FieldTypes()
	s.writeList(w, types, len(types))
}

func (s *Server) createStep(w http.ResponseWriter, r *http.Request) {
	var body stepBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	step, err := s.memory.CreateStep(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, step, "Step created successfully")
}

func (s *Server) updateStep(w http.ResponseWriter, r *http.Request) {
	var body stepBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	step, err := s.memory.UpdateStep(chi.URLParam(r, "id"), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, step, "Step updated successfully")
}

func (s *Server) deleteStep(w http.ResponseWriter, r *http.Request) {
	s.memory.DeleteStep(chi.URLParam(r, "id"))
	s.writeMessage(w, "Step deleted successfully")
}

func (s *Server) toggleStepVisibility(w http.ResponseWriter, r *http.Request) {
	step, err := s.memory.ToggleStepVisibility(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, step, "Step visibility toggled")
}

func (s *Server) createField(w http.ResponseWriter, r *http.Request) {
	var body fieldBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	field, err := s.memory.CreateField(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, field, "Field created successfully")
}

func (s *Server) updateField(w http.ResponseWriter, r *http.Request) {
	var body fieldBody
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	field, err := s.memory.UpdateField(chi.URLParam(r, "id"), body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, field, "Field updated successfully")
}

func (s *Server) deleteField(w http.ResponseWriter, r *http.Request) {
	s.memory.DeleteField(chi.URLParam(r, "id"))
	s.writeMessage(w, "Field deleted successfully")
}

func (s *Server) toggleFieldVisibility(w http.ResponseWriter, r *http.Request) {
	field, err := s.memory.ToggleFieldVisibility(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, field, "Field visibility toggled")
}

func (s *Server) moveField(w http.ResponseWriter, r *http.Request) {
	var body structure.MoveRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	field, err := s.memory.MoveField(chi.URLParam(r, "id"), body.NewStepID, body.NewOrderIndex)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, field, "Field moved successfully")
}

func (s *Server) reorder(apply func([]structure.Order), message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Orders json.RawMessage `json:"orders"`
		}
		if err := decodeJSON(r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
		var orders []structure.Order
		raw := strings.TrimSpace(string(body.Orders))
		if !strings.HasPrefix(raw, "[") || json.Unmarshal(body.Orders, &orders) != nil {
			s.writeError(w, r, badRequest("orders must be an array of { id, order_index }"))
			return
		}
		apply(orders)
		s.writeMessage(w, message)
	}
}

func (s *Server) clone(kind structure.ScopeKind, key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := decodeJSON(r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
		id, _ := body[key].(string)
		scope := structure.Scope{Kind: kind, ID: id}
		trees, err := s.memory.Clone(scope)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeData(w, http.StatusCreated, trees, "Template cloned to "+strings.ToLower(ownerLabel(scope))+" successfully")
	}
}

func (s *Server) reset(kind structure.ScopeKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope := structure.Scope{Kind: kind, ID: chi.URLParam(r, param)}
		trees, err := s.memory.Reset(scope)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeData(w, http.StatusOK, trees, ownerLabel(scope)+" reset to default template")
	}
}
