// Package server serves schema-driven forms over HTTP: rendered pages,
// server-side binding and validation, and option catalogs.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/components/optionsource"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/html"
	"github.com/goliatone/go-formstate/pkg/schema"
	"github.com/goliatone/go-formstate/pkg/transport"
)

const (
	DefaultFormsPath   = "/forms"
	DefaultOptionsPath = "/api/options"
)

// Server wires forms, a renderer and option catalogs into a chi router.
type Server struct {
	store       *schema.Store
	renderer    render.Renderer
	backend     transport.Transport
	catalogs    optionsource.Catalogs
	optionsPath string
	logger      *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBackend sets the transport that receives valid submissions and serves
// option sources not covered by the catalogs. Without a backend submissions
// are echoed back.
func WithBackend(t transport.Transport) Option {
	return func(s *Server) {
		s.backend = t
	}
}

// WithCatalogs mounts option catalogs under path.
func WithCatalogs(catalogs optionsource.Catalogs, path string) Option {
	return func(s *Server) {
		s.catalogs = catalogs
		if strings.TrimSpace(path) != "" {
			s.optionsPath = path
		}
	}
}

// WithRenderer replaces the HTML renderer.
func WithRenderer(r render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// New builds a Server over store.
func New(store *schema.Store, opts ...Option) (*Server, error) {
	if store == nil {
		return nil, errors.New("server: schema store is required")
	}
	s := &Server{
		store:       store,
		optionsPath: DefaultOptionsPath,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderer == nil {
		r, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("server: html renderer: %w", err)
		}
		s.renderer = r
	}
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewRouter()
	r.Get(DefaultFormsPath, s.listForms)
	r.Get(DefaultFormsPath+"/{id}", s.showForm)
	r.Post(DefaultFormsPath+"/{id}", s.submitForm)

	if len(s.catalogs) > 0 {
		if _, err := optionsource.RegisterCatalogs(r, s.optionsPath, s.catalogs); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (s *Server) listForms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"data": s.store.IDs()})
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	sch, ok := s.form(w, r)
	if !ok {
		return
	}
	engine, err := s.engine(r.Context(), sch)
	if err != nil {
		s.fail(w, err)
		return
	}
	defer engine.Close()

	s.write(w, r, http.StatusOK, engine)
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	sch, ok := s.form(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	var message string
	engine, err := s.engine(r.Context(), sch, form.WithOnError(func(msg string) { message = msg }))
	if err != nil {
		s.fail(w, err)
		return
	}
	defer engine.Close()

	if err := html.Bind(engine, r.PostForm); err != nil {
		s.fail(w, err)
		return
	}
	engine.Wait()

	result, err := engine.Submit(r.Context())
	switch {
	case err == nil:
		s.logger.Info("form submitted", zap.String("form", sch.ID))
		writeJSON(w, http.StatusOK, map[string]any{"data": result})
	case errors.Is(err, form.ErrInvalid):
		s.write(w, r, http.StatusUnprocessableEntity, engine, render.WithFormErrors(message))
	default:
		s.logger.Warn("form submission failed", zap.String("form", sch.ID), zap.Error(err))
		s.write(w, r, http.StatusBadGateway, engine, render.WithFormErrors(message))
	}
}

func (s *Server) form(w http.ResponseWriter, r *http.Request) (schema.Schema, bool) {
	id := chi.URLParam(r, "id")
	sch, ok := s.store.Form(id)
	if !ok {
		http.Error(w, "form not found", http.StatusNotFound)
		return schema.Schema{}, false
	}
	return sch, true
}

func (s *Server) engine(ctx context.Context, sch schema.Schema, opts ...form.Option) (*form.Engine, error) {
	opts = append([]form.Option{form.WithLogger(s.logger)}, opts...)
	if sch.CreateTarget == "" && sch.UpdateTarget == "" {
		opts = append(opts, form.WithCreateTarget(DefaultFormsPath+"/"+sch.ID))
	}

	engine, err := form.New(sch, s.transport(), opts...)
	if err != nil {
		return nil, err
	}
	engine.Start(ctx)
	engine.Wait()
	return engine, nil
}

func (s *Server) transport() transport.Transport {
	local := optionsource.NewTransport(s.catalogs, s.optionsPath)
	return &router{catalogs: local, optionsPath: s.optionsPath, backend: s.backend}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, engine *form.Engine, opts ...render.Option) {
	opts = append([]render.Option{
		render.WithAction(DefaultFormsPath + "/" + engine.Schema().ID),
		render.WithMethod(http.MethodPost),
		render.WithSubset(render.ParseSubset(r.URL.Query().Get("sections"), r.URL.Query().Get("fields"))),
	}, opts...)

	body, err := s.renderer.Render(r.Context(), render.Project(engine, opts...))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// router sends option loads under the catalog path to the catalogs and
// everything else to the backend.
type router struct {
	catalogs    transport.Transport
	optionsPath string
	backend     transport.Transport
}

func (r *router) Get(ctx context.Context, path string, params url.Values) (transport.Payload, error) {
	if strings.HasPrefix(path, r.optionsPath) || r.backend == nil {
		return r.catalogs.Get(ctx, path, params)
	}
	return r.backend.Get(ctx, path, params)
}

func (r *router) Post(ctx context.Context, path string, body any) (transport.Payload, error) {
	if r.backend == nil {
		return body, nil
	}
	return r.backend.Post(ctx, path, body)
}

func (r *router) Put(ctx context.Context, path string, body any) (transport.Payload, error) {
	if r.backend == nil {
		return body, nil
	}
	return r.backend.Put(ctx, path, body)
}
