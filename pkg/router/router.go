package router

import (
	"context"
	"net/http"

	"github.com/rs/cors"
	"github.com/strivelab/backend/config"
	"github.com/strivelab/backend/pkg/logger"
	"gorm.io/gorm"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may derive a new context; a
// returned error aborts the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the handler, whether it succeeded or not.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	r.closers = append(r.closers, handleResponse())
	return r
}

// Branch returns a router sharing the same mux but with an independent
// middleware chain, so route groups can differ in Before/After behavior.
func (r *Router) Branch() *Router {
	clone := &Router{
		mux:    r.mux,
		cfg:    r.cfg,
		logger: r.logger,
		db:     r.db,
	}

	clone.befores = append(clone.befores, r.befores...)
	clone.closers = append(clone.closers, r.closers...)
	return clone
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

// Handle registers a raw http.Handler, used for endpoints that take over the
// connection (websocket, metrics).
func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, wrapRaw(r, h))
}

func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "GET", "OPTIONS", "PUT", "DELETE"},
		AllowedHeaders: []string{
			"Accept", "Content-Type", "Content-Length", "Accept-Encoding",
			"X-CSRF-Token", "Authorization", "X-User-Id",
		},
	}).Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}
