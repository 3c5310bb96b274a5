// Package api exposes a family tree editing session over HTTP.
//
// The server wraps one [session.Session] behind a mutex: the tree
// itself is single-threaded, so every request takes the lock, applies
// its operation, and releases. Documents use the JSON format of [io];
// the compact text form and rendered SVG are available on separate
// endpoints.
//
// # Routes
//
//	GET    /api/tree            full document (JSON)
//	PUT    /api/tree            replace document (JSON)
//	GET    /api/tree/text       compact text form
//	GET    /api/layout          drawing coordinates per node
//	GET    /api/render.svg      rendered SVG
//	GET    /api/search?q=       fuzzy name search
//	GET    /api/nodes/{id}      one node
//	POST   /api/nodes           insert a node
//	PATCH  /api/nodes/{id}      update a node's card
//	DELETE /api/nodes/{id}      delete a node
//	POST   /api/nodes/{id}/generation  set a generation index
//	POST   /api/undo            undo the latest operation
//	POST   /api/redo            redo the latest undone operation
//
// [io]: github.com/zyxir/genealogy-manager/pkg/io
package api

import (
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zyxir/genealogy-manager/pkg/render"
	"github.com/zyxir/genealogy-manager/pkg/session"
)

// Server serves one editing session over HTTP.
type Server struct {
	mu     sync.Mutex
	sess   *session.Session
	render render.Options
	log    *log.Logger
}

// New creates a server around sess. The server takes ownership: all
// further access to the session must go through HTTP. A nil logger
// discards log output.
func New(sess *session.Session, opts render.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(nil)
	}
	return &Server{sess: sess, render: opts, log: logger}
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Route("/api", func(r chi.Router) {
		r.Get("/tree", s.handleGetTree)
		r.Put("/tree", s.handlePutTree)
		r.Get("/tree/text", s.handleGetText)
		r.Get("/layout", s.handleGetLayout)
		r.Get("/render.svg", s.handleRenderSVG)
		r.Get("/search", s.handleSearch)
		r.Post("/nodes", s.handleInsertNode)
		r.Get("/nodes/{id}", s.handleGetNode)
		r.Patch("/nodes/{id}", s.handlePatchNode)
		r.Delete("/nodes/{id}", s.handleDeleteNode)
		r.Post("/nodes/{id}/generation", s.handleSetGeneration)
		r.Post("/undo", s.handleUndo)
		r.Post("/redo", s.handleRedo)
	})
	return r
}
