package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sahilm/fuzzy"

	gmerrors "github.com/zyxir/genealogy-manager/pkg/errors"
	gmio "github.com/zyxir/genealogy-manager/pkg/io"
	"github.com/zyxir/genealogy-manager/pkg/layout"
	"github.com/zyxir/genealogy-manager/pkg/render"
	"github.com/zyxir/genealogy-manager/pkg/session"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// nodeView is the JSON shape of one node.
type nodeView struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	BirthYear *int           `json:"birth_year,omitempty"`
	DeathYear *int           `json:"death_year,omitempty"`
	Biography string         `json:"biography,omitempty"`
	Layer     int            `json:"layer"`
	X         int            `json:"x"`
	ParentID  *int           `json:"parent_id,omitempty"`
	ChildIDs  []int          `json:"child_ids,omitempty"`
	GI        map[string]int `json:"generation_indices"`
}

// insertRequest creates a node. Kind selects the placement: "at" uses
// Layer, "child" and "parent" use Ref as the relative's id.
type insertRequest struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
	Biography string `json:"biography"`
	Kind      string `json:"kind"`
	Layer     int    `json:"layer"`
	Ref       int    `json:"ref"`
}

type cardRequest struct {
	Name      string `json:"name"`
	BirthYear *int   `json:"birth_year"`
	DeathYear *int   `json:"death_year"`
	Biography string `json:"biography"`
}

type generationRequest struct {
	Definition int `json:"definition"`
	Value      int `json:"value"`
}

func (s *Server) handleGetTree(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	if err := gmio.WriteJSON(s.sess.Tree(), w); err != nil {
		s.log.Error("write tree", "err", err)
	}
}

func (s *Server) handlePutTree(w http.ResponseWriter, r *http.Request) {
	t, err := gmio.ReadJSON(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	s.sess.Replace(t)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetText(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	text := s.sess.Tree().Encode()
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		ID    int     `json:"id"`
		Layer int     `json:"layer"`
		X     float64 `json:"x"`
	}
	s.mu.Lock()
	t := s.sess.Tree()
	xs := layout.ComputeXs(t)
	entries := make([]entry, 0, t.Len())
	for _, id := range t.IDs() {
		y, _ := t.Position(id)
		entries = append(entries, entry{ID: id, Layer: y, X: xs[id]})
	}
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, entries)
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	svg := render.SVG(s.sess.Tree(), s.render)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	type hit struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	query := r.URL.Query().Get("q")
	if query == "" {
		respondJSON(w, http.StatusOK, []hit{})
		return
	}

	s.mu.Lock()
	t := s.sess.Tree()
	ids := t.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = t.Card(id).Name
	}
	s.mu.Unlock()

	hits := []hit{}
	for _, m := range fuzzy.Find(query, names) {
		hits = append(hits, hit{ID: ids[m.Index], Name: names[m.Index]})
	}
	respondJSON(w, http.StatusOK, hits)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sess.Tree().Contains(id) {
		respondNotFound(w, id)
		return
	}
	respondJSON(w, http.StatusOK, s.viewNode(id))
}

func (s *Server) handleInsertNode(w http.ResponseWriter, r *http.Request) {
	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	card := tree.NewCard(req.Name)
	card.BirthYear = req.BirthYear
	card.DeathYear = req.DeathYear
	card.Biography = req.Biography

	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.sess.Tree()

	var id int
	var err error
	switch req.Kind {
	case "", "at":
		id, err = s.sess.InsertNodeAt(card, req.Layer)
	case "child":
		if !t.Contains(req.Ref) {
			respondNotFound(w, req.Ref)
			return
		}
		id, err = s.sess.InsertChild(card, req.Ref)
	case "parent":
		if !t.Contains(req.Ref) {
			respondNotFound(w, req.Ref)
			return
		}
		id, err = s.sess.InsertParent(card, req.Ref)
	default:
		respondMessage(w, http.StatusBadRequest, "kind must be at, child, or parent")
		return
	}
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	respondJSON(w, http.StatusCreated, s.viewNode(id))
}

func (s *Server) handlePatchNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	var req cardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	card := tree.NewCard(req.Name)
	card.BirthYear = req.BirthYear
	card.DeathYear = req.DeathYear
	card.Biography = req.Biography

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sess.Tree().Contains(id) {
		respondNotFound(w, id)
		return
	}
	if err := s.sess.SetCard(id, card); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	respondJSON(w, http.StatusOK, s.viewNode(id))
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sess.Tree().Contains(id) {
		respondNotFound(w, id)
		return
	}
	if err := s.sess.DeleteNode(id); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetGeneration(w http.ResponseWriter, r *http.Request) {
	id, ok := s.nodeID(w, r)
	if !ok {
		return
	}
	var req generationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sess.Tree().Contains(id) {
		respondNotFound(w, id)
		return
	}
	if err := s.sess.SetGenerationIndex(id, req.Definition, req.Value); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err)
		return
	}
	respondJSON(w, http.StatusOK, s.viewNode(id))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.sess.Undo()
	s.mu.Unlock()
	if errors.Is(err, session.ErrNothingToUndo) {
		respondError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRedo(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.sess.Redo()
	s.mu.Unlock()
	if errors.Is(err, session.ErrNothingToRedo) {
		respondError(w, http.StatusConflict, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// nodeID parses the {id} route parameter and 404s ids that are not in
// the tree. The existence check is advisory; mutating handlers recheck
// under their own lock.
func (s *Server) nodeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondMessage(w, http.StatusBadRequest, "node id must be an integer")
		return 0, false
	}
	s.mu.Lock()
	ok := s.sess.Tree().Contains(id)
	s.mu.Unlock()
	if !ok {
		respondNotFound(w, id)
		return 0, false
	}
	return id, true
}

// viewNode builds the JSON view of a node. Caller holds the lock and
// has verified the id.
func (s *Server) viewNode(id int) nodeView {
	t := s.sess.Tree()
	card := t.Card(id)
	y, x := t.Position(id)
	view := nodeView{
		ID:        id,
		Name:      card.Name,
		BirthYear: card.BirthYear,
		DeathYear: card.DeathYear,
		Biography: card.Biography,
		Layer:     y,
		X:         x,
		ChildIDs:  t.ChildIDs(id),
		GI:        make(map[string]int, len(t.GI.Defs)),
	}
	if parent := t.ParentID(id); parent >= 0 {
		view.ParentID = &parent
	}
	for i, gi := range t.ComputeGI(id) {
		view.GI[t.GI.Defs[i].Name] = gi
	}
	return view
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON payload of every error response.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError writes a structured error payload. Coded errors keep
// their code; plain errors get a default derived from the status.
func respondError(w http.ResponseWriter, status int, err error) {
	code := gmerrors.GetCode(err)
	if code == "" {
		code = codeForStatus(status)
	}
	respondJSON(w, status, errorBody{Error: gmerrors.UserMessage(err), Code: string(code)})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondError(w, status, gmerrors.New(codeForStatus(status), "%s", msg))
}

func respondNotFound(w http.ResponseWriter, id int) {
	respondError(w, http.StatusNotFound,
		gmerrors.New(gmerrors.ErrCodeNodeNotFound, "no node with id %d", id))
}

func codeForStatus(status int) gmerrors.Code {
	switch status {
	case http.StatusBadRequest:
		return gmerrors.ErrCodeInvalidInput
	case http.StatusNotFound:
		return gmerrors.ErrCodeNotFound
	case http.StatusUnprocessableEntity:
		return gmerrors.ErrCodeInvalidEdit
	case http.StatusConflict:
		return gmerrors.ErrCodeHistoryEmpty
	default:
		return gmerrors.ErrCodeInternal
	}
}
