package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zyxir/genealogy-manager/pkg/render"
	"github.com/zyxir/genealogy-manager/pkg/session"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

func newTestHandler(t *testing.T, repr string) http.Handler {
	t.Helper()
	tr := tree.New()
	if repr != "" {
		var err error
		tr, err = tree.Decode(repr)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", repr, err)
		}
	}
	return New(session.New(tr), render.DefaultOptions(), nil).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAPI_TreeAndText(t *testing.T) {
	h := newTestHandler(t, "a(b);b;")

	rec := do(t, h, http.MethodGet, "/api/tree/text", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/tree/text = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "a(b);b;" {
		t.Errorf("text = %q, want %q", got, "a(b);b;")
	}

	rec = do(t, h, http.MethodGet, "/api/tree", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/tree = %d, want 200", rec.Code)
	}
	var doc struct {
		Version int `json:"version"`
		Layers  [][]struct {
			Name string `json:"name"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal tree document: %v", err)
	}
	if doc.Version != 1 || len(doc.Layers) != 2 || doc.Layers[0][0].Name != "a" {
		t.Errorf("document = %+v, want version 1 with layers [[a] [b]]", doc)
	}
}

func TestAPI_PutTreeReplacesDocument(t *testing.T) {
	h := newTestHandler(t, "a;")
	body := `{"version": 1, "layers": [[{"name": "x", "children": [1]}], [{"name": "y"}]]}`
	if rec := do(t, h, http.MethodPut, "/api/tree", body); rec.Code != http.StatusNoContent {
		t.Fatalf("PUT /api/tree = %d, want 204: %s", rec.Code, rec.Body)
	}
	if got := do(t, h, http.MethodGet, "/api/tree/text", "").Body.String(); got != "x(y);y;" {
		t.Errorf("text after PUT = %q, want %q", got, "x(y);y;")
	}
}

func TestAPI_InsertUndoRedo(t *testing.T) {
	h := newTestHandler(t, "a;")

	rec := do(t, h, http.MethodPost, "/api/nodes", `{"name": "b", "kind": "child", "ref": 0}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/nodes = %d, want 201: %s", rec.Code, rec.Body)
	}
	var created nodeView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal created node: %v", err)
	}
	if created.ID != 1 || created.Layer != 1 || created.ParentID == nil || *created.ParentID != 0 {
		t.Errorf("created = %+v, want id 1 in layer 1 under parent 0", created)
	}

	if rec := do(t, h, http.MethodPost, "/api/undo", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("POST /api/undo = %d, want 204", rec.Code)
	}
	if got := do(t, h, http.MethodGet, "/api/tree/text", "").Body.String(); got != "a;" {
		t.Errorf("text after undo = %q, want %q", got, "a;")
	}
	if rec := do(t, h, http.MethodPost, "/api/redo", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("POST /api/redo = %d, want 204", rec.Code)
	}
	if got := do(t, h, http.MethodGet, "/api/tree/text", "").Body.String(); got != "a(b);b;" {
		t.Errorf("text after redo = %q, want %q", got, "a(b);b;")
	}
}

func TestAPI_PatchAndGeneration(t *testing.T) {
	h := newTestHandler(t, "a;b;")

	rec := do(t, h, http.MethodPatch, "/api/nodes/0", `{"name": "renamed", "birth_year": 1900}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PATCH /api/nodes/0 = %d, want 200: %s", rec.Code, rec.Body)
	}
	var view nodeView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal node: %v", err)
	}
	if view.Name != "renamed" || view.BirthYear == nil || *view.BirthYear != 1900 {
		t.Errorf("patched node = %+v", view)
	}

	// Setting node 1 (layer 1) to generation 10 shifts node 0 to 9.
	rec = do(t, h, http.MethodPost, "/api/nodes/1/generation", `{"definition": 0, "value": 10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST generation = %d, want 200: %s", rec.Code, rec.Body)
	}
	rec = do(t, h, http.MethodGet, "/api/nodes/0", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("unmarshal node: %v", err)
	}
	if got := view.GI["generation"]; got != 9 {
		t.Errorf("node 0 generation = %d, want 9", got)
	}
}

func TestAPI_DeleteNode(t *testing.T) {
	h := newTestHandler(t, "a(b);b;")
	if rec := do(t, h, http.MethodDelete, "/api/nodes/0", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE /api/nodes/0 = %d, want 204", rec.Code)
	}
	if got := do(t, h, http.MethodGet, "/api/tree/text", "").Body.String(); got != ";b;" {
		t.Errorf("text after delete = %q, want %q", got, ";b;")
	}
}

func TestAPI_Search(t *testing.T) {
	h := newTestHandler(t, "alice(bob),carol;bob;")
	rec := do(t, h, http.MethodGet, "/api/search?q=bo", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/search = %d, want 200", rec.Code)
	}
	var hits []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hits); err != nil {
		t.Fatalf("unmarshal hits: %v", err)
	}
	if len(hits) == 0 || hits[0].Name != "bob" {
		t.Errorf("search hits = %+v, want bob first", hits)
	}
}

func TestAPI_Layout(t *testing.T) {
	h := newTestHandler(t, "a(b,c);b,c;")
	rec := do(t, h, http.MethodGet, "/api/layout", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/layout = %d, want 200", rec.Code)
	}
	var entries []struct {
		ID    int     `json:"id"`
		Layer int     `json:"layer"`
		X     float64 `json:"x"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal layout: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("layout has %d entries, want 3", len(entries))
	}
	if entries[0].ID != 0 || entries[0].X != 1.0 {
		t.Errorf("entries[0] = %+v, want node 0 centered at 1.0", entries[0])
	}
}

func TestAPI_RenderSVG(t *testing.T) {
	h := newTestHandler(t, "a;")
	rec := do(t, h, http.MethodGet, "/api/render.svg", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/render.svg = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", ct)
	}
	if !strings.Contains(rec.Body.String(), "</svg>") {
		t.Error("render output is not a closed SVG document")
	}
}

func TestAPI_Errors(t *testing.T) {
	h := newTestHandler(t, "a;")

	if rec := do(t, h, http.MethodGet, "/api/nodes/99", ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET unknown node = %d, want 404", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/nodes/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("GET non-integer id = %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/nodes", `{"name": "x", "kind": "sibling"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("POST bad kind = %d, want 400", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/nodes", `{"name": "x", "kind": "at", "layer": 7}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST out-of-range layer = %d, want 422", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/undo", ""); rec.Code != http.StatusConflict {
		t.Errorf("POST undo with empty history = %d, want 409", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/redo", ""); rec.Code != http.StatusConflict {
		t.Errorf("POST redo with empty history = %d, want 409", rec.Code)
	}
}
