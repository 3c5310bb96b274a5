// Package store persists family tree documents.
//
// A [Document] wraps a serialized tree with identity and timestamps so
// several trees can be kept, listed, and reopened by id. Two backends
// are provided: [FileStore] keeps one JSON file per document for CLI
// use, and [MongoStore] shares documents between server instances.
package store

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/zyxir/genealogy-manager/pkg/io"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// ErrNotFound is returned when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// Document is one stored family tree. Data holds the tree in the JSON
// document format of [io]; the surrounding fields are bookkeeping.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Data      []byte    `json:"data" bson:"data"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// NewDocument creates a document with a fresh random id holding the
// given tree.
func NewDocument(name string, t *tree.Tree) (*Document, error) {
	now := time.Now().UTC()
	d := &Document{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.SetTree(t); err != nil {
		return nil, err
	}
	return d, nil
}

// Tree decodes the stored tree.
func (d *Document) Tree() (*tree.Tree, error) {
	return io.ReadJSON(bytes.NewReader(d.Data))
}

// SetTree replaces the stored tree and bumps the update timestamp.
func (d *Document) SetTree(t *tree.Tree) error {
	var buf bytes.Buffer
	if err := io.WriteJSON(t, &buf); err != nil {
		return err
	}
	d.Data = buf.Bytes()
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// Store is the interface document backends implement.
type Store interface {
	// Get retrieves a document by id.
	// Returns [ErrNotFound] if no document has that id.
	Get(ctx context.Context, id string) (*Document, error)

	// Put stores a document, replacing any existing one with its id.
	Put(ctx context.Context, d *Document) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all documents sorted by name.
	List(ctx context.Context) ([]*Document, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
