package cli

import (
	"bytes"

	gmio "github.com/zyxir/genealogy-manager/pkg/io"
	"github.com/zyxir/genealogy-manager/pkg/tree"
)

// treeFile is a family tree document loaded from disk, keeping the raw
// bytes around so cache keys can be derived from them.
type treeFile struct {
	Path string
	Data []byte
	Tree *tree.Tree
}

// decodeDocument parses a JSON family tree document.
func decodeDocument(data []byte) (*tree.Tree, error) {
	return gmio.ReadJSON(bytes.NewReader(data))
}
