package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vardoc/vardoc/pkg/vardoc"
	"github.com/vardoc/vardoc/pkg/vardoc/variant"
)

// fileSep replaces the variant separator in filenames, where ":" is
// illegal on some filesystems.
const fileSep = "@"

// FileStore reads and writes documents as files in one directory.
// Identifiers map to filenames with "@" in place of ":" and a
// .yaml/.yml/.json extension: "welcome:es:formal" is stored as
// "welcome@es@formal.yaml". JSON files are accepted on load (JSON is a
// YAML subset); saves always write YAML.
//
// Identifier order for variant tie-breaks is lexical filename order.
type FileStore struct {
	dir string
}

// NewFileStore creates a store over dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

var docExtensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// identifiers returns the stored identifiers in lexical order and the
// filename each one came from.
func (f *FileStore) identifiers() ([]string, map[string]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read store directory: %w", err)
	}

	files := make(map[string]string)
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !docExtensions[ext] {
			continue
		}
		id := strings.ReplaceAll(strings.TrimSuffix(e.Name(), ext), fileSep, variant.Sep)
		// First extension wins when the same identifier exists twice.
		if _, dup := files[id]; dup {
			continue
		}
		files[id] = e.Name()
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, files, nil
}

// Load implements Backend.
func (f *FileStore) Load(_ context.Context, base string, vctx variant.Context) (any, error) {
	ids, files, err := f.identifiers()
	if err != nil {
		return nil, err
	}

	id, ok := pickIdentifier(base, ids, vctx)
	if !ok {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(f.dir, files[id]))
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}
	tree, err := vardoc.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("decode document %s: %w", id, err)
	}
	return tree, nil
}

// Save implements Backend.
func (f *FileStore) Save(_ context.Context, base string, tree any, vctx variant.Context) error {
	id := Identifier(base, vctx)
	data, err := vardoc.EncodeTree(vardoc.FromGo(tree))
	if err != nil {
		return fmt.Errorf("encode document %s: %w", id, err)
	}
	name := strings.ReplaceAll(id, variant.Sep, fileSep) + ".yaml"
	if err := os.WriteFile(filepath.Join(f.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", id, err)
	}
	return nil
}

// List implements Lister.
func (f *FileStore) List(_ context.Context, prefix string) ([]string, error) {
	ids, _, err := f.identifiers()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Close implements Backend. It is a no-op for file stores.
func (f *FileStore) Close() error { return nil }
