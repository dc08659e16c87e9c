package store

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DiskStore reads documents from a local directory. Document IDs are paths
// relative to the root, using forward slashes. Hidden files and directories
// (dot-prefixed) are skipped.
type DiskStore struct {
	root string
}

// NewDiskStore creates a store rooted at dir. The directory must exist.
func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat store root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", abs)
	}
	return &DiskStore{root: abs}, nil
}

// Root returns the absolute root directory of the store.
func (s *DiskStore) Root() string {
	return s.root
}

// List walks the root and returns relative paths of all regular files, sorted.
func (s *DiskStore) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		ids = append(ids, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk store root: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Get reads one file. IDs escaping the root are rejected.
func (s *DiskStore) Get(ctx context.Context, id string) ([]byte, error) {
	rel := filepath.FromSlash(id)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("invalid document id: %s", id)
	}
	data, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", id, err)
	}
	return data, nil
}
