package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"booking-attribution-service/internal/bookings/core/ports"
)

// Source reads webhook records from a local directory tree, one JSON
// document per file. Keys are slash-separated paths relative to the root.
type Source struct {
	root string
}

var _ ports.EventSourcePort = (*Source)(nil)

func NewSource(root string) *Source {
	return &Source{root: root}
}

func (s *Source) ListKeys(ctx context.Context) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(keys)
	if err != nil {
		return keys, fmt.Errorf("walk %s: %w", s.root, err)
	}
	return keys, nil
}

func (s *Source) FetchObject(ctx context.Context, key string) ([]byte, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("key %q escapes %s", key, s.root)
	}
	b, err := os.ReadFile(filepath.Join(s.root, rel))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}
