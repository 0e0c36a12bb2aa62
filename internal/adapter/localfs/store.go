// Package localfs serves dataset objects from a local directory, laid out as
// <root>/<bucket>/<key>. It backs development setups and tests.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

// Store implements dataset.ObjectStore over a directory tree.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Open reads <dir>/<path>. Paths escaping the root are rejected.
func (s *Store) Open(_ context.Context, name string) (io.ReadCloser, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))

	root, err := os.OpenRoot(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: open root %s: %w", domain.ErrSourceUnavailable, s.dir, err)
	}
	defer root.Close()

	f, err := root.Open(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrSourceUnavailable, name)
		}
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrSourceUnavailable, name, err)
	}
	return f, nil
}
