// Package localfs stores uploaded media in a directory on local disk.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/addisnest/api/internal/domain"
)

type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Save writes r to dir/filename, creating dir when it does not exist yet.
// An existing file with the same name is overwritten.
func (s *Store) Save(_ context.Context, filename string, r io.Reader, _ string) (string, error) {
	if !validName(filename) {
		return "", fmt.Errorf("invalid filename %q: %w", filename, domain.ErrBadRequest)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	dst := filepath.Join(s.dir, filename)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", dst, err)
	}
	return dst, nil
}

// Open returns the stored file. The concrete value is an *os.File so callers
// can seek for range requests.
func (s *Store) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	if !validName(filename) {
		return nil, fmt.Errorf("upload %s: %w", filename, domain.ErrNotFound)
	}
	f, err := os.Open(filepath.Join(s.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("upload %s: %w", filename, domain.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// validName accepts bare file names only.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
