package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"package-tracking-service/internal/domain"
	"package-tracking-service/internal/platform/obs"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// JSON-file implementation of the PackageStore port.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// ReadAll returns the stored list, creating an empty file on first use.
// Unparseable content is moved aside and read as an empty collection.
func (s *FileStore) ReadAll(ctx context.Context) (_ []domain.Package, err error) {
	defer obs.Time(ctx, "file.readAll")(&err)

	if err := s.ensure(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "file store: read %q", s.path)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return []domain.Package{}, nil
	}

	var list []domain.Package
	if err := json.Unmarshal(raw, &list); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixMilli())
		if werr := os.WriteFile(backup, raw, 0o644); werr != nil {
			return nil, eris.Wrapf(werr, "file store: preserve corrupt file as %q", backup)
		}
		zap.L().Error("file store: corrupt collection, reading as empty",
			zap.String("path", s.path),
			zap.String("backup", backup),
			zap.Error(err),
		)
		return []domain.Package{}, nil
	}

	if list == nil {
		list = []domain.Package{}
	}
	return list, nil
}

// WriteAll replaces the file contents atomically: the list is written to a
// temporary sibling, synced, then renamed over the target.
func (s *FileStore) WriteAll(ctx context.Context, list []domain.Package) (err error) {
	defer obs.Time(ctx, "file.writeAll")(&err)

	if list == nil {
		list = []domain.Package{}
	}

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return eris.Wrap(err, "file store: marshal collection")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "file store: create dir %q", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "file store: create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return eris.Wrapf(err, "file store: chmod %q", tmpName)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return eris.Wrapf(err, "file store: write %q", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return eris.Wrapf(err, "file store: sync %q", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrapf(err, "file store: close %q", tmpName)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return eris.Wrapf(err, "file store: replace %q", s.path)
	}

	return nil
}

func (s *FileStore) ensure() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "file store: create dir %q", dir)
	}

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(err, "file store: stat %q", s.path)
	}

	if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
		return eris.Wrapf(err, "file store: initialize %q", s.path)
	}
	return nil
}
