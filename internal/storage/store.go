package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Storer persists validated records by string key. Reads are served from an
// in-memory cache loaded at construction.
type Storer[T ValidatingSpec] interface {
	Save(string, T) error
	Get(string) T
	GetAll() map[string]T
	Delete(string) error
}

// FileStore keeps each record as a JSON asset file named after its key.
type FileStore[T ValidatingSpec] struct {
	dir string
	records[T]
}

func NewFileStore[T ValidatingSpec](dir string) (*FileStore[T], error) {
	s := &FileStore[T]{dir: dir}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.dir, err)
	}

	s.byId = make(map[string]T, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			return fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		asset, err := decodeAsset[T](data)
		if err != nil {
			return fmt.Errorf("loading %s: %w", e.Name(), err)
		}
		if want := strings.TrimSuffix(e.Name(), ".json"); asset.Id() != want {
			return fmt.Errorf("file %s holds asset %s", e.Name(), asset.Id())
		}
		s.byId[asset.Id()] = asset.Spec
	}
	return nil
}

func (s *FileStore[T]) Save(id string, o T) error {
	data, err := encodeAsset(id, o)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicWrite(s.filePath(id), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", id, err)
	}
	s.byId[id] = o
	return nil
}

// Delete removes the record for id. Deleting an unknown id does nothing.
func (s *FileStore[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byId[id]; !ok {
		return nil
	}
	if err := os.Remove(s.filePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", id, err)
	}
	delete(s.byId, id)
	return nil
}

// Get returns the record for id, or the zero value when there is none.
func (s *FileStore[T]) Get(id string) T {
	return s.get(id)
}

// GetAll returns a copy of every record.
func (s *FileStore[T]) GetAll() map[string]T {
	return s.all()
}

func (s *FileStore[T]) filePath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// atomicWrite writes data beside path and renames it into place, so a crash
// mid-write leaves the previous asset intact.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			slog.Warn("removing temp file", "path", tmp, "error", rmErr)
		}
		return err
	}
	return nil
}
