package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
	"gopkg.in/yaml.v3"

	"github.com/Septrum101/cfddns/common/ddns"
)

const fileVersion = 1

// ErrCorrupt marks a cache file that exists but cannot be understood.
var ErrCorrupt = errors.New("cache file is corrupt")

// Store persists a Cache between passes.
type Store interface {
	Read() (Cache, error)
	Write(c Cache) error
}

type file struct {
	Version int              `yaml:"version"`
	Records map[string]Entry `yaml:"records"`
}

// FileStore keeps the cache in a yml file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Read() (Cache, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return Cache{}, fmt.Errorf("%w: %w", ddns.ErrStorage, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Cache{}, fmt.Errorf("%w: %w: %s: %v", ddns.ErrStorage, ErrCorrupt, s.path, err)
	}
	if f.Version != fileVersion {
		return Cache{}, fmt.Errorf("%w: %w: %s: unsupported version %d", ddns.ErrStorage, ErrCorrupt, s.path, f.Version)
	}

	c := New()
	for name, e := range f.Records {
		c.Set(name, e)
	}
	return c, nil
}

func (s *FileStore) Write(c Cache) error {
	data, err := yaml.Marshal(&file{
		Version: fileVersion,
		Records: c.Clone().entries,
	})
	if err != nil {
		return fmt.Errorf("%w: encode cache: %v", ddns.ErrStorage, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %w", ddns.ErrStorage, err)
		}
	}
	if err := atomicwriter.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ddns.ErrStorage, err)
	}
	return nil
}
