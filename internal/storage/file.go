package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
)

var _ KeyValue = &File{}

// File is a KeyValue persisted as a JSON object of string values. Every call
// reads the file again, so edits made by other processes are picked up, and
// every Set rewrites the whole file atomically.
type File struct {
	mu       *sync.Mutex
	filepath string
}

// NewFile returns a store backed by the file at path. The file is created on
// the first Set; a missing or empty file reads as an empty store.
func NewFile(path string) *File {
	return &File{
		mu:       &sync.Mutex{},
		filepath: path,
	}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.filepath
}

// Get returns the value stored under key.
func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key, keeping every other key in the file.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking every future write.
		values = make(map[string]string)
	}
	values[key] = value

	return f.save(values)
}

func (f *File) load() (map[string]string, error) {
	b, err := os.ReadFile(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		return make(map[string]string), nil
	}

	values := make(map[string]string)
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal store from file %s", f.filepath)
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	b, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(err, "failed to encode store")
	}

	dir := filepath.Dir(f.filepath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return pkgerrors.Wrapf(err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.filepath)+".*.tmp")
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to create temporary file in %s", dir)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		_ = tmp.Close()
		return pkgerrors.Wrapf(err, "failed to write temporary file %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrapf(err, "failed to close temporary file %s", tmpName)
	}
	if err := os.Rename(tmpName, f.filepath); err != nil {
		return pkgerrors.Wrapf(err, "failed to replace file %s", f.filepath)
	}
	return nil
}
