package preference

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStore keeps preferences in a JSON object on disk. Other keys in the file
// are preserved.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  string
}

// NewFileStore creates a FileStore at path.
func NewFileStore(path, key string) (store *FileStore, err error) {
	if path == "" {
		err = errors.New("preference file path is required")
		return store, err
	}

	store = &FileStore{
		path: path,
		key:  key,
	}
	return store, err
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (code string, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prefs map[string]string
	prefs, err = s.read()
	if err != nil {
		return code, found, err
	}

	code, found = prefs[s.key]
	return code, found, err
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, code string) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var prefs map[string]string
	prefs, err = s.read()
	if err != nil {
		return err
	}
	prefs[s.key] = code

	var data []byte
	data, err = json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal preferences")
		return err
	}

	dir := filepath.Dir(s.path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create preference directory: %s", dir)
		return err
	}

	// Write then rename so a crash never leaves a truncated file behind.
	tmp := s.path + ".tmp"
	err = os.WriteFile(tmp, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write preference file: %s", tmp)
		return err
	}

	err = os.Rename(tmp, s.path)
	if err != nil {
		err = errors.Wrapf(err, "failed to replace preference file: %s", s.path)
		return err
	}

	return err
}

// Close implements Store.
func (s *FileStore) Close() (err error) {
	return err
}

func (s *FileStore) read() (prefs map[string]string, err error) {
	prefs = make(map[string]string)

	var data []byte
	data, err = os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			return prefs, err
		}
		err = errors.Wrapf(err, "failed to read preference file: %s", s.path)
		return prefs, err
	}

	err = json.Unmarshal(data, &prefs)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse preference file: %s", s.path)
		return prefs, err
	}
	if prefs == nil {
		prefs = make(map[string]string)
	}

	return prefs, err
}
