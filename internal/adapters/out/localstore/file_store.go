// internal/adapters/out/localstore/file_store.go
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// FileStore is a session.Store persisted as a single JSON object on disk.
//
// Every Set/Remove takes an advisory lock on "<path>.lock", re-reads the file,
// applies only its own key and rewrites the file (temp file + rename). Other
// processes sharing the file therefore only ever lose a race on the same key.
// A missing or corrupt file opens as an empty store.
type FileStore struct {
	path string
	lock *flock.Flock

	mu   sync.RWMutex
	data map[string]string
}

// OpenFileStore loads path (creating parent directories lazily on first write).
func OpenFileStore(path string) (*FileStore, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("localstore: path is empty")
	}

	s := &FileStore{path: p, lock: flock.New(p + ".lock"), data: map[string]string{}}

	m, err := readFile(p)
	switch {
	case err == nil:
		s.data = m
	case errors.Is(err, os.ErrNotExist):
		// first run on this device
	case errors.Is(err, errCorrupt):
		log.Printf("[localstore] WARN: corrupt session file path=%q err=%v (starting empty)", p, err)
	default:
		return nil, err
	}
	return s, nil
}

var errCorrupt = errors.New("localstore: corrupt session file")

func readFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorrupt, err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.commitLocked(func(m map[string]string) { m[key] = value })
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	s.commitLocked(func(m map[string]string) { delete(m, key) })
}

// Keys returns the stored keys sorted.
func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for k := range s.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// commitLocked applies one key change on top of the current file contents.
// On success the in-memory view is refreshed from the merged result.
func (s *FileStore) commitLocked(apply func(map[string]string)) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		log.Printf("[localstore] WARN: persist failed path=%q err=%v (in-memory value kept)", s.path, err)
		return
	}
	if err := s.lock.Lock(); err != nil {
		log.Printf("[localstore] WARN: lock failed path=%q err=%v (writing unlocked)", s.path, err)
	} else {
		defer func() { _ = s.lock.Unlock() }()
	}

	base, err := readFile(s.path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist), errors.Is(err, errCorrupt):
		base = map[string]string{}
	default:
		log.Printf("[localstore] WARN: re-read failed path=%q err=%v (using local view)", s.path, err)
		base = make(map[string]string, len(s.data))
		for k, v := range s.data {
			base[k] = v
		}
	}
	apply(base)

	if err := writeAtomic(s.path, base); err != nil {
		log.Printf("[localstore] WARN: persist failed path=%q err=%v (in-memory value kept)", s.path, err)
		return
	}
	s.data = base
}

func writeAtomic(path string, data map[string]string) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".session-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
