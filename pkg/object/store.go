package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrNotFound is returned by Get for a digest the store has never seen.
var ErrNotFound = errors.New("object not found")

// Objects are small (file snapshots and commit records), so a modest cache
// keeps repeated history walks off the disk.
const cacheSize = 512

// Store is an append-only, content-addressed object store: one file per
// object under objects/, named by the hex digest of its exact bytes.
// Objects are never mutated or deleted once written.
type Store struct {
	root  string
	cache *lru.Cache[Hash, []byte]
}

// NewStore creates a Store rooted at the given directory. The objects/
// subdirectory is created lazily on first write.
func NewStore(root string) (*Store, error) {
	cache, err := lru.New[Hash, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("object store cache: %w", err)
	}
	return &Store{root: root, cache: cache}, nil
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.root, "objects")
}

func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.objectsDir(), string(h))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if h == "" {
		return false
	}
	if _, ok := s.cache.Get(h); ok {
		return true
	}
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Put stores data under its digest and returns the digest. Storage is
// deduplicated by content: at most one durable write happens per distinct
// digest, no matter how many callers Put the same bytes. The write goes
// through a temp file and a rename, so a concurrent Put of the same content
// can never expose a partially written object.
func (s *Store) Put(data []byte) (Hash, error) {
	if data == nil {
		data = []byte{}
	}
	h := HashBytes(data)

	if s.Has(h) {
		return h, nil
	}

	dir := s.objectsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("object put mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("object put tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("object put write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object put close: %w", err)
	}

	if err := os.Rename(tmpName, s.objectPath(h)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("object put rename: %w", err)
	}

	s.cache.Add(h, append([]byte(nil), data...))
	return h, nil
}

// Get returns the stored bytes for an existing digest, or ErrNotFound for an
// unknown one. Any other read failure surfaces wrapped with the digest.
func (s *Store) Get(h Hash) ([]byte, error) {
	if data, ok := s.cache.Get(h); ok {
		return data, nil
	}

	data, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("object %s: %w", h, ErrNotFound)
		}
		return nil, fmt.Errorf("object read %s: %w", h, err)
	}

	s.cache.Add(h, data)
	return data, nil
}

// Walk visits every stored object in lexical digest order, passing each
// object's recorded digest and raw bytes to fn. A store with no objects/
// directory yet walks zero objects.
func (s *Store) Walk(fn func(Hash, []byte) error) error {
	entries, err := os.ReadDir(s.objectsDir())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("walk objects: %w", err)
	}

	for _, e := range entries {
		// Skip in-flight temp files.
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.objectsDir(), e.Name()))
		if err != nil {
			return fmt.Errorf("walk objects: %w", err)
		}
		if err := fn(Hash(e.Name()), data); err != nil {
			return err
		}
	}
	return nil
}
