package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jotvcs/jot/pkg/object"
)

// ErrCorruptIndex reports a staging index file that exists but cannot be
// parsed. The affected operation aborts without writing anything.
var ErrCorruptIndex = errors.New("corrupt staging index")

// readIndex loads the staging index: an ordered sequence of path→digest
// entries, unique by path. A missing file is an empty index.
func (r *Repo) readIndex() ([]object.FileEntry, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read index: %w", err)
	}

	var entries []object.FileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("read index: %w: %v", ErrCorruptIndex, err)
	}
	return entries, nil
}

// encodeIndex serializes the index; an empty index serializes as [].
func encodeIndex(entries []object.FileEntry) ([]byte, error) {
	if entries == nil {
		entries = []object.FileEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return append(data, '\n'), nil
}

// Staged returns a read-only snapshot of the staging index.
func (r *Repo) Staged() ([]object.FileEntry, error) {
	return r.readIndex()
}

// Add stages the given files for the next commit. Each file is read, its
// content stored as a blob (deduplicated by digest), and the path→digest
// mapping upserted: an existing path keeps its position with the new digest,
// a new path is appended. The whole read-modify-write runs under the index
// lock and the index is republished atomically, so a concurrent Add cannot
// lose entries and a failed Add leaves no partial entry behind.
//
// Returns the staged path→digest pairs in argument order.
func (r *Repo) Add(paths []string) ([]object.FileEntry, error) {
	lf, err := lockFile(r.indexPath())
	if err != nil {
		return nil, err
	}
	defer lf.Release()

	entries, err := r.readIndex()
	if err != nil {
		return nil, fmt.Errorf("add: %w", err)
	}

	var staged []object.FileEntry
	for _, p := range paths {
		rel, err := r.repoRelPath(p)
		if err != nil {
			return nil, fmt.Errorf("add: resolve path %q: %w", p, err)
		}

		content, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("add: read %q: %w", rel, err)
		}

		id, err := r.Store.Put(content)
		if err != nil {
			return nil, fmt.Errorf("add: store %q: %w", rel, err)
		}

		entries = upsertEntry(entries, rel, id)
		staged = append(staged, object.FileEntry{Path: rel, ObjectID: id})
		r.log.Debug("staged file",
			zap.String("path", rel),
			zap.String("object", string(id)))
	}

	data, err := encodeIndex(entries)
	if err != nil {
		return nil, err
	}
	if err := lf.Commit(data); err != nil {
		return nil, fmt.Errorf("add: write index: %w", err)
	}
	return staged, nil
}

// upsertEntry replaces the digest of an existing path in place or appends a
// new entry, preserving insertion order among distinct paths.
func upsertEntry(entries []object.FileEntry, path string, id object.Hash) []object.FileEntry {
	for i := range entries {
		if entries[i].Path == path {
			entries[i].ObjectID = id
			return entries
		}
	}
	return append(entries, object.FileEntry{Path: path, ObjectID: id})
}
