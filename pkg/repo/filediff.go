package repo

import (
	"errors"
	"fmt"

	"github.com/jotvcs/jot/pkg/diff"
	"github.com/jotvcs/jot/pkg/object"
)

// ErrNoPriorVersion reports that a file has no version to diff against:
// either the commit is the root, or the parent commit did not track the
// path (new file).
var ErrNoPriorVersion = errors.New("no prior version")

// FileDiff reconstructs the classified line diff for path between the given
// commit and its parent. The current content comes from the commit's file
// entry, the prior content from the parent's entry for the same path, both
// pulled from the object store by digest.
func (r *Repo) FileDiff(id object.Hash, path string) ([]diff.Segment, error) {
	c, err := r.GetCommit(id)
	if err != nil {
		return nil, err
	}

	cur, ok := findEntry(c.Files, path)
	if !ok {
		return nil, fmt.Errorf("file %q in commit %s: %w", path, id, object.ErrNotFound)
	}

	if c.Parent == "" {
		return nil, fmt.Errorf("file %q: %w", path, ErrNoPriorVersion)
	}
	parent, err := r.GetCommit(c.Parent)
	if err != nil {
		return nil, fmt.Errorf("parent of %s: %w", id, err)
	}
	prev, ok := findEntry(parent.Files, path)
	if !ok {
		return nil, fmt.Errorf("file %q: %w", path, ErrNoPriorVersion)
	}

	oldData, err := r.Store.Get(prev.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("prior content of %q: %w", path, err)
	}
	newData, err := r.Store.Get(cur.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("content of %q: %w", path, err)
	}

	return diff.Lines(string(oldData), string(newData)), nil
}

func findEntry(entries []object.FileEntry, path string) (object.FileEntry, bool) {
	for _, e := range entries {
		if e.Path == path {
			return e, true
		}
	}
	return object.FileEntry{}, false
}
