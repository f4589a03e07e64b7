package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jotvcs/jot/pkg/object"
)

// FileState classifies a tracked path against the working tree.
type FileState int

const (
	StateCommitted FileState = iota // working tree matches the HEAD version, nothing staged
	StateStaged                     // working tree matches the staged version
	StateModified                   // working tree differs from the recorded version
	StateMissing                    // tracked but absent from the working tree
)

func (s FileState) String() string {
	switch s {
	case StateCommitted:
		return "committed"
	case StateStaged:
		return "staged"
	case StateModified:
		return "modified"
	case StateMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// StatusEntry is the state of one tracked path.
type StatusEntry struct {
	Path  string
	State FileState
}

// Status reports every path known to the staging index or the HEAD commit,
// staged paths first in index order, then paths only HEAD knows about in
// commit order.
func (r *Repo) Status() ([]StatusEntry, error) {
	staged, err := r.readIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	var headFiles []object.FileEntry
	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	if head != "" {
		c, err := r.GetCommit(head)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		headFiles = c.Files
	}

	seen := make(map[string]bool, len(staged))
	var out []StatusEntry
	for _, e := range staged {
		seen[e.Path] = true
		out = append(out, StatusEntry{Path: e.Path, State: r.classify(e.Path, e.ObjectID, StateStaged)})
	}
	for _, e := range headFiles {
		if seen[e.Path] {
			continue
		}
		out = append(out, StatusEntry{Path: e.Path, State: r.classify(e.Path, e.ObjectID, StateCommitted)})
	}
	return out, nil
}

// classify compares the working-tree content of path against the recorded
// digest. base is the state reported on a match.
func (r *Repo) classify(path string, want object.Hash, base FileState) FileState {
	content, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(path)))
	if err != nil {
		return StateMissing
	}
	if object.HashBytes(content) == want {
		return base
	}
	return StateModified
}
