// Package repo implements the repository layer: the staging index, the
// linear commit chain with its HEAD pointer, and file-level diff lookup, all
// persisted under a .jot/ directory next to the working files.
package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jotvcs/jot/pkg/object"
)

const jotDirName = ".jot"

// Repo is an opened jot repository.
type Repo struct {
	RootDir string // working directory root
	JotDir  string // .jot/ directory
	Store   *object.Store

	log *zap.Logger
}

// Option configures an opened repository.
type Option func(*Repo)

// WithLogger attaches a logger for operation-level debug events. The default
// is a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repo) {
		if l != nil {
			r.log = l
		}
	}
}

// Init creates the repository layout at path if it is missing: .jot/ with an
// objects/ directory, an empty staging index, and an empty HEAD. Init is
// idempotent: re-initializing an existing repository creates only whatever
// is absent and never touches existing objects, HEAD, or staged entries.
func Init(path string, opts ...Option) (*Repo, error) {
	jotDir := filepath.Join(path, jotDirName)

	if err := os.MkdirAll(filepath.Join(jotDir, "objects"), 0o755); err != nil {
		return nil, fmt.Errorf("init: mkdir: %w", err)
	}

	// Seed HEAD and the index only when absent; O_EXCL keeps re-init from
	// truncating state that is already there.
	seeds := []struct {
		name    string
		content []byte
	}{
		{"HEAD", nil},
		{"index", []byte("[]\n")},
	}
	for _, seed := range seeds {
		p := filepath.Join(jotDir, seed.name)
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return nil, fmt.Errorf("init: create %s: %w", seed.name, err)
		}
		if len(seed.content) > 0 {
			if _, err := f.Write(seed.content); err != nil {
				f.Close()
				return nil, fmt.Errorf("init: write %s: %w", seed.name, err)
			}
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("init: close %s: %w", seed.name, err)
		}
	}

	return newRepo(path, jotDir, opts)
}

// Open searches upward from path for a .jot/ directory and opens the
// repository. Returns an error if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		jotDir := filepath.Join(cur, jotDirName)
		info, err := os.Stat(jotDir)
		if err == nil && info.IsDir() {
			return newRepo(cur, jotDir, opts)
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a jot repository (or any parent up to /)")
		}
		cur = parent
	}
}

func newRepo(root, jotDir string, opts []Option) (*Repo, error) {
	store, err := object.NewStore(jotDir)
	if err != nil {
		return nil, err
	}
	r := &Repo{
		RootDir: root,
		JotDir:  jotDir,
		Store:   store,
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

func (r *Repo) headPath() string {
	return filepath.Join(r.JotDir, "HEAD")
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.JotDir, "index")
}

// repoRelPath converts a path (absolute, or relative to CWD) into a
// slash-separated path relative to the repository root. A relative path that
// resolves outside the repository is treated as already repo-relative.
func (r *Repo) repoRelPath(p string) (string, error) {
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(r.RootDir, p)
		if err != nil {
			return "", fmt.Errorf("cannot make %q relative to %q: %w", p, r.RootDir, err)
		}
		return filepath.ToSlash(rel), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}

	abs := filepath.Join(cwd, p)
	rel, err := filepath.Rel(r.RootDir, abs)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	if len(rel) >= 2 && rel[:2] == ".." {
		return filepath.ToSlash(filepath.Clean(p)), nil
	}
	return filepath.ToSlash(rel), nil
}
