package repo

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jotvcs/jot/pkg/object"
)

// ErrHeadMoved reports that HEAD advanced concurrently between the read that
// chose a parent and the attempt to publish the new commit.
var ErrHeadMoved = errors.New("HEAD changed concurrently")

// Head returns the digest of the latest commit, or the empty hash when no
// commit exists yet.
func (r *Repo) Head() (object.Hash, error) {
	data, err := os.ReadFile(r.headPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return object.Hash(strings.TrimSpace(string(data))), nil
}

// advanceHead moves HEAD from old to new under the HEAD lock. The update is
// compare-and-swap: if another invocation advanced HEAD after old was read,
// nothing is written and ErrHeadMoved surfaces.
func (r *Repo) advanceHead(old, new object.Hash) error {
	lf, err := lockFile(r.headPath())
	if err != nil {
		return err
	}
	defer lf.Release()

	cur, err := r.Head()
	if err != nil {
		return err
	}
	if cur != old {
		return fmt.Errorf("advance HEAD: %w (expected %q, found %q)", ErrHeadMoved, old, cur)
	}

	return lf.Commit([]byte(string(new) + "\n"))
}
