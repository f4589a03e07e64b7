package repo

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"go.uber.org/zap"

	"github.com/jotvcs/jot/pkg/object"
)

var (
	// ErrEmptyStaging reports a commit attempt with nothing staged. The
	// attempt mutates no state.
	ErrEmptyStaging = errors.New("nothing staged")

	// ErrCorruptCommit reports an object that exists in the store but does
	// not decode into a well-formed commit record. Deliberately distinct
	// from object.ErrNotFound.
	ErrCorruptCommit = errors.New("corrupt commit object")
)

// CommitSigner signs canonical commit payload bytes and returns an encoded
// signature string to be persisted in the record.
type CommitSigner func(payload []byte) (string, error)

// CommitOptions carries the optional parts of a commit.
type CommitOptions struct {
	Author string
	Signer CommitSigner
}

// Commit snapshots the staging index into a new immutable commit record,
// links it to the current HEAD as parent, writes it to the object store,
// advances HEAD, and clears the index. Returns the new commit's digest.
//
// Ordering is all-or-nothing friendly: the record is written to the
// (append-only) store before HEAD moves, and the index is cleared only after
// HEAD has advanced, so any failure up to the HEAD advance leaves both HEAD
// and the staged entries exactly as they were.
func (r *Repo) Commit(message string, opts CommitOptions) (object.Hash, error) {
	lf, err := lockFile(r.indexPath())
	if err != nil {
		return "", err
	}
	defer lf.Release()

	entries, err := r.readIndex()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("commit: %w", ErrEmptyStaging)
	}

	parent, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	c := &object.Commit{
		Timestamp: time.Now().Unix(),
		Author:    opts.Author,
		Message:   message,
		Files:     entries,
		Parent:    parent,
	}

	if opts.Signer != nil {
		payload, err := object.SigningPayload(c)
		if err != nil {
			return "", fmt.Errorf("commit: %w", err)
		}
		sig, err := opts.Signer(payload)
		if err != nil {
			return "", fmt.Errorf("commit: sign: %w", err)
		}
		c.Signature = sig
	}

	data, err := object.EncodeCommit(c)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	id, err := r.Store.Put(data)
	if err != nil {
		return "", fmt.Errorf("commit: write record: %w", err)
	}

	if err := r.advanceHead(parent, id); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	empty, err := encodeIndex(nil)
	if err != nil {
		return "", err
	}
	if err := lf.Commit(empty); err != nil {
		return "", fmt.Errorf("commit: clear index: %w", err)
	}

	r.log.Debug("created commit",
		zap.String("id", string(id)),
		zap.String("parent", string(parent)),
		zap.Int("files", len(c.Files)))
	return id, nil
}

// GetCommit reads and decodes a commit record. An absent object surfaces
// object.ErrNotFound; an object that exists but is not a well-formed commit
// surfaces ErrCorruptCommit.
func (r *Repo) GetCommit(id object.Hash) (*object.Commit, error) {
	data, err := r.Store.Get(id)
	if err != nil {
		return nil, err
	}
	c, err := object.DecodeCommit(data)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w: %v", id, ErrCorruptCommit, err)
	}
	return c, nil
}

// LogEntry pairs a commit record with its digest during a history walk.
type LogEntry struct {
	ID     object.Hash
	Commit *object.Commit
}

// History walks the chain from the current HEAD back to the root commit,
// yielding each record with its digest. The walk is lazy and restartable:
// every call re-reads HEAD, so a sequence obtained after further commits
// reflects them. The last record yielded is the root (empty parent); an
// empty repository yields nothing.
func (r *Repo) History() iter.Seq2[LogEntry, error] {
	return func(yield func(LogEntry, error) bool) {
		cur, err := r.Head()
		if err != nil {
			yield(LogEntry{}, err)
			return
		}

		for cur != "" {
			c, err := r.GetCommit(cur)
			if err != nil {
				yield(LogEntry{ID: cur}, fmt.Errorf("history at %s: %w", cur, err))
				return
			}
			if !yield(LogEntry{ID: cur, Commit: c}, nil) {
				return
			}
			cur = c.Parent
		}
	}
}
