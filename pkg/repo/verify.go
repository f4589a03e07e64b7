package repo

import (
	"fmt"

	"github.com/jotvcs/jot/pkg/object"
)

// VerifyIssue describes one integrity problem found by Verify.
type VerifyIssue struct {
	ID     object.Hash // offending object, empty for chain-level problems
	Reason string
}

// Verify re-hashes every stored object against its filename and then walks
// the commit chain from HEAD, checking that each reachable record decodes
// and that every blob it references exists. Returns one issue per problem;
// an empty slice means the repository is sound.
func (r *Repo) Verify() ([]VerifyIssue, error) {
	var issues []VerifyIssue

	err := r.Store.Walk(func(h object.Hash, data []byte) error {
		if object.HashBytes(data) != h {
			issues = append(issues, VerifyIssue{
				ID:     h,
				Reason: "content does not match digest",
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	for entry, err := range r.History() {
		if err != nil {
			issues = append(issues, VerifyIssue{ID: entry.ID, Reason: err.Error()})
			break
		}
		for _, f := range entry.Commit.Files {
			if !r.Store.Has(f.ObjectID) {
				issues = append(issues, VerifyIssue{
					ID:     f.ObjectID,
					Reason: fmt.Sprintf("blob for %q in commit %s is missing", f.Path, entry.ID.Short()),
				})
			}
		}
	}

	return issues, nil
}
