package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jotvcs/jot/pkg/diff"
	"github.com/jotvcs/jot/pkg/object"
	"github.com/jotvcs/jot/pkg/repo"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <commit>",
		Short: "Show a commit's files and their diffs against the parent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			id, err := resolveCommit(r, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			c, err := r.GetCommit(id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "commit %s\n", id)
			fmt.Fprintf(out, "Author: %s\n", c.Author)
			fmt.Fprintf(out, "Date:   %s\n", time.Unix(c.Timestamp, 0).Format("2006-01-02 15:04:05"))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "    %s\n", c.Message)

			for _, f := range c.Files {
				content, err := r.Store.Get(f.ObjectID)
				if err != nil {
					return fmt.Errorf("content of %q: %w", f.Path, err)
				}

				fmt.Fprintf(out, "\n--- %s ---\n", f.Path)
				fmt.Fprint(out, string(content))
				if !strings.HasSuffix(string(content), "\n") {
					fmt.Fprintln(out)
				}

				segs, err := r.FileDiff(id, f.Path)
				switch {
				case errors.Is(err, repo.ErrNoPriorVersion):
					fmt.Fprintln(out, "(new file)")
				case err != nil:
					return err
				default:
					fmt.Fprintln(out, "diff against parent:")
					if err := diff.Fprint(out, segs); err != nil {
						return err
					}
					if last := lastText(segs); !strings.HasSuffix(last, "\n") {
						fmt.Fprintln(out)
					}
				}
			}
			return nil
		},
	}
}

func lastText(segs []diff.Segment) string {
	if len(segs) == 0 {
		return "\n"
	}
	return segs[len(segs)-1].Text
}

// resolveCommit accepts a full digest or a unique prefix of a commit
// reachable from HEAD.
func resolveCommit(r *repo.Repo, s string) (object.Hash, error) {
	if s == "" {
		return "", fmt.Errorf("commit id is required")
	}
	if len(s) == 64 {
		return object.Hash(s), nil
	}

	var matches []object.Hash
	for entry, err := range r.History() {
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(string(entry.ID), s) {
			matches = append(matches, entry.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no commit matches %q", s)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("commit prefix %q is ambiguous (%d matches)", s, len(matches))
	}
}
