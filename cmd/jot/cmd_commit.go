package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jotvcs/jot/pkg/repo"
)

func newCommitCmd() *cobra.Command {
	var message string
	var author string
	var sign bool
	var keyPath string

	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged files as a new commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			if message == "" {
				return fmt.Errorf("commit message is required (-m)")
			}

			r, err := openRepo()
			if err != nil {
				return err
			}

			cfg, err := r.ReadConfig()
			if err != nil {
				return err
			}

			if author == "" {
				author = cfg.Name
			}
			if author == "" {
				author = os.Getenv("USER")
			}
			if author == "" {
				author = "unknown"
			}

			opts := repo.CommitOptions{Author: author}
			if sign {
				if keyPath == "" {
					keyPath = cfg.SigningKey
				}
				signer, resolved, err := newSSHCommitSigner(keyPath)
				if err != nil {
					return err
				}
				opts.Signer = signer
				fmt.Fprintf(cmd.OutOrStdout(), "signing with %s\n", resolved)
			}

			h, err := r.Commit(message, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", h.Short(), message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message")
	cmd.Flags().StringVar(&author, "author", "", "override author (default: config name, then $USER)")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the commit with an SSH key")
	cmd.Flags().StringVar(&keyPath, "key", "", "SSH private key for --sign (default: config signing_key, then ~/.ssh)")

	return cmd
}
