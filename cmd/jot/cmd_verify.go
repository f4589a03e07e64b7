package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check object integrity and commit chain consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			issues, err := r.Verify()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(issues) == 0 {
				fmt.Fprintln(out, "ok")
				return nil
			}
			for _, issue := range issues {
				if issue.ID != "" {
					fmt.Fprintf(out, "%s: %s\n", issue.ID, issue.Reason)
				} else {
					fmt.Fprintln(out, issue.Reason)
				}
			}
			return fmt.Errorf("%d integrity problem(s) found", len(issues))
		},
	}
}
