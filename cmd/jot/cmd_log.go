package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var oneline bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history from HEAD to the root",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			commitColor := color.New(color.FgYellow)

			for entry, err := range r.History() {
				if err != nil {
					return err
				}
				c := entry.Commit

				if oneline {
					fmt.Fprintf(out, "%s %s\n", entry.ID.Short(), c.Message)
					continue
				}

				commitColor.Fprintf(out, "commit %s\n", entry.ID)
				fmt.Fprintf(out, "Author: %s\n", c.Author)
				fmt.Fprintf(out, "Date:   %s\n", time.Unix(c.Timestamp, 0).Format("2006-01-02 15:04:05"))
				if c.Signature != "" {
					fmt.Fprintln(out, "Signed: yes")
				}
				fmt.Fprintln(out)
				fmt.Fprintf(out, "    %s\n", c.Message)
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&oneline, "oneline", false, "one line per commit")
	return cmd
}
