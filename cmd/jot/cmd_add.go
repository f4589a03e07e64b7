package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <files...>",
		Short: "Stage files for the next commit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo()
			if err != nil {
				return err
			}

			staged, err := r.Add(args)
			if err != nil {
				return err
			}
			for _, e := range staged {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", e.ObjectID, e.Path)
			}
			return nil
		},
	}
}
