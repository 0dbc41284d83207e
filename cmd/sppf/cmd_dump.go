package main

import (
	"os"

	"github.com/dhamidi/sppf/forest"
	"github.com/spf13/cobra"
)

func newDumpCmd() *cobra.Command {
	var tokenList string

	cmd := &cobra.Command{
		Use:           "dump <grammar.grammar>",
		Short:         "Parse a token sequence and print the resulting SPPF",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, g, _, err := parseFromFiles(args[0], tokenList)
			if err != nil {
				return err
			}
			defer root.Release()

			forest.Dump(os.Stdout, root, g)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tokenList, "tokens", "t", "", "comma-separated terminal ids")

	return cmd
}
