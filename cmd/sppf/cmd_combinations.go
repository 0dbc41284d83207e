package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCombinationsCmd() *cobra.Command {
	var tokenList string

	cmd := &cobra.Command{
		Use:           "combinations <grammar.grammar>",
		Short:         "Parse a token sequence and count distinct derivations",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, _, err := parseFromFiles(args[0], tokenList)
			if err != nil {
				return err
			}
			defer root.Release()

			fmt.Println(root.NumCombinations())
			return nil
		},
	}

	cmd.Flags().StringVarP(&tokenList, "tokens", "t", "", "comma-separated terminal ids")

	return cmd
}
