package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var tokenList string

	cmd := &cobra.Command{
		Use:           "parse <grammar.grammar>",
		Short:         "Parse a token sequence against a binary grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, _, tokens, err := parseFromFiles(args[0], tokenList)
			if err != nil {
				return err
			}
			defer root.Release()

			fmt.Printf("accepted: %d tokens, %d combinations\n", len(tokens), root.NumCombinations())
			return nil
		},
	}

	cmd.Flags().StringVarP(&tokenList, "tokens", "t", "", "comma-separated terminal ids")

	return cmd
}
