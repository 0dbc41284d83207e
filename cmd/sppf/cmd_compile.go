package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/sppf/grammar"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newCompileCmd() *cobra.Command {
	var out string
	var start string

	cmd := &cobra.Command{
		Use:           "compile <description.ebnf>",
		Short:         "Compile an EBNF grammar description into a binary grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if start == "" {
				return fmt.Errorf("compile: --start is required")
			}

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open description: %w", err)
			}
			defer f.Close()

			desc, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(err)
				return err
			}

			g, err := grammar.Describe(desc, start)
			if err != nil {
				return fmt.Errorf("compile grammar: %w", err)
			}

			if out == "" {
				out = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".grammar"
			}
			outFile, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer outFile.Close()

			if err := grammar.WriteBinary(outFile, g); err != nil {
				return fmt.Errorf("write binary grammar: %w", err)
			}

			fmt.Printf("wrote %s (%d nonterminals, %d terminals)\n", out, g.NumNonterminals, g.NumTerminals)
			printSymbolTable(g)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output path for the binary grammar (default: <input>.grammar)")
	cmd.Flags().StringVar(&start, "start", "", "start production name")

	return cmd
}

// printSymbolTable prints the terminal name -> id mapping the compiler
// assigned, so a caller of the parse subcommand can translate a token
// stream into the integer ids THE CORE operates on.
func printSymbolTable(g *grammar.Grammar) {
	type entry struct {
		name string
		id   uint32
	}
	var entries []entry
	for id := uint32(1); id <= g.NumTerminals; id++ {
		entries = append(entries, entry{name: g.NameOf(int32(id)), id: id})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	fmt.Println("terminals:")
	for _, e := range entries {
		fmt.Printf("  %d\t%s\n", e.id, e.name)
	}
}
