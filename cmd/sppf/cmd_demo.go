package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/sppf/alloc"
	"github.com/dhamidi/sppf/earley"
	"github.com/dhamidi/sppf/forest"
	"github.com/dhamidi/sppf/grammar"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var dumpForest bool
	var report bool

	cmd := &cobra.Command{
		Use:           "demo",
		Short:         "Run the ambiguous og-conjunction grammar end to end",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := demoGrammar()
			if err != nil {
				return fmt.Errorf("demo: %w", err)
			}

			tokens := []uint32{1, 2, 3, 1, 2, 4, 3, 1, 2}
			p, err := earley.NewParser(g, identityMatch)
			if err != nil {
				return fmt.Errorf("demo: %w", err)
			}

			root, errTok, err := p.Parse(0, g.RootIndex, uint32(len(tokens)), tokens)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error_token: %d\n", errTok)
				return err
			}
			fmt.Printf("accepted: %d tokens, %d combinations\n", len(tokens), root.NumCombinations())
			if dumpForest {
				forest.Dump(os.Stdout, root, g)
			}
			root.Release()
			if report {
				fmt.Print(alloc.Report())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dumpForest, "dump", false, "dump the resulting forest")
	cmd.Flags().BoolVar(&report, "report", false, "release the result and print the allocation report")

	return cmd
}

// demoGrammar hand-builds the noun-verb-adverb "og" (and) conjunction
// grammar:
//
//	S0  -> S
//	S   -> Y | S OgS
//	Y   -> 1 2 Adv        (1=noun, 2=verb, 4=adverb)
//	OgS -> 3 S            (3="og")
//	Adv -> 4 | ε
func demoGrammar() (*grammar.Grammar, error) {
	s0 := &grammar.Nonterminal{Name: "S0"}
	s := &grammar.Nonterminal{Name: "S"}
	y := &grammar.Nonterminal{Name: "Y"}
	ogS := &grammar.Nonterminal{Name: "OgS"}
	adv := &grammar.Nonterminal{Name: "Adv"}

	sCode := grammar.NontermCode(1)
	ogSCode := grammar.NontermCode(3)
	advCode := grammar.NontermCode(4)

	s0.Productions = []*grammar.Production{
		{ID: 0, Items: []int32{sCode}},
	}
	s.Productions = []*grammar.Production{
		{ID: 1, Items: []int32{grammar.NontermCode(2)}},
		{ID: 2, Items: []int32{sCode, ogSCode}},
	}
	y.Productions = []*grammar.Production{
		{ID: 3, Items: []int32{1, 2, advCode}},
	}
	ogS.Productions = []*grammar.Production{
		{ID: 4, Items: []int32{3, sCode}},
	}
	adv.Productions = []*grammar.Production{
		{ID: 5, Items: []int32{4}},
		{ID: 6, Items: []int32{}},
	}

	return grammar.New(4, grammar.NontermCode(0), []*grammar.Nonterminal{s0, s, y, ogS, adv})
}
