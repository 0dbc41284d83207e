package main

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/dhamidi/sppf/earley"
	"github.com/dhamidi/sppf/forest"
	"github.com/dhamidi/sppf/grammar"
)

// printErrors prints an ebnf.Parse/ebnf.Verify error, which may be a
// plain error or (per golang.org/x/exp/ebnf) a slice of them.
func printErrors(err error) {
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Println(v.Index(i).Interface())
		}
		return
	}
	fmt.Println(err)
}

// parseTokens parses a comma-separated list of terminal ids, the CLI's
// stand-in for a real tokenizer (out of scope per spec.md's Non-goals).
func parseTokens(s string) ([]uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	tokens := make([]uint32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("token %d (%q): %w", i, f, err)
		}
		tokens[i] = uint32(v)
	}
	return tokens, nil
}

// identityMatch is the CLI's host matching predicate: each token in the
// input is its own terminal id. A real embedder supplies its own
// MatchFunc (see spec.md §6); this one exists only so the CLI can drive
// the core end to end without a lexer.
func identityMatch(handle uint32, token, terminal uint32) bool {
	return token == terminal
}

// parseFromFiles loads a binary grammar and runs a parse over the given
// comma-separated token list, printing error_token to stderr on failure.
// It is the shared body of the parse, dump and combinations subcommands.
func parseFromFiles(grammarPath, tokenList string) (*forest.Node, *grammar.Grammar, []uint32, error) {
	g, err := grammar.ReadBinaryFile(grammarPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("read grammar: %w", err)
	}
	tokens, err := parseTokens(tokenList)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("parse tokens: %w", err)
	}
	p, err := earley.NewParser(g, identityMatch)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build parser: %w", err)
	}
	root, errTok, err := p.Parse(0, g.RootIndex, uint32(len(tokens)), tokens)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error_token: %d\n", errTok)
		return nil, nil, nil, err
	}
	return root, g, tokens, nil
}
