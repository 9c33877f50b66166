package main

import (
	"os"
	"strings"

	"bookscript/internal/cli"
)

// rewriteDocumentArg makes `bookscript <file>` work like
// `bookscript --open <file> --save-as <file>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before parsing.
// Persistent flags may come first (`bookscript --data-dir x draft.bks`), so the first positional
// token is located rather than assuming argv[1].
func rewriteDocumentArg(argv []string, subcommands map[string]bool) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--data-dir":          true,
		"--autosave-interval": true,
		"--log-file":          true,
		"--log-level":         true,
		"--format":            true,
		"--open":              true,
		"--save-as":           true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+3)
		out = append(out, argv[:i]...)
		out = append(out, "--open", argv[i], "--save-as", argv[i])
		out = append(out, argv[i+1:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && !subcommands[argv[i+1]] {
				out := append([]string{}, argv[:i]...)
				out = append(out, "--open", argv[i+1], "--save-as", argv[i+1])
				return append(out, argv[i+2:]...)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if subcommands[a] {
			return argv
		}
		return rewrite(i)
	}
	return argv
}

func main() {
	cmd := cli.NewRootCmd()

	subcommands := map[string]bool{"help": true, "completion": true}
	for _, c := range cmd.Commands() {
		subcommands[c.Name()] = true
		for _, alias := range c.Aliases {
			subcommands[alias] = true
		}
	}
	cmd.SetArgs(rewriteDocumentArg(os.Args, subcommands)[1:])

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
