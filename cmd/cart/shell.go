package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run cart commands interactively",
		Long: `shell reads cart commands line by line and runs them against one
open cart, so "just added" markers are visible until they fade.
Quote arguments that contain spaces. Type "exit" to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := bufio.NewScanner(a.in)
			fmt.Fprint(a.out, "> ")
			for sc.Scan() {
				line := strings.TrimSpace(sc.Text())
				switch line {
				case "":
				case "exit", "quit":
					return nil
				default:
					sub := newRootCmd(a)
					sub.SetArgs(splitArgs(line))
					if err := sub.Execute(); err != nil {
						a.logger.Debug("shell command failed")
					}
				}
				fmt.Fprint(a.out, "> ")
			}
			return sc.Err()
		},
	}
}

// splitArgs splits a line on spaces, keeping double-quoted runs together.
func splitArgs(line string) []string {
	var (
		args   []string
		cur    strings.Builder
		quoted bool
		inArg  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inArg = true
		case r == ' ' && !quoted:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}
