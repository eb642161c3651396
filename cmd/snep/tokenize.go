package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snep/internal/diagfmt"
	"snep/internal/driver"
)

func newTokenizeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] FILE",
		Short: "Print the token stream of a snep file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}

			res, err := driver.Tokenize(cmd.Context(), a.fs, args[0])
			if err != nil {
				return err
			}

			switch format {
			case "pretty":
				return diagfmt.FormatTokensPretty(a.stdout, res.Tokens)
			case "json":
				return diagfmt.FormatTokensJSON(a.stdout, res.Tokens)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	cmd.Flags().StringP("format", "f", "pretty", "output format (pretty|json)")
	return cmd
}
