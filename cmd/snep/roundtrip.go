package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"snep/internal/driver"
)

func newRoundTripCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roundtrip [flags] FILE",
		Short: "Parse a file and print it back from its forest",
		Long:  `Print render(parse(FILE)) to stdout and every diagnostic to stderr. Exits 1 when anything was reported. FILE "-" reads stdin`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verify, err := cmd.Flags().GetBool("verify")
			if err != nil {
				return fmt.Errorf("failed to get verify flag: %w", err)
			}
			opts, err := a.driverOptions()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var res *driver.ParseResult
			if args[0] == "-" {
				content, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				res = driver.ParseSource(ctx, "<stdin>", content, opts)
			} else if res, err = driver.Parse(ctx, a.fs, args[0], opts); err != nil {
				return err
			}

			var rt *driver.RoundTripResult
			err = opts.Measure("roundtrip", func() (int, error) {
				rt = driver.RoundTrip(ctx, res)
				return len(rt.Rendered), nil
			})
			if err != nil {
				return err
			}
			if _, err := a.stdout.Write(rt.Rendered); err != nil {
				return err
			}

			for _, s := range res.Bag.Strings() {
				fmt.Fprintln(a.stderr, s)
			}
			if res.Errors > 0 {
				return errReported
			}
			if verify && !rt.Equal {
				return fmt.Errorf("%s: rendering differs from the source", res.File.Path)
			}
			return nil
		},
	}
	cmd.Flags().Bool("verify", false, "fail when the rendering differs from the input byte for byte")
	return cmd
}
