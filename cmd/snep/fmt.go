package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snep/internal/driver"
)

func newFmtCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] PATH...",
		Short: "Rewrite snep files in normalised form",
		Long:  `Render every file back from its forest, dropping redundant dividers. Files with errors are left untouched`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			check, err := cmd.Flags().GetBool("check")
			if err != nil {
				return fmt.Errorf("failed to get check flag: %w", err)
			}
			toStdout, err := cmd.Flags().GetBool("stdout")
			if err != nil {
				return fmt.Errorf("failed to get stdout flag: %w", err)
			}

			opts, err := a.driverOptions()
			if err != nil {
				return err
			}
			fileSet, results, err := driver.FormatPaths(cmd.Context(), a.fs, args, !check && !toStdout, opts)
			if err != nil {
				return err
			}

			changed := 0
			for _, r := range results {
				if r.Changed {
					changed++
				}
				switch {
				case toStdout && r.Output != nil:
					if _, err := a.stdout.Write(r.Output); err != nil {
						return err
					}
				case check && r.Changed:
					fmt.Fprintf(a.stdout, "would reformat %s\n", r.Path)
				case r.Written && !a.quiet:
					fmt.Fprintf(a.stdout, "reformatted %s\n", r.Path)
				}
			}
			a.log().WithField("files", len(results)).WithField("changed", changed).Debug("fmt finished")

			if err := a.reportDiagnostics(driver.MergeBags(results, 0), fileSet); err != nil {
				return err
			}
			if check && changed > 0 {
				return fmt.Errorf("%d file(s) not formatted", changed)
			}
			return nil
		},
	}
	cmd.Flags().Bool("check", false, "report files that would change and exit 1 instead of writing")
	cmd.Flags().Bool("stdout", false, "print the formatted output instead of writing files")
	return cmd
}
