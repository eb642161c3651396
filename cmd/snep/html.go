package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snep/internal/driver"
	"snep/internal/source"
)

func newHTMLCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "html [flags] PATH...",
		Short: "Render snep files to HTML pages",
		Long:  `Render every file to <out>/<name>.html. Element names become tags, "+" splices its children and literal elements emit their content only`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uiValue, err := cmd.Flags().GetString("ui")
			if err != nil {
				return fmt.Errorf("failed to get ui flag: %w", err)
			}
			mode, err := readUIMode(uiValue)
			if err != nil {
				return err
			}

			opts, err := a.driverOptions()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var (
				fileSet *source.FileSet
				results []driver.HTMLResult
			)
			err = a.withProgress(ctx, mode, "rendering", opts, func(opts driver.Options) error {
				var herr error
				fileSet, results, herr = driver.BuildHTML(ctx, a.fs, args, a.cfg.OutDir.String, opts)
				return herr
			})
			if err != nil {
				return err
			}

			for _, r := range results {
				if r.Out != "" && !a.quiet {
					fmt.Fprintf(a.stdout, "%s -> %s\n", r.Path, r.Out)
				}
			}
			return a.reportDiagnostics(driver.MergeBags(results, 0), fileSet)
		},
	}
	cmd.Flags().StringP("out", "o", "out", "output directory")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	return cmd
}
