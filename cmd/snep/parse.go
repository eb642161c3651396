package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"snep/internal/ast"
	"snep/internal/diagfmt"
	"snep/internal/driver"
	"snep/internal/source"
)

func newParseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] PATH...",
		Short: "Parse snep files and report structure and diagnostics",
		Long:  `Parse files or directories (recursively, by extension) in parallel and print a summary, the forest or a JSON/YAML dump`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			uiValue, err := cmd.Flags().GetString("ui")
			if err != nil {
				return fmt.Errorf("failed to get ui flag: %w", err)
			}
			mode, err := readUIMode(uiValue)
			if err != nil {
				return err
			}
			switch format {
			case "pretty", "tree", "json", "yaml":
			default:
				return fmt.Errorf("unknown format: %s", format)
			}

			opts, err := a.driverOptions()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var (
				fileSet *source.FileSet
				results []driver.FileResult
			)
			err = a.withProgress(ctx, mode, "parsing", opts, func(opts driver.Options) error {
				var perr error
				fileSet, results, perr = driver.ParsePaths(ctx, a.fs, args, opts)
				return perr
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				a.log().WithField("paths", args).Warn("no snep files found")
				return nil
			}

			merged := driver.MergeBags(results, 0)
			switch format {
			case "json", "yaml":
				files := make([]diagfmt.FileTree, 0, len(results))
				for _, r := range results {
					files = append(files, diagfmt.NewFileTree(r.Path, r.Nodes, r.Bag, fileSet))
				}
				if format == "json" {
					err = diagfmt.FormatFilesJSON(a.stdout, files)
				} else {
					err = diagfmt.FormatFilesYAML(a.stdout, files)
				}
				if err != nil {
					return err
				}
				// диагностики уже внутри дампа
				if merged.HasErrors() {
					return errReported
				}
				return nil
			case "tree":
				for _, r := range results {
					if r.File == nil {
						continue
					}
					if len(results) > 1 {
						fmt.Fprintf(a.stdout, "== %s\n", r.Path)
					}
					if err := diagfmt.FormatTreePretty(a.stdout, r.Nodes); err != nil {
						return err
					}
				}
			default:
				if !a.quiet {
					for _, r := range results {
						writeSummary(a, r)
					}
				}
			}
			return a.reportDiagnostics(merged, fileSet)
		},
	}
	cmd.Flags().StringP("format", "f", "pretty", "output format (pretty|tree|json|yaml)")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	return cmd
}

func writeSummary(a *app, r driver.FileResult) {
	if r.File == nil {
		fmt.Fprintf(a.stdout, "%s: not loaded\n", r.Path)
		return
	}
	s := ast.Collect(r.Nodes)
	fmt.Fprintf(a.stdout, "%s: %d elements (%d literal), %d texts, depth %d, %d errors",
		r.Path, s.Elements, s.Literals, s.Texts, s.MaxDepth, r.Errors)
	if r.Cached {
		fmt.Fprint(a.stdout, " (cached)")
	}
	fmt.Fprintln(a.stdout)
}
