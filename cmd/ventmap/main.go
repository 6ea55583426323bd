// Command ventmap counts the dangerous points of a hydrothermal vent map
// read from a puzzle input file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ArminGh02/ventmap/pkg/gifmaker"
	"github.com/ArminGh02/ventmap/pkg/ventmap"
)

type options struct {
	variant    string
	workers    int
	gifPath    string
	skipSloped bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "ventmap [input-file]",
		Short:        "Count the points where hydrothermal vent lines overlap",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "input.txt"
			if len(args) == 1 {
				filename = args[0]
			}
			return run(cmd.Context(), cmd.OutOrStdout(), filename, opts)
		},
	}

	cmd.Flags().StringVar(&opts.variant, "variant", "both", "straight, all or both")
	cmd.Flags().IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of workers rasterizing lines")
	cmd.Flags().StringVar(&opts.gifPath, "gif", "", "write a replay of the last solved map to this file")
	cmd.Flags().BoolVar(&opts.skipSloped, "skip-sloped", true, "ignore lines that are not straight or 45° instead of failing")
	return cmd
}

func variantsOf(name string) ([]ventmap.Variant, error) {
	if name == "both" {
		return ventmap.Variants, nil
	}
	v, err := ventmap.ParseVariant(name)
	if err != nil {
		return nil, err
	}
	return []ventmap.Variant{v}, nil
}

func run(ctx context.Context, out io.Writer, filename string, opts options) error {
	if ctx == nil {
		ctx = context.Background()
	}

	variants, err := variantsOf(opts.variant)
	if err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", filename, err)
	}
	defer f.Close()

	segments, err := ventmap.ParseInput(f)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if opts.skipSloped {
		var sloped int
		segments, sloped = ventmap.DropSloped(segments)
		if sloped > 0 {
			fmt.Fprintf(out, "sloped vent lines ignored: %d\n", sloped)
		}
	}

	maps := make([]*ventmap.Map, 0, len(variants))
	for _, v := range variants {
		m, err := ventmap.SolveParallel(ctx, segments, v, opts.workers)
		if err != nil {
			return err
		}
		maps = append(maps, m)
		fmt.Fprintf(out, "vent lines (%v): %d\n", v, m.Report().Segments)
	}
	for _, m := range maps {
		fmt.Fprintln(out, m.Report())
	}

	if opts.gifPath != "" {
		if err := gifmaker.Make(opts.gifPath, maps[len(maps)-1], gifmaker.DefaultOptions); err != nil {
			return err
		}
	}
	return nil
}
