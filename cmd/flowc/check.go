package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/compiler"
	"github.com/influxdata/flowgraph/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func (f *flowc) checkCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "check PROGRAM.json...",
		Short: "Compile program trees and report every failure",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.check(cmd.Context(), args)
		},
	}
	return cmd, nil
}

// check compiles every program concurrently and reports them in argument
// order. It fails if any program fails.
func (f *flowc) check(ctx context.Context, paths []string) error {
	log := logger.FromContextOrNop(ctx)
	natives, err := f.registry(log)
	if err != nil {
		return err
	}
	c := compiler.New(natives, compiler.WithLogger(log))

	errs := make([]error, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			errs[i] = checkProgram(c, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var failed error
	for i, path := range paths {
		if errs[i] == nil {
			fmt.Fprintf(f.stdout, "ok\t%s\n", path)
			continue
		}
		fmt.Fprintf(f.stdout, "FAIL\t%s\t[%s] %v\n", path, flowgraph.ErrorCode(errs[i]), errs[i])
		failed = multierr.Append(failed, errs[i])
	}
	if failed != nil {
		return errors.Wrapf(failed, "%d of %d programs failed", len(multierr.Errors(failed)), len(paths))
	}
	return nil
}

func checkProgram(c *compiler.Compiler, path string) error {
	program, err := readProgram(path)
	if err != nil {
		return err
	}
	if _, err := c.Compile(program); err != nil {
		return errors.Wrap(err, "compiling")
	}
	return nil
}
