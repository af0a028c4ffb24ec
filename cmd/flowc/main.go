// Command flowc compiles dataflow program trees into the definitions the
// runtime executes.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/influxdata/flowgraph/kit/cli"
	"github.com/influxdata/flowgraph/logger"
	"github.com/influxdata/flowgraph/native"
	"github.com/influxdata/flowgraph/tree"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cmd, err := newCommand(viper.New(), os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// flowc holds the state shared by the subcommands.
type flowc struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	natives string
	logConf logger.Config

	// createFile opens output files.
	createFile func(path string) (io.WriteCloser, error)
}

func newCommand(v *viper.Viper, stdout, stderr io.Writer) (*cobra.Command, error) {
	f := &flowc{
		v:       v,
		stdout:  stdout,
		stderr:  stderr,
		logConf: logger.NewConfig(),
		createFile: func(path string) (io.WriteCloser, error) {
			return os.Create(path)
		},
	}

	cmd, err := cli.NewCommand(v, &cli.Program{
		Name: "flowc",
		Opts: []cli.Opt{
			{
				DestP:      &f.natives,
				Flag:       "natives",
				Short:      'n',
				Desc:       "TOML library of native functions; only the builtins are known without it",
				Persistent: true,
			},
			{
				DestP:      &f.logConf.Level,
				Flag:       "log-level",
				Default:    zapcore.WarnLevel,
				Desc:       "supported log levels are debug, info, warn and error",
				Persistent: true,
			},
			{
				DestP:      &f.logConf.Format,
				Flag:       "log-format",
				Default:    "auto",
				Desc:       "log format: auto, console, json or logfmt",
				Persistent: true,
			},
		},
	})
	if err != nil {
		return nil, err
	}
	cmd.Short = "Compile dataflow program trees"
	cmd.SilenceUsage = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		log, err := f.logConf.New(f.stderr)
		if err != nil {
			return err
		}
		cmd.SetContext(logger.NewContextWithLogger(cmd.Context(), log))
		return nil
	}

	for _, sub := range []func() (*cobra.Command, error){
		f.compileCommand,
		f.checkCommand,
		f.nativesCommand,
		f.newProgramCommand,
	} {
		c, err := sub()
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(c)
	}
	return cmd, nil
}

// registry loads the native library named by --natives.
func (f *flowc) registry(log *zap.Logger) (*native.Registry, error) {
	if f.natives == "" {
		return native.New()
	}
	r, err := native.LoadFile(f.natives)
	if err != nil {
		return nil, errors.Wrapf(err, "loading natives from %s", f.natives)
	}
	log.Debug("Loaded native library",
		zap.String("path", f.natives),
		zap.Int("functions", r.Len()),
	)
	return r, nil
}

func readProgram(path string) (*tree.TreeFunction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading program")
	}
	program, err := tree.UnmarshalFunction(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filepath.Base(path))
	}
	return program, nil
}

// create opens path for writing, or returns stdout when path is empty.
func (f *flowc) create(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{f.stdout}, nil
	}
	w, err := f.createFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "creating output")
	}
	return w, nil
}

// writeOutput calls write with the output named by path and closes it. A
// failed close is reported even when write failed too.
func (f *flowc) writeOutput(path string, write func(io.Writer) error) (err error) {
	w, err := f.create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(w.Close(), "closing output"))
	}()
	return write(w)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
