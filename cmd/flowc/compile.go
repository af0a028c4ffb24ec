package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/influxdata/flowgraph"
	"github.com/influxdata/flowgraph/compiler"
	"github.com/influxdata/flowgraph/kit/cli"
	"github.com/influxdata/flowgraph/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"
	formatTree    = "tree"
)

func (f *flowc) compileCommand() (*cobra.Command, error) {
	var format, output string
	cmd := &cobra.Command{
		Use:   "compile PROGRAM.json",
		Short: "Compile a program tree and write its definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.compile(cmd.Context(), args[0], format, output)
		},
	}
	opts := []cli.Opt{
		{
			DestP:   &format,
			Flag:    "format",
			Default: formatJSON,
			Desc:    "output format: json, msgpack or tree",
		},
		{
			DestP: &output,
			Flag:  "output",
			Short: 'o',
			Desc:  "file to write the definition to instead of stdout",
		},
	}
	if err := cli.BindOptions(f.v, cmd, opts); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (f *flowc) compile(ctx context.Context, path, format, output string) error {
	switch format {
	case formatJSON, formatMsgpack, formatTree:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	log := logger.FromContextOrNop(ctx).With(zap.String("program", path))
	natives, err := f.registry(log)
	if err != nil {
		return err
	}
	program, err := readProgram(path)
	if err != nil {
		return err
	}

	c := compiler.New(natives, compiler.WithLogger(log))
	def, err := c.Compile(program)
	if err != nil {
		return errors.Wrap(err, path)
	}

	return f.writeOutput(output, func(w io.Writer) error {
		return errors.Wrap(writeDefinition(w, def, format), "writing definition")
	})
}

func writeDefinition(w io.Writer, def *flowgraph.Definition, format string) error {
	switch format {
	case formatMsgpack:
		return def.WriteMsgpack(w)
	case formatTree:
		_, err := io.WriteString(w, def.String())
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(def)
	}
}
