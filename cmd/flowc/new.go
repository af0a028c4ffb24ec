package main

import (
	"encoding/json"
	"io"

	"github.com/influxdata/flowgraph/kit/cli"
	"github.com/influxdata/flowgraph/snowflake"
	"github.com/influxdata/flowgraph/tree"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func (f *flowc) newProgramCommand() (*cobra.Command, error) {
	var (
		streamParams, funcParams, yields int
		output                           string
		machineID                        int
	)
	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Write an empty program tree with fresh ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			b := tree.NewBuilder(snowflake.NewIDGenerator(snowflake.WithMachineID(machineID)))
			program := b.Function(args[0], streamParams, funcParams, yields)
			program.Body = []tree.BodyEntry{}
			for i := 0; i < yields; i++ {
				program.Body = append(program.Body, tree.Yields(i, b.Undefined()))
			}
			return f.writeProgram(program, output)
		},
	}
	opts := []cli.Opt{
		{DestP: &streamParams, Flag: "stream-params", Desc: "number of stream parameters"},
		{DestP: &funcParams, Flag: "function-params", Desc: "number of function parameters"},
		{DestP: &yields, Flag: "outputs", Default: 1, Desc: "number of outputs, each yielding an undefined literal"},
		{DestP: &machineID, Flag: "machine-id", Desc: "machine id of the snowflake id generator"},
		{DestP: &output, Flag: "output", Short: 'o', Desc: "file to write the program to instead of stdout"},
	}
	if err := cli.BindOptions(f.v, cmd, opts); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (f *flowc) writeProgram(program *tree.TreeFunction, output string) error {
	return f.writeOutput(output, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(program), "writing program")
	})
}
