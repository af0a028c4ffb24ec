package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/influxdata/flowgraph/logger"
	"github.com/spf13/cobra"
)

func (f *flowc) nativesCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "natives",
		Short: "List the native functions known to the compiler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return f.listNatives(cmd.Context())
		},
	}
	return cmd, nil
}

func (f *flowc) listNatives(ctx context.Context) error {
	natives, err := f.registry(logger.FromContextOrNop(ctx))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(f.stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tName\tStreams\tFunctions\tOutputs")
	for _, d := range natives.Defs() {
		streams := fmt.Sprint(d.StreamParams)
		if d.Variadic {
			streams = "*"
		}
		outputs := make([]string, len(d.Outputs))
		for i, name := range d.Outputs {
			if name == "" {
				name = "-"
			}
			outputs[i] = name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", d.ID, d.Name, streams, d.FuncParams, strings.Join(outputs, ","))
	}
	return w.Flush()
}
