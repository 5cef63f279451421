package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seqcrdt/logootsplit"
)

func newRenderCmd() *cobra.Command {
	var replicaNumber int32

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Replay a JSON-encoded operation log against a single fresh replica",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return errors.Wrapf(err, "logootsplitctl: opening %q", args[0])
				}
				defer f.Close()
				r = f
			}
			return runRender(cmd.OutOrStdout(), r, replicaNumber)
		},
	}
	cmd.Flags().Int32Var(&replicaNumber, "replica", 1, "replica number the rendering replica identifies as")
	return cmd
}

// runRender reads a whitespace/newline-separated stream of JSON
// operation payloads from r (spec.md §6's wire shape), applies each to
// a fresh replica in file order, and writes the resulting text plus the
// TextOp trace to w.
func runRender(w io.Writer, r io.Reader, replicaNumber int32) error {
	rl := logootsplit.NewRenamableList(replicaNumber, nil)
	var buf []rune

	dec := json.NewDecoder(bufio.NewReader(r))
	lineNo := 0
	for dec.More() {
		lineNo++
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "logootsplitctl: reading operation #%d", lineNo)
		}
		op, ok := logootsplit.DecodeOperation(raw)
		if !ok {
			return errors.Errorf("logootsplitctl: operation #%d rejected as malformed", lineNo)
		}
		textOps := op.Apply(rl)
		for _, t := range textOps {
			switch t.Kind {
			case logootsplit.TextInsert:
				buf = spliceInsert(buf, int(t.Index), t.Content)
				fmt.Fprintf(w, "insert @%d %q\n", t.Index, t.Content)
			case logootsplit.TextDelete:
				fmt.Fprintf(w, "delete @%d len=%d\n", t.Index, t.Length)
				buf = spliceDelete(buf, int(t.Index), int(t.Index)+int(t.Length)-1)
			}
		}
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintln(w, string(buf))
	return nil
}
