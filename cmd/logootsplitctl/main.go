// Command logootsplitctl is a demo and test harness around the
// logootsplit sequence CRDT core: it simulates multiple in-process
// replicas exchanging operations, and replays a captured operation log
// against a single replica.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
