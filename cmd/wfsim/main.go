// Command wfsim runs the discrete-event workflow-trace simulator.
package main

import (
	"fmt"
	"os"

	"wfsim/internal/cliapp"
)

func main() {
	if err := cliapp.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
