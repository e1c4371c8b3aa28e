// main holds the entry logic for the typesweep CLI.
package main

import (
	"fmt"
	"os"

	"github.com/alchm-kitchen/typesweep/cmd"
	"github.com/alchm-kitchen/typesweep/internal/contract"
	"github.com/alchm-kitchen/typesweep/internal/runstore"
)

// main wires the shared history manager into the command tree, runs it, and
// tears down profiling and open stores on the way out.
func main() {
	cmd.SetHistoryManager(runstore.Manager)

	err := cmd.Execute()

	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Stopping profiler", perr)
	}
	runstore.CloseStores()

	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
