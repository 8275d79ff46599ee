package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/blackwell-systems/logsweep/internal/app"
	"github.com/blackwell-systems/logsweep/internal/scanner"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// A missing or non-directory source is a configuration error and
		// gets its own exit code; everything else is a run failure.
		var badSource *scanner.ErrBadSource
		if errors.As(err, &badSource) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
