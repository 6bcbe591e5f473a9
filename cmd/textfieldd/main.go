// Command textfieldd serves native text fields to a remote host UI.
package main

import (
	"fmt"
	"os"

	"github.com/go-drift/textfield/cmd/textfieldd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
