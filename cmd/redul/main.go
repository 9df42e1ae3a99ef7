// Command redul drives the redul showcase apps from the terminal.
package main

import (
	"os"

	"github.com/go-redul/redul/cmd/redul/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
