// Command worktimer tracks work periods from the terminal.
package main

import (
	"os"
	_ "time/tzdata"
)

func main() {
	os.Exit(run())
}

func run() int {
	defer teardown()
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
