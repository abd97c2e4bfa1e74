package main

import (
	"os"

	"github.com/rustyeddy/stratsim/cmd/stratsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
