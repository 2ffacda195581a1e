package main

import (
	"os"

	"github.com/rustyeddy/ind/cmd/ind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
