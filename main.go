package main

import (
	"os"

	"github.com/webscout/webscout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
