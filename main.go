package main

import (
	"os"

	"github.com/sihabsafin/docmind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
