package main

import (
	"os"

	"github.com/gridflow/lvplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
