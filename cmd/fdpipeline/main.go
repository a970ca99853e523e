package main

import (
	"os"

	"github.com/CapitalOne-RedFlags/GreenFlagML/cmd/fdpipeline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
