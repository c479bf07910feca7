package main

import (
	"os"

	"github.com/abhisek/careertree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
