package main

import (
	"os"

	"github.com/facetkit/facet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
