// Package main is the entry point for pgedge-dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-dashboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
