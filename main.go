// Package main is the entry point for the ns2stats CLI, which ingests Natural
// Selection 2 round files, reports player and map statistics, suggests
// balanced teams and serves the same data over HTTP.
package main

import "github.com/pable/go-ns2-stats/cmd"

func main() {
	cmd.Execute()
}
