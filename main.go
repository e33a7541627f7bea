// Package main is the entry point for the cricanalyze CLI tool, which compares
// partial cricket innings scores against historical matches.
package main

import "github.com/pable/cricanalyze/cmd"

func main() {
	cmd.Execute()
}
