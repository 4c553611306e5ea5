// Package main is the entry point for the queryfly CLI, which runs queries
// against a remote HTTP data API as if it were a database connection.
package main

import (
	"queryfly/cli/cmd"
)

func main() {
	cmd.Execute()
}
