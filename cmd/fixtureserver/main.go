// Command fixtureserver serves local doubles of the posts API and the upload
// page.
// Usage: go run ./cmd/fixtureserver [--addr :9999] [--dropzone-input]
package main

import (
	"fmt"
	"os"

	"github.com/raysh454/probe/internal/cli"
)

func main() {
	if err := cli.NewFixtureServerCommand(os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "fixtureserver:", err)
		os.Exit(1)
	}
}
