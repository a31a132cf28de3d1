// Command wpupdates checks GitHub releases for the configured plugins and
// themes, keeps the update caches in a database and serves the admin
// force-check endpoint.
package main

import (
	"fmt"
	"os"

	_ "github.com/git-pkgs/wpupdates/all"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
