// Command sweep is a CLI front-end for the search engine: content search
// (regex over file text) and filename search over a directory tree.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
