// Command publishctl edits a page from the terminal. The draft lives in a
// small YAML file between runs so new, set, save and load can be chained.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
