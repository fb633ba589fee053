package main

import (
	"fmt"
	"os"
)

// main hands control to the cobra command tree. Business logic lives in the
// internal service packages; this package only wires them.
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
