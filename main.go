package main

import (
	"fmt"
	"os"
)

var version = "dev" // Set at build time using -ldflags

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tsuru-docs:", err)
		os.Exit(1)
	}
}
