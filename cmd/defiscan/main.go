package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"defi-reader-sol/cmd/defiscan/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %+v\nstack: %s\n", r, debug.Stack())
			os.Exit(2)
		}
	}()

	if err := cli.Setup(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
