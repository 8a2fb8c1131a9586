package main

import (
	"fmt"
	"os"

	"github.com/ByLCY/bookcard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bookcard:", err)
		os.Exit(1)
	}
}
