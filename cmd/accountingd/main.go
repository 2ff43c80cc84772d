package main

import (
	"fmt"
	"os"

	"github.com/openalpha/casino-core/cmd/accountingd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
