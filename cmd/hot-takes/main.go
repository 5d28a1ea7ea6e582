package main

import (
	"fmt"
	"os"

	"github.com/bristermitten/hot-takes/cmd/hot-takes/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
