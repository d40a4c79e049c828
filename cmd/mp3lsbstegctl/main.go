package main

import (
	"fmt"
	"os"

	"github.com/mp3lsbsteg/mp3lsbsteg/cmd/mp3lsbstegctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
