package main

import (
	"os"

	"docportal/cmd/docctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
