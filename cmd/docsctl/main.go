package main

import (
	"os"

	"github.com/codepilotrules/go-docs/cmd/docsctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
