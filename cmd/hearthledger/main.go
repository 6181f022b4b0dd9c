package main

import (
	"os"

	"github.com/hearthledger/hearthledger/cmd/hearthledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
