package main

import (
	"os"

	"github.com/marcelsud/webhook-relay/cmd/relayctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
