package main

import (
	"os"

	"github.com/comitanigiacomo/kanso-hrv-engine/cmd/hrvctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
