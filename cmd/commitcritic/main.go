// main is the entry point for the commitcritic CLI.
package main

import (
	"github.com/commitcritic/commitcritic/cmd"
	"github.com/commitcritic/commitcritic/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
