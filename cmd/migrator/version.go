package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version se sobreescribe en build con -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión del migrador",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dte-migrator %s\n", version)
	},
}
