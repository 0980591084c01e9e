package main

import (
	"fmt"
	"os"

	"github.com/kubev2v/vm-power-agent/cmd"
	"github.com/kubev2v/vm-power-agent/internal/config"
)

func main() {
	// default configuration
	cfg := config.NewConfigurationWithOptionsAndDefaults(
		config.WithDeclarationPath(cmd.DefaultDeclarationPath()),
		config.WithLogFormat("console"),
		config.WithLogLevel("info"),
	)

	rootCmd := cmd.NewReconcileCommand(cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
