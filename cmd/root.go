package cmd

import (
	"fmt"
	"os"

	"github.com/groomlane/concierge/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "concierge",
	Short: "Concierge - storefront support answering service",
	Long: `Concierge answers customer questions for the storefront chat widget.

It embeds each question, retrieves the most relevant site knowledge from a
vector store, and generates a grounded answer, falling back to a fixed
support message whenever retrieval or generation cannot help.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

// loadConfig reads the configured YAML file, or returns defaults when no
// file was given.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// Execute runs the root command
func Execute() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
