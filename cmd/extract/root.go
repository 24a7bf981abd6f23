package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"docextract/internal/config"
)

var outputPath string

var rootCmd = &cobra.Command{
	Use:   "docextract-cli",
	Short: "Extract structured fields from invoice-like PDFs",
	Long: `docextract-cli converts a PDF to text (falling back to OCR for scanned
documents), asks every configured language model provider for the document's
fields and prints each provider's JSON side by side.

Configuration is read from DOCEXTRACT_* environment variables and an
optional .env file in the working directory.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "", "write output to this file instead of stdout")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(textCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// output returns the destination writer and a function that closes it.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outputPath == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}
