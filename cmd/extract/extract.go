package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"docextract/internal/bootstrap"
	"docextract/internal/export"
	"docextract/internal/service"
)

var (
	documentType string
	format       string
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>",
	Short: "Extract fields from a PDF with every configured provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&documentType, "type", "t", "invoice", "document type: invoice, spec, quote or submittal")
	extractCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, csv or xlsx")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if format != "json" {
		if _, err := export.ParseFormat(format); err != nil {
			return err
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return err
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	result, err := app.Service.Process(cmd.Context(), service.ExtractInput{
		Reader:       f,
		FileName:     filepath.Base(path),
		Size:         info.Size(),
		DocumentType: documentType,
	})
	if err != nil {
		return err
	}

	w, closeOut, err := output(cmd)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		err = enc.Encode(result)
	} else {
		fm, _ := export.ParseFormat(format)
		err = export.Write(w, result, fm)
	}
	if err != nil {
		_ = closeOut()
		return fmt.Errorf("writing output: %w", err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "%d/%d providers returned data (%s, %d pages)\n",
		result.SucceededCount(), len(result.Providers), result.TextSource, result.Pages)
	return nil
}
