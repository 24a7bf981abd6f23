package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docextract/internal/extractor"
	"docextract/internal/ocr"
)

var textCmd = &cobra.Command{
	Use:   "text <file.pdf>",
	Short: "Print the text extracted from a PDF, using OCR when it has no text layer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		engine, err := ocr.NewFromConfig(cfg.OCR)
		if err != nil {
			return err
		}

		res, err := extractor.New(engine).Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w, closeOut, err := output(cmd)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, res.Text); err != nil {
			_ = closeOut()
			return err
		}
		if err := closeOut(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "source: %s, pages: %d\n", res.Source, res.Pages)
		return nil
	},
}
