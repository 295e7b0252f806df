package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkpadhq/inkpad-export/internal/config"
	"github.com/inkpadhq/inkpad-export/internal/export"
)

var formats = map[string]export.Format{
	"html": export.FormatHTML,
	"pdf":  export.FormatPDF,
	"docx": export.FormatDOCX,
	"pptx": export.FormatPPTX,
}

func newRootCmd() *cobra.Command {
	var (
		formatFlag string
		themeFlag  string
		outFlag    string
		proFlag    bool
		dryRunFlag bool
	)

	root := &cobra.Command{
		Use:   "inkpad-export <file.md>",
		Short: "Export a Markdown document as HTML, PDF, Word or PowerPoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := formats[strings.ToLower(formatFlag)]
			if !ok {
				return fmt.Errorf("unknown format %q (want html, pdf, docx or pptx)", formatFlag)
			}

			source := args[0]
			markdown, err := os.ReadFile(source)
			if err != nil {
				return err
			}

			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
			cfg := config.Load()

			// The --out flag stands in for the save dialog: when unset the
			// default path next to the source is taken. --dry-run declines
			// the dialog, which cancels the export.
			prompt := func(defaultPath, ext string) (string, error) {
				if dryRunFlag {
					return "", nil
				}
				if outFlag != "" {
					return outFlag, nil
				}
				return defaultPath, nil
			}

			exporter, err := export.New(cfg, prompt, func(path string, data []byte) error {
				return os.WriteFile(path, data, 0o644)
			}, log)
			if err != nil {
				return err
			}

			status, err := exporter.Export(format, string(markdown), themeFlag, source, proFlag)
			if err != nil {
				return err
			}
			// Cancellation is a silent no-op.
			if status != "" {
				fmt.Fprintln(cmd.OutOrStdout(), status)
			}
			return nil
		},
	}

	root.Flags().StringVarP(&formatFlag, "format", "f", "pdf", "target format: html, pdf, docx or pptx")
	root.Flags().StringVarP(&themeFlag, "theme", "t", "", "visual theme: light or dark")
	root.Flags().StringVarP(&outFlag, "out", "o", "", "output path (defaults to the source path with the target extension)")
	root.Flags().BoolVar(&proFlag, "pro", false, "skip the free-tier watermark")
	root.Flags().BoolVar(&dryRunFlag, "dry-run", false, "run the export without writing the artifact")

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
