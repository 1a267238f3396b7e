// Package cli implements the pdfworks command line.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/pdfworks/internal/config"
	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/logger"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/models"
)

// app is the state every subcommand shares, filled in before it runs.
type app struct {
	version    string
	configFile string

	cfg *config.Config
	log logger.Logger
}

func (a *app) lib() *pdf.Pdfcpu {
	if a.cfg.PDF.Strict {
		return pdf.New(pdf.WithStrictValidation())
	}
	return pdf.New()
}

func (a *app) fetcher() *documents.Fetcher {
	return documents.NewFetcher(a.cfg.Fetcher(), a.log.Named("fetch"))
}

func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	cmd := &cobra.Command{
		Use:   "pdfworks",
		Short: "Convert images to PDF, merge PDFs and reorganize their pages",
		Long: `pdfworks combines three PDF utilities: converting images into a PDF,
merging PDFs, and a page organizer that reorders, duplicates and deletes
pages across one or more documents.

Every utility is available as a subcommand and, through "pdfworks serve",
as tools of an MCP server on stdio.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.Load(a.configFile)
			if err != nil {
				return err
			}
			log, err := cfg.Logger()
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			if cfg.File != "" {
				log.Debug("Using config file: %s", cfg.File)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./pdfworks.yaml or ~/.config/pdfworks/pdfworks.yaml)")

	cmd.AddCommand(
		newServeCmd(a),
		newMergeCmd(a),
		newImagesCmd(a),
		newOrganizeCmd(a),
		newInspectCmd(a),
	)

	return cmd
}

// pathSources turns command line arguments into sources.
func pathSources(paths []string) []models.SourceInfo {
	sources := make([]models.SourceInfo, len(paths))
	for i, p := range paths {
		sources[i] = models.SourceInfo{Path: p}
	}
	return sources
}

// writeOutput writes data to path, or to the date-derived name for kind
// when path is empty, and reports where it went.
func writeOutput(cmd *cobra.Command, path string, kind models.OutputKind, data []byte) error {
	if path == "" {
		path = models.OutputFilename(kind, time.Now())
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", path, len(data))
	return nil
}
