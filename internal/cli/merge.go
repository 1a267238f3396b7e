package cli

import (
	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/pdfworks/internal/operations"
	"github.com/Epistemic-Technology/pdfworks/models"
)

func newMergeCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge PDFs, in order, into one document",
		Example: `  # Merge two PDFs into merged-<date>.pdf
  pdfworks merge a.pdf b.pdf

  # Choose the output name
  pdfworks merge a.pdf b.pdf -o combined.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := operations.MergeDocuments(cmd.Context(), a.fetcher(), a.lib(), pathSources(args), a.log)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, models.OutputMerged, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: merged-<date>.pdf)")

	return cmd
}
