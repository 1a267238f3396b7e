package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/models"
)

type inspectResult struct {
	File  string `yaml:"file"`
	Type  string `yaml:"type"`
	Size  int    `yaml:"size"`
	Pages int    `yaml:"pages,omitempty"`
	Error string `yaml:"error,omitempty"`
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Print the detected type and page count of files as YAML",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher := a.fetcher()
			lib := a.lib()

			results := make([]inspectResult, 0, len(args))
			for _, path := range args {
				res := inspectResult{File: path}
				doc, err := fetcher.GetData(cmd.Context(), models.SourceInfo{Path: path})
				if err != nil {
					res.Type = documents.TypeUnknown
					res.Error = err.Error()
					results = append(results, res)
					continue
				}
				res.Type, res.Size = doc.Type, len(doc.Data)
				switch {
				case doc.Type == documents.TypePDF:
					pages, err := lib.SplitPages(doc.Data)
					if err != nil {
						res.Error = err.Error()
					}
					res.Pages = len(pages)
				case documents.IsImage(doc.Type):
					res.Pages = 1
				}
				results = append(results, res)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(results)
		},
	}
}
