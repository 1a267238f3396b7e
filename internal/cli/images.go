package cli

import (
	"github.com/spf13/cobra"

	"github.com/Epistemic-Technology/pdfworks/internal/operations"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/models"
)

func newImagesCmd(a *app) *cobra.Command {
	var output string
	var opts pdf.ImageOptions

	cmd := &cobra.Command{
		Use:   "images IMAGE...",
		Short: "Convert images into a PDF, one page per image",
		Example: `  # Pages sized to each image
  pdfworks images scan1.png scan2.jpg

  # Centered on A4 pages at 90% scale
  pdfworks images scan1.png scan2.jpg --page-size A4 --position c --scale 0.9 -o scans.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := operations.ImagesToPDF(cmd.Context(), a.fetcher(), a.lib(), pathSources(args), opts, a.log)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, models.OutputImages, data)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: images-<date>.pdf)")
	cmd.Flags().StringVar(&opts.PageSize, "page-size", "", `paper size such as "A4", "Letter" or "A4L" (default: image size)`)
	cmd.Flags().StringVar(&opts.Position, "position", "", "image anchor: tl, tc, tr, l, c, r, bl, bc, br or full")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 0, "relative scale factor in (0, 1]")

	return cmd
}
