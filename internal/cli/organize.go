package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Epistemic-Technology/pdfworks/internal/documents"
	"github.com/Epistemic-Technology/pdfworks/internal/operations"
	"github.com/Epistemic-Technology/pdfworks/internal/organizer"
	"github.com/Epistemic-Technology/pdfworks/internal/pdf"
	"github.com/Epistemic-Technology/pdfworks/models"
)

func newOrganizeCmd(a *app) *cobra.Command {
	var output string
	var rawOps []string
	var manifest bool

	cmd := &cobra.Command{
		Use:   "organize FILE...",
		Short: "Reorder, duplicate, delete and insert pages",
		Long: `Loads every FILE (PDFs, or images as single pages) in order and applies
each --op in turn. Positions are 1-based and refer to the page order after
the previous ops.

  move:FROM:TO     move the page at FROM so it ends up at TO
  dup:N            duplicate page N, placing the copy right after it
  del:N[,N...]     delete pages; at least one page must remain
  ins:POS:FILE     insert the pages of FILE starting at POS`,
		Example: `  # Move the last of five pages to the front and drop page 3
  pdfworks organize report.pdf --op move:5:1 --op del:3 -o report-fixed.pdf

  # Append a scan, put a cover in front and print the resulting page list
  pdfworks organize report.pdf scan.png --op ins:1:cover.pdf --manifest`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := make([]op, 0, len(rawOps))
			for _, raw := range rawOps {
				o, err := parseOp(raw)
				if err != nil {
					return err
				}
				ops = append(ops, o)
			}

			lib := a.lib()
			fetcher := a.fetcher()
			m := organizer.NewManager("cli", lib, a.log.Named("organize"))
			defer m.Reset()

			ctx := cmd.Context()
			for _, path := range args {
				if _, _, err := operations.LoadIntoSession(ctx, m, fetcher, lib, models.SourceInfo{Path: path}, -1); err != nil {
					return err
				}
			}

			for _, o := range ops {
				if err := applyOp(ctx, m, fetcher, lib, o); err != nil {
					return err
				}
			}

			data, err := m.Materialize(ctx)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd, output, models.OutputOrganized, data); err != nil {
				return err
			}

			if manifest {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(m.State())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: organized-<date>.pdf)")
	cmd.Flags().StringArrayVar(&rawOps, "op", nil, "edit to apply, repeatable (move:FROM:TO, dup:N, del:N[,N...], ins:POS:FILE)")
	cmd.Flags().BoolVar(&manifest, "manifest", false, "print the final page list as YAML")

	return cmd
}

// applyOp runs one edit against m, translating one-based positions to
// entry IDs.
func applyOp(ctx context.Context, m *organizer.Manager, fetcher *documents.Fetcher, lib *pdf.Pdfcpu, o op) error {
	entries := m.Entries()
	entryAt := func(pos int) (models.PageEntry, error) {
		if pos > len(entries) {
			return models.PageEntry{}, fmt.Errorf("%s: position %d is out of range (1-%d)", o.kind, pos, len(entries))
		}
		return entries[pos-1], nil
	}

	switch o.kind {
	case opMove:
		e, err := entryAt(o.positions[0])
		if err != nil {
			return err
		}
		if _, err := entryAt(o.target); err != nil {
			return err
		}
		m.Move(e.ID, o.target-1)

	case opDuplicate:
		e, err := entryAt(o.positions[0])
		if err != nil {
			return err
		}
		m.Duplicate(e.ID)

	case opDelete:
		ids := make([]string, 0, len(o.positions))
		for _, pos := range o.positions {
			e, err := entryAt(pos)
			if err != nil {
				return err
			}
			ids = append(ids, e.ID)
		}
		if _, err := m.Delete(ids); err != nil {
			return fmt.Errorf("del: %w", err)
		}

	case opInsert:
		if o.target > len(entries)+1 {
			return fmt.Errorf("%s: position %d is out of range (1-%d)", o.kind, o.target, len(entries)+1)
		}
		if _, _, err := operations.LoadIntoSession(ctx, m, fetcher, lib, models.SourceInfo{Path: o.path}, o.target-1); err != nil {
			return err
		}
	}
	return nil
}
