// Package list prints or exports stored tech-pack records
package list

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"fjacquet/techpack-csv/cmd/root"
	"fjacquet/techpack-csv/internal/common"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/repository"

	"github.com/spf13/cobra"
)

// Options selects the records to show.
type Options struct {
	Limit   int
	Offset  int
	StyleID string
	// FromCSV reads records from a previously exported file instead of the store.
	FromCSV        string
	Output         string
	IncludeHeaders bool
}

var (
	limit   int
	offset  int
	styleID string
	fromCSV string
)

// Cmd represents the list command
var Cmd = &cobra.Command{
	Use:   "list",
	Short: "List stored tech packs",
	Long: `List tech-pack records from the record store, newest first, or from a CSV
file written by extract or batch.

Records are printed as a table, or exported to the CSV file given with -o.

Example:
  techpack-csv list --limit 20
  techpack-csv list --style HD-2041
  techpack-csv list --from packs_techpacks.csv`,
	RunE: listFunc,
}

func init() {
	Cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of records")
	Cmd.Flags().IntVar(&offset, "offset", 0, "Number of records to skip")
	Cmd.Flags().StringVar(&styleID, "style", "", "Show the record with this style id")
	Cmd.Flags().StringVar(&fromCSV, "from", "", "Read records from this CSV file instead of the store")
}

func listFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return errors.New("container not initialized")
	}

	var repo repository.Repository
	if fromCSV == "" {
		var err error
		if repo, err = appContainer.GetRepository(); err != nil {
			return err
		}
	}

	return Run(cmd.Context(), repo, Options{
		Limit:          limit,
		Offset:         offset,
		StyleID:        styleID,
		FromCSV:        fromCSV,
		Output:         root.SharedFlags.Output,
		IncludeHeaders: appContainer.GetConfig().CSV.IncludeHeaders,
	}, cmd.OutOrStdout())
}

// Run loads the selected records and prints or exports them.
func Run(ctx context.Context, repo repository.Repository, opts Options, out io.Writer) error {
	records, err := load(ctx, repo, opts)
	if err != nil {
		return err
	}
	if opts.Output != "" {
		return common.WriteTechPacksToCSV(records, opts.Output, opts.IncludeHeaders)
	}
	return PrintTable(out, records)
}

func load(ctx context.Context, repo repository.Repository, opts Options) ([]models.TechPack, error) {
	if opts.FromCSV != "" {
		records, err := common.ReadTechPacks(opts.FromCSV)
		if err != nil {
			return nil, err
		}
		if opts.StyleID == "" {
			return page(records, opts.Limit, opts.Offset), nil
		}
		var matched []models.TechPack
		for _, tp := range records {
			if tp.StyleID == opts.StyleID {
				matched = append(matched, tp)
			}
		}
		return matched, nil
	}

	if repo == nil {
		return nil, errors.New("no record store available")
	}
	if opts.StyleID != "" {
		tp, err := repo.FindByStyleID(ctx, opts.StyleID)
		if err != nil {
			return nil, fmt.Errorf("style %s: %w", opts.StyleID, err)
		}
		return []models.TechPack{tp}, nil
	}
	return repo.List(ctx, opts.Limit, opts.Offset)
}

func page(records []models.TechPack, limit, offset int) []models.TechPack {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []models.TechPack{}
	}
	records = records[offset:]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

// PrintTable writes records as aligned columns.
func PrintTable(out io.Writer, records []models.TechPack) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STYLE ID\tNAME\tTYPE\tCOLOUR\tFABRIC\tSTATUS\tCREATED")
	for _, tp := range records {
		created := ""
		if !tp.CreatedAt.IsZero() {
			created = tp.CreatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			tp.StyleID, tp.Name, tp.ArticleType, tp.Colour, tp.Fabric, tp.Status, created)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d record(s)\n", len(records))
	return err
}
