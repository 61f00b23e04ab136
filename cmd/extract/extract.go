// Package extract handles the single-document extraction command
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/techpack-csv/cmd/root"
	"fjacquet/techpack-csv/internal/common"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/pdfparser"
	"fjacquet/techpack-csv/internal/repository"
	"fjacquet/techpack-csv/internal/techpack"

	"github.com/spf13/cobra"
)

// Processor builds a record from a PDF on disk.
type Processor interface {
	ProcessFile(ctx context.Context, path, filename string, md models.Metadata) (techpack.Result, error)
}

// Options controls one extraction run.
type Options struct {
	Input          string
	Output         string
	MetadataFile   string
	Validate       bool
	Explain        bool
	IncludeHeaders bool
}

var (
	metadataFile string
	save         bool
	explain      bool
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract [file.pdf]",
	Short: "Extract one tech-pack PDF",
	Long: `Extract product attributes from one tech-pack PDF.

The record is written to the CSV file given with -o, or printed as a summary
when no output is given. Caller metadata (JSON or YAML) supplied with
--metadata takes precedence over values found in the document.

Example:
  techpack-csv extract -i hoodie.pdf -o hoodie.csv --metadata hoodie.yaml --save`,
	Args: cobra.MaximumNArgs(1),
	RunE: extractFunc,
}

func init() {
	Cmd.Flags().StringVarP(&metadataFile, "metadata", "m", "", "Caller metadata file (.json, .yaml or .yml)")
	Cmd.Flags().BoolVar(&save, "save", false, "Persist the record in the record store")
	Cmd.Flags().BoolVar(&explain, "explain", false, "Show which strategy produced each field")
}

func extractFunc(cmd *cobra.Command, args []string) error {
	appContainer := root.GetContainer()
	if appContainer == nil {
		return errors.New("container not initialized")
	}

	input := root.SharedFlags.Input
	if input == "" && len(args) == 1 {
		input = args[0]
	}
	if input == "" {
		return errors.New("an input PDF is required (-i or positional argument)")
	}

	var repo repository.Repository
	if save {
		var err error
		if repo, err = appContainer.GetRepository(); err != nil {
			return err
		}
	}

	return Run(cmd.Context(), Options{
		Input:          input,
		Output:         root.SharedFlags.Output,
		MetadataFile:   metadataFile,
		Validate:       root.SharedFlags.Validate,
		Explain:        explain,
		IncludeHeaders: appContainer.GetConfig().CSV.IncludeHeaders,
	}, appContainer.GetProcessor(), repo, cmd.OutOrStdout(), appContainer.GetLogger())
}

// Run extracts opts.Input. repo may be nil, in which case nothing is stored.
func Run(ctx context.Context, opts Options, proc Processor, repo repository.Repository, out io.Writer, logger logging.Logger) error {
	md := models.Metadata{}
	if opts.MetadataFile != "" {
		var err error
		if md, err = techpack.LoadMetadata(opts.MetadataFile); err != nil {
			return err
		}
	}

	if opts.Validate {
		logger.Info("Validating PDF structure...")
		info, err := pdfparser.Inspect(opts.Input)
		if err != nil {
			return fmt.Errorf("PDF validation failed: %w", err)
		}
		logger.Info("Validation successful.", logging.Field{Key: logging.FieldPages, Value: info.Pages})
	}

	res, err := proc.ProcessFile(ctx, opts.Input, "", md)
	if err != nil {
		return fmt.Errorf("error extracting %s: %w", opts.Input, err)
	}
	record := res.Record

	if repo != nil {
		if record, err = repo.Save(ctx, record); err != nil {
			return err
		}
		logger.Info("Saved tech pack", logging.Field{Key: logging.FieldRecordID, Value: record.ID})
	}

	if opts.Output != "" {
		return common.WriteTechPacksToCSV([]models.TechPack{record}, opts.Output, opts.IncludeHeaders)
	}

	PrintRecord(out, record)
	if opts.Explain && res.Analysis != nil {
		fmt.Fprintln(out)
		for _, f := range models.ExtractedFields {
			strategy := res.Analysis.Strategies[f]
			if strategy == "" {
				strategy = "-"
			}
			fmt.Fprintf(out, "%-17s %s\n", f, strategy)
		}
		if res.Analysis.ArticleTrace != "" {
			fmt.Fprintf(out, "%-17s %s\n", models.FieldArticleType, res.Analysis.ArticleTrace)
		}
	}
	if res.TextError != nil {
		fmt.Fprintf(out, "\nwarning: text extraction failed, fields come from metadata and defaults: %v\n", res.TextError)
	}
	return nil
}

// PrintRecord writes a human-readable summary of tp.
func PrintRecord(out io.Writer, tp models.TechPack) {
	weight := "-"
	if tp.HasFabricWeight() {
		weight = tp.FabricWeightGSM.String() + " gsm"
	}
	rows := [][2]string{
		{"ID", tp.ID},
		{"Style ID", tp.StyleID},
		{"Name", tp.Name},
		{"Article type", tp.ArticleType},
		{"Description", tp.Description},
		{"Colour", tp.Colour},
		{"Gender", tp.Gender},
		{"Fit", tp.Fit},
		{"Print technique", tp.PrintTechnique},
		{"Fabric", tp.Fabric},
		{"Fabric weight", weight},
		{"Brand", tp.Brand},
		{"Designer", tp.Designer},
		{"Collection", tp.Collection},
		{"Care", tp.CareInstructions},
		{"Status", tp.Status},
		{"Pages", fmt.Sprint(tp.TotalPages)},
		{"File", tp.FileName},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(out, "%-17s %s\n", r[0]+":", r[1])
	}
}
