// Package field runs a single field extraction over linearized document text
package field

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fjacquet/techpack-csv/cmd/root"
	"fjacquet/techpack-csv/internal/fieldextract"
	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/parsererror"

	"github.com/spf13/cobra"
)

// Options controls one field extraction.
type Options struct {
	Name     string
	Labels   []string
	Filename string
	Explain  bool
	Require  bool
	// Source names the text in errors.
	Source string
}

var (
	flagName     string
	flagLabels   []string
	flagFilename string
	flagExplain  bool
	flagRequire  bool
)

// Cmd represents the field command
var Cmd = &cobra.Command{
	Use:   "field",
	Short: "Extract one field from document text",
	Long: `Extract one field from linearized tech-pack text read from -i or stdin.

Known fields (styleId, productName, description, colour, fit, printTechnique,
fabric, brand, collection, careInstructions) use their own strategy chain.
Any other name falls back to a labeled-value search over --label.

Example:
  pdftotext -layout pack.pdf - | techpack-csv field --name fabric --explain`,
	RunE: fieldFunc,
}

func init() {
	Cmd.Flags().StringVarP(&flagName, "name", "n", "", "Field to extract (required)")
	Cmd.Flags().StringSliceVarP(&flagLabels, "label", "l", nil, "Candidate label, repeatable (defaults to the configured labels)")
	Cmd.Flags().StringVar(&flagFilename, "filename", "", "Document filename, used as a styleId fallback")
	Cmd.Flags().BoolVar(&flagExplain, "explain", false, "Print every strategy tried")
	Cmd.Flags().BoolVar(&flagRequire, "require", false, "Fail when no value is found")
	_ = Cmd.MarkFlagRequired("name")
}

func fieldFunc(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	source := "stdin"
	if path := root.SharedFlags.Input; path != "" {
		f, err := os.Open(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return fmt.Errorf("error opening input: %w", err)
		}
		defer f.Close()
		in, source = f, path
	}

	field := models.ParseFieldName(flagName)
	labels := flagLabels
	if len(labels) == 0 {
		if c := root.GetContainer(); c != nil {
			labels = c.GetProcessor().Labels(field)
		}
	}

	return Run(in, cmd.OutOrStdout(), Options{
		Name:     flagName,
		Labels:   labels,
		Filename: flagFilename,
		Explain:  flagExplain,
		Require:  flagRequire,
		Source:   source,
	})
}

// Run reads the text from in and writes the extracted value to out. Labels
// default to the built-in set for the field when empty.
func Run(in io.Reader, out io.Writer, opts Options) error {
	if strings.TrimSpace(opts.Name) == "" {
		return errors.New("a field name is required")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("error reading text: %w", err)
	}

	field := models.ParseFieldName(opts.Name)
	labels := opts.Labels
	if len(labels) == 0 {
		labels = fieldextract.DefaultLabels(field)
	}

	res, attempts := fieldextract.Explain(fieldextract.Request{
		Text:   string(data),
		Field:  field,
		Labels: labels,
		Aux:    fieldextract.Auxiliary{Filename: opts.Filename},
	})

	if opts.Explain {
		for _, a := range attempts {
			switch {
			case a.Panic != "":
				fmt.Fprintf(out, "%-20s failed: %s\n", a.Strategy, a.Panic)
			case a.Found:
				fmt.Fprintf(out, "%-20s %q\n", a.Strategy, a.Value)
			default:
				fmt.Fprintf(out, "%-20s -\n", a.Strategy)
			}
		}
		fmt.Fprintln(out)
	}

	if opts.Require && isPlaceholder(res.Value) {
		return &parsererror.DataExtractionError{
			FilePath:  opts.Source,
			FieldName: string(field),
			Reason:    "no strategy produced a value",
		}
	}

	if opts.Explain {
		strategy := res.Strategy
		if strategy == "" {
			strategy = "none"
		}
		fmt.Fprintf(out, "%s (%s): %s\n", field, strategy, res.Value)
		return nil
	}
	fmt.Fprintln(out, res.Value)
	return nil
}

func isPlaceholder(v string) bool {
	switch strings.TrimSpace(v) {
	case "", models.NotSpecified, models.LegacyNotSpecified, models.NoDescription:
		return true
	}
	return false
}
