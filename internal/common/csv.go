// Package common provides the CSV plumbing shared by the commands.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fjacquet/techpack-csv/internal/fileutils"
	"fjacquet/techpack-csv/internal/logging"
	"fjacquet/techpack-csv/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

var log = logging.GetLogger()

// Delimiter is the field separator used for CSV input and output.
var Delimiter rune = ','

// CreatedAtLayout is the timestamp format of the CreatedAt column.
const CreatedAtLayout = time.RFC3339

// SetDelimiter allows setting the delimiter for CSV output
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = string(delim)
}

// SetLogger allows setting a configured logger
func SetLogger(logger logging.Logger) {
	if logger == nil {
		return
	}
	log = logger
}

// TechPackRow is the flat CSV shape of a tech-pack record. The extracted-text
// blob is not exported.
type TechPackRow struct {
	ID               string `csv:"ID"`
	StyleID          string `csv:"StyleID"`
	Name             string `csv:"Name"`
	Description      string `csv:"Description"`
	ArticleType      string `csv:"ArticleType"`
	Colour           string `csv:"Colour"`
	Gender           string `csv:"Gender"`
	Fit              string `csv:"Fit"`
	PrintTechnique   string `csv:"PrintTechnique"`
	Fabric           string `csv:"Fabric"`
	FabricWeightGSM  string `csv:"FabricWeightGSM"`
	Brand            string `csv:"Brand"`
	Designer         string `csv:"Designer"`
	Collection       string `csv:"Collection"`
	CareInstructions string `csv:"CareInstructions"`
	Status           string `csv:"Status"`
	TotalPages       int    `csv:"TotalPages"`
	FileName         string `csv:"FileName"`
	CreatedAt        string `csv:"CreatedAt"`
}

// NewTechPackRow flattens a record. A missing fabric weight is written as an
// empty cell.
func NewTechPackRow(tp models.TechPack) TechPackRow {
	row := TechPackRow{
		ID:               tp.ID,
		StyleID:          tp.StyleID,
		Name:             tp.Name,
		Description:      tp.Description,
		ArticleType:      tp.ArticleType,
		Colour:           tp.Colour,
		Gender:           tp.Gender,
		Fit:              tp.Fit,
		PrintTechnique:   tp.PrintTechnique,
		Fabric:           tp.Fabric,
		Brand:            tp.Brand,
		Designer:         tp.Designer,
		Collection:       tp.Collection,
		CareInstructions: tp.CareInstructions,
		Status:           tp.Status,
		TotalPages:       tp.TotalPages,
		FileName:         tp.FileName,
	}
	if tp.HasFabricWeight() {
		row.FabricWeightGSM = tp.FabricWeightGSM.String()
	}
	if !tp.CreatedAt.IsZero() {
		row.CreatedAt = tp.CreatedAt.UTC().Format(CreatedAtLayout)
	}
	return row
}

// TechPack converts the row back into a record.
func (r TechPackRow) TechPack() (models.TechPack, error) {
	tp := models.TechPack{
		ID:               r.ID,
		StyleID:          r.StyleID,
		Name:             r.Name,
		Description:      r.Description,
		ArticleType:      r.ArticleType,
		Colour:           r.Colour,
		Gender:           r.Gender,
		Fit:              r.Fit,
		PrintTechnique:   r.PrintTechnique,
		Fabric:           r.Fabric,
		FabricWeightGSM:  decimal.Zero,
		Brand:            r.Brand,
		Designer:         r.Designer,
		Collection:       r.Collection,
		CareInstructions: r.CareInstructions,
		Status:           r.Status,
		TotalPages:       r.TotalPages,
		FileName:         r.FileName,
	}
	if s := strings.TrimSpace(r.FabricWeightGSM); s != "" {
		w, err := decimal.NewFromString(s)
		if err != nil {
			return models.TechPack{}, fmt.Errorf("invalid FabricWeightGSM %q: %w", s, err)
		}
		tp.FabricWeightGSM = w
	}
	if s := strings.TrimSpace(r.CreatedAt); s != "" {
		ts, err := time.Parse(CreatedAtLayout, s)
		if err != nil {
			return models.TechPack{}, fmt.Errorf("invalid CreatedAt %q: %w", s, err)
		}
		tp.CreatedAt = ts
	}
	return tp, nil
}

// ReadCSVFile reads CSV data into a slice of structs using gocsv.
// TCSVRow is the struct type that maps to the CSV columns.
func ReadCSVFile[TCSVRow any](filePath string) ([]TCSVRow, error) {
	log.Info("Reading CSV file", logging.Field{Key: logging.FieldFile, Value: filePath})

	file, err := os.Open(filePath)
	if err != nil {
		log.WithError(err).Error("Failed to open CSV file")
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = Delimiter

	var rows []TCSVRow
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		log.WithError(err).Error("Failed to parse CSV file")
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	log.Info("Successfully read CSV data", logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return rows, nil
}

// ReadTechPacks loads records previously written by WriteTechPacksToCSV.
func ReadTechPacks(filePath string) ([]models.TechPack, error) {
	rows, err := ReadCSVFile[TechPackRow](filePath)
	if err != nil {
		return nil, err
	}
	records := make([]models.TechPack, 0, len(rows))
	for i, row := range rows {
		tp, err := row.TechPack()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, tp)
	}
	return records, nil
}

// WriteTechPacks marshals records to w using the configured delimiter.
func WriteTechPacks(w io.Writer, records []models.TechPack, includeHeaders bool) error {
	if records == nil {
		return errors.New("cannot write nil tech packs to CSV")
	}

	rows := make([]TechPackRow, len(records))
	for i, tp := range records {
		rows[i] = NewTechPackRow(tp)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter
	safe := gocsv.NewSafeCSVWriter(csvWriter)

	var err error
	if includeHeaders {
		err = gocsv.MarshalCSV(rows, safe)
	} else {
		err = gocsv.MarshalCSVWithoutHeaders(rows, safe)
	}
	if err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteTechPacksToCSV writes records to csvFile, creating its directory when needed.
func WriteTechPacksToCSV(records []models.TechPack, csvFile string, includeHeaders bool) error {
	if records == nil {
		return errors.New("cannot write nil tech packs to CSV")
	}

	log.Info("Writing tech packs to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)},
		logging.Field{Key: logging.FieldDelimiter, Value: string(Delimiter)})

	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		log.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := WriteTechPacks(file, records, includeHeaders); err != nil {
		log.WithError(err).Error("Failed to marshal tech packs to CSV")
		return err
	}

	log.Info("Successfully wrote tech packs to CSV file",
		logging.Field{Key: logging.FieldFile, Value: csvFile},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return nil
}
