// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TechPack is a persisted tech-pack record. Field values are stored verbatim
// as produced by extraction, merging and defaulting.
type TechPack struct {
	ID               string          `csv:"ID" json:"id" yaml:"id"`
	StyleID          string          `csv:"StyleID" json:"styleId" yaml:"styleId"`
	Name             string          `csv:"Name" json:"name" yaml:"name"`
	Description      string          `csv:"Description" json:"description" yaml:"description"`
	ArticleType      string          `csv:"ArticleType" json:"articleType" yaml:"articleType"`
	Colour           string          `csv:"Colour" json:"colour" yaml:"colour"`
	Gender           string          `csv:"Gender" json:"gender" yaml:"gender"`
	Fit              string          `csv:"Fit" json:"fit" yaml:"fit"`
	PrintTechnique   string          `csv:"PrintTechnique" json:"printTechnique" yaml:"printTechnique"`
	Fabric           string          `csv:"Fabric" json:"fabric" yaml:"fabric"`
	FabricWeightGSM  decimal.Decimal `csv:"FabricWeightGSM" json:"fabricWeightGsm" yaml:"fabricWeightGsm"`
	Brand            string          `csv:"Brand" json:"brand" yaml:"brand"`
	Designer         string          `csv:"Designer" json:"designer" yaml:"designer"`
	Collection       string          `csv:"Collection" json:"collection" yaml:"collection"`
	CareInstructions string          `csv:"CareInstructions" json:"careInstructions" yaml:"careInstructions"`
	Status           string          `csv:"Status" json:"status" yaml:"status"`
	TotalPages       int             `csv:"TotalPages" json:"totalPages" yaml:"totalPages"`
	FileName         string          `csv:"FileName" json:"fileName" yaml:"fileName"`
	ExtractedText    string          `csv:"-" json:"extractedText" yaml:"extractedText"`
	CreatedAt        time.Time       `csv:"CreatedAt" json:"createdAt" yaml:"createdAt"`
}

// HasFabricWeight reports whether a GSM value was found.
func (tp TechPack) HasFabricWeight() bool {
	return tp.FabricWeightGSM.IsPositive()
}
