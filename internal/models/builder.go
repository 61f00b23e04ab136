package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TechPackBuilder assembles a TechPack from merged metadata and applies the
// record defaults on Build.
type TechPackBuilder struct {
	tp          TechPack
	productName string
	pages       int
	now         func() time.Time
	err         error
}

// NewTechPackBuilder creates an empty builder.
func NewTechPackBuilder() *TechPackBuilder {
	return &TechPackBuilder{
		tp:  TechPack{FabricWeightGSM: decimal.Zero},
		now: time.Now,
	}
}

// WithMetadata copies the known keys of md into the record. Both
// "articleType"/"articletype" and "printTechnique"/"printtechnique" spellings
// are accepted.
func (b *TechPackBuilder) WithMetadata(md Metadata) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	first := func(keys ...string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(md[k]); v != "" {
				return v
			}
		}
		return ""
	}

	b.tp.StyleID = first(string(FieldStyleID))
	b.tp.Name = first(string(FieldRecordName))
	b.productName = first(string(FieldProductName))
	b.tp.Description = first(string(FieldDescription))
	b.tp.ArticleType = first(string(FieldArticleType), "articletype")
	b.tp.Colour = first(string(FieldColour))
	b.tp.Gender = first(string(FieldGender))
	b.tp.Fit = first(string(FieldFit))
	b.tp.PrintTechnique = first(string(FieldPrintTechnique), "printtechnique")
	b.tp.Fabric = first(string(FieldFabric))
	b.tp.Brand = first(string(FieldBrand))
	b.tp.Collection = first(string(FieldCollection))
	b.tp.CareInstructions = first(string(FieldCareInstructions))

	if s := first(string(FieldTotalPages)); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			b.err = fmt.Errorf("totalPages must be a positive integer, got %q", s)
			return b
		}
		b.tp.TotalPages = n
	}
	return b
}

// WithID sets the record id. An empty id is replaced by a UUID on Build.
func (b *TechPackBuilder) WithID(id string) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	b.tp.ID = id
	return b
}

// WithFileName sets the uploaded file name.
func (b *TechPackBuilder) WithFileName(name string) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	b.tp.FileName = strings.TrimSpace(name)
	return b
}

// WithDesigner sets the designer.
func (b *TechPackBuilder) WithDesigner(designer string) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	b.tp.Designer = strings.TrimSpace(designer)
	return b
}

// WithStatus sets the workflow status.
func (b *TechPackBuilder) WithStatus(status string) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	if status != "" && !IsValidStatus(status) {
		b.err = fmt.Errorf("unknown status %q", status)
		return b
	}
	b.tp.Status = status
	return b
}

// WithPageCount records the page count reported by the PDF layer. It is used
// only when the metadata did not carry totalPages.
func (b *TechPackBuilder) WithPageCount(pages int) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	b.pages = pages
	return b
}

// WithFabricWeight sets the fabric weight in grams per square metre.
func (b *TechPackBuilder) WithFabricWeight(gsm decimal.Decimal) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	if gsm.IsNegative() {
		b.err = errors.New("fabric weight cannot be negative")
		return b
	}
	b.tp.FabricWeightGSM = gsm
	return b
}

// WithExtractedText sets the extracted-text summary.
func (b *TechPackBuilder) WithExtractedText(text string) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	b.tp.ExtractedText = text
	return b
}

// WithClock overrides the time source used for CreatedAt and generated style ids.
func (b *TechPackBuilder) WithClock(now func() time.Time) *TechPackBuilder {
	if b.err != nil {
		return b
	}
	if now != nil {
		b.now = now
	}
	return b
}

// Build validates the record and applies defaults.
func (b *TechPackBuilder) Build() (TechPack, error) {
	if b.err != nil {
		return TechPack{}, b.err
	}

	tp := b.tp
	now := b.now()

	if tp.Name == "" {
		tp.Name = b.productName
	}
	if tp.Name == "" {
		tp.Name = tp.FileName
	}
	if tp.Name == "" {
		return TechPack{}, errors.New("name or file name is required")
	}

	setDefault(&tp.Description, DefaultDescription)
	setDefault(&tp.ArticleType, DefaultArticleType)
	setDefault(&tp.Colour, DefaultColour)
	setDefault(&tp.Gender, DefaultGender)
	setDefault(&tp.Fit, DefaultFit)
	setDefault(&tp.Brand, DefaultBrand)
	setDefault(&tp.Designer, DefaultDesigner)
	setDefault(&tp.Collection, DefaultCollection)
	setDefault(&tp.CareInstructions, DefaultCareInstructions)
	setDefault(&tp.Status, StatusDraft)
	setDefault(&tp.StyleID, fmt.Sprintf("%s%d", StyleIDPrefix, now.UnixMilli()))
	setDefault(&tp.ID, uuid.New().String())

	if tp.TotalPages == 0 {
		tp.TotalPages = b.pages
	}
	if tp.TotalPages < 1 {
		tp.TotalPages = 1
	}
	if tp.CreatedAt.IsZero() {
		tp.CreatedAt = now.UTC()
	}
	return tp, nil
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
