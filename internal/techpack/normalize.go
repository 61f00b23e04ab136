package techpack

import (
	"regexp"
	"strings"

	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/textutils"

	"github.com/shopspring/decimal"
)

// printTechniqueMaxLen is the length above which a print technique is cut at
// its first separator.
const printTechniqueMaxLen = 100

var (
	fitNextLabel   = regexp.MustCompile(`(?i)\b(?:license|licence|trend|gender|style|sizes?|brand|color|colour|print|printing|fabric|material|composition|gsm)\b\s*[:\-–—]?`)
	measurement    = regexp.MustCompile(`(?i)\d+\s*(?:cm|inch|"|gsm)`)
	fabricLabels   = regexp.MustCompile(`(?i)\b(?:fabric|material|composition|gsm)[\s:]*`)
	tableTail      = regexp.MustCompile(`\s*\|\s*.*$`)
	wideGapTail    = regexp.MustCompile(`\s{2,}.*`)
	fitLead        = regexp.MustCompile(`^[=:\-—–|]+\s*`)
	whitespaceRuns = regexp.MustCompile(`\s+`)

	colourControl   = regexp.MustCompile(`[\r\n\t]+`)
	colourLead      = regexp.MustCompile(`^[=:]+\s*`)
	brackets        = regexp.MustCompile(`[\[\](){}]+`)
	colourLabels    = regexp.MustCompile(`(?i)\b(?:color|colour|shade|pantone|pms|code|no|number|name)\b[\s:]*|:[\s:]*`)
	pantoneRef      = regexp.MustCompile(`(?i)(?:pantone|pms)[\s:]*(\d+-?\d*[a-z]?)`)
	colourSeparator = regexp.MustCompile(`(?i)[\n,;|]|\b(?:and|or|/)\b`)
	colourMeasure   = regexp.MustCompile(`(?i)\s*\d+\s*(?:cm|inch|"|gsm|%)\b`)
	placementClause = regexp.MustCompile(`(?i)\s*\b(?:print|placement|embroidery|graphic)[^,;]*`)
	hasWord         = regexp.MustCompile(`\w{2,}`)
	colourNonWord   = regexp.MustCompile(`^[^\w#]+`)
	colourSpecial   = regexp.MustCompile(`[^\w#\s-]+`)

	colourRescue = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:color|colour|pantone|pms|shade)[\s:]+([^\n,;]+)`),
		regexp.MustCompile(`(?i)\b(?:pantone|pms)[\s:]*([\d-]+[a-z]?)\b`),
		regexp.MustCompile(`(?i)\b(?:rgb|hsl|hex|#)[\s:]*([^\s,;]+)`),
		regexp.MustCompile(`(?i)\b(?:shade|color|colour)[\s:]*[#:]?\s*([^\n,;]+)`),
	}

	brandBoundary = regexp.MustCompile(`(?i)[\n,;]|by |for |label|designer`)
	brandLabels   = regexp.MustCompile(`(?i)\b(?:brand|designer|label)[\s:]*`)

	printSeparator = regexp.MustCompile(`[\n;,]|\b(?:and|or)\b`)

	fabricWeight = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:gsm|g/m²|g/m2)`)
)

// Normalize post-processes freshly extracted fields in place: it trims fit,
// colour, fabric and brand of neighbouring labels and measurements, shortens
// overlong print techniques and falls back to the file name for the style id.
// text is the full document text, used to rescue a garbled colour.
func Normalize(fields models.Fields, text, filename string) {
	if v := fields[models.FieldFit]; v != "" {
		fields[models.FieldFit] = NormalizeFit(v)
	}
	if v := fields[models.FieldColour]; v != "" {
		fields[models.FieldColour] = NormalizeColour(v, text)
	}
	if v := fields[models.FieldFabric]; v != "" {
		fields[models.FieldFabric] = NormalizeFabric(v)
	}
	if v := fields[models.FieldBrand]; v != "" {
		fields[models.FieldBrand] = NormalizeBrand(v)
	}
	if v := fields[models.FieldPrintTechnique]; textutils.RuneLen(v) > printTechniqueMaxLen {
		if short := strings.TrimSpace(textutils.CutAt(v, printSeparator)); short != "" {
			fields[models.FieldPrintTechnique] = short
		}
	}
	if fields[models.FieldStyleID] == "" && filename != "" {
		fields[models.FieldStyleID] = textutils.StripExtension(filename)
	}
}

// NormalizeFit cuts a fit value at the next label, measurement or table cell.
func NormalizeFit(v string) string {
	v = textutils.CutAt(v, fitNextLabel)
	v = textutils.CutAt(v, measurement)
	v = fabricLabels.ReplaceAllString(v, "")
	v = textutils.ReplaceFirst(tableTail, v, "")
	v = textutils.ReplaceFirst(wideGapTail, v, "")
	v = fitLead.ReplaceAllString(v, "")
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(v, " "))
}

// NormalizeColour reduces a colour value to a single colour name or a
// "PANTONE <code>" reference. Values shorter than two characters become
// models.NotSpecified.
func NormalizeColour(v, text string) string {
	c := colourControl.ReplaceAllString(v, " ")
	c = strings.TrimSpace(whitespaceRuns.ReplaceAllString(c, " "))
	c = strings.TrimSpace(brackets.ReplaceAllString(colourLead.ReplaceAllString(c, ""), ""))

	if code, ok := textutils.Submatch(pantoneRef, c); ok {
		c = "PANTONE " + strings.ToUpper(code)
	} else {
		c = strings.TrimSpace(colourLabels.ReplaceAllString(c, ""))
		c = textutils.CutAt(c, colourSeparator)
		c = colourMeasure.ReplaceAllString(c, "")
		c = strings.TrimSpace(placementClause.ReplaceAllString(c, ""))
	}

	if garbledColour(c) {
		for _, re := range colourRescue {
			m, ok := textutils.Submatch(re, text)
			if !ok {
				continue
			}
			m = strings.TrimSpace(m)
			m = strings.TrimSpace(brackets.ReplaceAllString(colourLead.ReplaceAllString(m, ""), ""))
			if textutils.RuneLen(m) > 1 && !strings.Contains(strings.ToLower(m), "ar twork") {
				c = m
				break
			}
		}
	}

	c = colourNonWord.ReplaceAllString(c, "")
	c = colourSpecial.ReplaceAllString(c, "")
	c = strings.TrimSpace(whitespaceRuns.ReplaceAllString(c, " "))
	if textutils.RuneLen(c) < 2 {
		return models.NotSpecified
	}
	return c
}

// garbledColour flags values that picked up artwork text, run on, or carry
// no word at all.
func garbledColour(c string) bool {
	return strings.Contains(strings.ToLower(c), "ar twork") ||
		textutils.RuneLen(c) > 50 ||
		!hasWord.MatchString(c)
}

// NormalizeFabric drops measurements and fabric label words.
func NormalizeFabric(v string) string {
	v = textutils.CutAt(v, measurement)
	v = fabricLabels.ReplaceAllString(v, "")
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(v, " "))
}

// NormalizeBrand keeps the part before "by", "for", "label" or "designer".
func NormalizeBrand(v string) string {
	v = textutils.CutAt(v, brandBoundary)
	return strings.TrimSpace(brandLabels.ReplaceAllString(v, ""))
}

// FabricWeight returns the first "<n> gsm" or "<n> g/m²" weight in text.
func FabricWeight(text string) (decimal.Decimal, bool) {
	s, ok := textutils.Submatch(fabricWeight, text)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
