package fieldextract

import (
	"regexp"
	"strings"

	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/textutils"
)

var (
	printSameLine   = regexp.MustCompile(`(?i)\b(?:print(?:\s*technique)?|technique)[\s:—\-]+([^\n,;]+)`)
	printNextLine   = regexp.MustCompile(`(?i)\b(?:print|technique)[\s:—\-]*\s*\n\s*([^\n,;]+)`)
	printTableCell  = regexp.MustCompile(`(?i)\b(?:print|technique)\b[\s|]*(?:\n|\|)[\s|]*([^\n|,;]+)`)
	printVocabulary = regexp.MustCompile(`(?i)\b(screen\s*print(?:ing)?|digital\s*print(?:ing)?|sublimation|dtg|direct\s*to\s*garment|` +
		`embroidery|heat\s*transfer|vinyl|foil|gid\s*print|plasto\s*print|discharge(?:\s*print)?|pigment(?:\s*print)?|` +
		`reactive(?:\s*print)?|silk\s*screen|pad\s*print|water\s*based|rubber\s*print|flock\s*print|glitter\s*print|` +
		`puff\s*print|high\s*density|metallic\s*print|glow\s*in\s*dark|reflective\s*print|3d\s*(?:print|puff))\b`)

	printLead       = regexp.MustCompile(`^[=:—\-\s|]+`)
	printBoundary   = regexp.MustCompile(`(?i)[\n,;]|\b(?:color|colour|placement|gsm|fabric|material|composition)\b`)
	printLabelWords = regexp.MustCompile(`(?i)\b(?:print|technique|method|type|style)\b[\s:]*`)
	printColour     = regexp.MustCompile(`(?i)\b(?:color|colour)[\s:]+([^\n,;]+)`)
)

// printStopWords reject placeholder answers such as "N/A" or "Not Applicable".
var printStopWords = []string{"yes", "no", "na", "n/a", "none", "not", "applicable", "color", "colour"}

var printChain = []Strategy{
	printPattern("same-line", printSameLine),
	printPattern("next-line", printNextLine),
	printPattern("table-cell", printTableCell),
	printPattern("vocabulary", printVocabulary),
	newStrategy("colour-reference", func(req Request) (string, bool) {
		v, ok := textutils.Submatch(printColour, req.Text)
		if !ok {
			return "", false
		}
		return "Color: " + strings.TrimSpace(v), true
	}),
	newStrategy("not-specified", func(Request) (string, bool) {
		return models.NotSpecified, true
	}),
}

func printPattern(name string, re *regexp.Regexp) Strategy {
	return newStrategy(name, func(req Request) (string, bool) {
		raw, ok := textutils.Submatch(re, req.Text)
		if !ok {
			return "", false
		}
		v := CleanPrintTechnique(raw)
		return v, acceptablePrint(v)
	})
}

// CleanPrintTechnique normalizes a raw print value: leading separators go,
// the value stops at the next field label, label words are dropped and the
// rest is title-cased ("DIGITAL printing" -> "Digital Printing").
func CleanPrintTechnique(raw string) string {
	v := printLead.ReplaceAllString(raw, "")
	v = textutils.CutAt(v, printBoundary)
	v = printLabelWords.ReplaceAllString(v, "")
	v = textutils.CollapseSpaces(v)
	return textutils.TitleWords(v)
}

func acceptablePrint(v string) bool {
	if textutils.RuneLen(v) <= 2 {
		return false
	}
	lower := strings.ToLower(v)
	for _, w := range printStopWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}
