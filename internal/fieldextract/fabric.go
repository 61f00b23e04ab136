package fieldextract

import (
	"regexp"
	"strings"

	"fjacquet/techpack-csv/internal/textutils"
)

var (
	fabricSection    = regexp.MustCompile(`(?i)print|color|embroider|trims`)
	fabricLabeled    = regexp.MustCompile(`(?i)(?:fabric|material|composition)[\s:]+([^\n,;]+)`)
	fabricWeight     = regexp.MustCompile(`(?i)(\d+\s*gsm[^\n,;]*)`)
	fabricLead       = regexp.MustCompile(`^[=:]+\s*`)
	fabricBoundary   = regexp.MustCompile(`[\n,;]|print|color|embroider`)
	fabricLabelWords = regexp.MustCompile(`(?i)\b(?:fabric|material|composition|gsm)[\s:]*`)

	brandSection  = regexp.MustCompile(`(?i)print|color|embroider|trims|label`)
	brandLabeled  = regexp.MustCompile(`(?i)(?:brand|designer)[\s:]+([^\n,;]+)`)
	brandBoundary = regexp.MustCompile(`[\n,;]|by |for `)
)

// Fabric and brand are only searched in the header block that precedes the
// print, colour and trims sections; later mentions describe components.
var fabricChain = []Strategy{
	newStrategy("fabric-section", func(req Request) (string, bool) {
		section := textutils.CutAt(req.Text, fabricSection)
		raw, ok := textutils.FirstSubmatch(section, fabricLabeled, fabricWeight)
		if !ok {
			return "", false
		}
		v := fabricLead.ReplaceAllString(strings.TrimSpace(raw), "")
		v = textutils.CutAt(v, fabricBoundary)
		v = strings.TrimSpace(fabricLabelWords.ReplaceAllString(v, ""))
		return v, v != ""
	}),
}

var brandChain = []Strategy{
	newStrategy("brand-section", func(req Request) (string, bool) {
		section := textutils.CutAt(req.Text, brandSection)
		raw, ok := textutils.Submatch(brandLabeled, section)
		if !ok {
			return "", false
		}
		v := fabricLead.ReplaceAllString(strings.TrimSpace(raw), "")
		v = strings.TrimSpace(textutils.CutAt(v, brandBoundary))
		return v, v != ""
	}),
}
