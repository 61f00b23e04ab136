package fieldextract

import (
	"regexp"
	"strings"

	"fjacquet/techpack-csv/internal/models"
	"fjacquet/techpack-csv/internal/textutils"
)

var (
	leadingLine = regexp.MustCompile(`^([^\n]{5,50})\s*\n`)
	codeLike    = regexp.MustCompile(`^[A-Z0-9-]+$`)

	descriptionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:description|product[\s-]?details?|details|style[\s-]?description|product[\s-]?description)[\s:—\-]+([^\n,;]+?)(?:\n\w|$)`),
		regexp.MustCompile(`(?i)(?:description|details)[\s:—\-]*\s*\n\s*([^\n,;]+)`),
		regexp.MustCompile(`(?i)(?:description|details)\b[\s|]*(?:\n|\|)[\s|]*([^\n|,;]+)`),
		regexp.MustCompile(`(?i)(?:about|product[\s-]?info|style[\s-]?info)[\s:—\-]*\n+([^#*\n][^\n]+(?:\n[^#*\n][^\n]+)*)`),
	}
	descriptionLead     = regexp.MustCompile(`^[=:—\-\s|]+`)
	brackets            = regexp.MustCompile(`[\[\](){}]+`)
	specLine            = regexp.MustCompile(`(?i)^(?:style|color|fabric|fit|print|size|gender|material|composition|gsm|qty|quantity|measurements?|specs?|notes?)[\s:]`)
	hasLetter           = regexp.MustCompile(`[a-zA-Z]`)
	synthesisLabelWords = regexp.MustCompile(`(?i)\b(?:print|technique|method|type)\b[\s:]*`)

	careLabeled = regexp.MustCompile(`(?i)(?:care|wash)[\s:]+([^\n]+?)(?:\n\w|$)`)
)

var productNameChain = []Strategy{
	newStrategy("leading-line", func(req Request) (string, bool) {
		head := strings.Join(textutils.FirstLines(req.Text, 5), "\n")
		raw, ok := textutils.Submatch(leadingLine, head)
		if !ok {
			return "", false
		}
		v := strings.TrimSpace(raw)
		return v, !codeLike.MatchString(v) && textutils.RuneLen(v) > 3
	}),
	newStrategy("labeled-value", func(req Request) (string, bool) {
		labels := req.Labels
		if len(labels) == 0 {
			labels = defaultLabels[models.FieldProductName]
		}
		return labeledValue(req.Text, labels)
	}),
}

var descriptionChain = []Strategy{
	newStrategy("description-section", func(req Request) (string, bool) {
		for _, re := range descriptionPatterns {
			raw, ok := textutils.Submatch(re, req.Text)
			if !ok {
				continue
			}
			v := descriptionLead.ReplaceAllString(strings.TrimSpace(raw), "")
			v = textutils.CollapseSpaces(brackets.ReplaceAllString(v, ""))
			if textutils.RuneLen(v) > 10 {
				return v, true
			}
		}
		return "", false
	}),
	newStrategy("first-paragraph", func(req Request) (string, bool) {
		lines := textutils.NonBlankLines(req.Text)
		if len(lines) > 10 {
			lines = lines[:10]
		}
		for _, l := range lines {
			line := strings.TrimSpace(l)
			if codeLike.MatchString(line) || textutils.RuneLen(line) < 20 || specLine.MatchString(line) {
				continue
			}
			if hasLetter.MatchString(line) && len(strings.Fields(line)) > 2 {
				return line, true
			}
		}
		return "", false
	}),
	newStrategy("synthesized", func(req Request) (string, bool) {
		v := Describe(req.Aux.Known)
		return v, v != ""
	}),
	newStrategy("placeholder", func(Request) (string, bool) {
		return models.NoDescription, true
	}),
}

var careChain = []Strategy{
	newStrategy("care-label", func(req Request) (string, bool) {
		raw, ok := textutils.Submatch(careLabeled, req.Text)
		v := strings.TrimSpace(raw)
		return v, ok && v != ""
	}),
}

// Describe builds a one-line summary such as
// "Fabric: Cotton | Color: Blue | Fit: RELAXED | Print: Screen | Type: Hoodie"
// from already extracted fields. It returns "" when none is usable.
func Describe(known models.Fields) string {
	var features []string
	add := func(label, value string) {
		switch strings.TrimSpace(value) {
		case "", models.NotSpecified, "N/A", "None":
			return
		}
		features = append(features, label+": "+value)
	}

	add("Fabric", known.Get(models.FieldFabric))
	add("Color", known.Get(models.FieldColour))
	add("Fit", known.Get(models.FieldFit))

	if p := known.Get(models.FieldPrintTechnique); p != "" && p != models.NotSpecified {
		clean := strings.TrimSpace(synthesisLabelWords.ReplaceAllString(p, ""))
		if clean != "" {
			features = append(features, "Print: "+textutils.TitleWords(clean))
		}
	}

	add("Type", known.Get(models.FieldArticleType))
	return strings.Join(features, " | ")
}
