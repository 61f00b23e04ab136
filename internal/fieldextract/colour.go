package fieldextract

import (
	"regexp"
	"strings"

	"fjacquet/techpack-csv/internal/textutils"
)

var (
	// colourCode matches TPX/TCX style references such as "18-4140 TCX".
	colourCode     = regexp.MustCompile(`\b(\d{2}-\d{3,4})[ \t]*([A-Z]+\b)?`)
	colourLabeled  = regexp.MustCompile(`(?i)(?:color|colour)[\s:]+([^\n,;]+?)(?:\n|print|color|$)`)
	colourHeader   = regexp.MustCompile(`(?i)\b(?:color|colour)[\s:]+([^\n,;]+)`)
	colourLead     = regexp.MustCompile(`^[=:]+\s*`)
	colourBoundary = regexp.MustCompile(`[\n,;]|print color`)
)

// commonColours is scanned in order; the first word contained in the value wins.
var commonColours = []string{"black", "white", "red", "blue", "green", "yellow", "pink", "purple", "orange", "brown", "gray", "grey", "navy", "teal"}

var colourChain = []Strategy{
	newStrategy("colour-code", func(req Request) (string, bool) {
		m := colourCode.FindStringSubmatch(req.Text)
		if m == nil {
			return "", false
		}
		if m[2] != "" {
			return m[1] + " " + m[2], true
		}
		return m[1], true
	}),
	newStrategy("labeled-colour", func(req Request) (string, bool) {
		raw, ok := textutils.Submatch(colourLabeled, req.Text)
		if !ok {
			return "", false
		}
		v := cleanColour(raw)
		if v == "" {
			return "", false
		}
		if word, ok := commonColourIn(v); ok {
			return word, true
		}
		return v, true
	}),
	newStrategy("header-colour", func(req Request) (string, bool) {
		head := strings.Join(textutils.FirstLines(req.Text, 5), " ")
		raw, ok := textutils.Submatch(colourHeader, head)
		if !ok {
			return "", false
		}
		v := cleanColour(raw)
		return v, v != ""
	}),
}

func cleanColour(raw string) string {
	v := colourLead.ReplaceAllString(strings.TrimSpace(raw), "")
	return strings.TrimSpace(textutils.CutAt(v, colourBoundary))
}

func commonColourIn(v string) (string, bool) {
	lower := strings.ToLower(v)
	for _, c := range commonColours {
		if strings.Contains(lower, c) {
			return textutils.Capitalize(c), true
		}
	}
	return "", false
}
