package fieldextract

import (
	"regexp"
	"strings"
)

var (
	crlf           = regexp.MustCompile(`\r\n?`)
	horizontalRuns = regexp.MustCompile(`[^\S\n]+`)
	genericLead    = regexp.MustCompile(`^[=:-]+\s*`)
	genericTrail   = regexp.MustCompile(`\s*[,\n;]\s*$`)
)

var genericChain = []Strategy{
	newStrategy("labeled-value", func(req Request) (string, bool) {
		return labeledValue(req.Text, req.Labels)
	}),
}

// labeledValue searches text for "label: value", "label value" and
// "label - value" for each label in order and returns the first value found.
// Matching is case-insensitive; the value keeps its original case.
func labeledValue(text string, labels []string) (string, bool) {
	norm := horizontalRuns.ReplaceAllString(crlf.ReplaceAllString(text, "\n"), " ")

	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			continue
		}
		for _, re := range labelPatterns(label) {
			m := re.FindStringSubmatch(norm)
			if m == nil {
				continue
			}
			v := strings.TrimSpace(m[1])
			v = genericLead.ReplaceAllString(v, "")
			v = genericTrail.ReplaceAllString(v, "")
			if v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func labelPatterns(label string) []*regexp.Regexp {
	l := regexp.QuoteMeta(label)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b` + l + `\s*[=:]+\s*([^\n,;]+)`),
		regexp.MustCompile(`(?i)\b` + l + `\s+([^\n,;]+)`),
		regexp.MustCompile(`(?i)\b` + l + `\s*-\s*([^\n,;]+)`),
	}
}
