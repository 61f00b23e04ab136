package fieldextract

import (
	"regexp"
	"strings"

	"fjacquet/techpack-csv/internal/textutils"
)

var (
	fitSameLine  = regexp.MustCompile(`(?i)\bFIT[\s\-:—]+([^\n,;]+)`)
	fitNextLine  = regexp.MustCompile(`(?i)\bFIT[\s\-:—]*\s*\n\s*([^\n,;]+)`)
	fitTableCell = regexp.MustCompile(`(?i)\bFIT\b[\s|]*(?:\n|\|)[\s|]*([^\n|,;]+)`)
	fitLead      = regexp.MustCompile(`^[=:—\-\s|]+`)
	fitBoundary  = regexp.MustCompile(`(?i)[\n,;]|\b(?:license|trend|gender|style|size|brand|color|fabric|material|gsm)\b`)

	// fitEscaped matches the literal characters `\bfit\s` (backslash
	// sequences as text), as found in some exported templates.
	fitEscaped         = regexp.MustCompile(`(?i)\\bfit\\s*[\-:]\\s*([^\n,;]+)`)
	fitEscapedLead     = regexp.MustCompile(`^[=:\\—\-\s]+`)
	fitEscapedBoundary = regexp.MustCompile(`(?i)[\n,;]|(?:LICENSE|TREND|GENDER|STYLE|SIZE|BRAND|COLOR|FABRIC|MATERIAL|GSM)`)
	fitEscapedSpace    = regexp.MustCompile(`\\s+`)

	fitWord         = regexp.MustCompile(`(?i)\bfit\b`)
	fitLabelPrefix  = regexp.MustCompile(`(?i)^.*\bfit\b\s*[:：\-—–|]*\s*`)
	fitTrailClause  = regexp.MustCompile(`(?i)\s*(?:license|licence|trend)\s*:.*$`)
	fitLateClause   = regexp.MustCompile(`(?i)\b(?:license|licence|trend)\s*:.*$`)
	fitAfterPipe    = regexp.MustCompile(`\s*\|.*$`)
	fitAfterPipeSp  = regexp.MustCompile(`\s*\|\s*.*$`)
	fitAfterGap     = regexp.MustCompile(`\s{2,}.*`)
	fitCellLead     = regexp.MustCompile(`^[=:\-—–|]+\s*`)
	fitSegment      = regexp.MustCompile(`[\n,;]`)
	fitStopWords    = regexp.MustCompile(`(?i)^(?:gender|license|licence|fabric|material|composition|trend|style|size|sizes?)\b`)
	fitCellBoundary = regexp.MustCompile(`(?i)\b(?:license|licence|trend|gender|style|size|sizes?|print|color|colour|fabric|material|composition|gsm)\b\s*[:\-]?`)
	fitDashes       = regexp.MustCompile(`[\s\-]+`)
	fitSlash        = regexp.MustCompile(`\s*/\s*`)

	fitSection      = regexp.MustCompile(`(?i)print|color|colour|embroider`)
	fitFabricLabel  = regexp.MustCompile(`(?i)(?:fit|fabric|material|gsm)[\s:]+([^\n,;]+)`)
	fitFabricLead   = regexp.MustCompile(`^[=:]+\s*`)
	fitFabricStop   = regexp.MustCompile(`[\n,;]|gsm|g/m²`)
	fitFabricWeight = regexp.MustCompile(`(?i)\d+\s*(?:gsm|g/m²)`)
	fitFabricJoin   = regexp.MustCompile(`[\s-]+`)
)

var fitChain = []Strategy{
	fitPattern("same-line", fitSameLine),
	fitPattern("next-line", fitNextLine),
	fitPattern("table-cell", fitTableCell),
	newStrategy("escaped-label", fitEscapedLabel),
	newStrategy("line-scan", fitLineScan),
	newStrategy("fabric-section", fitFromFabricSection),
}

func fitPattern(name string, re *regexp.Regexp) Strategy {
	return newStrategy(name, func(req Request) (string, bool) {
		raw, ok := textutils.Submatch(re, req.Text)
		if !ok {
			return "", false
		}
		v := fitLead.ReplaceAllString(strings.TrimSpace(raw), "")
		v = textutils.CutAt(v, fitBoundary)
		v = strings.ToUpper(textutils.CollapseSpaces(v))
		return v, v != ""
	})
}

func fitEscapedLabel(req Request) (string, bool) {
	raw, ok := textutils.Submatch(fitEscaped, req.Text)
	if !ok {
		return "", false
	}
	v := fitEscapedLead.ReplaceAllString(raw, "")
	v = textutils.CutAt(v, fitEscapedBoundary)
	v = strings.TrimSpace(fitEscapedSpace.ReplaceAllString(v, " "))
	return strings.ToUpper(v), v != ""
}

// fitLineScan walks the lines carrying the word "fit" and takes the value
// after the label on the same line, or the next non-blank line when the label
// heads a table column.
func fitLineScan(req Request) (string, bool) {
	lines := textutils.Lines(req.Text)
	for i, line := range lines {
		if !fitWord.MatchString(line) {
			continue
		}

		same := fitLabelPrefix.ReplaceAllString(line, "")
		same = fitTrailClause.ReplaceAllString(same, "")
		same = fitAfterPipe.ReplaceAllString(same, "")
		same = fitAfterGap.ReplaceAllString(same, "")
		same = strings.TrimSpace(same)

		same = fitCellLead.ReplaceAllString(same, "")
		same = fitAfterPipeSp.ReplaceAllString(same, "")
		same = fitAfterGap.ReplaceAllString(same, "")
		same = fitLateClause.ReplaceAllString(same, "")
		same = strings.TrimSpace(textutils.CutAt(same, fitSegment))
		if same != "" && !fitStopWords.MatchString(same) {
			return SanitizeFit(same), true
		}

		j := i + 1
		for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
			j++
		}
		if j >= len(lines) {
			continue
		}
		next := fitCellLead.ReplaceAllString(strings.TrimSpace(lines[j]), "")
		next = textutils.CutAt(next, fitCellBoundary)
		next = fitAfterPipeSp.ReplaceAllString(next, "")
		next = fitAfterGap.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next != "" && !fitStopWords.MatchString(next) {
			return SanitizeFit(next), true
		}
	}
	return "", false
}

// fitFromFabricSection reads a fit-like value from the fabric block that
// precedes the print and colour sections ("Fabric: Single Jersey 180 GSM"
// becomes "SINGLE/JERSEY").
func fitFromFabricSection(req Request) (string, bool) {
	section := textutils.CutAt(req.Text, fitSection)
	raw, ok := textutils.Submatch(fitFabricLabel, section)
	if !ok {
		return "", false
	}
	v := fitFabricLead.ReplaceAllString(strings.TrimSpace(raw), "")
	v = textutils.CutAt(v, fitFabricStop)
	v = textutils.ReplaceFirst(fitFabricWeight, v, "")
	v = strings.TrimSpace(v)
	v = strings.ToUpper(fitFabricJoin.ReplaceAllString(v, "/"))
	return v, v != ""
}

// SanitizeFit collapses whitespace and dashes to single spaces, tightens
// slashes and upper-cases ("slim - fit / tapered" -> "SLIM FIT/TAPERED").
func SanitizeFit(v string) string {
	v = fitDashes.ReplaceAllString(strings.TrimSpace(v), " ")
	v = fitSlash.ReplaceAllString(v, "/")
	return strings.ToUpper(strings.TrimSpace(v))
}
