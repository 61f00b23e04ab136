package fieldextract

import (
	"regexp"
	"strings"

	"fjacquet/techpack-csv/internal/textutils"
)

// styleToken matches style numbers such as GLI-AUG25-TS-060.
var styleToken = regexp.MustCompile(`\b[A-Z]{2,3}-[A-Z0-9]{2,5}-[A-Z0-9-]+\b`)

var styleIDChain = []Strategy{
	newStrategy("style-token", func(req Request) (string, bool) {
		m := styleToken.FindString(req.Text)
		return m, m != ""
	}),
	newStrategy("filename", func(req Request) (string, bool) {
		name := strings.TrimSpace(req.Aux.Filename)
		if name == "" {
			return "", false
		}
		v := textutils.StripExtension(name)
		return v, v != ""
	}),
}
