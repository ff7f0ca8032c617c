// Package output renders translation results for a terminal.
package output

import (
	"strings"

	"github.com/dasmlab/gtc/pkg/languages"
	"github.com/dasmlab/gtc/pkg/translate"
	"github.com/fatih/color"
)

// unknownLanguage is shown when neither a name nor a code is available.
const unknownLanguage = "unknown"

// Formatter turns a translate.Result into the text printed on stdout.
type Formatter struct {
	// Detailed prefixes the translation with "[Source -> Target]".
	Detailed bool
	// Color renders the header in bold cyan.
	Color bool
}

// Format returns the text to print, without a trailing newline.
func (f Formatter) Format(r *translate.Result) string {
	if !f.Detailed {
		return r.TargetText
	}

	header := "[" + languageLabel(r.SourceLang, r.SourceCode) + " -> " + languageLabel(r.TargetLang, r.TargetCode) + "]"

	c := color.New(color.Bold, color.FgCyan)
	if f.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c.Sprint(header) + "\n" + r.TargetText
}

func languageLabel(lang *languages.Language, code string) string {
	switch {
	case lang != nil && lang.Name != "":
		return lang.Name
	case code != "":
		return code
	default:
		return unknownLanguage
	}
}

// FormatListing renders one "code<TAB><TAB>name" line per language.
func FormatListing(langs []languages.Language) string {
	var sb strings.Builder
	for i, l := range langs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(l.Code)
		sb.WriteString("\t\t")
		sb.WriteString(l.Name)
	}
	return sb.String()
}
