// Package naming expands folder and filename templates for export artifacts.
package naming

import "strings"

// Placeholder tokens recognized in folder and filename templates.
const (
	TokenManufacturer = "[Manufacturer_Name]"
	TokenSeries       = "[Series_Name]"
	TokenMarketplace  = "[Marketplace]"
)

// Substitutions holds the values the three template tokens expand to.
type Substitutions struct {
	Manufacturer string
	Series       string
	Marketplace  string
}

// illegalChars are stripped from resolved names. Path separators are kept
// on purpose: a template may encode nested folders.
const illegalChars = `<>"|?*`

// Resolve expands the placeholder tokens in template and strips characters
// that are unsafe in file names. Tokens outside the three known names are
// left verbatim, matching the original console's behavior.
func Resolve(template string, subs Substitutions) string {
	r := strings.NewReplacer(
		TokenManufacturer, subs.Manufacturer,
		TokenSeries, subs.Series,
		TokenMarketplace, subs.Marketplace,
	)
	resolved := r.Replace(template)

	var b strings.Builder
	b.Grow(len(resolved))
	for _, c := range resolved {
		if strings.ContainsRune(illegalChars, c) {
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// SafeName converts a display name into a filename segment: spaces become
// underscores and unsafe characters are dropped.
func SafeName(name string) string {
	return Resolve(strings.ReplaceAll(name, " ", "_"), Substitutions{})
}

// ForceExtension replaces any existing spreadsheet extension on filename
// with ext (which must include the leading dot), appending it otherwise.
// Prevents "report.xlsx.csv" artifacts when the format changes between runs.
func ForceExtension(filename, ext string) string {
	lower := strings.ToLower(filename)
	for _, known := range []string{".xlsx", ".xls", ".csv"} {
		if strings.HasSuffix(lower, known) {
			return filename[:len(filename)-len(known)] + ext
		}
	}
	return filename + ext
}
