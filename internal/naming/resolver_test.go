package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		subs     Substitutions
		want     string
	}{
		{
			name:     "all tokens expanded",
			template: "[Marketplace]/[Manufacturer_Name]/[Series_Name]",
			subs:     Substitutions{Manufacturer: "Acme Co", Series: "Pro Line", Marketplace: "BigMarket"},
			want:     "BigMarket/Acme Co/Pro Line",
		},
		{
			name:     "illegal characters stripped, slash preserved",
			template: "[Manufacturer_Name]/[Series_Name]",
			subs:     Substitutions{Manufacturer: "Acme Co", Series: "Pro*Line", Marketplace: "X"},
			want:     "Acme Co/ProLine",
		},
		{
			name:     "repeated token expands everywhere",
			template: "[Series_Name]/archive/[Series_Name]",
			subs:     Substitutions{Series: "Alpha"},
			want:     "Alpha/archive/Alpha",
		},
		{
			name:     "unknown token left verbatim",
			template: "[Year]/[Manufacturer_Name]",
			subs:     Substitutions{Manufacturer: "Acme"},
			want:     "[Year]/Acme",
		},
		{
			name:     "all illegal characters removed",
			template: `a<b>c"d|e?f*g`,
			subs:     Substitutions{},
			want:     "abcdefg",
		},
		{
			name:     "backslash preserved",
			template: `[Manufacturer_Name]\[Series_Name]`,
			subs:     Substitutions{Manufacturer: "A", Series: "B"},
			want:     `A\B`,
		},
		{
			name:     "empty template",
			template: "",
			subs:     Substitutions{Manufacturer: "A"},
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.template, tt.subs))
		})
	}
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "Acme_Co", SafeName("Acme Co"))
	assert.Equal(t, "ProLine", SafeName("Pro*Line"))
	assert.Equal(t, "Multi-Series", SafeName("Multi-Series"))
}

func TestForceExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		ext      string
		want     string
	}{
		{"replaces xlsx with csv", "report.xlsx", ".csv", "report.csv"},
		{"replaces csv with xlsx", "report.csv", ".xlsx", "report.xlsx"},
		{"replaces xls with xlsx", "legacy.xls", ".xlsx", "legacy.xlsx"},
		{"appends when no extension", "report", ".xlsx", "report.xlsx"},
		{"leaves unrelated extension and appends", "report.txt", ".csv", "report.txt.csv"},
		{"same extension is stable", "report.xlsx", ".xlsx", "report.xlsx"},
		{"case-insensitive match", "REPORT.XLSX", ".csv", "REPORT.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ForceExtension(tt.filename, tt.ext))
		})
	}
}
