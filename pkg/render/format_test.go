package render

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rigport/rigport/pkg/errors"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []Format
	}{
		{"empty", nil, DefaultFormats},
		{"comma list", []string{"svg,png"}, []Format{FormatSVG, FormatPNG}},
		{"repeated flag", []string{"dot", "JSON", " svg "}, []Format{FormatDOT, FormatJSON, FormatSVG}},
		{"duplicates", []string{"svg,svg", "svg"}, []Format{FormatSVG}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormats(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFormats mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseFormatsUnknown(t *testing.T) {
	_, err := ParseFormats([]string{"svg,pdf"})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ParseFormats() error = %v, want INVALID_FORMAT", err)
	}
}

func TestFormatContentType(t *testing.T) {
	if FormatSVG.ContentType() != "image/svg+xml" || FormatWebP.Ext() != ".webp" {
		t.Error("unexpected svg content type or webp extension")
	}
}
