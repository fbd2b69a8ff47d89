package htmlsanitize_test

import (
	"testing"

	"github.com/dalemusser/lessonhub/internal/app/system/htmlsanitize"
	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Dosage Calculation", "Dosage Calculation"},
		{"keeps newlines", "Line one\nLine two", "Line one\nLine two"},
		{"strips tags", "<p><strong>Vital</strong> Signs</p>", "Vital Signs"},
		{"drops script", "Intro<script>alert('x')</script>", "Intro"},
		{"keeps comparisons", "dose < 5 mg & > 1 mg", "dose < 5 mg & > 1 mg"},
		{"drops handlers", `<span onclick="x()">Care</span>`, "Care"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, htmlsanitize.PlainText(tt.in))
		})
	}
}

func TestLine(t *testing.T) {
	assert.Equal(t, "Islamabad Campus 1", htmlsanitize.Line("  Islamabad \n <b>Campus</b>   1 "))
}
