package utils

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "Milk", 10, "Milk"},
		{"exact", "Milk", 4, "Milk"},
		{"truncated", "Buy oat milk", 8, "Buy oat…"},
		{"tiny width", "Milk", 1, "…"},
		{"zero width", "Milk", 0, "…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.in, tt.width); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestTruncateStringWideRunes(t *testing.T) {
	got := TruncateString("日本語のタスク", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("expected width <= 7, got %d (%q)", w, got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("unexpected padding %q", got)
	}
}
