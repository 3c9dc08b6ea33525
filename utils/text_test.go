package utils

import "testing"

func TestNormaliseText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Dental   Practice \n in CA ", "Dental Practice in CA"},
		{"", ""},
		{"\t\n", ""},
	}
	for _, tt := range tests {
		if got := NormaliseText(tt.in); got != tt.want {
			t.Errorf("NormaliseText(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 10, "abc"},
		{"café au lait", 4, "café"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Clip(tt.in, tt.max); got != tt.want {
			t.Errorf("Clip(%q, %d) = %q; want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestFitColumn(t *testing.T) {
	if got := FitColumn("abc", 6); got != "abc   " {
		t.Errorf("FitColumn pad: got %q", got)
	}
	if got := FitColumn("Behavioral Health Clinic", 10); got != "Behavio..." {
		t.Errorf("FitColumn truncate: got %q", got)
	}
}
