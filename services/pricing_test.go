package services

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"$1,200,000", 1_200_000, true},
		{"1.2M", 1_200_000, true},
		{"500K", 500_000, true},
		{"$2.5m", 2_500_000, true},
		{"  $750k ", 750_000, true},
		{"2.3M", 2_300_000, true},
		{"$1.15M", 1_150_000, true},
		{"INFM", 0, false},
		{"", 0, false},
		{"   ", 0, false},
		{"Not disclosed", 0, false},
		{"$", 0, false},
		{"MK", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParsePrice(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePrice(%q) = (%d, %v); want (%d, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPriceFilterAdmits(t *testing.T) {
	f := PriceFilter{Min: 1_000_000, Max: 5_000_000}

	tests := []struct {
		raw  string
		want bool
	}{
		{"$4,500,000", true},
		{"$900,000", false},
		{"", true},
		{"Call for price", true},
		{"$1,000,000", true},
		{"$5,000,000", true},
		{"$5,000,001", false},
		{"$8,000,000", false},
	}

	for _, tt := range tests {
		if got := f.Admits(tt.raw); got != tt.want {
			t.Errorf("Admits(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}
