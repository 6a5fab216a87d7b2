package util

import (
	"errors"
	"testing"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		country string
		wantCC  string
		want    string
	}{
		{"national with country context", "532390966", "+48", "+48", "+48532390966"},
		{"already e164", "+48532390966", "+48", "+48", "+48532390966"},
		{"e164 without context", "+48532390966", "", "+48", "+48532390966"},
		{"separators", " +48 532-390-966 ", "+1", "+48", "+48532390966"},
		{"international prefix", "0048532390966", "", "+48", "+48532390966"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhone(tt.raw, tt.country)
			if err != nil {
				t.Fatalf("NormalizePhone(%q, %q) error: %v", tt.raw, tt.country, err)
			}
			if got.CountryCode != tt.wantCC || got.E164 != tt.want {
				t.Fatalf("NormalizePhone(%q, %q) = %+v, want %s %s", tt.raw, tt.country, got, tt.wantCC, tt.want)
			}
		})
	}
}

func TestNormalizePhoneRoundTrip(t *testing.T) {
	first, err := NormalizePhone("532390966", "+48")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	second, err := NormalizePhone(first.E164, "+48")
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if first != second {
		t.Fatalf("round trip changed number: %+v -> %+v", first, second)
	}
}

func TestNormalizePhoneInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "abc", "12", "532390966"} {
		country := "+48"
		if raw == "532390966" {
			country = ""
		}
		if _, err := NormalizePhone(raw, country); !errors.Is(err, ErrInvalidPhoneNumber) {
			t.Fatalf("NormalizePhone(%q, %q): expected ErrInvalidPhoneNumber, got %v", raw, country, err)
		}
	}
}
