package evm

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatNative(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"0xde0b6b3a7640000", "1.0000"},
		{"0xad78ebc5ac6200000", "200.0000"},
		{"0x2b5e3af16b1880000", "50.0000"},
		{"0xad78ebc5ac620000", "12.5000"},
		{"0x38d7ea4c68000", "0.0010"},
		{"0x1", "0.0000"},
		{"0x0", "0.0000"},
		{"0x", "0.00"},
		{"", "0.00"},
		{"zz", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := FormatNative(tt.value); got != tt.want {
				t.Errorf("FormatNative(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseNative(t *testing.T) {
	v, err := ParseNative("0xad78ebc5ac620000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("expected 12.5, got %s", v)
	}

	if _, err := ParseNative("0xnothex"); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestParseQuantity_LeadingZeros(t *testing.T) {
	v, err := parseQuantity("0x0010")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 16 {
		t.Errorf("expected 16, got %d", v)
	}
}

func TestShortenAddress(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"0xabcdef0123456789abcdef0123456789abcdef01", "0xabcd...ef01"},
		{"0x1234", "0x1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ShortenAddress(tt.in); got != tt.want {
			t.Errorf("ShortenAddress(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
