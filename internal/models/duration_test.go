package models

import (
	"fmt"
	"testing"
)

// TestParseDuration covers well-formed, partial and malformed "mm:ss" input.
func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1:30", 90000, true},
		{"0:00", 0, true},
		{"12:05", 725000, true},
		{"  2:15 ", 135000, true},
		{"90:00", 5400000, true},
		{":30", 30000, true},
		{"2:", 120000, true},
		{"1:75", 135000, true},
		{"", 0, false},
		{"   ", 0, false},
		{"90", 0, false},
		{"1:2:3", 0, false},
		{"a:10", 0, false},
		{"1:b", 0, false},
		{"-1:10", 0, false},
		{"153722867280913:00", 0, false},
		{"307445734561826:00", 0, false},
		{"0:9223372036854776", 0, false},
		{"153722867280912:00", 9223372036854720000, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDuration(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ParseDuration(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseDuration(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

// TestFormatDuration checks zero-padded seconds and unpadded minutes.
func TestFormatDuration(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{5000, "0:05"},
		{90000, "1:30"},
		{725000, "12:05"},
		{5400000, "90:00"},
		{90999, "1:30"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.ms); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.ms, got, tt.want)
		}
	}
}

// TestDurationRoundTrip verifies parse(format(x)) == x for whole seconds.
func TestDurationRoundTrip(t *testing.T) {
	for m := 0; m <= 120; m += 7 {
		for s := 0; s <= 59; s++ {
			text := fmt.Sprintf("%d:%02d", m, s)
			ms, ok := ParseDuration(text)
			if !ok {
				t.Fatalf("ParseDuration(%q) failed", text)
			}
			if got := FormatDuration(ms); got != text {
				t.Fatalf("FormatDuration(ParseDuration(%q)) = %q", text, got)
			}
		}
	}
}

// TestFormatRest verifies the countdown rendering.
func TestFormatRest(t *testing.T) {
	if got := FormatRest(90); got != "1:30" {
		t.Errorf("FormatRest(90) = %q, want 1:30", got)
	}
	if got := FormatRest(9); got != "0:09" {
		t.Errorf("FormatRest(9) = %q, want 0:09", got)
	}
}
