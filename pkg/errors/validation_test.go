package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateLabel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"container", "2 Finance", false},
		{"process area", "A. Policy", false},
		{"process", "A1 Intake", false},
		{"unicode", "Zürich Büro", false},
		{"surrounding spaces kept", " A1 ", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 300), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLabel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLabel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLabel(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 5, false},
		{"zero", 0, false},
		{"negative", -3, false},
		{"nan", math.NaN(), true},
		{"+inf", math.Inf(1), true},
		{"-inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateValue(tt.input); (err != nil) != tt.wantErr {
				t.Errorf("ValidateValue(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"png", "chord-diagram.png", false},
		{"csv", "relationships.csv", false},
		{"underscore", "my_export.svg", false},

		{"empty", "", true},
		{"with path /", "path/to/file.png", true},
		{"with path \\", "path\\file.png", true},
		{"traversal", "a..png", true},
		{"hidden", ".hidden.png", true},
		{"space", "my file.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#1f77b4", false},
		{"#FFF", false},
		{"1f77b4", true},
		{"#12345", true},
		{"red", true},
		{"#gggggg", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPalette) {
				t.Errorf("ValidateColor(%q) code = %v", tt.input, GetCode(err))
			}
		})
	}
}
