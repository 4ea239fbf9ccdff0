package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidateFraction(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
		code    Code
	}{
		{"interior", 0.5, false, ""},
		{"near zero", 1e-9, false, ""},
		{"near one", 1 - 1e-9, false, ""},

		{"zero", 0, true, ErrCodeInvalidComposition},
		{"one", 1, true, ErrCodeInvalidComposition},
		{"negative", -0.1, true, ErrCodeInvalidComposition},
		{"above one", 1.2, true, ErrCodeInvalidComposition},
		{"NaN", math.NaN(), true, ErrCodeInvalidInput},
		{"Inf", math.Inf(1), true, ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFraction("x_F", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFraction(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && GetCode(err) != tt.code {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), tt.code)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"positive", 1000, false},
		{"small", 1e-12, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"NaN", math.NaN(), true},
		{"-Inf", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("feed", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateOrdered(t *testing.T) {
	tests := []struct {
		name       string
		xb, xf, xd float64
		wantErr    bool
	}{
		{"ordered", 0.15, 0.65, 0.9, false},
		{"bottoms equals feed", 0.5, 0.5, 0.9, true},
		{"feed equals distillate", 0.1, 0.9, 0.9, true},
		{"distillate equals bottoms", 0.5, 0.5, 0.5, true},
		{"reversed", 0.9, 0.5, 0.1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrdered(tt.xb, tt.xf, tt.xd)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOrdered(%v, %v, %v) error = %v, wantErr %v", tt.xb, tt.xf, tt.xd, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidComposition) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidComposition)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "benzene-toluene", false},
		{"unicode", "Ethanol–Wasser", false},

		{"too long", strings.Repeat("a", 129), true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	valid := map[string]bool{"svg": true, "json": true}

	if err := ValidateFormat("svg", valid); err != nil {
		t.Errorf("ValidateFormat(svg) error = %v", err)
	}

	err := ValidateFormat("gif", valid)
	if err == nil {
		t.Fatal("ValidateFormat(gif) should fail")
	}
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidFormat)
	}
	if !strings.Contains(err.Error(), "json, svg") {
		t.Errorf("error should list sorted formats, got %q", err.Error())
	}
}
