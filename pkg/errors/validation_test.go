package errors

import (
	"testing"
)

func TestValidateColumnName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "mpg", false},
		{"valid with space", "Sepal Length", false},
		{"valid with dot", "Sepal.Width", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"semicolon", "a;b", true},
		{"colon", "a:b", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColumnName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "out/scene.html", false},
		{"absolute", "/tmp/scene.html", false},
		{"dotted name", "scene..html", false},

		{"empty", "", true},
		{"traversal", "out/../../etc/passwd", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://aframe.io/releases/1.5.0/aframe.min.js"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateURL("javascript:alert(1)"); err == nil {
		t.Error("expected error for javascript: scheme")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("expected error for empty URL")
	}
}

func TestValidateElementID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"label-view", false},
		{"Mazda_RX4", false},
		{"_x", false},
		{"1abc", true},
		{"a b", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateElementID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateElementID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
