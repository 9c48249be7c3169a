package common

import (
	"testing"
)

func TestFormatTitleCase(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lower limit",
			input:    "lower_limit",
			expected: "Lower Limit",
		},
		{
			name:     "upper panic",
			input:    "upper_panic",
			expected: "Upper Panic",
		},
		{
			name:     "single word",
			input:    "limit",
			expected: "Limit",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "already capitalized",
			input:    "Lower_Limit",
			expected: "Lower Limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatTitleCase(tt.input)
			if result != tt.expected {
				t.Errorf("FormatTitleCase(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
