package utils

import "testing"

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AB 123 CD", "AB123CD"},
		{"ab-123-cd", "AB123CD"},
		{"  abc.123 ", "ABC123"},
		{"AB_123_CD", "AB123CD"},
		{" - ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePlate(tt.in); got != tt.want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
