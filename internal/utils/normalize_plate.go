package utils

import "strings"

var plateSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "_", "")

// NormalizePlate reduces a patente to its bare upper-case characters so
// "ab 123 cd", "AB-123-CD" and "AB123CD" compare equal.
func NormalizePlate(raw string) string {
	return strings.ToUpper(plateSeparators.Replace(strings.TrimSpace(raw)))
}
