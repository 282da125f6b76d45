package model

import "fmt"

// FormatCents renders minor units as a dollar string with two decimals, e.g. 2000 -> "$20.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// CentsToUnits converts minor units to major currency units.
func CentsToUnits(cents int64) float64 {
	return float64(cents) / 100
}
