package model

import "testing"

func TestFormatCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cents int64
		want  string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{2000, "$20.00"},
		{123456, "$1234.56"},
		{-150, "-$1.50"},
	}

	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestCentsToUnits(t *testing.T) {
	if got := CentsToUnits(12345); got != 123.45 {
		t.Errorf("CentsToUnits(12345) = %v, want 123.45", got)
	}
}

func TestMonthKey(t *testing.T) {
	if got := (MonthTotal{Year: 2024, Month: 3}).Key(); got != "2024-03" {
		t.Errorf("Key() = %q, want 2024-03", got)
	}
}
