// ABOUTME: Tests for --date parsing
// ABOUTME: Verifies ISO, pt-BR and natural-language input in the UTC-3 zone
package commands

import (
	"testing"
	"time"

	"github.com/JoaoVitorDomingos/automacao-rotina/internal/schedule"
)

func TestParseDay(t *testing.T) {
	// 2026-10-16 12:00 in UTC-3
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input string
		want  schedule.Day
	}{
		{"empty is today", "", schedule.Day{Year: 2026, Month: 10, Day: 16}},
		{"blank is today", "   ", schedule.Day{Year: 2026, Month: 10, Day: 16}},
		{"iso", "2026-10-12", schedule.Day{Year: 2026, Month: 10, Day: 12}},
		{"pt-BR", "12/10/2026", schedule.Day{Year: 2026, Month: 10, Day: 12}},
		{"yesterday", "yesterday", schedule.Day{Year: 2026, Month: 10, Day: 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDay(tt.input, now)
			if err != nil {
				t.Fatalf("parseDay(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseDay(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDay_TodayUsesFixedZone(t *testing.T) {
	// 01:30 UTC on the 17th is still the 16th in UTC-3
	now := time.Date(2026, 10, 17, 1, 30, 0, 0, time.UTC)

	got, err := parseDay("", now)
	if err != nil {
		t.Fatalf("parseDay() error = %v", err)
	}
	if want := (schedule.Day{Year: 2026, Month: 10, Day: 16}); got != want {
		t.Errorf("parseDay() = %v, want %v", got, want)
	}
}

func TestParseDay_Invalid(t *testing.T) {
	now := time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC)

	for _, input := range []string{"qwerty", "zzz"} {
		if _, err := parseDay(input, now); err == nil {
			t.Errorf("parseDay(%q) should fail", input)
		}
	}
}
