package format_test

import (
	"testing"
	"time"

	"github.com/suvana/suvana/internal/app/system/format"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{format.Amount(1), "1"},
		{format.Amount(1.5), "1.5"},
		{format.Amount(0.1 + 0.2), "0.3"},
		{format.SUI(10), "10 SUI"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestStatAndCount(t *testing.T) {
	if got := format.Stat(1234.5); got != "1,234.5" {
		t.Errorf("Stat(1234.5) = %q, want 1,234.5", got)
	}
	if got := format.Stat(24); got != "24.0" {
		t.Errorf("Stat(24) = %q, want 24.0", got)
	}
	if got := format.Count(12000); got != "12,000" {
		t.Errorf("Count(12000) = %q, want 12,000", got)
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{30, "30%"},
		{66.6667, "67%"},
		{0, "0%"},
		{12.5, "13%"},
		{62.5, "63%"},
		{2.5, "3%"},
		{100, "100%"},
	}
	for _, tt := range tests {
		if got := format.Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	d := time.Date(2025, 3, 7, 15, 0, 0, 0, time.UTC)
	if got := format.Date(d); got != "Mar 7, 2025" {
		t.Errorf("Date = %q, want Mar 7, 2025", got)
	}
	if got := format.Date(time.Time{}); got != "" {
		t.Errorf("zero Date = %q, want empty", got)
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{now.Add(72 * time.Hour), "3 days from now"},
		{now.Add(-2 * time.Hour), "2 hours ago"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		if got := format.Relative(tt.at, now); got != tt.want {
			t.Errorf("Relative(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestShortAddress(t *testing.T) {
	addr := "0x8b4f1c2e9d7a6b5c4f3e2d1c0b9a8f7e6d5c4b3a2f1e0d9c8b7a6f5e4d3cc2a9"
	if got := format.ShortAddress(addr); got != "0x8b4f…c2a9" {
		t.Errorf("ShortAddress = %q, want 0x8b4f…c2a9", got)
	}
	if got := format.ShortAddress("0xabc"); got != "0xabc" {
		t.Errorf("short input = %q, want it unchanged", got)
	}
}
