package main

import (
	"math"
	"testing"

	"google.golang.org/genai"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzeSession(t *testing.T) {
	dir := t.TempDir()

	t.Run("priced flash session", func(t *testing.T) {
		path := writeTestSession(t, dir, "flash.session.json", sessionData{
			Model: "flash-2.5",
			History: []*genai.Content{
				userTurn("a chart"),
				modelImageTurn("here", 1),
				userTurn("make it blue"),
				modelImageTurn("", 1),
			},
			Usage: &usageData{PromptTokens: 1_000_000, CandidateTokens: 2_000_000, TotalTokens: 3_000_000},
		})
		cb, err := analyzeSession(path)
		if err != nil {
			t.Fatalf("analyzeSession: %v", err)
		}
		if cb.Model != "flash-2.5" || cb.Turns != 2 || cb.OutputImages != 2 {
			t.Errorf("breakdown = %+v", cb)
		}
		if cb.SizeFromData {
			t.Error("size should be assumed, not from data")
		}
		if !almostEqual(cb.InputCost, 0.30) {
			t.Errorf("input cost = %v", cb.InputCost)
		}
		if !almostEqual(cb.OutputCost, 5.00) {
			t.Errorf("output cost = %v", cb.OutputCost)
		}
		if !almostEqual(cb.ImageCost, 2*0.039) {
			t.Errorf("image cost = %v", cb.ImageCost)
		}
		if !almostEqual(cb.Total, 0.30+5.00+2*0.039) {
			t.Errorf("total = %v", cb.Total)
		}
	})

	t.Run("alias resolves before pricing", func(t *testing.T) {
		path := writeTestSession(t, dir, "alias.session.json", sessionData{
			Model:   "pro",
			Size:    "4K",
			History: []*genai.Content{userTurn("x"), modelImageTurn("", 1)},
		})
		cb, err := analyzeSession(path)
		if err != nil {
			t.Fatalf("analyzeSession: %v", err)
		}
		if cb.Model != "pro-3.0" {
			t.Errorf("model = %q", cb.Model)
		}
		if !cb.SizeFromData || cb.Size != "4K" {
			t.Errorf("size = %q (from data: %v)", cb.Size, cb.SizeFromData)
		}
		if !almostEqual(cb.ImageCost, 0.24) {
			t.Errorf("image cost = %v", cb.ImageCost)
		}
	})

	t.Run("unknown model left unpriced", func(t *testing.T) {
		path := writeTestSession(t, dir, "odd.session.json", sessionData{
			Model:   "ultra",
			History: []*genai.Content{userTurn("x"), modelImageTurn("", 3)},
			Usage:   &usageData{PromptTokens: 100, CandidateTokens: 100, TotalTokens: 200},
		})
		cb, err := analyzeSession(path)
		if err != nil {
			t.Fatalf("analyzeSession: %v", err)
		}
		if cb.OutputImages != 3 {
			t.Errorf("images = %d", cb.OutputImages)
		}
		if cb.Total != 0 {
			t.Errorf("unknown model should have zero total, got %v", cb.Total)
		}
	})

	t.Run("unpriced size falls back to 1K", func(t *testing.T) {
		path := writeTestSession(t, dir, "size.session.json", sessionData{
			Model:   "flash-2.5",
			Size:    "4K", // flash has no 4K price
			History: []*genai.Content{userTurn("x"), modelImageTurn("", 1)},
		})
		cb, err := analyzeSession(path)
		if err != nil {
			t.Fatalf("analyzeSession: %v", err)
		}
		if !almostEqual(cb.ImageCost, 0.039) {
			t.Errorf("image cost = %v, want 1K fallback", cb.ImageCost)
		}
	})
}

func TestFormatCost(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.0001, "0.0001"},
		{0.0039, "0.0039"},
		{0.04, "0.04"},
		{1.5, "1.50"},
	}
	for _, tt := range tests {
		if got := formatCost(tt.in); got != tt.want {
			t.Errorf("formatCost(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTokenCount(t *testing.T) {
	tests := []struct {
		in   int32
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatTokenCount(tt.in); got != tt.want {
			t.Errorf("formatTokenCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
