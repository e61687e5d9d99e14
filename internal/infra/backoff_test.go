package infra

import (
	"testing"
	"time"
)

func TestCalculateBackoff(t *testing.T) {
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{-1, 2 * time.Second},
		{0, 2 * time.Second},
		{1, 4 * time.Second},
		{2, 8 * time.Second},
		{3, 16 * time.Second},
		{4, 30 * time.Second}, // capped
		{10, 30 * time.Second},
		{63, 30 * time.Second}, // would overflow without the shift guard
	}
	for _, tt := range tests {
		if got := CalculateBackoff(tt.retry); got != tt.want {
			t.Errorf("CalculateBackoff(%d) = %v, want %v", tt.retry, got, tt.want)
		}
	}
}
