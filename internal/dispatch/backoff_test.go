package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Delay(t *testing.T) {
	b := NewBackoff(1*time.Second, 5*time.Minute)

	tests := []struct {
		name    string
		attempt int
		want    time.Duration
	}{
		{"first failure", 1, 1 * time.Second},
		{"second failure doubles", 2, 2 * time.Second},
		{"third failure", 3, 4 * time.Second},
		{"fifth failure", 5, 16 * time.Second},
		{"tenth failure capped", 10, 5 * time.Minute},
		{"huge attempt stays capped", 100, 5 * time.Minute},
		{"zero attempt treated as first", 0, 1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Delay(tt.attempt))
		})
	}
}

func TestBackoff_NoCap(t *testing.T) {
	b := NewBackoff(500*time.Millisecond, 0)
	assert.Equal(t, 8*time.Second, b.Delay(5))
}
