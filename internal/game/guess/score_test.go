package guess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRevealCost(t *testing.T) {
	tests := []struct {
		name string
		len  int
		want int64
	}{
		{"zero length", 0, 0},
		{"negative length", -5, 0},
		{"one char rounds up", 1, 1},
		{"even length", 10, 5},
		{"odd length rounds up", 11, 6},
		{"large reveal", 1990, 995},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RevealCost(tt.len))
		})
	}
}

// TestRevealCostProperties checks that the cost is always half the revealed
// length rounded up, and monotone in the length.
func TestRevealCostProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 5000).Draw(t, "n")

		cost := RevealCost(n)
		if cost < 0 {
			t.Fatalf("cost %d is negative for length %d", cost, n)
		}
		if got, want := cost*2, int64(n); got != want && got != want+1 {
			t.Fatalf("cost %d is not half of %d rounded up", cost, n)
		}
		if next := RevealCost(n + 1); next < cost {
			t.Fatalf("cost decreased from %d to %d as length grew", cost, next)
		}
	})
}
