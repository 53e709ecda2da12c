package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestColoringIsSound asserts spec.md §8's register-allocation soundness
// property directly: no two temps simultaneously live on the same line
// ever receive the same color.
func TestColoringIsSound(t *testing.T) {
	// A 4-clique of live sets: every temp interferes with every other.
	live := [][]int{
		{0, 1, 2, 3},
		{0, 1, 2},
		{1, 2, 3},
	}
	g := Build(4, live)
	colors := g.Color(0)

	for _, set := range live {
		for i := 0; i < len(set); i++ {
			for j := i + 1; j < len(set); j++ {
				assert.NotEqual(t, colors[set[i]], colors[set[j]],
					"temps %d and %d are simultaneously live but share color %d", set[i], set[j], colors[set[i]])
			}
		}
	}
}

// TestParamTempsArePinned checks that parameter temps 0..numParams-1 get
// color == index regardless of the interference graph, matching spec.md
// §4.6's fixed parameter-register prologue.
func TestParamTempsArePinned(t *testing.T) {
	live := [][]int{{0, 1, 2}}
	g := Build(3, live)
	colors := g.Color(2)

	assert.Equal(t, 0, colors[0])
	assert.Equal(t, 1, colors[1])
}

// TestNonInterferingTempsCanShareAColor checks the allocator doesn't
// over-allocate: two temps never simultaneously live may be colored the
// same, keeping the color count (and so spill count) minimal.
func TestNonInterferingTempsCanShareAColor(t *testing.T) {
	live := [][]int{
		{0},
		{1},
	}
	g := Build(2, live)
	colors := g.Color(0)

	assert.Equal(t, colors[0], colors[1])
}

func TestMaxColor(t *testing.T) {
	assert.Equal(t, -1, MaxColor(nil))
	assert.Equal(t, 3, MaxColor([]int{0, 3, 1}))
}
