package votes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBudget(t *testing.T) {
	t.Run("fourth vote is rejected until one is withdrawn", func(t *testing.T) {
		var cast []int
		var ok bool
		for _, id := range []int{1, 1, 2} {
			cast, ok = Increment(id, cast)
			assert.True(t, ok)
		}
		assert.False(t, CanIncrement(cast))

		after, ok := Increment(3, cast)
		assert.False(t, ok)
		assert.Equal(t, []int{1, 1, 2}, after)

		cast, ok = Decrement(1, cast)
		assert.True(t, ok)
		assert.Equal(t, []int{1, 2}, cast)
		assert.True(t, CanIncrement(cast))
	})

	t.Run("decrement needs a vote on that cluster", func(t *testing.T) {
		assert.False(t, CanDecrement(4, []int{1, 2}))
		assert.True(t, CanDecrement(2, []int{1, 2}))

		out, ok := Decrement(4, []int{1, 2})
		assert.False(t, ok)
		assert.Equal(t, []int{1, 2}, out)
	})

	t.Run("increment does not alias the input", func(t *testing.T) {
		in := make([]int, 1, 3)
		in[0] = 7
		out, ok := Increment(8, in)
		assert.True(t, ok)
		out[0] = 99
		assert.Equal(t, 7, in[0])
	})
}

func TestTally(t *testing.T) {
	assert.Equal(t, map[int]int{1: 2, 5: 1}, Tally([]int{1, 5, 1}))
	assert.Empty(t, Tally(nil))
}

func TestRemainingAndComplete(t *testing.T) {
	assert.Equal(t, 3, Remaining(nil))
	assert.Equal(t, 0, Remaining([]int{1, 2, 3}))
	assert.False(t, Complete(2))
	assert.True(t, Complete(3))
}
