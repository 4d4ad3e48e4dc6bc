package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePatterns(t *testing.T) {
	t.Run("Classic board", func(t *testing.T) {
		// When: generating lines for 3x3 with length 3
		patterns := GeneratePatterns(3, 3)

		// Then: rows, columns, diagonal and anti-diagonal in that order
		expected := []Pattern{
			{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
			{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
			{0, 4, 8},
			{2, 4, 6},
		}
		require.Equal(t, expected, patterns)
	})

	t.Run("Counts match every family", func(t *testing.T) {
		for size := 1; size <= 9; size++ {
			for winLength := 1; winLength <= size; winLength++ {
				starts := size - winLength + 1
				patterns := GeneratePatterns(size, winLength)

				require.Len(t, patterns, 2*size*starts+2*starts*starts, "size %d, length %d", size, winLength)

				seen := make(map[string]struct{}, len(patterns))
				for _, pattern := range patterns {
					require.Len(t, pattern, winLength)

					cells := make(map[int]struct{}, winLength)
					for _, cell := range pattern {
						require.GreaterOrEqual(t, cell, 0)
						require.Less(t, cell, size*size)
						cells[cell] = struct{}{}
					}
					require.Len(t, cells, winLength, "duplicate cell in %v", pattern)

					seen[keyOf(pattern)] = struct{}{}
				}

				if winLength > 1 {
					require.Len(t, seen, len(patterns), "duplicate pattern for size %d, length %d", size, winLength)
				}
			}
		}
	})

	t.Run("Anti-diagonals on a larger board", func(t *testing.T) {
		// When: generating length 3 lines on a 4x4 board
		patterns := GeneratePatterns(4, 3)

		// Then: the last four are the anti-diagonals
		anti := patterns[len(patterns)-4:]
		assert.Equal(t, []Pattern{{2, 5, 8}, {3, 6, 9}, {6, 9, 12}, {7, 10, 13}}, anti)
	})

	t.Run("Impossible lengths yield nothing", func(t *testing.T) {
		assert.Empty(t, GeneratePatterns(3, 4))
		assert.Empty(t, GeneratePatterns(3, 0))
		assert.Empty(t, GeneratePatterns(0, 1))
	})
}

func keyOf(pattern Pattern) string {
	key := make([]byte, 0, len(pattern)*3)
	for _, cell := range pattern {
		key = append(key, byte(cell), byte(cell>>8), ',')
	}
	return string(key)
}
