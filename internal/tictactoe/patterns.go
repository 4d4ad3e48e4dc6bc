package tictactoe

// Pattern is an ordered line of board indexes. A pattern fully owned by one side is a win.
type Pattern []int

// Contains - reports whether the index is part of the line.
func (that Pattern) Contains(index int) bool {
	for _, cell := range that {
		if cell == index {
			return true
		}
	}
	return false
}

// GeneratePatterns - returns every winning line of length winLength on a size x size board.
// Lines come in a stable order: rows, columns, diagonals, anti-diagonals.
func GeneratePatterns(size, winLength int) []Pattern {
	if winLength < 1 || winLength > size {
		return nil
	}

	starts := size - winLength + 1
	patterns := make([]Pattern, 0, 2*size*starts+2*starts*starts)

	for row := 0; row < size; row++ {
		for col := 0; col < starts; col++ {
			patterns = append(patterns, line(winLength, func(i int) int {
				return row*size + col + i
			}))
		}
	}

	for col := 0; col < size; col++ {
		for row := 0; row < starts; row++ {
			patterns = append(patterns, line(winLength, func(i int) int {
				return (row+i)*size + col
			}))
		}
	}

	for row := 0; row < starts; row++ {
		for col := 0; col < starts; col++ {
			patterns = append(patterns, line(winLength, func(i int) int {
				return (row+i)*size + col + i
			}))
		}
	}

	for row := 0; row < starts; row++ {
		for col := winLength - 1; col < size; col++ {
			patterns = append(patterns, line(winLength, func(i int) int {
				return (row+i)*size + col - i
			}))
		}
	}

	return patterns
}

func line(length int, at func(i int) int) Pattern {
	pattern := make(Pattern, length)
	for i := range pattern {
		pattern[i] = at(i)
	}
	return pattern
}
