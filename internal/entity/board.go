package entity

import (
	"errors"
	"fmt"
)

// Mark is the content of a single board cell.
type Mark uint8

const (
	Empty Mark = iota
	MarkX
	MarkO
)

// Side is one of the two players. X always moves first.
type Side uint8

const (
	SideX Side = iota + 1
	SideO
)

var (
	ErrUnknownMark = errors.New("unknown mark")
	ErrUnknownSide = errors.New("unknown side")
)

func (that Side) Opponent() Side {
	if that == SideX {
		return SideO
	}
	return SideX
}

func (that Side) Mark() Mark {
	return Mark(that)
}

func (that Side) String() string {
	switch that {
	case SideX:
		return "X"
	case SideO:
		return "O"
	default:
		return ""
	}
}

func (that Side) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "X":
		*that = SideX
	case "O":
		*that = SideO
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSide, text)
	}
	return nil
}

// Side - returns the side owning the mark, false for an empty cell.
func (that Mark) Side() (Side, bool) {
	switch that {
	case MarkX:
		return SideX, true
	case MarkO:
		return SideO, true
	default:
		return 0, false
	}
}

func (that Mark) String() string {
	side, ok := that.Side()
	if !ok {
		return ""
	}
	return side.String()
}

func (that Mark) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *Mark) UnmarshalText(text []byte) error {
	switch string(text) {
	case "":
		*that = Empty
	case "X":
		*that = MarkX
	case "O":
		*that = MarkO
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMark, text)
	}
	return nil
}

// Board is a square grid stored row-major. Len is always Size*Size.
type Board struct {
	Size  int
	Cells []Mark
}

func NewBoard(size int) Board {
	if size < 0 {
		size = 0
	}
	return Board{
		Size:  size,
		Cells: make([]Mark, size*size),
	}
}

func (that Board) Len() int {
	return len(that.Cells)
}

func (that Board) InRange(index int) bool {
	return index >= 0 && index < len(that.Cells)
}

func (that Board) At(index int) Mark {
	return that.Cells[index]
}

func (that Board) IsEmpty(index int) bool {
	return that.Cells[index] == Empty
}

func (that Board) IsFull() bool {
	for _, cell := range that.Cells {
		if cell == Empty {
			return false
		}
	}
	return true
}

// EmptyCells - returns the free indexes in ascending order.
func (that Board) EmptyCells() []int {
	cells := make([]int, 0, len(that.Cells))
	for i, cell := range that.Cells {
		if cell == Empty {
			cells = append(cells, i)
		}
	}
	return cells
}

// FirstEmpty - returns the lowest free index, or -1 on a full board.
func (that Board) FirstEmpty() int {
	for i, cell := range that.Cells {
		if cell == Empty {
			return i
		}
	}
	return -1
}

func (that Board) Clone() Board {
	cells := make([]Mark, len(that.Cells))
	copy(cells, that.Cells)
	return Board{Size: that.Size, Cells: cells}
}

// With - returns a copy of the board with one cell replaced. The receiver is never modified.
func (that Board) With(index int, mark Mark) Board {
	next := that.Clone()
	next.Cells[index] = mark
	return next
}

func (that *Board) Place(index int, mark Mark) {
	that.Cells[index] = mark
}

func (that Board) RowCol(index int) (int, int) {
	return index / that.Size, index % that.Size
}

// IsCenter - true only for the exact middle cell (size/2, size/2).
func (that Board) IsCenter(index int) bool {
	row, col := that.RowCol(index)
	return row == that.Size/2 && col == that.Size/2
}

func (that Board) IsCorner(index int) bool {
	row, col := that.RowCol(index)
	last := that.Size - 1
	return (row == 0 || row == last) && (col == 0 || col == last)
}

// PositionName - human readable 1-based (row, col).
func (that Board) PositionName(index int) string {
	row, col := that.RowCol(index)
	return fmt.Sprintf("(%d, %d)", row+1, col+1)
}
