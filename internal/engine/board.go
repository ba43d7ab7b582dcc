package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Board dimensions and scoring constants of the shipped game.
const (
	Rows      = 10
	Cols      = 17
	MinPower  = 1
	MaxPower  = 9
	TargetSum = 10
)

// Cell holds a ghost power in [MinPower, MaxPower], or Empty once exorcised.
type Cell uint8

// Empty marks a cell whose ghost has been exorcised.
const Empty Cell = 0

// Power returns the cell's power, 0 for an empty cell.
func (c Cell) Power() int {
	return int(c)
}

// IsEmpty reports whether the cell has been exorcised.
func (c Cell) IsEmpty() bool {
	return c == Empty
}

// MarshalJSON encodes an empty cell as null and a ghost as its power.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.IsEmpty() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON accepts null or an integer power in [MinPower, MaxPower].
func (c *Cell) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*c = Empty
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid cell %q: %w", s, err)
	}
	if v < MinPower || v > MaxPower {
		return fmt.Errorf("cell power %d out of range [%d, %d]", v, MinPower, MaxPower)
	}
	*c = Cell(v)
	return nil
}

// Board is a Rows x Cols grid indexed [row][col].
//
// Board is an array, so assigning it or passing it to a function copies every
// cell. Operations that "change" a board return a new value and can never
// touch the caller's copy.
type Board [Rows][Cols]Cell

// NewBoardFromSeed builds the board determined by seed.
//
// One PRNG value is drawn per cell in row-major order (row 0 left to right,
// then row 1, and so on) and mapped to floor(r*9)+1. The draw order is part
// of the replay contract: changing it changes which seed yields which board.
func NewBoardFromSeed(seed uint32) Board {
	random := NewSeededRandom(seed)

	var b Board
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			b[row][col] = Cell(int(random()*MaxPower) + MinPower)
		}
	}
	return b
}

// NewInitialBoard draws a fresh seed and returns the board it produces along
// with the seed, which is all that needs persisting to rebuild the board.
func NewInitialBoard() (Board, uint32) {
	seed := GenerateSeed()
	return NewBoardFromSeed(seed), seed
}

// At returns the cell at (row, col). ok is false outside the board.
func (b Board) At(row, col int) (Cell, bool) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return Empty, false
	}
	return b[row][col], true
}

// IsCleared reports whether every cell has been exorcised.
func (b Board) IsCleared() bool {
	for row := range b {
		for _, cell := range b[row] {
			if !cell.IsEmpty() {
				return false
			}
		}
	}
	return true
}

// Remaining counts the ghosts still on the board.
func (b Board) Remaining() int {
	n := 0
	for row := range b {
		for _, cell := range b[row] {
			if !cell.IsEmpty() {
				n++
			}
		}
	}
	return n
}

// String renders the board one row per line, '.' for empty cells.
func (b Board) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			if cell := b[row][col]; cell.IsEmpty() {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('0' + cell))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
