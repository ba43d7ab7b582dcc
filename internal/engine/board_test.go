package engine

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewBoardFromSeed_Golden(t *testing.T) {
	board := NewBoardFromSeed(12345)

	expectedRows := map[int][Cols]Cell{
		0: {9, 3, 5, 8, 5, 4, 1, 7, 9, 8, 5, 9, 9, 9, 6, 3, 5},
		1: {3, 7, 8, 6, 8, 8, 6, 5, 1, 3, 2, 7, 1, 3, 1, 6, 9},
		9: {5, 7, 1, 6, 9, 5, 5, 6, 7, 2, 6, 9, 2, 5, 7, 4, 2},
	}
	for row, want := range expectedRows {
		if board[row] != want {
			t.Errorf("row %d: expected %v, got %v", row, want, board[row])
		}
	}
}

func TestNewBoardFromSeed_Determinism(t *testing.T) {
	r := newTestRand(1)
	for i := 0; i < 200; i++ {
		seed := r.Uint32()
		if NewBoardFromSeed(seed) != NewBoardFromSeed(seed) {
			t.Fatalf("seed %d produced two different boards", seed)
		}
	}
}

func TestNewBoardFromSeed_Shape(t *testing.T) {
	r := newTestRand(2)
	for i := 0; i < 200; i++ {
		seed := r.Uint32()
		board := NewBoardFromSeed(seed)
		if len(board) != Rows {
			t.Fatalf("seed %d: expected %d rows, got %d", seed, Rows, len(board))
		}
		for row := range board {
			if len(board[row]) != Cols {
				t.Fatalf("seed %d row %d: expected %d cols, got %d", seed, row, Cols, len(board[row]))
			}
			for col, cell := range board[row] {
				if cell.Power() < MinPower || cell.Power() > MaxPower {
					t.Fatalf("seed %d (%d,%d): power %d out of range", seed, row, col, cell.Power())
				}
			}
		}
	}
}

func TestNewInitialBoard(t *testing.T) {
	board, seed := NewInitialBoard()
	if board != NewBoardFromSeed(seed) {
		t.Error("Expected board to be reproducible from returned seed")
	}
}

func TestBoard_At(t *testing.T) {
	board := NewBoardFromSeed(12345)

	tests := []struct {
		name   string
		row    int
		col    int
		want   Cell
		wantOK bool
	}{
		{name: "top left", row: 0, col: 0, want: 9, wantOK: true},
		{name: "second row", row: 1, col: 1, want: 7, wantOK: true},
		{name: "negative row", row: -1, col: 0, want: Empty, wantOK: false},
		{name: "column past edge", row: 0, col: Cols, want: Empty, wantOK: false},
		{name: "row past edge", row: Rows, col: 0, want: Empty, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := board.At(tt.row, tt.col)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("At(%d,%d) = (%d,%v), expected (%d,%v)", tt.row, tt.col, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBoard_RemainingAndCleared(t *testing.T) {
	board := NewBoardFromSeed(7)
	if board.Remaining() != Rows*Cols {
		t.Errorf("Expected %d ghosts, got %d", Rows*Cols, board.Remaining())
	}
	if board.IsCleared() {
		t.Error("Expected fresh board not to be cleared")
	}

	var empty Board
	if !empty.IsCleared() || empty.Remaining() != 0 {
		t.Error("Expected zero board to be cleared")
	}
}

func TestCell_JSON(t *testing.T) {
	var board Board
	board[0][0] = 4

	data, err := json.Marshal(board)
	if err != nil {
		t.Fatalf("Failed to marshal board: %v", err)
	}
	if !strings.HasPrefix(string(data), "[[4,null,") {
		t.Errorf("Unexpected encoding: %s", data[:20])
	}

	var decoded Board
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal board: %v", err)
	}
	if decoded != board {
		t.Error("Expected decoded board to equal original")
	}

	var cell Cell
	if err := json.Unmarshal([]byte("12"), &cell); err == nil {
		t.Error("Expected error for power 12")
	}
	if err := json.Unmarshal([]byte("0"), &cell); err == nil {
		t.Error("Expected error for power 0")
	}
}

func TestBoard_String(t *testing.T) {
	var board Board
	board[0][1] = 3

	lines := strings.Split(strings.TrimSuffix(board.String(), "\n"), "\n")
	if len(lines) != Rows {
		t.Fatalf("Expected %d lines, got %d", Rows, len(lines))
	}
	if !strings.HasPrefix(lines[0], ". 3 .") {
		t.Errorf("Unexpected first line %q", lines[0])
	}
}
