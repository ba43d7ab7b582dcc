package engine

import "testing"

func TestHasValidMoves(t *testing.T) {
	var single Board
	single[4][8] = 9

	var pair Board
	pair[0][0], pair[9][16] = 5, 5

	var spread Board
	spread[0][0], spread[9][16] = 4, 6

	var corner Board
	corner[9][15], corner[9][16] = 1, 9

	tests := []struct {
		name     string
		board    Board
		expected bool
	}{
		{name: "empty board", board: Board{}, expected: false},
		{name: "single ghost", board: single, expected: false},
		{name: "opposite corners 5 and 5", board: pair, expected: true},
		{name: "opposite corners 4 and 6", board: spread, expected: true},
		{name: "bottom right pair", board: corner, expected: true},
		{name: "fresh board", board: NewBoardFromSeed(12345), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasValidMoves(tt.board); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestHasValidMoves_AllNines(t *testing.T) {
	var board Board
	for row := range board {
		for col := range board[row] {
			board[row][col] = 9
		}
	}
	if HasValidMoves(board) {
		t.Error("Expected no move on a board of nines")
	}

	board[3][3] = 1
	if !HasValidMoves(board) {
		t.Error("Expected 9+1 to be found")
	}
}

func TestFindValidMove_ReturnsValidSelection(t *testing.T) {
	r := newTestRand(6)
	for i := 0; i < 500; i++ {
		board := randomBoard(r, r.IntN(100))
		sel, ok := FindValidMove(board)
		if !ok {
			continue
		}
		if !ValidateSelection(board, sel).IsValid {
			t.Fatalf("FindValidMove returned invalid %+v", sel)
		}
	}
}

func TestHasValidMoves_MatchesBruteForce(t *testing.T) {
	r := newTestRand(7)
	for i := 0; i < 400; i++ {
		// Sparse boards are where the answer actually varies.
		board := randomBoard(r, 60+r.IntN(41))
		if got, want := HasValidMoves(board), bruteForceHasMove(board); got != want {
			t.Fatalf("HasValidMoves = %v, brute force = %v on\n%s", got, want, board)
		}
	}
}
