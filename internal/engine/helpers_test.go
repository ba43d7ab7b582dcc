package engine

import "math/rand/v2"

// newTestRand returns a reproducible source for randomized property tests.
func newTestRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// randomBoard fills a board with random powers, leaving roughly emptyPct
// percent of the cells empty.
func randomBoard(r *rand.Rand, emptyPct int) Board {
	var b Board
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if r.IntN(100) < emptyPct {
				continue
			}
			b[row][col] = Cell(r.IntN(MaxPower) + MinPower)
		}
	}
	return b
}

// randomSelection returns a normalized selection inside the board.
func randomSelection(r *rand.Rand) Selection {
	return CalculateSelectionBounds(r.IntN(Rows), r.IntN(Cols), r.IntN(Rows), r.IntN(Cols))
}

// bruteForceHasMove checks every rectangle without pruning.
func bruteForceHasMove(b Board) bool {
	for r0 := 0; r0 < Rows; r0++ {
		for c0 := 0; c0 < Cols; c0++ {
			for r1 := r0; r1 < Rows; r1++ {
				for c1 := c0; c1 < Cols; c1++ {
					if CalculatePowerSum(b, Selection{r0, c0, r1, c1}) == TargetSum {
						return true
					}
				}
			}
		}
	}
	return false
}
