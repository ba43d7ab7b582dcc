package engine

// HasValidMoves reports whether any rectangle on b sums to exactly TargetSum.
// An empty board has no moves.
func HasValidMoves(b Board) bool {
	_, ok := FindValidMove(b)
	return ok
}

// FindValidMove returns the first rectangle summing to TargetSum, scanning
// top-left corners in row-major order, then end rows, then end columns.
//
// Powers are never negative, so a rectangle's sum never decreases as it grows
// to the right or downward. Once a sum passes TargetSum the scan stops growing
// in that direction; the result is identical to checking every rectangle.
func FindValidMove(b Board) (Selection, bool) {
	// prefix[r][c] is the sum of all cells above and left of (r, c).
	var prefix [Rows + 1][Cols + 1]int
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			prefix[row+1][col+1] = b[row][col].Power() + prefix[row][col+1] + prefix[row+1][col] - prefix[row][col]
		}
	}
	rectSum := func(r0, c0, r1, c1 int) int {
		return prefix[r1+1][c1+1] - prefix[r0][c1+1] - prefix[r1+1][c0] + prefix[r0][c0]
	}

	for startRow := 0; startRow < Rows; startRow++ {
		for startCol := 0; startCol < Cols; startCol++ {
			for endRow := startRow; endRow < Rows; endRow++ {
				// Every wider rectangle with this or a later end row contains
				// this column strip.
				if rectSum(startRow, startCol, endRow, startCol) > TargetSum {
					break
				}
				for endCol := startCol; endCol < Cols; endCol++ {
					sum := rectSum(startRow, startCol, endRow, endCol)
					if sum == TargetSum {
						return Selection{StartRow: startRow, StartCol: startCol, EndRow: endRow, EndCol: endCol}, true
					}
					if sum > TargetSum {
						break
					}
				}
			}
		}
	}
	return Selection{}, false
}
