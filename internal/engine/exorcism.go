package engine

// ExecuteExorcism clears every cell inside sel when the selection is valid
// and returns the resulting board. For an invalid selection it returns b
// unchanged. b itself is never modified.
func ExecuteExorcism(b Board, sel Selection) Board {
	if !ValidateSelection(b, sel).IsValid {
		return b
	}

	// A valid selection always intersects the board.
	r0, c0, r1, c1, _ := sel.clip()
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			b[row][col] = Empty
		}
	}
	return b
}

// CalculateScoreIncrement returns the points a selection earns on b: the
// number of ghosts it exorcises, or 0 when it is invalid.
func CalculateScoreIncrement(b Board, sel Selection) int {
	result := ValidateSelection(b, sel)
	if !result.IsValid {
		return 0
	}
	return result.TileCount
}
