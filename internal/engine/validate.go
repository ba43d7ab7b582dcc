package engine

// ValidationResult is the outcome of checking a selection against a board.
type ValidationResult struct {
	IsValid   bool `json:"isValid"`
	Sum       int  `json:"sum"`
	TileCount int  `json:"tileCount"`
}

// CalculatePowerSum sums the powers of the non-empty cells inside sel.
// Coordinates outside the board contribute nothing.
func CalculatePowerSum(b Board, sel Selection) int {
	r0, c0, r1, c1, ok := sel.clip()
	if !ok {
		return 0
	}

	sum := 0
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			sum += b[row][col].Power()
		}
	}
	return sum
}

// CountNonNullCells counts the non-empty cells inside sel.
func CountNonNullCells(b Board, sel Selection) int {
	r0, c0, r1, c1, ok := sel.clip()
	if !ok {
		return 0
	}

	count := 0
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			if !b[row][col].IsEmpty() {
				count++
			}
		}
	}
	return count
}

// ValidateSelection checks sel against b. A selection is valid only when its
// sum is exactly TargetSum.
func ValidateSelection(b Board, sel Selection) ValidationResult {
	sum := CalculatePowerSum(b, sel)
	return ValidationResult{
		IsValid:   sum == TargetSum,
		Sum:       sum,
		TileCount: CountNonNullCells(b, sel),
	}
}
