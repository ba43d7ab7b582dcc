package engine

// Selection is an inclusive rectangle of grid coordinates with
// StartRow <= EndRow and StartCol <= EndCol.
//
// Build selections with CalculateSelectionBounds; raw drag corners may be
// inverted.
type Selection struct {
	StartRow int `json:"startRow"`
	StartCol int `json:"startCol"`
	EndRow   int `json:"endRow"`
	EndCol   int `json:"endCol"`
}

// CalculateSelectionBounds normalizes two arbitrary corners into a Selection
// that contains both of them. It is idempotent.
func CalculateSelectionBounds(startRow, startCol, endRow, endCol int) Selection {
	return Selection{
		StartRow: min(startRow, endRow),
		StartCol: min(startCol, endCol),
		EndRow:   max(startRow, endRow),
		EndCol:   max(startCol, endCol),
	}
}

// Contains reports whether (row, col) lies inside the rectangle.
func (s Selection) Contains(row, col int) bool {
	return row >= s.StartRow && row <= s.EndRow && col >= s.StartCol && col <= s.EndCol
}

// clip intersects the selection with the board. ok is false when nothing
// of the selection lies on the board.
func (s Selection) clip() (r0, c0, r1, c1 int, ok bool) {
	r0, c0 = max(s.StartRow, 0), max(s.StartCol, 0)
	r1, c1 = min(s.EndRow, Rows-1), min(s.EndCol, Cols-1)
	return r0, c0, r1, c1, r0 <= r1 && c0 <= c1
}
