package common

// MaxGridSize bounds either grid dimension
const MaxGridSize = 50

// IsValidCoordinate checks if (row, col) lies inside a rows x cols grid
func IsValidCoordinate(row, col, rows, cols int) bool {
	return row >= 0 && row < rows && col >= 0 && col < cols
}

// IsValidGridSize reports whether rows and cols describe a non-empty grid
// no larger than MaxGridSize on either side
func IsValidGridSize(rows, cols int) bool {
	return rows > 0 && cols > 0 && rows <= MaxGridSize && cols <= MaxGridSize
}
