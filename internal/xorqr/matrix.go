// Package xorqr recovers QR codes whose columns were XORed with an unknown
// mask, and talks to the XORQR challenge server.
//
// Row 6 of every QR symbol is fixed: it is the bottom edge of the two top
// finder patterns, their separators, and the horizontal timing pattern in
// between. XORing the received row 6 with that known pattern yields the
// column mask, which then unmasks every other row.
package xorqr

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// PositionBoxSize is the side of a finder pattern, the same for every version.
	PositionBoxSize = 7

	// MagicRowIndex is the row whose content is known in advance.
	MagicRowIndex = PositionBoxSize - 1

	// MinSize is the side of a version 1 symbol, the smallest QR code.
	MinSize = 21

	darkCell = '+'
)

var (
	// ErrShortMatrix means the first line was too short to start a QR matrix.
	// The server sends this kind of line once it is done.
	ErrShortMatrix = errors.New("line too short for a QR matrix")

	// ErrMalformed means a matrix had the wrong number of rows or columns.
	ErrMalformed = errors.New("malformed QR matrix")
)

// MagicRow returns the expected row 6 of an n×n QR symbol: dark finder
// edges over the first and last 7 cells, and a timing pattern that is dark on
// even columns in between (which makes the separator columns 7 and n-8 light).
func MagicRow(n int) []bool {
	row := make([]bool, n)
	for i := range row {
		if i < PositionBoxSize || i >= n-PositionBoxSize {
			row[i] = true
		} else {
			row[i] = i%2 == 0
		}
	}
	return row
}

// XorRows returns a XOR b, cell by cell. Both must have the same length.
func XorRows(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] != b[i]
	}
	return out
}

// MaskRow derives the column mask of a masked matrix from its magic row.
func MaskRow(matrix [][]bool) ([]bool, error) {
	if err := checkSquare(matrix); err != nil {
		return nil, err
	}
	return XorRows(matrix[MagicRowIndex], MagicRow(len(matrix))), nil
}

// Unmask returns a new matrix with the column mask removed from every row.
func Unmask(matrix [][]bool) ([][]bool, error) {
	mask, err := MaskRow(matrix)
	if err != nil {
		return nil, err
	}
	qr := make([][]bool, len(matrix))
	for y, row := range matrix {
		qr[y] = XorRows(row, mask)
	}
	return qr, nil
}

// ParseMatrix parses rows of '+' (dark) and '-' (light) cells. The length of
// the first line gives the size n, and exactly n lines of n cells must follow
// (the first one included). Any cell other than '+' is light.
func ParseMatrix(lines []string) ([][]bool, error) {
	if len(lines) == 0 {
		return nil, errors.Wrap(ErrMalformed, "no lines")
	}
	n := len(lines[0])
	if n < MinSize {
		return nil, errors.Wrapf(ErrShortMatrix, "%q", lines[0])
	}
	if len(lines) != n {
		return nil, errors.Wrapf(ErrMalformed, "%d rows for a %d-wide matrix", len(lines), n)
	}
	matrix := make([][]bool, n)
	for y, line := range lines {
		if len(line) != n {
			return nil, errors.Wrapf(ErrMalformed, "row %d has %d cells, want %d", y, len(line), n)
		}
		row := make([]bool, n)
		for x := 0; x < n; x++ {
			row[x] = line[x] == darkCell
		}
		matrix[y] = row
	}
	return matrix, nil
}

// Format is the inverse of ParseMatrix.
func Format(matrix [][]bool) []string {
	lines := make([]string, len(matrix))
	for y, row := range matrix {
		var sb strings.Builder
		sb.Grow(len(row))
		for _, v := range row {
			if v {
				sb.WriteByte(darkCell)
			} else {
				sb.WriteByte('-')
			}
		}
		lines[y] = sb.String()
	}
	return lines
}

func checkSquare(matrix [][]bool) error {
	n := len(matrix)
	if n < MinSize {
		return errors.Wrapf(ErrMalformed, "%d rows, need at least %d", n, MinSize)
	}
	for y, row := range matrix {
		if len(row) != n {
			return errors.Wrapf(ErrMalformed, "row %d has %d cells, want %d", y, len(row), n)
		}
	}
	return nil
}
