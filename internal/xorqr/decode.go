package xorqr

import (
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"
	"github.com/pkg/errors"
)

// Decode reads the text of an unmasked QR bit matrix, one cell per module
// and no quiet zone. matrix[y][x] is true for dark modules.
func Decode(matrix [][]bool) (string, error) {
	if err := checkSquare(matrix); err != nil {
		return "", err
	}
	n := len(matrix)
	bits, err := gozxing.NewBitMatrix(n, n)
	if err != nil {
		return "", errors.Wrapf(err, "allocating %dx%d bit matrix", n, n)
	}
	for y, row := range matrix {
		for x, dark := range row {
			if dark {
				bits.Set(x, y)
			}
		}
	}
	result, err := decoder.NewDecoder().Decode(bits, nil)
	if err != nil {
		return "", errors.Wrapf(err, "decoding %dx%d QR code", n, n)
	}
	return result.GetText(), nil
}
