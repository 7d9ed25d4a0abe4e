package xorqr

import (
	"bufio"
	"context"
	"io"
	"math/rand/v2"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeQR renders text as a QR symbol, one cell per module, cropped to the
// symbol itself.
func encodeQR(t *testing.T, text string) [][]bool {
	t.Helper()
	hints := map[gozxing.EncodeHintType]interface{}{gozxing.EncodeHintType_MARGIN: 0}
	bits, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, 0, 0, hints)
	require.NoError(t, err)

	// Finder patterns sit in three corners, so the dark cells span the symbol.
	minX, minY := bits.GetWidth(), bits.GetHeight()
	maxX, maxY := -1, -1
	for y := 0; y < bits.GetHeight(); y++ {
		for x := 0; x < bits.GetWidth(); x++ {
			if bits.Get(x, y) {
				minX, minY = min(minX, x), min(minY, y)
				maxX, maxY = max(maxX, x), max(maxY, y)
			}
		}
	}
	n := maxX - minX + 1
	require.Equal(t, n, maxY-minY+1, "symbol must be square")
	matrix := make([][]bool, n)
	for y := range matrix {
		matrix[y] = make([]bool, n)
		for x := range matrix[y] {
			matrix[y][x] = bits.Get(minX+x, minY+y)
		}
	}
	return matrix
}

func randomMask(seed uint64, n int) []bool {
	rng := rand.New(rand.NewPCG(seed, 7))
	mask := make([]bool, n)
	for i := range mask {
		mask[i] = rng.IntN(2) == 1
	}
	return mask
}

func applyMask(matrix [][]bool, mask []bool) [][]bool {
	out := make([][]bool, len(matrix))
	for y, row := range matrix {
		out[y] = XorRows(row, mask)
	}
	return out
}

func TestMagicRow21(t *testing.T) {
	row := MagicRow(21)
	require.Len(t, row, 21)
	for i := 0; i < 7; i++ {
		assert.Truef(t, row[i], "cell %d is a finder edge", i)
		assert.Truef(t, row[20-i], "cell %d is a finder edge", 20-i)
	}
	for i := 7; i <= 13; i++ {
		assert.Equalf(t, i%2 == 0, row[i], "timing cell %d", i)
	}
	assert.False(t, row[7], "left separator")
	assert.True(t, row[8])
	assert.False(t, row[13], "right separator")
}

func TestMagicRowMatchesEncodedSymbols(t *testing.T) {
	for _, text := range []string{
		"hi",
		"ASIS_b2a5f1e4c6d38790",
		strings.Repeat("0123456789abcdef", 4),
		strings.Repeat("xorqr ", 20),
	} {
		qr := encodeQR(t, text)
		assert.Equalf(t, MagicRow(len(qr)), qr[MagicRowIndex], "%d-wide symbol for %q", len(qr), text)
	}
}

func TestXorRows(t *testing.T) {
	row := []bool{true, false, true}
	assert.Equal(t, []bool{false, false, false}, XorRows(row, []bool{true, false, true}))
	assert.Equal(t, []bool{false, true, true}, XorRows(row, []bool{true, true, false}))
}

func TestUnmaskAndDecode(t *testing.T) {
	for i, text := range []string{"START", "e0a9c2f3b1d4", strings.Repeat("QR", 30)} {
		qr := encodeQR(t, text)
		mask := randomMask(uint64(i), len(qr))
		masked := applyMask(qr, mask)

		gotMask, err := MaskRow(masked)
		require.NoError(t, err)
		assert.Equal(t, mask, gotMask)

		unmasked, err := Unmask(masked)
		require.NoError(t, err)
		assert.Equal(t, qr, unmasked)

		decoded, err := Decode(unmasked)
		require.NoError(t, err)
		assert.Equal(t, text, decoded)
	}
}

func TestDecodeErrors(t *testing.T) {
	blank := make([][]bool, 21)
	for y := range blank {
		blank[y] = make([]bool, 21)
	}
	_, err := Decode(blank)
	assert.Error(t, err)

	_, err = Decode(blank[:20])
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestParseMatrix(t *testing.T) {
	qr := encodeQR(t, "parse me")
	lines := Format(qr)
	require.Len(t, lines, len(qr))
	assert.Equal(t, "+++++++-", lines[0][:8])

	parsed, err := ParseMatrix(lines)
	require.NoError(t, err)
	assert.Equal(t, qr, parsed)

	_, err = ParseMatrix([]string{"ASIS_flag"})
	assert.True(t, errors.Is(err, ErrShortMatrix))
	assert.Contains(t, err.Error(), "ASIS_flag")

	_, err = ParseMatrix(lines[:len(lines)-1])
	assert.True(t, errors.Is(err, ErrMalformed))

	bad := append([]string(nil), lines...)
	bad[3] = bad[3][1:]
	_, err = ParseMatrix(bad)
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = ParseMatrix(nil)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestRender(t *testing.T) {
	matrix := [][]bool{{true, false}, {false, true}}
	assert.Equal(t, "██  \n  ██\n", Render(matrix, false))
	styled := Render(matrix, true)
	assert.Equal(t, 2, strings.Count(styled, "\n"))
}

// serve accepts a single connection on a local port and runs handler on it.
func serve(t *testing.T, handler func(r *bufio.Reader, w *bufio.Writer)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		handler(bufio.NewReader(conn), bufio.NewWriter(conn))
	}()
	return ln.Addr().String()
}

func writeLines(w *bufio.Writer, lines ...string) {
	for _, l := range lines {
		_, _ = w.WriteString(l + "\n")
	}
	_ = w.Flush()
}

func challengeServer(t *testing.T, texts []string, trailer ...string) func(r *bufio.Reader, w *bufio.Writer) {
	return func(r *bufio.Reader, w *bufio.Writer) {
		writeLines(w, "Welcome to XORQR", "decode every QR code", `send "START"`)
		line, err := r.ReadString('\n')
		if !assert.NoError(t, err) || !assert.Equal(t, "START\n", line) {
			return
		}
		for i, text := range texts {
			qr := encodeQR(t, text)
			writeLines(w, Format(applyMask(qr, randomMask(uint64(100+i), len(qr))))...)
			answer, err := r.ReadString('\n')
			if !assert.NoError(t, err) {
				return
			}
			if strings.TrimSuffix(answer, "\n") != text {
				writeLines(w, "Wrong answer")
				return
			}
			writeLines(w, "Correct", "OK")
		}
		writeLines(w, trailer...)
	}
}

func TestClientSession(t *testing.T) {
	texts := []string{"first", "c0ffee_2014", strings.Repeat("long answer ", 8)}
	addr := serve(t, challengeServer(t, texts, "ASIS_xor_flag", "bye"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := Dial(ctx, DefaultConfig().WithAddr(addr))
	require.NoError(t, err)
	defer client.Close()

	var seen int
	client.OnMatrix = func(qr [][]bool) { seen++ }
	result, err := client.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, texts, result.Answers)
	assert.Equal(t, []string{"ASIS_xor_flag", "bye"}, result.Trailer)
	assert.Equal(t, len(texts), seen)
}

func TestClientLongTrailer(t *testing.T) {
	// Real flags are ASIS_ and 32 hex digits, longer than a version 1 row.
	flag := "ASIS_0123456789abcdef0123456789abcdef"
	for _, tc := range []struct {
		name    string
		trailer []string
	}{
		{"short line after flag", []string{flag, "bye"}},
		{"flag then EOF", []string{flag}},
		{"full width line after flag", []string{flag, strings.Repeat("=", len(flag))}},
	} {
		trailer := tc.trailer
		t.Run(tc.name, func(t *testing.T) {
			addr := serve(t, challengeServer(t, []string{"one"}, trailer...))
			ctx := context.Background()
			client, err := Dial(ctx, DefaultConfig().WithAddr(addr))
			require.NoError(t, err)
			defer client.Close()

			result, err := client.Run(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"one"}, result.Answers)
			assert.Equal(t, trailer, result.Trailer)
		})
	}
}

func TestClientMalformedRow(t *testing.T) {
	lines := Format(encodeQR(t, "never answered"))
	n := len(lines)
	lines[2] = lines[2][:5]
	addr := serve(t, func(r *bufio.Reader, w *bufio.Writer) {
		writeLines(w, `send "START"`)
		_, _ = r.ReadString('\n')
		writeLines(w, lines...)
		writeLines(w, "ASIS_flag")
	})

	ctx := context.Background()
	client, err := Dial(ctx, DefaultConfig().WithAddr(addr))
	require.NoError(t, err)
	defer client.Close()

	result, err := client.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Answers)
	require.Len(t, result.Trailer, n+1)
	assert.Equal(t, lines, result.Trailer[:n])
	assert.Equal(t, "ASIS_flag", result.Trailer[n])
}

func TestClientRejectedAnswer(t *testing.T) {
	addr := serve(t, func(r *bufio.Reader, w *bufio.Writer) {
		writeLines(w, `send "START"`)
		_, _ = r.ReadString('\n')
		writeLines(w, Format(encodeQR(t, "expected"))...)
		_, _ = r.ReadString('\n')
		writeLines(w, "Wrong answer")
	})

	ctx := context.Background()
	client, err := Dial(ctx, DefaultConfig().WithAddr(addr))
	require.NoError(t, err)
	defer client.Close()

	// The unmasked symbol decodes fine; the server is simply never satisfied.
	result, err := client.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Empty(t, result.Answers)
}

func TestClientCancel(t *testing.T) {
	addr := serve(t, func(r *bufio.Reader, w *bufio.Writer) {
		// Never send the prompt; wait for the client to hang up.
		_, _ = r.ReadString('\n')
	})

	ctx, cancel := context.WithCancel(context.Background())
	client, err := Dial(ctx, DefaultConfig().WithAddr(addr))
	require.NoError(t, err)
	defer client.Close()

	time.AfterFunc(50*time.Millisecond, cancel)
	_, err = client.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
