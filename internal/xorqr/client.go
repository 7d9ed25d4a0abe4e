package xorqr

import (
	"bufio"
	"context"
	"io"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Config holds the XORQR server endpoint and protocol strings.
type Config struct {
	Addr         string        // host:port of the challenge server
	Prompt       string        // Line announcing that the server waits for StartCommand
	StartCommand string        // Sent once Prompt was seen
	Ack          string        // Line confirming an accepted answer
	DialTimeout  time.Duration // Zero means no timeout
}

// DefaultConfig returns the settings of the 2014 ASIS CTF server.
func DefaultConfig() Config {
	return Config{
		Addr:         "asis-ctf.ir:12431",
		Prompt:       `send "START"`,
		StartCommand: "START",
		Ack:          "OK",
		DialTimeout:  10 * time.Second,
	}
}

// WithAddr returns a copy of cfg pointing at another server.
func (cfg Config) WithAddr(addr string) Config {
	cfg.Addr = addr
	return cfg
}

// Result summarizes a session.
type Result struct {
	Answers []string // Decoded text of every accepted QR code, in order
	Trailer []string // Lines received after the last QR code, usually the flag
}

// Client runs the XORQR protocol over one connection. OnMatrix, when set, is
// called with every unmasked matrix before it is decoded.
type Client struct {
	cfg      Config
	conn     net.Conn
	scanner  *bufio.Scanner
	OnMatrix func(qr [][]bool)
}

// Dial connects to cfg.Addr.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	d := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return nil, errors.Wrapf(err, "connecting to %s", cfg.Addr)
	}
	return NewClient(conn, cfg), nil
}

// NewClient wraps an established connection. The client owns conn.
func NewClient(conn net.Conn, cfg Config) *Client {
	sc := bufio.NewScanner(conn)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &Client{cfg: cfg, conn: conn, scanner: sc}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Run starts the challenge and answers QR codes until the server stops
// sending matrices, then collects whatever the server sends until it closes
// the connection. Cancelling ctx closes the connection.
func (c *Client) Run(ctx context.Context) (*Result, error) {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.Close()
		case <-done:
		}
	}()

	result := &Result{}
	if err := c.waitFor(c.cfg.Prompt); err != nil {
		return result, c.ctxErr(ctx, err)
	}
	klog.Infof("Sending: %s", c.cfg.StartCommand)
	if err := c.send(c.cfg.StartCommand); err != nil {
		return result, c.ctxErr(ctx, err)
	}

	for {
		start := time.Now()
		matrix, lines, err := c.readMatrix()
		if err != nil && ctx.Err() != nil {
			return result, c.ctxErr(ctx, err)
		}
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		if endOfMatrices(err) {
			klog.V(1).Infof("end of matrices: %v", err)
			// The lines that ended the loop may hold the flag.
			for _, line := range lines {
				klog.Info(line)
			}
			result.Trailer = append(result.Trailer, lines...)
			break
		}
		if err != nil {
			return result, err
		}

		qr, err := Unmask(matrix)
		if err != nil {
			return result, err
		}
		if c.OnMatrix != nil {
			c.OnMatrix(qr)
		}
		text, err := Decode(qr)
		if err != nil {
			return result, errors.WithMessagef(err, "QR code #%d", len(result.Answers)+1)
		}
		klog.Infof("Sending: %s (%dx%d, %s)", text, len(qr), len(qr), time.Since(start))
		if err := c.send(text); err != nil {
			return result, c.ctxErr(ctx, err)
		}
		if err := c.waitFor(c.cfg.Ack); err != nil {
			return result, c.ctxErr(ctx, errors.WithMessagef(err, "answer %q", text))
		}
		result.Answers = append(result.Answers, text)
	}

	for c.scanner.Scan() {
		line := strings.TrimRight(c.scanner.Text(), "\r")
		klog.Info(line)
		result.Trailer = append(result.Trailer, line)
	}
	if err := c.scanner.Err(); err != nil && ctx.Err() == nil {
		return result, errors.Wrap(err, "reading trailer")
	}
	return result, nil
}

// endOfMatrices reports whether a readMatrix error means the server stopped
// sending matrices. Anything that does not parse as a full matrix counts.
func endOfMatrices(err error) bool {
	return errors.Is(err, ErrShortMatrix) || errors.Is(err, ErrMalformed) || errors.Is(err, io.ErrUnexpectedEOF)
}

// readLine returns the next line without its line ending.
func (c *Client) readLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", errors.Wrap(err, "reading from server")
		}
		return "", io.EOF
	}
	line := strings.TrimRight(c.scanner.Text(), "\r")
	klog.V(1).Info(line)
	return line, nil
}

// waitFor discards lines until one equals want.
func (c *Client) waitFor(want string) error {
	for {
		line, err := c.readLine()
		if err == io.EOF {
			return errors.Wrapf(io.ErrUnexpectedEOF, "waiting for %q", want)
		}
		if err != nil {
			return err
		}
		if line == want {
			return nil
		}
	}
}

// readMatrix reads one matrix. The raw lines read are returned along with
// any parse error, and reading stops at the first row of the wrong width.
func (c *Client) readMatrix() ([][]bool, []string, error) {
	first, err := c.readLine()
	if err != nil {
		return nil, nil, err
	}
	lines := []string{first}
	n := len(first)
	for n >= MinSize && len(lines) < n {
		line, err := c.readLine()
		if err == io.EOF {
			return nil, lines, errors.Wrapf(io.ErrUnexpectedEOF, "matrix cut after %d of %d rows", len(lines), n)
		}
		if err != nil {
			return nil, lines, err
		}
		lines = append(lines, line)
		if len(line) != n {
			break
		}
	}
	matrix, err := ParseMatrix(lines)
	return matrix, lines, err
}

func (c *Client) send(line string) error {
	if _, err := io.WriteString(c.conn, line+"\n"); err != nil {
		return errors.Wrapf(err, "sending %q", line)
	}
	return nil
}

// ctxErr prefers the cancellation cause over the I/O error it provoked.
func (c *Client) ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), err.Error())
	}
	return err
}
