package matchpair

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"

	pictures "asis-solvers/internal/image"

	"github.com/pkg/errors"
	"golang.org/x/net/publicsuffix"
)

// Verdict is the server's answer to a submitted pair.
type Verdict string

const (
	VerdictOK    Verdict = "ok"
	VerdictWrong Verdict = "e"    // Wrong pair
	VerdictSlow  Verdict = "slow" // Round time ran out
)

var (
	// ErrWrongAnswer is returned when the server rejects a pair.
	ErrWrongAnswer = errors.New("wrong answer")

	// ErrTooSlow is returned when a pair was submitted after the round expired.
	ErrTooSlow = errors.New("too slow")
)

// Err maps failing verdicts to their error. Unknown verdicts are not errors.
func (v Verdict) Err() error {
	switch v {
	case VerdictWrong:
		return ErrWrongAnswer
	case VerdictSlow:
		return ErrTooSlow
	default:
		return nil
	}
}

// ParseVerdict reads a submission response body, a JSON string such as "ok".
// Bodies that are not JSON strings are taken verbatim.
func ParseVerdict(body []byte) Verdict {
	var s string
	if err := json.Unmarshal(body, &s); err == nil {
		return Verdict(s)
	}
	return Verdict(strings.TrimSpace(string(body)))
}

// Client talks to the challenge site. Every request carries the configured
// user agent and the session cookies, which live in a cookie jar so that any
// cookie the server sets is sent back as well.
type Client struct {
	base      *url.URL
	userAgent string
	http      *http.Client
}

// NewClient creates a client for cfg.BaseURL seeded with cfg.Cookies.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %q", cfg.BaseURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base URL %q needs a scheme and host", cfg.BaseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	jar.SetCookies(base, ParseCookies(cfg.Cookies))

	return &Client{
		base:      base,
		userAgent: cfg.UserAgent,
		http:      &http.Client{Jar: jar, Timeout: cfg.Timeout},
	}, nil
}

// ParseCookies parses a Cookie header value ("a=1; b=2").
func ParseCookies(header string) []*http.Cookie {
	if strings.TrimSpace(header) == "" {
		return nil
	}
	req := http.Request{Header: http.Header{"Cookie": {header}}}
	return req.Cookies()
}

// Visit loads the index page. The server only advances to the next round
// after the index was requested.
func (c *Client) Visit(ctx context.Context) error {
	body, err := c.get(ctx, c.base)
	if err != nil {
		return err
	}
	return body.Close()
}

// Picture downloads and decodes picture id of the current round.
func (c *Client) Picture(ctx context.Context, id int) (image.Image, error) {
	body, err := c.get(ctx, c.base.JoinPath("pic", strconv.Itoa(id)))
	if err != nil {
		return nil, err
	}
	defer body.Close()
	img, _, err := pictures.Decode(body)
	if err != nil {
		return nil, errors.WithMessagef(err, "picture %d", id)
	}
	return img, nil
}

// Submit claims that pictures first and second show the same color.
func (c *Client) Submit(ctx context.Context, first, second int) (Verdict, error) {
	u := c.base.JoinPath("send")
	u.RawQuery = url.Values{
		"first":  {strconv.Itoa(first)},
		"second": {strconv.Itoa(second)},
	}.Encode()
	body, err := c.get(ctx, u)
	if err != nil {
		return "", err
	}
	defer body.Close()
	data, err := io.ReadAll(body)
	if err != nil {
		return "", errors.Wrapf(err, "reading verdict for %d and %d", first, second)
	}
	return ParseVerdict(data), nil
}

// get issues a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", u)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", u.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errors.Errorf("GET %s: status %s", u.Path, resp.Status)
	}
	return resp.Body, nil
}
