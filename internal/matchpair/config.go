// Package matchpair plays the "Match the Pair" challenge: every round shows
// 16 pictures, each with one colored circle, and the circles come in 8 pairs
// of nearly identical colors that must be submitted before time runs out.
package matchpair

import (
	"time"

	"asis-solvers/internal/circle"
	"asis-solvers/internal/pairing"
)

// Config holds the challenge endpoint, session and solver tuning.
type Config struct {
	BaseURL   string // Challenge site root
	UserAgent string
	Cookies   string // Cookie header value carrying the session

	Rounds   int // Rounds to play
	Pictures int // Pictures per round, two per pair
	Workers  int // Concurrent downloads and submissions

	Tolerance int           // Exclusive per-channel color distance for a pair
	Circle    circle.Params // Circle classifier thresholds
	Timeout   time.Duration // Per HTTP request; zero means none
}

// DefaultConfig returns the settings used against the 2014 ASIS CTF server.
func DefaultConfig() Config {
	return Config{
		BaseURL:   "http://asis-ctf.ir:12443",
		UserAgent: "Mozilla/5.0 (Windows NT 6.3; WOW64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/37.0.2062.124 Safari/537.36",
		Cookies:   "sessionid=o4vshsd1ac158q9xz1txni9o06xkc2jz; PHPSESSID=tt5bifrgddqkts7ddu43tkdhq5; csrftoken=LBCcpn8rh8Rz04PEJxt7KCevc7LihNMp",

		Rounds:   40,
		Pictures: 16,
		Workers:  16,

		Tolerance: pairing.DefaultTolerance,
		Circle:    circle.DefaultParams(),
		Timeout:   30 * time.Second,
	}
}

// WithBaseURL returns a copy of cfg pointing at another site.
func (cfg Config) WithBaseURL(base string) Config {
	cfg.BaseURL = base
	return cfg
}

// WithCookies returns a copy of cfg with another session cookie header.
func (cfg Config) WithCookies(cookies string) Config {
	cfg.Cookies = cookies
	return cfg
}

// WithRounds returns a copy of cfg playing n rounds.
func (cfg Config) WithRounds(n int) Config {
	cfg.Rounds = n
	return cfg
}

// WithWorkers returns a copy of cfg with a different pool size.
func (cfg Config) WithWorkers(n int) Config {
	cfg.Workers = n
	return cfg
}

// WithTolerance returns a copy of cfg with a different pairing tolerance.
func (cfg Config) WithTolerance(tolerance int) Config {
	cfg.Tolerance = tolerance
	return cfg
}
