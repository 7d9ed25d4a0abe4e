package matchpair

import (
	"context"
	"time"

	"asis-solvers/internal/circle"
	"asis-solvers/internal/pairing"
	"asis-solvers/pkg/colorutil"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// ErrUnmatched is returned when a round ends with pictures whose color has
// no partner within tolerance.
var ErrUnmatched = errors.New("unmatched pictures")

// RoundResult is what happened in one round.
type RoundResult struct {
	Round    int
	Colors   []colorutil.ARGB // Circle color per picture
	Pairs    []pairing.Pair   // In submission order
	Verdicts []Verdict        // Verdicts[i] answers Pairs[i]
	Elapsed  time.Duration
}

type slotResult struct {
	slot  int
	color colorutil.ARGB
}

// Solver plays the challenge with one client.
type Solver struct {
	cfg    Config
	client *Client
}

// NewSolver creates a solver and its HTTP client.
func NewSolver(cfg Config) (*Solver, error) {
	if cfg.Pictures <= 0 || cfg.Pictures%2 != 0 {
		return nil, errors.Errorf("pictures per round must be a positive even number, got %d", cfg.Pictures)
	}
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Solver{cfg: cfg, client: client}, nil
}

// Run plays cfg.Rounds rounds and stops at the first failing one. The results
// of the rounds played so far are returned either way.
func (s *Solver) Run(ctx context.Context) ([]*RoundResult, error) {
	var results []*RoundResult
	for round := 1; round <= s.cfg.Rounds; round++ {
		res, err := s.PlayRound(ctx, round)
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
		klog.Infof("Round %d/%d solved in %s", round, s.cfg.Rounds, res.Elapsed)
	}
	return results, nil
}

// PlayRound primes the session, then downloads every picture of the round
// concurrently. Colors are paired as the detections arrive and every pair is
// submitted as soon as it is found, without waiting for the other pictures.
func (s *Solver) PlayRound(ctx context.Context, round int) (*RoundResult, error) {
	start := time.Now()
	if err := s.client.Visit(ctx); err != nil {
		return nil, errors.WithMessagef(err, "round %d", round)
	}

	n := s.cfg.Pictures
	res := &RoundResult{
		Round:    round,
		Colors:   make([]colorutil.ARGB, n),
		Verdicts: make([]Verdict, n/2),
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.Workers > 0 {
		g.SetLimit(s.cfg.Workers)
	}

	results := make(chan slotResult, n)
	for slot := 0; slot < n; slot++ {
		g.Go(func() error {
			c, err := s.detect(gctx, round, slot, start)
			if err != nil {
				return err
			}
			results <- slotResult{slot: slot, color: c}
			return nil
		})
	}

	// The loop below is the only user of matcher.
	matcher := pairing.NewMatcher(n, s.cfg.Tolerance)
	var addErr error
collect:
	for received := 0; received < n; received++ {
		select {
		case r := <-results:
			res.Colors[r.slot] = r.color
			pairs, err := matcher.Add(r.slot, r.color)
			if err != nil {
				addErr = err
				cancel()
				break collect
			}
			res.Pairs = matcher.Pairs()
			for k, p := range pairs {
				idx := len(res.Pairs) - len(pairs) + k
				klog.Infof("[%6.3f] Matched %d and %d", time.Since(start).Seconds(), p.First, p.Second)
				g.Go(func() error {
					return s.submit(gctx, p, &res.Verdicts[idx])
				})
			}
		case <-gctx.Done():
			break collect
		}
	}

	err := g.Wait()
	res.Verdicts = res.Verdicts[:len(res.Pairs)]
	res.Elapsed = time.Since(start)
	if addErr != nil {
		return res, errors.WithMessagef(addErr, "round %d", round)
	}
	if err != nil {
		return res, errors.WithMessagef(err, "round %d", round)
	}
	if !matcher.Complete() {
		return res, errors.Wrapf(ErrUnmatched, "round %d: pictures %v", round, matcher.Unmatched())
	}
	return res, nil
}

// detect downloads one picture and returns the color of its circle.
func (s *Solver) detect(ctx context.Context, round, slot int, start time.Time) (colorutil.ARGB, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	img, err := s.client.Picture(ctx, slot)
	if err != nil {
		return 0, err
	}
	det, err := circle.FindCircle(img, s.cfg.Circle)
	if err != nil {
		return 0, errors.WithMessagef(err, "round %d picture %d", round, slot)
	}
	klog.V(1).Infof("[%6.3f] picture %d: %s circle, radius %.1f",
		time.Since(start).Seconds(), slot, det.Color, det.Radius())
	return det.Color, nil
}

func (s *Solver) submit(ctx context.Context, p pairing.Pair, verdict *Verdict) error {
	v, err := s.client.Submit(ctx, p.First, p.Second)
	if err != nil {
		return err
	}
	*verdict = v
	klog.V(1).Infof("pair %s: %q", p, v)
	if err := v.Err(); err != nil {
		return errors.Wrapf(err, "pair %s", p)
	}
	return nil
}
