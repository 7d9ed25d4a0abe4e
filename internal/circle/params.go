package circle

// Params holds the circle classifier thresholds.
type Params struct {
	// Patches whose smaller side is below this are noise, not circles.
	MinDiameter int

	// Largest tolerated fraction of patch cells that disagree with the ideal disk.
	MaxErrorRatio float64
}

// DefaultParams returns the thresholds tuned for the Match the Pair pictures.
func DefaultParams() Params {
	return Params{
		MinDiameter:   11,
		MaxErrorRatio: 0.05,
	}
}

// WithMinDiameter returns a copy of params with a different noise floor.
func (p Params) WithMinDiameter(d int) Params {
	p.MinDiameter = d
	return p
}

// WithMaxErrorRatio returns a copy of params with a different error tolerance.
func (p Params) WithMaxErrorRatio(ratio float64) Params {
	p.MaxErrorRatio = ratio
	return p
}
