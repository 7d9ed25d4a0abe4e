package circle

// IsCircle reports whether p approximates a filled disk.
//
// The ideal disk is centered on the patch with a diameter equal to the
// smaller side; cells are sampled at their centers. The patch is accepted when
// at most params.MaxErrorRatio of all its cells disagree with the disk.
func IsCircle(p Patch, params Params) bool {
	diameter := min(p.Width, p.Height)
	if diameter < params.MinDiameter || diameter <= 0 {
		return false
	}

	size := float64(p.Width * p.Height)
	errors := 0
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			if p.At(x, y) != inDisk(p.Width, p.Height, x, y) {
				errors++
				if float64(errors)/size > params.MaxErrorRatio {
					return false
				}
			}
		}
	}
	return true
}

// Disk returns a diameter×diameter patch holding the ideal disk IsCircle
// compares against.
func Disk(diameter int) Patch {
	p := NewPatch(diameter, diameter)
	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			p.Cells[y*diameter+x] = inDisk(diameter, diameter, x, y)
		}
	}
	return p
}

// inDisk reports whether the center of cell (x, y) lies inside the disk
// inscribed in a w×h patch.
func inDisk(w, h, x, y int) bool {
	d := float64(min(w, h))
	radiusSq := d * d / 4
	dx := float64(w)/2 - (float64(x) + 0.5)
	dy := float64(h)/2 - (float64(y) + 0.5)
	return dx*dx+dy*dy <= radiusSq
}
