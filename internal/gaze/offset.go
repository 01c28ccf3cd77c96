package gaze

// Offset is the screen position of the top-left corner of the stimulus
// window. Subtracting it moves gaze coordinates into stimulus space, which
// is where AOIs are defined.
type Offset struct {
	X float64
	Y float64
}

// IsZero reports whether applying the offset would change nothing.
func (o Offset) IsZero() bool {
	return o.X == 0 && o.Y == 0
}

// ApplyToSamples returns a copy of samples with the offset removed from
// every non-nil coordinate.
func (o Offset) ApplyToSamples(samples []Datapoint) []Datapoint {
	out := make([]Datapoint, len(samples))
	for i, s := range samples {
		if s.X != nil {
			s.X = Float(*s.X - o.X)
		}
		if s.Y != nil {
			s.Y = Float(*s.Y - o.Y)
		}
		out[i] = s
	}
	return out
}

// ApplyToFixations returns a copy of fixations with the offset removed.
func (o Offset) ApplyToFixations(fixations []Fixation) []Fixation {
	out := make([]Fixation, len(fixations))
	for i, f := range fixations {
		f.X -= o.X
		f.Y -= o.Y
		out[i] = f
	}
	return out
}
