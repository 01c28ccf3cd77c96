package features

func aoiNumeric(name, desc string, f func(c *AOIContext) float64) *Definition {
	return &Definition{
		Name:        name,
		Description: desc,
		Default:     true,
		AOI:         func(c *AOIContext) Value { return Number(f(c)) },
	}
}

func newAOIRegistry() *Registry {
	r := NewRegistry()
	defs := []*Definition{
		aoiNumeric("numfixations", "Fixations inside the AOI", func(c *AOIContext) float64 { return float64(len(c.inside())) }),
		aoiNumeric("fixationrate", "Fixations inside the AOI per ms", func(c *AOIContext) float64 { return c.rate(float64(len(c.inside()))) }),
		aoiNumeric("totaltimespent", "Total fixation time inside the AOI in ms", func(c *AOIContext) float64 { return sum(c.insideDurations()) }),
		aoiNumeric("proportionnum", "Share of all fixations inside the AOI", func(c *AOIContext) float64 {
			if len(c.fixations) == 0 {
				return 0
			}
			return float64(len(c.inside())) / float64(len(c.fixations))
		}),
		aoiNumeric("proportiontime", "Share of the total length spent fixating the AOI", func(c *AOIContext) float64 { return c.rate(sum(c.insideDurations())) }),
		aoiNumeric("longestfixation", "Longest fixation inside the AOI in ms", func(c *AOIContext) float64 { return maxOf(c.insideDurations()) }),
		aoiNumeric("meanfixationduration", "Mean fixation duration inside the AOI", func(c *AOIContext) float64 { return mean(c.insideDurations()) }),
		aoiNumeric("stddevfixationduration", "Standard deviation of fixation duration inside the AOI", func(c *AOIContext) float64 { return stddev(c.insideDurations()) }),
		aoiNumeric("timetofirstfixation", "Time in ms to the first fixation inside the AOI", func(c *AOIContext) float64 {
			idx := c.inside()
			if len(idx) == 0 {
				return Undefined
			}
			return float64(c.fixations[idx[0]].Timestamp - c.start)
		}),
		aoiNumeric("timetolastfixation", "Time in ms to the last fixation inside the AOI", func(c *AOIContext) float64 {
			idx := c.inside()
			if len(idx) == 0 {
				return Undefined
			}
			return float64(c.fixations[idx[len(idx)-1]].Timestamp - c.start)
		}),

		// Readings of valid samples inside the AOI
		aoiNumeric("meanpupilsize", "Mean pupil size while gazing inside the AOI", func(c *AOIContext) float64 { return mean(c.aoiPupils[c.Index]) }),
		aoiNumeric("stddevpupilsize", "Standard deviation of pupil size inside the AOI", func(c *AOIContext) float64 { return stddev(c.aoiPupils[c.Index]) }),
		aoiNumeric("maxpupilsize", "Largest pupil size inside the AOI", func(c *AOIContext) float64 { return maxOf(c.aoiPupils[c.Index]) }),
		aoiNumeric("minpupilsize", "Smallest pupil size inside the AOI", func(c *AOIContext) float64 { return minOf(c.aoiPupils[c.Index]) }),
		aoiNumeric("meandistance", "Mean eye to screen distance while gazing inside the AOI", func(c *AOIContext) float64 { return mean(c.aoiDistances[c.Index]) }),
		aoiNumeric("stddevdistance", "Standard deviation of distance inside the AOI", func(c *AOIContext) float64 { return stddev(c.aoiDistances[c.Index]) }),
		aoiNumeric("maxdistance", "Largest distance inside the AOI", func(c *AOIContext) float64 { return maxOf(c.aoiDistances[c.Index]) }),
		aoiNumeric("mindistance", "Smallest distance inside the AOI", func(c *AOIContext) float64 { return minOf(c.aoiDistances[c.Index]) }),

		{
			Name:        "numtransfrom",
			Description: "Transitions into the AOI from each source AOI",
			Default:     true,
			FromAOI: func(c *AOIContext, src int) Value {
				return Number(float64(c.transitionsFrom(src)))
			},
		},
		{
			Name:        "proptransfrom",
			Description: "Share of transitions into the AOI coming from each source AOI",
			Default:     true,
			FromAOI: func(c *AOIContext, src int) Value {
				total := 0
				for s := range c.in.AOIs {
					total += c.transitionsFrom(s)
				}
				if total == 0 {
					return Number(0)
				}
				return Number(float64(c.transitionsFrom(src)) / float64(total))
			},
		},
	}
	for _, d := range defs {
		r.mustRegister(d)
	}
	return r
}

// inside returns the indices of fixations inside the AOI.
func (c *AOIContext) inside() []int {
	var idx []int
	for fi, in := range c.memberships[c.Index] {
		if in {
			idx = append(idx, fi)
		}
	}
	return idx
}

func (c *AOIContext) insideDurations() []float64 {
	idx := c.inside()
	out := make([]float64, len(idx))
	for i, fi := range idx {
		out[i] = c.durations[fi]
	}
	return out
}

// transitionsFrom counts consecutive fixation pairs going from the source
// AOI into this one.
func (c *AOIContext) transitionsFrom(src int) int {
	from, to := c.memberships[src], c.memberships[c.Index]
	n := 0
	for _, p := range c.pairs {
		if from[p[0]] && to[p[1]] {
			n++
		}
	}
	return n
}
