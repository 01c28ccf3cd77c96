package features

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return Undefined
	}
	return stat.Mean(xs, nil)
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	switch len(xs) {
	case 0:
		return Undefined
	case 1:
		return 0
	}
	return stat.PopStdDev(xs, nil)
}

func sum(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return floats.Sum(xs)
}

func maxOf(xs []float64) float64 {
	if len(xs) == 0 {
		return Undefined
	}
	return floats.Max(xs)
}

func minOf(xs []float64) float64 {
	if len(xs) == 0 {
		return Undefined
	}
	return floats.Min(xs)
}

func first(xs []float64) float64 {
	if len(xs) == 0 {
		return Undefined
	}
	return xs[0]
}

func last(xs []float64) float64 {
	if len(xs) == 0 {
		return Undefined
	}
	return xs[len(xs)-1]
}
