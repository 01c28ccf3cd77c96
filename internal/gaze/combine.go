package gaze

// Missing is reported when neither eye produced a measurement.
const Missing = -1.0

// PupilSize combines left and right pupil diameters: Missing when both are
// absent, the present one when only one is, and their mean otherwise.
func PupilSize(left, right *float64) float64 {
	return combine(left, right)
}

// Distance combines left and right eye-to-screen distances with the same
// rule as PupilSize.
func Distance(left, right *float64) float64 {
	return combine(left, right)
}

func combine(left, right *float64) float64 {
	switch {
	case left == nil && right == nil:
		return Missing
	case left == nil:
		return *right
	case right == nil:
		return *left
	default:
		return (*left + *right) / 2.0
	}
}
