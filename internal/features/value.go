package features

import "strconv"

// Undefined is reported for numeric features that cannot be computed from
// the available data, such as a duration statistic over zero fixations.
const Undefined = -1.0

// Value is one feature value: a number, or text for sequence features.
type Value struct {
	num    float64
	text   string
	isText bool
}

// Number wraps a numeric feature value.
func Number(v float64) Value { return Value{num: v} }

// Text wraps a textual feature value.
func Text(s string) Value { return Value{text: s, isText: true} }

// Float returns the numeric value. ok is false for text values.
func (v Value) Float() (f float64, ok bool) {
	if v.isText {
		return 0, false
	}
	return v.num, true
}

// IsText reports whether v holds text.
func (v Value) IsText() bool { return v.isText }

// String formats the value for tabular export. Numbers use the shortest
// representation that round-trips.
func (v Value) String() string {
	if v.isText {
		return v.text
	}
	return strconv.FormatFloat(v.num, 'f', -1, 64)
}
