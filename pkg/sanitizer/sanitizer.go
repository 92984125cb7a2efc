package sanitizer

import (
	"hashgate/pkg/model"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

// Map applies the strategy to a scalar, or to each element of a sequence.
// Absent values pass through untouched. Absent elements ("" or "undefined")
// are dropped from sequences so they never reach a hashed field.
func Map(v model.Value, strategy Strategy) model.Value {
	if v.IsAbsent() {
		return v
	}

	if !v.IsSequence() {
		s, _ := v.Scalar()
		return model.Scalar(strategy(s))
	}

	items := make([]string, 0, len(v.Items()))
	for _, item := range v.Items() {
		if model.IsAbsentString(item) {
			continue
		}
		items = append(items, strategy(item))
	}
	if len(items) == 0 {
		return model.Absent()
	}
	return model.Sequence(items...)
}

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}
