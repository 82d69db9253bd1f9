// Package stats keeps running statistics over match results.
package stats

import "math"

const Epsilon = 1e-6

func FuzzyEqual(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// Statistic is a running mean and variance, updated with Welford's
// algorithm so a long match never has to keep its samples.
type Statistic struct {
	n    int
	last float64
	mean float64
	m2   float64
}

func (s *Statistic) Push(val float64) {
	s.last = val
	s.n++
	delta := val - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (val - s.mean)
}

// Merge folds o into s, as if every sample of o had been pushed to s.
func (s *Statistic) Merge(o *Statistic) {
	if o.n == 0 {
		return
	}
	if s.n == 0 {
		*s = *o
		return
	}
	n := s.n + o.n
	delta := o.mean - s.mean
	s.mean += delta * float64(o.n) / float64(n)
	s.m2 += o.m2 + delta*delta*float64(s.n)*float64(o.n)/float64(n)
	s.n = n
	s.last = o.last
}

func (s *Statistic) Mean() float64 {
	return s.mean
}

// Variance is the sample variance.
func (s *Statistic) Variance() float64 {
	if s.n <= 1 {
		return 0.0
	}
	return s.m2 / float64(s.n-1)
}

func (s *Statistic) Stdev() float64 {
	return math.Sqrt(s.Variance())
}

func (s *Statistic) Last() float64 {
	return s.last
}

func (s *Statistic) StandardError() float64 {
	if s.n == 0 {
		return 0.0
	}
	return math.Sqrt(s.Variance() / float64(s.n))
}

// ConfidenceInterval returns the bounds of the normal-approximation
// interval around the mean at the given confidence, in percent.
func (s *Statistic) ConfidenceInterval(pct float64) (float64, float64) {
	margin := ZVal(pct) * s.StandardError()
	return s.mean - margin, s.mean + margin
}

func (s *Statistic) Iterations() int {
	return s.n
}
