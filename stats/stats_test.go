package stats

import (
	"testing"

	"github.com/matryer/is"
)

func TestRunningStat(t *testing.T) {
	is := is.New(t)
	type tc struct {
		scores []int
		mean   float64
		stdev  float64
	}
	cases := []tc{
		{[]int{10, 12, 23, 23, 16, 23, 21, 16}, 18, 5.2372293656638},
		{[]int{14, 35, 71, 124, 10, 24, 55, 33, 87, 19}, 47.2, 36.937785531891},
		{[]int{1}, 1, 0},
		{[]int{}, 0, 0},
		{[]int{1, 1}, 1, 0},
	}
	for _, c := range cases {
		s := &Statistic{}
		for _, score := range c.scores {
			s.Push(float64(score))
		}
		is.True(FuzzyEqual(s.Mean(), c.mean))
		is.True(FuzzyEqual(s.Stdev(), c.stdev))
	}
}

func TestMerge(t *testing.T) {
	is := is.New(t)
	vals := []float64{1, 0, 0.5, 1, 1, 0, 0.5, 0.5, 1}
	var all, a, b Statistic
	for i, v := range vals {
		all.Push(v)
		if i < 4 {
			a.Push(v)
		} else {
			b.Push(v)
		}
	}
	a.Merge(&b)
	is.Equal(a.Iterations(), all.Iterations())
	is.True(FuzzyEqual(a.Mean(), all.Mean()))
	is.True(FuzzyEqual(a.Variance(), all.Variance()))

	var empty Statistic
	empty.Merge(&all)
	is.True(FuzzyEqual(empty.Mean(), all.Mean()))
}

func TestConfidenceInterval(t *testing.T) {
	is := is.New(t)
	var s Statistic
	for i := 0; i < 100; i++ {
		s.Push(float64(i % 2))
	}
	lo, hi := s.ConfidenceInterval(95)
	is.True(FuzzyEqual((lo+hi)/2, 0.5))
	// stdev 0.5025, stderr 0.05025
	is.True(FuzzyEqual(hi-lo, 2*1.959963984540054*0.05025189076296059))
}

func TestZVal(t *testing.T) {
	is := is.New(t)
	is.True(FuzzyEqual(ZVal(95), 1.959963984540054))
	is.True(FuzzyEqual(ZVal(99), 2.5758293035489))
}
