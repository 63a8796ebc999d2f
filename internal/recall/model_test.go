package recall

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const hour = 3600.0

var grid = []Belief{
	{Alpha: 2, Beta: 2, HalfLife: hour},
	{Alpha: 1, Beta: 1, HalfLife: hour},
	{Alpha: 3, Beta: 3, HalfLife: 24 * hour},
	{Alpha: 1, Beta: 1, HalfLife: 60},
	{Alpha: 5, Beta: 1.5, HalfLife: 7 * 24 * hour},
}

var elapsed = []float64{1, 60, 1800, hour, 2 * hour, 24 * hour, 10 * 24 * hour}

func TestMeanAtHalfLifeSymmetric(t *testing.T) {
	for _, shape := range []float64{1, 2, 3, 10} {
		b := Belief{Alpha: shape, Beta: shape, HalfLife: hour}
		m, err := Mean(hour, b)
		require.NoError(t, err)
		require.InDelta(t, 0.5, m, 1e-12, "shape %g", shape)
	}
}

func TestMeanKnownValues(t *testing.T) {
	b := Default(hour)
	cases := []struct {
		t    float64
		want float64
	}{
		{0, 1.0},
		{hour / 2, 0.6857142857142859},
		{2 * hour, 0.3},
	}
	for _, c := range cases {
		m, err := Mean(c.t, b)
		require.NoError(t, err)
		require.InDelta(t, c.want, m, 1e-9, "t=%g", c.t)
	}
}

func TestMeanInUnitInterval(t *testing.T) {
	for _, b := range grid {
		for _, tt := range elapsed {
			m, err := Mean(tt, b)
			require.NoError(t, err)
			require.Greater(t, m, 0.0, "belief %v t=%g", b, tt)
			require.Less(t, m, 1.0, "belief %v t=%g", b, tt)
		}
	}
}

func TestMeanMonotone(t *testing.T) {
	for _, b := range grid {
		prev := 1.0
		for _, tt := range elapsed {
			m, err := Mean(tt, b)
			require.NoError(t, err)
			require.LessOrEqual(t, m, prev, "belief %v t=%g", b, tt)
			prev = m
		}
	}
}

func TestLogMeanMatchesMean(t *testing.T) {
	b := Belief{Alpha: 3, Beta: 2, HalfLife: 90}
	ln, err := LogMean(45, b)
	require.NoError(t, err)
	m, err := Mean(45, b)
	require.NoError(t, err)
	require.InDelta(t, math.Exp(ln), m, 1e-15)
}

func TestDensityAtHalfLifeIsBeta(t *testing.T) {
	// At t = λ the GB1 collapses to Beta(2, 2), whose density is 6p(1−p).
	b := Default(hour)
	for _, p := range []float64{0.1, 0.25, 0.5, 0.9} {
		d, err := Density(p, hour, b)
		require.NoError(t, err)
		require.InDelta(t, 6*p*(1-p), d, 1e-9, "p=%g", p)
	}
}

func TestDensityIntegratesToOne(t *testing.T) {
	b := Default(hour)
	const n = 20000
	total := 0.0
	for i := 0; i < n; i++ {
		d, err := Density((float64(i)+0.5)/n, hour/2, b)
		require.NoError(t, err)
		total += d / n
	}
	require.InDelta(t, 1.0, total, 1e-3)
}

func TestDomainErrors(t *testing.T) {
	good := Default(hour)
	cases := []struct {
		name string
		err  error
	}{
		{"alpha", func() error { _, err := Mean(1, Belief{0, 1, 1}); return err }()},
		{"beta", func() error { _, err := Mean(1, Belief{1, -1, 1}); return err }()},
		{"half-life", func() error { _, err := Mean(1, Belief{1, 1, 0}); return err }()},
		{"negative t", func() error { _, err := LogMean(-1, good); return err }()},
		{"p=0", func() error { _, err := LogDensity(0, 1, good); return err }()},
		{"p=1", func() error { _, err := LogDensity(1, 1, good); return err }()},
		{"density t=0", func() error { _, err := LogDensity(0.5, 0, good); return err }()},
		{"update t<0", func() error { _, err := Update(true, -5, good); return err }()},
	}
	for _, c := range cases {
		require.Error(t, c.err, c.name)
		require.True(t, errors.Is(c.err, ErrDomain), "%s: %v", c.name, c.err)
	}
}
