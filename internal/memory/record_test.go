package memory

import (
	"errors"
	"math"
	"testing"

	"github.com/lazypower/halflife/internal/recall"
	"github.com/stretchr/testify/require"
)

const t0 = int64(1_700_000_000)

func TestNewRecord(t *testing.T) {
	var r Record
	require.True(t, r.IsNew())
	require.Equal(t, New, r.Status())

	_, err := r.Predict(t0, true)
	require.True(t, errors.Is(err, ErrUninitialized))
	require.True(t, errors.Is(r.Grade(true, t0), ErrUninitialized))
	require.True(t, errors.Is(r.Review(t0), ErrUninitialized))
	_, err = r.Elapsed(t0)
	require.True(t, errors.Is(err, ErrUninitialized))
}

func TestInitialize(t *testing.T) {
	var r Record
	require.NoError(t, r.Initialize(recall.Default(3600), t0))
	require.False(t, r.IsNew())
	require.Equal(t, Recalled, r.Status())
	require.Equal(t, 0, r.Drills)
	require.Equal(t, t0, r.LastReview)
	require.Nil(t, r.LastResult)

	err := r.Initialize(recall.Default(60), t0+10)
	require.True(t, errors.Is(err, ErrAlreadyInitialized))
	require.Equal(t, 3600.0, r.Belief.HalfLife)
}

func TestInitializeInvalidPrior(t *testing.T) {
	var r Record
	err := r.Initialize(recall.Belief{Alpha: 1, Beta: 1}, t0)
	require.True(t, errors.Is(err, recall.ErrDomain))
	require.True(t, r.IsNew())
}

func TestPredict(t *testing.T) {
	var r Record
	require.NoError(t, r.Initialize(recall.Default(3600), t0))

	p, err := r.Predict(t0+3600, true)
	require.NoError(t, err)
	require.InDelta(t, 0.5, p, 1e-12)

	lp, err := r.Predict(t0+3600, false)
	require.NoError(t, err)
	require.InDelta(t, math.Log(0.5), lp, 1e-12)

	// Clock skew clamps to zero elapsed time.
	p, err = r.Predict(t0-100, true)
	require.NoError(t, err)
	require.InDelta(t, 1.0, p, 1e-12)
}

func TestGradePass(t *testing.T) {
	var r Record
	require.NoError(t, r.Initialize(recall.Default(3600), t0))
	require.NoError(t, r.Grade(true, t0+3600))

	require.Equal(t, 1, r.Drills)
	require.NotNil(t, r.LastResult)
	require.True(t, *r.LastResult)
	require.Equal(t, t0+3600, r.LastReview)
	require.Equal(t, Recalled, r.Status())

	m, err := recall.Mean(3600, *r.Belief)
	require.NoError(t, err)
	require.Greater(t, m, 0.5)
}

func TestGradeFail(t *testing.T) {
	var r Record
	require.NoError(t, r.Initialize(recall.Default(3600), t0))
	require.NoError(t, r.Grade(false, t0+3600))
	require.Equal(t, Forgotten, r.Status())
	require.Less(t, r.Belief.HalfLife, 3600.0)
}

func TestGradeFailureLeavesRecordUnchanged(t *testing.T) {
	var r Record
	require.NoError(t, r.Initialize(recall.Default(3600), t0))
	before := r.Clone()

	// Failing with zero elapsed time has no defined posterior.
	err := r.Grade(false, t0)
	require.True(t, errors.Is(err, recall.ErrNumericPrecondition))
	require.Equal(t, before, &r)
}

func TestReview(t *testing.T) {
	var r Record
	require.NoError(t, r.Initialize(recall.Default(3600), t0))
	belief := *r.Belief
	require.NoError(t, r.Review(t0+500))
	require.Equal(t, t0+500, r.LastReview)
	require.Equal(t, belief, *r.Belief)
	require.Equal(t, 0, r.Drills)
}

func TestClone(t *testing.T) {
	var r Record
	require.NoError(t, r.Initialize(recall.Default(3600), t0))
	require.NoError(t, r.Grade(true, t0+60))
	c := r.Clone()
	c.Belief.Alpha = 99
	*c.LastResult = false
	require.NotEqual(t, 99.0, r.Belief.Alpha)
	require.True(t, *r.LastResult)
}
