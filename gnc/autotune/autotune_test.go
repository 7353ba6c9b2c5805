package autotune

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinishFitsDecayingExponential(t *testing.T) {
	tuner := New(DomainAttitude)
	tuner.Begin()

	tau := 0.5
	e0 := 0.2
	dt := 0.02
	elapsed := 0.0
	for elapsed < 1.2 {
		elapsed += dt
		e := e0 * math.Exp(-elapsed/tau)
		tuner.Sample(dt, e)
	}

	fittedTau, gains, err := tuner.Finish()
	assert.NoError(t, err)
	assert.InDelta(t, tau, fittedTau, 0.1)
	assert.Greater(t, gains.Kp, 0.0)
}

func TestFinishWithTooFewSamplesFallsBackToUnitTau(t *testing.T) {
	tuner := New(DomainPosition)
	tuner.Begin()
	tuner.Sample(0.1, 0.3)

	tau, gains, err := tuner.Finish()
	assert.Error(t, err)
	assert.Equal(t, 1.0, tau)
	assert.Equal(t, DeriveGains(DomainPosition, 1.0), gains)
}

func TestSampleReportsWindowClosed(t *testing.T) {
	tuner := New(DomainRotCancel)
	tuner.Begin()
	closed := false
	elapsed := 0.0
	for elapsed < 1.3 {
		closed = tuner.Sample(0.1, 0.1)
		elapsed += 0.1
		if closed {
			break
		}
	}
	assert.True(t, closed)
	assert.False(t, tuner.Active())
}

func TestDeriveGainsShorterTauYieldsHigherKp(t *testing.T) {
	shortTau := DeriveGains(DomainAttitude, 0.1)
	longTau := DeriveGains(DomainAttitude, 5.0)
	assert.Greater(t, shortTau.Kp, longTau.Kp)
}
