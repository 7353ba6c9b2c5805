// Package autotune excites a control mode, samples its error decay,
// fits a single-exponential time constant, and derives PID gains from
// a domain-specific rule.
package autotune

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"gonum.org/v1/gonum/stat"
)

// Domain names which PID the auto-tuner is calibrating.
type Domain int

const (
	DomainAttitude Domain = iota
	DomainRotCancel
	DomainPosition
	DomainLinMomentum
)

// ModeFor maps a tuning domain to the mode it drives during
// excitation.
func ModeFor(d Domain) gnctypes.ModeID {
	switch d {
	case DomainAttitude:
		return gnctypes.ModeOrientationMatch
	case DomainRotCancel:
		return gnctypes.ModeCancelRotation
	case DomainPosition:
		return gnctypes.ModeGoToPosition
	default:
		return gnctypes.ModeCancelLinearMotion
	}
}

// Gains is the PID triple the auto-tuner derives.
type Gains struct {
	Kp, Ki, Kd float64
}

type domainRule struct {
	kpCoeff  float64
	kdCoeff  float64
	kiFactor float64
}

var rules = map[Domain]domainRule{
	DomainAttitude:    {kpCoeff: 4.0, kdCoeff: 0.8, kiFactor: 0.02},
	DomainRotCancel:   {kpCoeff: 3.0, kdCoeff: 0.5, kiFactor: 0.01},
	DomainPosition:    {kpCoeff: 1.5, kdCoeff: 2.0, kiFactor: 0.02},
	DomainLinMomentum: {kpCoeff: 1.0, kdCoeff: 0.5, kiFactor: 0.01},
}

// DeriveGains applies the domain-specific rule to a fitted (or
// fallback) time constant: short tau yields a higher Kp, Kd scales
// proportionally with tau, and Ki stays a small fraction of Kp.
func DeriveGains(d Domain, tau float64) Gains {
	if tau <= 0 {
		tau = 1.0
	}
	r := rules[d]
	kp := r.kpCoeff / tau
	kd := r.kdCoeff * tau
	ki := kp * r.kiFactor
	return Gains{Kp: kp, Ki: ki, Kd: kd}
}

const defaultWindow = 1.2 // seconds
const minSamplesForFit = 3

// Sample is one (elapsed-time, |error|) observation.
type Sample struct {
	T      float64
	ErrAbs float64
}

// Tuner drives the sampling window and fit for one domain. It holds
// no reference to the mode or the core; the caller feeds it samples
// and reads back derived gains once the window elapses.
type Tuner struct {
	domain  Domain
	window  float64
	elapsed float64
	active  bool
	samples []Sample
}

// New builds a tuner for domain with the default 1.2s window.
func New(domain Domain) *Tuner {
	return &Tuner{domain: domain, window: defaultWindow}
}

// Domain returns the domain this tuner calibrates.
func (t *Tuner) Domain() Domain { return t.domain }

// Begin starts (or restarts) the sampling window.
func (t *Tuner) Begin() {
	t.active = true
	t.elapsed = 0
	t.samples = t.samples[:0]
}

// Cancel stops sampling without producing a result; called when the
// owning mode is disabled mid-calibration.
func (t *Tuner) Cancel() {
	t.active = false
}

// Active reports whether the sampling window is still open.
func (t *Tuner) Active() bool {
	return t.active
}

// Sample records one observation and reports whether the window has
// just closed (the caller should call Finish next).
func (t *Tuner) Sample(dt, errAbs float64) (windowClosed bool) {
	if !t.active {
		return false
	}
	t.elapsed += dt
	t.samples = append(t.samples, Sample{T: t.elapsed, ErrAbs: errAbs})
	if t.elapsed >= t.window {
		t.active = false
		return true
	}
	return false
}

// Finish fits the exponential decay across collected samples and
// derives gains. Fewer than three usable samples (error > 1e-6)
// yields tau = 1.0, which DeriveGains maps onto domain defaults.
func (t *Tuner) Finish() (tau float64, gains Gains, err error) {
	xs := make([]float64, 0, len(t.samples))
	ys := make([]float64, 0, len(t.samples))
	for _, s := range t.samples {
		if s.ErrAbs > 1e-6 {
			xs = append(xs, s.T)
			ys = append(ys, math.Log(s.ErrAbs))
		}
	}

	if len(xs) < minSamplesForFit {
		tau = 1.0
		return tau, DeriveGains(t.domain, tau), gnctypes.ErrInsufficientSamples
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if slope >= 0 {
		tau = 1.0
		return tau, DeriveGains(t.domain, tau), gnctypes.ErrInsufficientSamples
	}

	tau = clamp(-1/slope, 0.05, 10)
	return tau, DeriveGains(t.domain, tau), nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
