// Package pid implements the vector three-term controller shared by
// every control mode: integral clamp, low-pass-filtered derivative,
// and a passive calibration sampler used by the auto-tuner.
package pid

import (
	"math"

	"github.com/alexanderi96/go-gnc-core/core/vector"
)

// Domain names what physical quantity a controller's error is
// expressed in. It is stored on the controller only: it picks no
// defaults and never changes the update formula or calibration.
type Domain int

const (
	DomainPosition Domain = iota
	DomainLinearMomentum
	DomainAngularMomentum
)

// Sample is one calibration observation: elapsed time since
// startCalibration and the error norm at that time.
type Sample struct {
	T     float64
	ErrAbs float64
}

const calibrationRingSize = 100

// Controller is a vector PID: gains apply identically to all three
// axes, matching the body-frame error vectors every mode feeds it.
type Controller struct {
	domain Domain

	kp, ki, kd float64

	integral    vector.Vector3
	lastError   vector.Vector3
	lastDeriv   vector.Vector3
	hasLast     bool

	maxIntegral float64
	alpha       float64 // derivative low-pass coefficient, 0 <= alpha < 1

	calibrating bool
	calibT0     float64
	calibClock  float64
	samples     []Sample
}

// New builds a controller with the given gains. domain only informs
// callers of the controller's intended use; it does not alter New's
// behavior.
func New(kp, ki, kd float64, domain Domain) *Controller {
	return &Controller{
		domain:      domain,
		kp:          kp,
		ki:          ki,
		kd:          kd,
		integral:    vector.Zero3(),
		lastError:   vector.Zero3(),
		lastDeriv:   vector.Zero3(),
		maxIntegral: 10.0,
		alpha:       0.2,
	}
}

// Update advances the controller by dt seconds given the current
// error and returns kp*e + ki*integral - kd*filteredDerivative. A
// non-finite error or non-positive dt aborts the update, leaves state
// untouched, and returns the zero vector so a single transient glitch
// never poisons the integral.
func (c *Controller) Update(err vector.Vector3, dt float64) vector.Vector3 {
	if err == nil || !finite3(err) || !isFinite(dt) || dt <= 0 {
		return vector.Zero3()
	}

	c.integral = c.integral.Add(err.Scale(dt))
	if c.maxIntegral > 0 {
		if n := c.integral.Length(); n > c.maxIntegral {
			c.integral = c.integral.Scale(c.maxIntegral / n)
		}
	}

	var rawDeriv vector.Vector3
	if !c.hasLast {
		rawDeriv = vector.Zero3()
	} else {
		rawDeriv = err.Sub(c.lastError).Scale(1.0 / dt)
	}
	deriv := c.lastDeriv.Scale(c.alpha).Add(rawDeriv.Scale(1 - c.alpha))

	c.lastError = err
	c.lastDeriv = deriv
	c.hasLast = true

	c.calibClock += dt
	if c.calibrating {
		if len(c.samples) >= calibrationRingSize {
			c.samples = c.samples[1:]
		}
		c.samples = append(c.samples, Sample{T: c.calibClock - c.calibT0, ErrAbs: err.Length()})
	}

	p := err.Scale(c.kp)
	i := c.integral.Scale(c.ki)
	d := deriv.Scale(c.kd)
	return p.Add(i).Sub(d)
}

// SetGain sets one of "kp", "ki", "kd"; unknown keys are ignored.
func (c *Controller) SetGain(k string, v float64) {
	switch k {
	case "kp":
		c.kp = v
	case "ki":
		c.ki = v
	case "kd":
		c.kd = v
	}
}

// GetGain returns one of "kp", "ki", "kd"; unknown keys return 0.
func (c *Controller) GetGain(k string) float64 {
	switch k {
	case "kp":
		return c.kp
	case "ki":
		return c.ki
	case "kd":
		return c.kd
	default:
		return 0
	}
}

// SetMaxIntegral sets the clamp applied to the integral term's
// length; a non-positive value disables clamping.
func (c *Controller) SetMaxIntegral(v float64) {
	c.maxIntegral = v
}

// SetDerivativeAlpha sets the low-pass coefficient for the
// derivative term; a is clamped to [0, 1).
func (c *Controller) SetDerivativeAlpha(a float64) {
	if a < 0 {
		a = 0
	}
	if a >= 1 {
		a = 0.999
	}
	c.alpha = a
}

// Reset clears integral and derivative history; used when the owning
// mode is disabled so stale state does not leak into the next enable.
func (c *Controller) Reset() {
	c.integral = vector.Zero3()
	c.lastError = vector.Zero3()
	c.lastDeriv = vector.Zero3()
	c.hasLast = false
}

// StartCalibration begins (or restarts) passive error sampling.
func (c *Controller) StartCalibration() {
	c.calibrating = true
	c.calibT0 = c.calibClock
	c.samples = c.samples[:0]
}

// StopCalibration ends passive error sampling without clearing the
// samples collected so far.
func (c *Controller) StopCalibration() {
	c.calibrating = false
}

// IsCalibrating reports whether calibration sampling is active.
func (c *Controller) IsCalibrating() bool {
	return c.calibrating
}

// GetCalibrationSamples returns the bounded ring of samples collected
// since the last StartCalibration.
func (c *Controller) GetCalibrationSamples() []Sample {
	return c.samples
}

func finite3(v vector.Vector3) bool {
	return isFinite(v.X()) && isFinite(v.Y()) && isFinite(v.Z())
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
