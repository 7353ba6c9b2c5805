// Package config holds the recognized GncCore options as a
// viper-backed key/value store, mirroring the teacher's
// simulation/config dotted-key Config + builder idiom but reading
// its defaults through github.com/spf13/viper instead of JSON files.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Keys recognized by Config, matching the dotted-key table in
// the external-interfaces section of the specification.
const (
	KeyPidOrientationKp = "pid.orientation.kp"
	KeyPidOrientationKi = "pid.orientation.ki"
	KeyPidOrientationKd = "pid.orientation.kd"

	KeyPidPositionKp = "pid.position.kp"
	KeyPidPositionKi = "pid.position.ki"
	KeyPidPositionKd = "pid.position.kd"

	KeyPidMomentumKp = "pid.momentum.kp"
	KeyPidMomentumKi = "pid.momentum.ki"
	KeyPidMomentumKd = "pid.momentum.kd"

	KeyLimitsMaxForce               = "limits.maxForce"
	KeyLimitsEpsilon                = "limits.epsilon"
	KeyLimitsMaxAngularMomentum     = "limits.maxAngularMomentum"
	KeyLimitsMaxLinearMomentum      = "limits.maxLinearMomentum"
	KeyLimitsMaxAngularVelocity     = "limits.maxAngularVelocity"
	KeyLimitsMaxAngularAcceleration = "limits.maxAngularAcceleration"
	KeyLimitsMaxLinearVelocity      = "limits.maxLinearVelocity"
	KeyLimitsMaxLinearAcceleration  = "limits.maxLinearAcceleration"

	KeyDampingFactor    = "damping.factor"
	KeySchedulingHz     = "scheduling.updateHz"
	KeyAutoTuneEnabled  = "autoTune"
)

// defaults seeds every recognized key so a fresh Config is always
// usable without a caller supplying every value up front.
var defaults = map[string]interface{}{
	KeyPidOrientationKp: 4.0,
	KeyPidOrientationKi: 0.08,
	KeyPidOrientationKd: 0.8,

	KeyPidPositionKp: 1.5,
	KeyPidPositionKi: 0.03,
	KeyPidPositionKd: 2.0,

	KeyPidMomentumKp: 3.0,
	KeyPidMomentumKi: 0.03,
	KeyPidMomentumKd: 0.5,

	KeyLimitsMaxForce:               1000.0,
	KeyLimitsEpsilon:                1e-3,
	KeyLimitsMaxAngularMomentum:     50.0,
	KeyLimitsMaxLinearMomentum:      500.0,
	KeyLimitsMaxAngularVelocity:     1.0,
	KeyLimitsMaxAngularAcceleration: 1.0,
	KeyLimitsMaxLinearVelocity:      0.0,
	KeyLimitsMaxLinearAcceleration:  0.0,

	KeyDampingFactor:   0.5,
	KeySchedulingHz:    30.0,
	KeyAutoTuneEnabled: false,
}

// Config wraps a *viper.Viper pre-seeded with defaults and exposes
// typed getters for every recognized key.
type Config struct {
	v *viper.Viper
}

// New returns a Config with every recognized key at its default.
func New() *Config {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	return &Config{v: v}
}

// ApplyOption sets key to value, patching a single option without
// rebuilding the whole Config. A key that is not one of the recognized
// keys above is rejected with an error and leaves the Config unchanged.
func (c *Config) ApplyOption(key string, value interface{}) error {
	if _, ok := defaults[key]; !ok {
		return fmt.Errorf("config: unrecognized option %q", key)
	}
	c.v.Set(key, value)
	return nil
}

func (c *Config) float(key string) float64 { return c.v.GetFloat64(key) }

// OrientationGains returns the kp, ki, kd triple for the attitude and
// rotation-cancel PIDs.
func (c *Config) OrientationGains() (kp, ki, kd float64) {
	return c.float(KeyPidOrientationKp), c.float(KeyPidOrientationKi), c.float(KeyPidOrientationKd)
}

// PositionGains returns the kp, ki, kd triple for go-to-position.
func (c *Config) PositionGains() (kp, ki, kd float64) {
	return c.float(KeyPidPositionKp), c.float(KeyPidPositionKi), c.float(KeyPidPositionKd)
}

// MomentumGains returns the kp, ki, kd triple for cancel-linear-motion.
func (c *Config) MomentumGains() (kp, ki, kd float64) {
	return c.float(KeyPidMomentumKp), c.float(KeyPidMomentumKi), c.float(KeyPidMomentumKd)
}

// MaxForce is the upper bound on |F_local| per axis per step.
func (c *Config) MaxForce() float64 { return c.float(KeyLimitsMaxForce) }

// Epsilon is the chatter threshold (used as epsilon*2 in the allocator).
func (c *Config) Epsilon() float64 { return c.float(KeyLimitsEpsilon) }

// MaxAngularMomentum is the clamp for rotational momentum error.
func (c *Config) MaxAngularMomentum() float64 { return c.float(KeyLimitsMaxAngularMomentum) }

// MaxLinearMomentum is the clamp per-step impulse (|F|*dt <= p_max).
func (c *Config) MaxLinearMomentum() float64 { return c.float(KeyLimitsMaxLinearMomentum) }

// MaxAngularVelocity is the upper bound on omega_max in guidance.
func (c *Config) MaxAngularVelocity() float64 { return c.float(KeyLimitsMaxAngularVelocity) }

// MaxAngularAcceleration is the upper bound on alpha_max.
func (c *Config) MaxAngularAcceleration() float64 { return c.float(KeyLimitsMaxAngularAcceleration) }

// MaxLinearVelocity is the optional linear-velocity cap. GncCore copies
// it into modes.Limits, but no control mode reads it, so its value has
// no effect on the thruster output.
func (c *Config) MaxLinearVelocity() float64 { return c.float(KeyLimitsMaxLinearVelocity) }

// MaxLinearAcceleration is an optional linear-acceleration cap.
func (c *Config) MaxLinearAcceleration() float64 { return c.float(KeyLimitsMaxLinearAcceleration) }

// DampingFactor scales the proportional damping pre-gain in
// cancel-linear-motion.
func (c *Config) DampingFactor() float64 { return c.float(KeyDampingFactor) }

// UpdateHz is the scheduling rate GncCore recomputes at, clamped to
// [5, 120] by the caller before use.
func (c *Config) UpdateHz() float64 { return c.float(KeySchedulingHz) }

// AutoTuneEnabled reports whether the core should honor calibration
// requests at all.
func (c *Config) AutoTuneEnabled() bool { return c.v.GetBool(KeyAutoTuneEnabled) }

// ConfigBuilder mirrors the teacher's SimulationBuilder chaining idiom:
// every With* method mutates and returns the same builder.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder starts a builder from a fresh default Config.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: New()}
}

// WithOrientationGains sets the attitude/rotation-cancel PID gains.
func (b *ConfigBuilder) WithOrientationGains(kp, ki, kd float64) *ConfigBuilder {
	b.cfg.v.Set(KeyPidOrientationKp, kp)
	b.cfg.v.Set(KeyPidOrientationKi, ki)
	b.cfg.v.Set(KeyPidOrientationKd, kd)
	return b
}

// WithPositionGains sets the go-to-position PID gains.
func (b *ConfigBuilder) WithPositionGains(kp, ki, kd float64) *ConfigBuilder {
	b.cfg.v.Set(KeyPidPositionKp, kp)
	b.cfg.v.Set(KeyPidPositionKi, ki)
	b.cfg.v.Set(KeyPidPositionKd, kd)
	return b
}

// WithMomentumGains sets the cancel-linear-motion PID gains.
func (b *ConfigBuilder) WithMomentumGains(kp, ki, kd float64) *ConfigBuilder {
	b.cfg.v.Set(KeyPidMomentumKp, kp)
	b.cfg.v.Set(KeyPidMomentumKi, ki)
	b.cfg.v.Set(KeyPidMomentumKd, kd)
	return b
}

// WithMaxForce sets the per-axis per-step force bound.
func (b *ConfigBuilder) WithMaxForce(maxForce float64) *ConfigBuilder {
	b.cfg.v.Set(KeyLimitsMaxForce, maxForce)
	return b
}

// WithUpdateHz sets the scheduling rate.
func (b *ConfigBuilder) WithUpdateHz(hz float64) *ConfigBuilder {
	b.cfg.v.Set(KeySchedulingHz, hz)
	return b
}

// WithDampingFactor sets the linear-damping pre-gain.
func (b *ConfigBuilder) WithDampingFactor(d float64) *ConfigBuilder {
	b.cfg.v.Set(KeyDampingFactor, d)
	return b
}

// WithAutoTuneEnabled toggles calibration support.
func (b *ConfigBuilder) WithAutoTuneEnabled(enabled bool) *ConfigBuilder {
	b.cfg.v.Set(KeyAutoTuneEnabled, enabled)
	return b
}

// Build returns the configured Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}
