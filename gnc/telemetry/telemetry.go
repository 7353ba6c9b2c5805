// Package telemetry exposes the per-tick gnctypes.Telemetry side
// channel as Prometheus gauges, grounded on the asgard/pandora
// platform's promauto-based metrics registry (its real production
// pattern for instrumenting an otherwise pure control loop).
package telemetry

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
)

// Metrics holds the gauges Publish sets for one craft per call. A craft
// is distinguished by the craftID label so multiple cores in the same
// process (e.g. one per spacecraft in a fleet) share one registry.
type Metrics struct {
	ActiveRotational   *prometheus.GaugeVec
	ActiveTranslational *prometheus.GaugeVec

	AngleError        *prometheus.GaugeVec
	AlphaMax          *prometheus.GaugeVec
	OmegaMax          *prometheus.GaugeVec
	EffectiveInertia  *prometheus.GaugeVec
	DesiredOmega      *prometheus.GaugeVec
	MomentumErrorNorm *prometheus.GaugeVec
	DeadbandEngaged   *prometheus.GaugeVec

	Distance         *prometheus.GaugeVec
	AlongVelocity    *prometheus.GaugeVec
	StoppingDistance *prometheus.GaugeVec
	Braking          *prometheus.GaugeVec
	AlignmentGated   *prometheus.GaugeVec

	ThrusterDuty *prometheus.GaugeVec
}

var (
	global     *Metrics
	globalOnce sync.Once
)

// Get returns the process-wide metrics registry, creating it on first
// use so importing this package without ever calling Publish has no
// registration cost.
func Get() *Metrics {
	globalOnce.Do(func() {
		global = newMetrics()
	})
	return global
}

func newMetrics() *Metrics {
	labels := []string{"craft_id"}
	return &Metrics{
		ActiveRotational: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "mode", Name: "active_rotational",
			Help: "Active rotational mode ID, -1 when none.",
		}, labels),
		ActiveTranslational: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "mode", Name: "active_translational",
			Help: "Active translational mode ID, -1 when none.",
		}, labels),
		AngleError: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "attitude", Name: "angle_error_radians",
			Help: "Minimal rotation angle to the active rotational mode's target.",
		}, labels),
		AlphaMax: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "attitude", Name: "alpha_max",
			Help: "Current capability-derived angular acceleration cap.",
		}, labels),
		OmegaMax: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "attitude", Name: "omega_max",
			Help: "Current capability-derived angular rate cap.",
		}, labels),
		EffectiveInertia: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "attitude", Name: "effective_inertia",
			Help: "Effective inertia about the current rotation axis.",
		}, labels),
		DesiredOmega: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "attitude", Name: "desired_omega",
			Help: "Bang-bang desired angular rate for the current tick.",
		}, labels),
		MomentumErrorNorm: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "attitude", Name: "momentum_error_norm",
			Help: "Norm of the angular momentum error reported by the active rotational mode.",
		}, labels),
		DeadbandEngaged: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "attitude", Name: "deadband_engaged",
			Help: "1 when the pointing deadband hysteresis is engaged.",
		}, labels),
		Distance: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "position", Name: "distance_meters",
			Help: "Distance to target position.",
		}, labels),
		AlongVelocity: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "position", Name: "along_velocity",
			Help: "Closing velocity component along the line to target.",
		}, labels),
		StoppingDistance: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "position", Name: "stopping_distance_meters",
			Help: "Distance required to brake to zero at current deceleration capability.",
		}, labels),
		Braking: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "position", Name: "braking",
			Help: "1 when the braking hysteresis flag is engaged.",
		}, labels),
		AlignmentGated: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "position", Name: "alignment_gated",
			Help: "1 when translational thrust is gated pending attitude alignment.",
		}, labels),
		ThrusterDuty: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "gnc", Subsystem: "thruster", Name: "duty_fraction",
			Help: "Per-nozzle commanded force as a fraction of its capacity.",
		}, []string{"craft_id", "index"}),
	}
}

// Publish records one tick's telemetry side channels (rotational and
// translational may each be the zero value when the corresponding
// mode group is idle) plus the final output buffer's per-nozzle duty.
func Publish(craftID string, rotational, translational gnctypes.Telemetry, rotActive, transActive bool, out *[gnctypes.ThrusterCount]float64, capacities [gnctypes.ThrusterCount]float64) {
	m := Get()

	m.ActiveRotational.WithLabelValues(craftID).Set(modeGauge(rotational.Mode, rotActive))
	m.ActiveTranslational.WithLabelValues(craftID).Set(modeGauge(translational.Mode, transActive))

	if rotActive {
		m.AngleError.WithLabelValues(craftID).Set(rotational.Angle)
		m.AlphaMax.WithLabelValues(craftID).Set(rotational.AlphaMax)
		m.OmegaMax.WithLabelValues(craftID).Set(rotational.OmegaMax)
		m.EffectiveInertia.WithLabelValues(craftID).Set(rotational.EffectiveInertia)
		m.DesiredOmega.WithLabelValues(craftID).Set(rotational.DesiredOmega)
		m.MomentumErrorNorm.WithLabelValues(craftID).Set(rotational.MomentumErrorNorm)
		m.DeadbandEngaged.WithLabelValues(craftID).Set(boolGauge(rotational.DeadbandEngaged))
	}

	if transActive {
		m.Distance.WithLabelValues(craftID).Set(translational.Distance)
		m.AlongVelocity.WithLabelValues(craftID).Set(translational.AlongVelocity)
		m.StoppingDistance.WithLabelValues(craftID).Set(translational.StoppingDistance)
		m.Braking.WithLabelValues(craftID).Set(boolGauge(translational.Braking))
		m.AlignmentGated.WithLabelValues(craftID).Set(boolGauge(translational.AlignmentGated))
	}

	for i, f := range out {
		capacity := capacities[i]
		duty := 0.0
		if capacity > 0 {
			duty = f / capacity
		}
		m.ThrusterDuty.WithLabelValues(craftID, indexLabel(i)).Set(duty)
	}
}

func modeGauge(mode gnctypes.ModeID, active bool) float64 {
	if !active {
		return -1
	}
	return float64(mode)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var indexLabels [gnctypes.ThrusterCount]string

func init() {
	for i := range indexLabels {
		indexLabels[i] = strconv.Itoa(i)
	}
}

func indexLabel(i int) string { return indexLabels[i] }
