package gnc

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/entity"
	"github.com/alexanderi96/go-gnc-core/gnc/allocator"
	"github.com/alexanderi96/go-gnc-core/gnc/autotune"
	"github.com/alexanderi96/go-gnc-core/gnc/capability"
	"github.com/alexanderi96/go-gnc-core/gnc/config"
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/modes"
	"github.com/alexanderi96/go-gnc-core/gnc/pathplan"
)

const (
	minUpdateHz = 5.0
	maxUpdateHz = 120.0

	// defaultWaypointArrivalRadius is how close GoToPosition must get to
	// the current waypoint before SetTargetWaypoints advances to the
	// next one.
	defaultWaypointArrivalRadius = 1.0 // meters
)

// calibration bookkeeps a single in-flight auto-tune run: which
// domain is being excited, and which modes were active before the
// excitation started so Step can restore them once the tuner's window
// closes.
type calibration struct {
	domain      autotune.Domain
	tuner       *autotune.Tuner
	prevRot     gnctypes.ModeID
	hadRot      bool
	prevTrans   gnctypes.ModeID
	hadTrans    bool
}

// GncCore ties the mode manager, the five control modes, the
// allocator, and the capability model into one per-craft control
// loop. It is created once per spacecraft and retained for its
// lifetime; PID and mode state accumulate across ticks.
type GncCore struct {
	log zerolog.Logger

	manager    *modes.Manager
	allocator  *allocator.Allocator
	capability *capability.Model
	planner    *pathplan.Planner

	orientationMatch   *modes.OrientationMatchAutopilot
	cancelRotation     *modes.CancelRotation
	pointToPosition    *modes.PointToPosition
	cancelLinearMotion *modes.CancelLinearMotion
	goToPosition       *modes.GoToPosition

	thrusters gnctypes.ThrusterConfig
	mass      gnctypes.MassProperties
	limits    modes.Limits

	targetPos       vector.Vector3
	targetQuat      quat.Quaternion
	targetObject    entity.Entity
	targetPort      entity.DockingPort
	referenceObject entity.Entity

	// waypoints, when non-empty, overrides targetPos with "the next
	// point on the path": refreshTargets advances waypointIdx once the
	// craft is within waypointArrivalRadius of the current waypoint.
	waypoints             []vector.Vector3
	waypointIdx           int
	waypointArrivalRadius float64

	// pointTargetQuat is the live "apparent" orientation published
	// each tick point-to-position runs, computed from current
	// orientation and direction-to-target, purely for UI display.
	pointTargetQuat quat.Quaternion

	enabled         bool
	autoTuneEnabled bool
	updateHz        float64
	timeSinceUpdate float64
	out             [gnctypes.ThrusterCount]float64

	cal *calibration

	rotTelemetry   gnctypes.Telemetry
	transTelemetry gnctypes.Telemetry
	rotActive      bool
	transActive    bool
}

// New builds a GncCore from its configuration, thruster geometry, and
// mass properties. The initial scheduling phase is randomized so that
// multiple cores in the same process do not all recompute on the same
// tick.
func New(cfg *config.Config, thrusters gnctypes.ThrusterConfig, mass gnctypes.MassProperties) (*GncCore, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := mass.Validate(); err != nil {
		return nil, fmt.Errorf("gnc core: %w", err)
	}

	okp, oki, okd := cfg.OrientationGains()
	pkp, pki, pkd := cfg.PositionGains()
	mkp, mki, mkd := cfg.MomentumGains()

	limits := modes.Limits{
		MaxForce:               cfg.MaxForce(),
		Epsilon:                cfg.Epsilon(),
		MaxAngularMomentum:     cfg.MaxAngularMomentum(),
		MaxLinearMomentum:      cfg.MaxLinearMomentum(),
		MaxAngularVelocity:     cfg.MaxAngularVelocity(),
		MaxAngularAcceleration: cfg.MaxAngularAcceleration(),
		MaxLinearVelocity:      cfg.MaxLinearVelocity(),
		MaxLinearAcceleration:  cfg.MaxLinearAcceleration(),
		DampingFactor:          cfg.DampingFactor(),
	}

	capModel := capability.New(limits.MaxAngularAcceleration, limits.MaxAngularVelocity)
	capModel.SetConfiguration(mass, thrusters)

	hz := clampHz(cfg.UpdateHz())
	period := 1.0 / hz

	core := &GncCore{
		log:        zerolog.Nop(),
		manager:    modes.NewManager(),
		allocator:  allocator.New(),
		capability: capModel,
		planner:    pathplan.New(pathplan.DefaultMargin),

		orientationMatch:   modes.NewOrientationMatchAutopilot(okp, oki, okd),
		cancelRotation:     modes.NewCancelRotation(okp, oki, okd),
		pointToPosition:    modes.NewPointToPosition(okp, oki, okd),
		cancelLinearMotion: modes.NewCancelLinearMotion(mkp, mki, mkd),
		goToPosition:       modes.NewGoToPosition(pkp, pki, pkd),

		thrusters: thrusters,
		mass:      mass,
		limits:    limits,

		targetQuat:            quat.Identity(),
		waypointArrivalRadius: defaultWaypointArrivalRadius,

		enabled:         true,
		autoTuneEnabled: cfg.AutoTuneEnabled(),
		updateHz:        hz,
		timeSinceUpdate: rand.Float64() * period,
	}

	core.manager.SetObserver(func(mode gnctypes.ModeID, enabled bool) {
		core.log.Debug().Stringer("mode", mode).Bool("enabled", enabled).Msg("mode transition")
		if !enabled {
			core.modeByID(mode).Reset()
		}
	})

	return core, nil
}

// SetLogger installs a structured logger for mode transitions,
// auto-tune lifecycle, and capability invalidation.
func (g *GncCore) SetLogger(log zerolog.Logger) {
	g.log = log
}

// SetMode enables or disables a control mode; enabling a mode
// disables every other mode in its mutual-exclusion group.
func (g *GncCore) SetMode(mode gnctypes.ModeID, enabled bool) {
	g.manager.Enable(mode, enabled)
}

// SetEnabled toggles whether Step computes anything at all; while
// disabled, Step returns the last computed (zero, if never run)
// output buffer unchanged.
func (g *GncCore) SetEnabled(enabled bool) {
	g.enabled = enabled
}

// SetUpdateRateHz clamps hz to [5, 120] and resets the scheduling
// accumulator so the next Step call recomputes immediately.
func (g *GncCore) SetUpdateRateHz(hz float64) {
	g.updateHz = clampHz(hz)
	g.timeSinceUpdate = 1.0 / g.updateHz
}

// SetTargetPosition sets a static target position, clearing any
// target object or waypoint path previously installed via
// SetTargetObject / SetTargetWaypoints.
func (g *GncCore) SetTargetPosition(pos vector.Vector3) {
	g.targetObject = nil
	g.waypoints = nil
	g.targetPos = pos
}

// SetTargetOrientation sets a static target orientation, independent
// of any target object.
func (g *GncCore) SetTargetOrientation(q quat.Quaternion) {
	g.targetQuat = q
}

// SetTargetObject installs a non-owning handle to an external entity
// GncCore tracks each tick: targetPos refreshes from the requested
// docking port (or center), targetQuat refreshes from the object's
// orientation.
func (g *GncCore) SetTargetObject(obj entity.Entity, port entity.DockingPort) {
	g.targetObject = obj
	g.targetPort = port
	g.waypoints = nil
}

// ClearTargetObject reverts to the static targetPos/targetQuat last set.
func (g *GncCore) ClearTargetObject() {
	g.targetObject = nil
}

// SetTargetWaypoints installs a multi-point path for GoToPosition to
// fly through instead of a single static target: each tick,
// refreshTargets advances to the next waypoint once the craft is
// within the arrival radius (see SetWaypointArrivalRadius) of the
// current one, so the live target handed to GoToPosition is always
// "the next point on the path" rather than the final destination.
// This is the higher-level docking/transit routine PlanPath's output
// is meant to drive. Installing waypoints clears any target object
// previously set via SetTargetObject; passing nil or an empty slice
// clears the waypoint list and leaves targetPos at its current value
// (the last waypoint targeted, if a path was being followed); it does
// not restore an earlier SetTargetPosition target.
func (g *GncCore) SetTargetWaypoints(waypoints []vector.Vector3) {
	g.targetObject = nil
	g.waypoints = waypoints
	g.waypointIdx = 0
	if len(waypoints) > 0 {
		g.targetPos = waypoints[0]
	}
}

// SetWaypointArrivalRadius sets the distance within which
// SetTargetWaypoints's path-following advances to the next waypoint.
// Non-positive values are ignored, leaving the prior radius in place.
func (g *GncCore) SetWaypointArrivalRadius(radius float64) {
	if radius > 0 {
		g.waypointArrivalRadius = radius
	}
}

// SetReferenceObject installs (or, with nil, clears) the moving frame
// cancel-linear-motion and go-to-position null their velocity error
// against; nil means the world frame.
func (g *GncCore) SetReferenceObject(obj entity.Entity) {
	g.referenceObject = obj
}

// SetThrusterConfig replaces the thruster geometry, invalidating the
// capability cache. Rejects configurations gnctypes.NewThrusterConfig
// would reject, leaving the prior geometry in place.
func (g *GncCore) SetThrusterConfig(cfg gnctypes.ThrusterConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("gnc core: %w", err)
	}
	g.thrusters = cfg
	g.capability.SetConfiguration(g.mass, g.thrusters)
	g.log.Debug().Msg("thruster configuration replaced, capability cache invalidated")
	return nil
}

// SetThrusterCapacities replaces the per-nozzle force capacities in
// place, invalidating the capability cache.
func (g *GncCore) SetThrusterCapacities(caps [gnctypes.ThrusterCount]float64) error {
	for i, c := range caps {
		if c < 0 {
			return fmt.Errorf("gnc core: capacity %d must be non-negative: %w", i, gnctypes.ErrInvalidInput)
		}
	}
	g.thrusters.Capacities = caps
	g.capability.SetConfiguration(g.mass, g.thrusters)
	return nil
}

// SetThrusterCapacity patches a single nozzle's force capacity in
// place, invalidating the capability cache. Used by the worker's
// inbound setThrust message, which addresses one nozzle at a time.
func (g *GncCore) SetThrusterCapacity(index int, capacity float64) error {
	if index < 0 || index >= gnctypes.ThrusterCount {
		return fmt.Errorf("gnc core: thruster index %d out of range: %w", index, gnctypes.ErrInvalidInput)
	}
	if capacity < 0 {
		return fmt.Errorf("gnc core: capacity must be non-negative: %w", gnctypes.ErrInvalidInput)
	}
	g.thrusters.Capacities[index] = capacity
	g.capability.SetConfiguration(g.mass, g.thrusters)
	return nil
}

// SetMassProperties replaces the mass/dimensions, invalidating the
// capability cache.
func (g *GncCore) SetMassProperties(mass gnctypes.MassProperties) error {
	if err := mass.Validate(); err != nil {
		return fmt.Errorf("gnc core: %w", err)
	}
	g.mass = mass
	g.capability.SetConfiguration(g.mass, g.thrusters)
	return nil
}

// SetGains replaces the PID gains for one of the five modes directly,
// bypassing auto-tune.
func (g *GncCore) SetGains(mode gnctypes.ModeID, kp, ki, kd float64) {
	c := g.modeByID(mode).Controller()
	c.SetGain("kp", kp)
	c.SetGain("ki", ki)
	c.SetGain("kd", kd)
}

// SetAutoTuneEnabled toggles whether StartCalibration honors new
// calibration requests, independent of the autoTune key a Config was
// built with.
func (g *GncCore) SetAutoTuneEnabled(enabled bool) {
	g.autoTuneEnabled = enabled
}

// StartCalibration begins an auto-tune excitation of domain: it
// disables every currently active mode, enables the mode the domain
// drives, and starts the tuner's sampling window. Calling it again
// while a calibration is in flight cancels the prior run and restarts
// with the new domain. A no-op, logged at Warn, when auto-tune was
// never enabled via Config/SetAutoTuneEnabled.
func (g *GncCore) StartCalibration(domain autotune.Domain) {
	if !g.autoTuneEnabled {
		g.log.Warn().Msg("auto-tune requested but not enabled")
		return
	}
	if g.cal != nil {
		g.cal.tuner.Cancel()
		g.restoreCalibration(g.cal)
	}

	cal := &calibration{domain: domain, tuner: autotune.New(domain)}
	cal.prevRot, cal.hadRot = g.manager.ActiveRotational()
	cal.prevTrans, cal.hadTrans = g.manager.ActiveTranslational()

	if cal.hadRot {
		g.manager.Enable(cal.prevRot, false)
	}
	if cal.hadTrans {
		g.manager.Enable(cal.prevTrans, false)
	}

	target := autotune.ModeFor(domain)
	g.modeByID(target).Reset()
	g.manager.Enable(target, true)
	cal.tuner.Begin()
	g.cal = cal

	g.log.Info().Int("domain", int(domain)).Msg("auto-tune started")
}

// IsCalibrating reports whether an auto-tune excitation is currently
// in flight, used by a host (e.g. the worker) to sequence a queue of
// calibration requests one domain at a time.
func (g *GncCore) IsCalibrating() bool {
	return g.cal != nil
}

// CancelCalibration stops an in-flight auto-tune run without applying
// any derived gains, restoring the modes that were active before it
// started.
func (g *GncCore) CancelCalibration() {
	if g.cal == nil {
		return
	}
	g.cal.tuner.Cancel()
	g.restoreCalibration(g.cal)
	g.cal = nil
}

func (g *GncCore) restoreCalibration(cal *calibration) {
	g.manager.Enable(autotune.ModeFor(cal.domain), false)
	if cal.hadRot {
		g.manager.Enable(cal.prevRot, true)
	}
	if cal.hadTrans {
		g.manager.Enable(cal.prevTrans, true)
	}
}

// PlanPath returns a coarse waypoint sequence from start to goal that
// side-steps every obstacle in obstacles, for a caller (typically a
// docking routine) to feed one at a time into SetTargetPosition ahead
// of go-to-position.
func (g *GncCore) PlanPath(start, goal vector.Vector3, obstacles []pathplan.Obstacle) ([]vector.Vector3, error) {
	return g.planner.Plan(start, goal, obstacles)
}

// Telemetry returns the most recent tick's rotational and
// translational mode telemetry, alongside whether each group was
// actually active (a zero Telemetry is ambiguous with an idle group).
func (g *GncCore) Telemetry() (rotational, translational gnctypes.Telemetry, rotActive, transActive bool) {
	return g.rotTelemetry, g.transTelemetry, g.rotActive, g.transActive
}

// PointTargetQuat returns the live apparent orientation published by
// point-to-position each tick it runs, for UI display only; it never
// feeds back into control.
func (g *GncCore) PointTargetQuat() quat.Quaternion {
	return g.pointTargetQuat
}

// Step advances the core by dt seconds given the caller's latest state
// snapshot, returning a reference to the 24-long thruster output
// buffer. Below the configured update rate, Step accumulates dt and
// returns the unchanged buffer from the last recompute; callers must
// not retain the returned pointer across calls.
func (g *GncCore) Step(dt float64, snapshot gnctypes.Snapshot) *[gnctypes.ThrusterCount]float64 {
	if !g.enabled || dt <= 0 || !snapshot.IsFinite() {
		return &g.out
	}

	g.timeSinceUpdate += dt
	period := 1.0 / g.updateHz
	if g.timeSinceUpdate < period {
		return &g.out
	}
	tickDt := g.timeSinceUpdate
	g.timeSinceUpdate = 0

	g.refreshTargets(snapshot)

	for i := range g.out {
		g.out[i] = 0
	}

	ctx := modes.StepContext{
		Snapshot:    snapshot,
		TargetPos:   g.targetPos,
		TargetQuat:  g.targetQuat,
		RefVelocity: g.referenceVelocity(),
		Mass:        g.mass.Mass,
		Dt:          tickDt,
		Capability:  g.capability,
		Allocator:   g.allocator,
		Thrusters:   &g.thrusters,
		Limits:      g.limits,
		Out:         &g.out,
	}

	g.rotActive = false
	if id, ok := g.manager.ActiveRotational(); ok {
		m := g.modeByID(id)
		m.Step(ctx)
		g.rotTelemetry = m.Telemetry()
		g.rotActive = true
		if id == gnctypes.ModePointToPosition {
			g.refreshPointTargetQuat(snapshot)
		}
	}

	g.transActive = false
	if id, ok := g.manager.ActiveTranslational(); ok {
		m := g.modeByID(id)
		m.Step(ctx)
		g.transTelemetry = m.Telemetry()
		g.transActive = true
	}

	g.sampleCalibration(tickDt)

	return &g.out
}

// refreshTargets pulls targetPos/targetQuat from targetObject, when
// one is installed, or advances along any installed waypoint path,
// before the tick's modes run.
func (g *GncCore) refreshTargets(snapshot gnctypes.Snapshot) {
	if g.targetObject != nil {
		if g.targetPort == entity.PortFront || g.targetPort == entity.PortBack {
			g.targetPos = g.targetObject.DockingPortPosition(g.targetPort)
		} else {
			g.targetPos = g.targetObject.Position()
		}
		g.targetQuat = g.targetObject.Orientation()
		return
	}

	if len(g.waypoints) == 0 {
		return
	}
	for g.waypointIdx < len(g.waypoints)-1 &&
		snapshot.Position.Sub(g.waypoints[g.waypointIdx]).Length() <= g.waypointArrivalRadius {
		g.waypointIdx++
	}
	g.targetPos = g.waypoints[g.waypointIdx]
}

func (g *GncCore) referenceVelocity() vector.Vector3 {
	if g.referenceObject == nil {
		return vector.Zero3()
	}
	return g.referenceObject.Velocity()
}

// refreshPointTargetQuat computes the apparent orientation point-to-
// position is steering toward, for UI display: the rotation that
// carries the current orientation's forward axis onto the direction
// to target.
func (g *GncCore) refreshPointTargetQuat(snapshot gnctypes.Snapshot) {
	toTarget := g.targetPos.Sub(snapshot.Position)
	if toTarget.Length() < 1e-9 {
		g.pointTargetQuat = snapshot.Orientation
		return
	}
	dirWorld := toTarget.Normalize()
	dirLocal := snapshot.Orientation.InverseRotateVector(dirWorld)
	qErr := quat.ShortestArc(vector.NewVector3(0, 0, 1), dirLocal)
	g.pointTargetQuat = quat.Mul(snapshot.Orientation, qErr)
}

// sampleCalibration feeds the in-flight tuner, if any, the excited
// mode's latest error magnitude, applying derived gains and restoring
// prior mode state once the sampling window closes.
func (g *GncCore) sampleCalibration(dt float64) {
	if g.cal == nil {
		return
	}
	target := autotune.ModeFor(g.cal.domain)
	mode := g.modeByID(target)
	errAbs := calibrationErrorAbs(g.cal.domain, mode.Telemetry())

	if !g.cal.tuner.Sample(dt, errAbs) {
		return
	}

	tau, gains, err := g.cal.tuner.Finish()
	if err != nil {
		g.log.Warn().Err(err).Msg("auto-tune fell back to domain default gains")
	} else {
		g.log.Info().Float64("tau", tau).Msg("auto-tune converged")
	}

	c := mode.Controller()
	c.SetGain("kp", gains.Kp)
	c.SetGain("ki", gains.Ki)
	c.SetGain("kd", gains.Kd)

	cal := g.cal
	g.cal = nil
	g.restoreCalibration(cal)
}

func calibrationErrorAbs(domain autotune.Domain, t gnctypes.Telemetry) float64 {
	switch domain {
	case autotune.DomainAttitude:
		return t.Angle
	case autotune.DomainRotCancel:
		return t.MomentumErrorNorm
	case autotune.DomainPosition:
		return t.Distance
	default:
		return t.AlongVelocity
	}
}

func (g *GncCore) modeByID(id gnctypes.ModeID) modes.Mode {
	switch id {
	case gnctypes.ModeOrientationMatch:
		return g.orientationMatch
	case gnctypes.ModeCancelRotation:
		return g.cancelRotation
	case gnctypes.ModePointToPosition:
		return g.pointToPosition
	case gnctypes.ModeCancelLinearMotion:
		return g.cancelLinearMotion
	default:
		return g.goToPosition
	}
}

func clampHz(hz float64) float64 {
	if hz < minUpdateHz {
		return minUpdateHz
	}
	if hz > maxUpdateHz {
		return maxUpdateHz
	}
	return hz
}
