// Package worker hosts a GncCore off the render/physics thread behind
// a channel-based message interface, grounded on the goroutine +
// ticker-driven Simulator loop pattern in the retrieval pack's
// mach2furkan missile-intercept simulation driver, adapted here to a
// context.Context-scoped goroutine rather than a bespoke stop channel.
// The worker never integrates physics itself: its SpacecraftAdapter is
// a read-only view refreshed solely from each inbound Update message.
package worker

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/entity"
	"github.com/alexanderi96/go-gnc-core/gnc"
	"github.com/alexanderi96/go-gnc-core/gnc/autotune"
	"github.com/alexanderi96/go-gnc-core/gnc/config"
	"github.com/alexanderi96/go-gnc-core/gnc/pathplan"
	"github.com/alexanderi96/go-gnc-core/physics/body"
)

// Inbound is the sum type of every message a caller may post to a
// Worker, matching the specification's worker messaging interface:
// init, update, setGains, setThrusters, setThrusterCapacities,
// setThrust, calibrate, planPath.
type Inbound interface{ isInbound() }

// InitMsg (re)builds the worker's GncCore from scratch. A worker with
// no core yet silently drops every other inbound message until Init
// arrives.
type InitMsg struct {
	Config    *config.Config
	Thrusters gnc.ThrusterConfig
	Mass      gnc.MassProperties
}

func (InitMsg) isInbound() {}

// ActiveModes is the caller-owned mode selection carried by every
// UpdateMsg: the worker does not decide which mode should be active,
// it only enforces the exclusivity gnc.GncCore already guarantees.
type ActiveModes struct {
	Rotational    gnc.ModeID
	HasRotational bool

	Translational    gnc.ModeID
	HasTranslational bool
}

// UpdateMsg is the per-tick message: the caller's latest snapshot,
// the mode selection for this tick, and the setpoint the active modes
// should steer toward.
type UpdateMsg struct {
	Dt          float64
	Snapshot    gnc.Snapshot
	Active      ActiveModes
	TargetPos   vector.Vector3
	TargetQuat  quat.Quaternion
	RefVelocity vector.Vector3
}

func (UpdateMsg) isInbound() {}

// SetGainsMsg patches one mode's PID gains directly, bypassing
// auto-tune.
type SetGainsMsg struct {
	Mode       gnc.ModeID
	Kp, Ki, Kd float64
}

func (SetGainsMsg) isInbound() {}

// SetThrustersMsg replaces the thruster geometry wholesale.
type SetThrustersMsg struct {
	Thrusters gnc.ThrusterConfig
}

func (SetThrustersMsg) isInbound() {}

// SetThrusterCapacitiesMsg replaces every nozzle's capacity at once.
type SetThrusterCapacitiesMsg struct {
	Capacities [gnc.ThrusterCount]float64
}

func (SetThrusterCapacitiesMsg) isInbound() {}

// SetThrustMsg patches a single nozzle's capacity, addressed by index.
type SetThrustMsg struct {
	Index    int
	Capacity float64
}

func (SetThrustMsg) isInbound() {}

// CalibrateMsg queues one or more auto-tune domains to run in
// sequence; the worker starts the next domain once IsCalibrating
// reports the previous run has closed its sampling window.
type CalibrateMsg struct {
	Targets []autotune.Domain
}

func (CalibrateMsg) isInbound() {}

// PlanPathMsg requests a coarse waypoint plan, echoed back as a
// PlanPathResultMsg carrying the same ID. When Follow is set, the
// worker also installs the resulting plan on the core via
// SetTargetWaypoints, so GoToPosition starts flying it immediately
// instead of waiting for a separate SetTarget message.
type PlanPathMsg struct {
	ID        string
	Start     vector.Vector3
	Goal      vector.Vector3
	Obstacles []pathplan.Obstacle
	Follow    bool
}

func (PlanPathMsg) isInbound() {}

// Outbound is the sum type of every message a Worker posts back:
// ready, forces, planPathResult.
type Outbound interface{ isOutbound() }

// ReadyMsg confirms Init completed and the worker is accepting ticks.
type ReadyMsg struct{}

func (ReadyMsg) isOutbound() {}

// ForcesMsg carries one tick's thruster output buffer plus the
// rotational/translational telemetry side channel.
type ForcesMsg struct {
	Forces              [gnc.ThrusterCount]float32
	Rotational          gnc.Telemetry
	Translational       gnc.Telemetry
	RotationalActive    bool
	TranslationalActive bool
}

func (ForcesMsg) isOutbound() {}

// PlanPathResultMsg answers a PlanPathMsg with the flattened (x,y,z
// per waypoint) result, or a nil Waypoints slice and non-nil Err on
// failure.
type PlanPathResultMsg struct {
	ID        string
	Waypoints []float32
	Err       error
}

func (PlanPathResultMsg) isOutbound() {}

// outboxCapacity bounds the telemetry backlog a slow consumer can
// accumulate; Run drops the oldest pending ForcesMsg rather than
// block the tick loop, since a stale force vector is worse than a
// skipped one.
const outboxCapacity = 4

// Worker owns one GncCore and one SpacecraftAdapter, driven entirely
// by messages received over Inbound; it never performs I/O or
// physics integration itself.
type Worker struct {
	log zerolog.Logger

	core    *gnc.GncCore
	adapter *SpacecraftAdapter

	inbound  chan Inbound
	outbound chan Outbound

	calQueue []autotune.Domain
}

// New returns a worker with no core yet; send an InitMsg to build one.
func New(log zerolog.Logger) *Worker {
	return &Worker{
		log:      log,
		adapter:  NewSpacecraftAdapter(),
		inbound:  make(chan Inbound, 32),
		outbound: make(chan Outbound, outboxCapacity),
	}
}

// Send posts msg to the worker's inbound queue; it blocks only if the
// queue (32 deep) is full, which indicates the worker goroutine has
// stalled or exited.
func (w *Worker) Send(msg Inbound) {
	w.inbound <- msg
}

// Outbound returns the channel Run posts ready/forces/planPathResult
// messages to.
func (w *Worker) Outbound() <-chan Outbound {
	return w.outbound
}

// Run drains Inbound until ctx is cancelled, applying each message to
// the owned GncCore/SpacecraftAdapter and posting the resulting
// Outbound messages. It is the worker's entire lifetime; callers
// typically invoke it as `go worker.Run(ctx)`.
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-w.inbound:
			w.handle(msg)
		}
	}
}

func (w *Worker) handle(msg Inbound) {
	switch m := msg.(type) {
	case InitMsg:
		w.handleInit(m)
	case UpdateMsg:
		w.handleUpdate(m)
	case SetGainsMsg:
		w.handleSetGains(m)
	case SetThrustersMsg:
		w.handleSetThrusters(m)
	case SetThrusterCapacitiesMsg:
		w.handleSetThrusterCapacities(m)
	case SetThrustMsg:
		w.handleSetThrust(m)
	case CalibrateMsg:
		w.handleCalibrate(m)
	case PlanPathMsg:
		w.handlePlanPath(m)
	default:
		w.log.Warn().Msg("worker: unrecognized inbound message")
	}
}

func (w *Worker) handleInit(m InitMsg) {
	core, err := gnc.New(m.Config, m.Thrusters, m.Mass)
	if err != nil {
		w.log.Error().Err(err).Msg("worker: init rejected")
		return
	}
	core.SetLogger(w.log)
	w.core = core
	w.adapter.setCapacities(m.Thrusters.Capacities)
	w.post(ReadyMsg{})
}

func (w *Worker) handleUpdate(m UpdateMsg) {
	if w.core == nil {
		return
	}
	w.applyActive(m.Active)
	w.core.SetTargetPosition(m.TargetPos)
	w.core.SetTargetOrientation(m.TargetQuat)
	w.adapter.setSnapshot(m.Snapshot, m.RefVelocity)

	out := w.core.Step(m.Dt, m.Snapshot)
	rot, trans, rotActive, transActive := w.core.Telemetry()

	var forces [gnc.ThrusterCount]float32
	for i, f := range out {
		forces[i] = float32(f)
	}

	w.advanceCalibrationQueue()
	w.postForces(ForcesMsg{
		Forces:              forces,
		Rotational:          rot,
		Translational:       trans,
		RotationalActive:    rotActive,
		TranslationalActive: transActive,
	})
}

// applyActive enables/disables exactly the rotational and
// translational modes named by active, relying on gnc.GncCore's own
// exclusivity enforcement rather than tracking prior state locally.
func (w *Worker) applyActive(active ActiveModes) {
	for _, id := range []gnc.ModeID{gnc.ModeOrientationMatch, gnc.ModeCancelRotation, gnc.ModePointToPosition} {
		want := active.HasRotational && active.Rotational == id
		w.core.SetMode(id, want)
	}
	for _, id := range []gnc.ModeID{gnc.ModeCancelLinearMotion, gnc.ModeGoToPosition} {
		want := active.HasTranslational && active.Translational == id
		w.core.SetMode(id, want)
	}
}

func (w *Worker) handleSetGains(m SetGainsMsg) {
	if w.core == nil {
		return
	}
	w.core.SetGains(m.Mode, m.Kp, m.Ki, m.Kd)
}

func (w *Worker) handleSetThrusters(m SetThrustersMsg) {
	if w.core == nil {
		return
	}
	if err := w.core.SetThrusterConfig(m.Thrusters); err != nil {
		w.log.Warn().Err(err).Msg("worker: setThrusters rejected")
		return
	}
	w.adapter.setCapacities(m.Thrusters.Capacities)
}

func (w *Worker) handleSetThrusterCapacities(m SetThrusterCapacitiesMsg) {
	if w.core == nil {
		return
	}
	if err := w.core.SetThrusterCapacities(m.Capacities); err != nil {
		w.log.Warn().Err(err).Msg("worker: setThrusterCapacities rejected")
		return
	}
	w.adapter.setCapacities(m.Capacities)
}

func (w *Worker) handleSetThrust(m SetThrustMsg) {
	if w.core == nil {
		return
	}
	if err := w.core.SetThrusterCapacity(m.Index, m.Capacity); err != nil {
		w.log.Warn().Err(err).Msg("worker: setThrust rejected")
		return
	}
	if m.Index >= 0 && m.Index < gnc.ThrusterCount {
		w.adapter.capacities[m.Index] = m.Capacity
	}
}

func (w *Worker) handleCalibrate(m CalibrateMsg) {
	if w.core == nil {
		return
	}
	w.calQueue = append(w.calQueue, m.Targets...)
	w.advanceCalibrationQueue()
}

// advanceCalibrationQueue starts the next queued domain once no
// calibration is in flight; called after Step (which is what
// actually closes a tuner's sampling window) and whenever new targets
// are queued.
func (w *Worker) advanceCalibrationQueue() {
	if w.core.IsCalibrating() || len(w.calQueue) == 0 {
		return
	}
	next := w.calQueue[0]
	w.calQueue = w.calQueue[1:]
	w.core.StartCalibration(next)
}

func (w *Worker) handlePlanPath(m PlanPathMsg) {
	if w.core == nil {
		return
	}
	waypoints, err := w.core.PlanPath(m.Start, m.Goal, m.Obstacles)
	if err != nil {
		w.post(PlanPathResultMsg{ID: m.ID, Err: fmt.Errorf("worker: plan path: %w", err)})
		return
	}
	if m.Follow {
		w.core.SetTargetWaypoints(waypoints)
	}
	flat := make([]float32, 0, len(waypoints)*3)
	for _, wp := range waypoints {
		flat = append(flat, float32(wp.X()), float32(wp.Y()), float32(wp.Z()))
	}
	w.post(PlanPathResultMsg{ID: m.ID, Waypoints: flat})
}

// post sends a control message (ready, planPathResult) that must not
// be dropped; it blocks if the outbound queue is full.
func (w *Worker) post(msg Outbound) {
	w.outbound <- msg
}

// postForces sends the high-frequency telemetry message, dropping the
// oldest pending one rather than blocking the tick loop if the
// consumer has fallen behind.
func (w *Worker) postForces(msg Outbound) {
	select {
	case w.outbound <- msg:
	default:
		select {
		case <-w.outbound:
		default:
		}
		select {
		case w.outbound <- msg:
		default:
		}
	}
}

// SpacecraftAdapter is a read-only, non-integrating view of the craft
// the worker's GncCore is driving: it is refreshed solely from each
// inbound UpdateMsg's snapshot and never advances state on its own,
// so it can stand in for entity.Entity when this craft is used as a
// target or reference frame by another worker without ever running
// physics on this thread.
type SpacecraftAdapter struct {
	id         uuid.UUID
	snapshot   gnc.Snapshot
	refVel     vector.Vector3
	capacities [gnc.ThrusterCount]float64
	frontLocal vector.Vector3
	backLocal  vector.Vector3
}

var _ entity.Entity = (*SpacecraftAdapter)(nil)

// NewSpacecraftAdapter returns an adapter at rest at the origin, with
// no docking port offsets; SetDockingPorts configures them once the
// craft's hull dimensions are known.
func NewSpacecraftAdapter() *SpacecraftAdapter {
	return &SpacecraftAdapter{
		id: uuid.New(),
		snapshot: gnc.Snapshot{
			Position:        vector.Zero3(),
			Orientation:     quat.Identity(),
			Velocity:        vector.Zero3(),
			AngularVelocity: vector.Zero3(),
		},
		frontLocal: vector.Zero3(),
		backLocal:  vector.Zero3(),
	}
}

// SetDockingPorts configures the local front/back docking offsets
// DockingPortPosition rotates into the world frame.
func (a *SpacecraftAdapter) SetDockingPorts(frontLocal, backLocal vector.Vector3) {
	a.frontLocal = frontLocal
	a.backLocal = backLocal
}

// ID returns the adapter's stable identity.
func (a *SpacecraftAdapter) ID() uuid.UUID { return a.id }

// GetBody always returns nil: the adapter has no physical body of its
// own, only the latest snapshot a host pushed into it. No GNC code
// path dereferences GetBody(); it exists solely to satisfy
// entity.Entity.
func (a *SpacecraftAdapter) GetBody() body.Body { return nil }

// Position returns the last snapshot's position.
func (a *SpacecraftAdapter) Position() vector.Vector3 { return a.snapshot.Position }

// Velocity returns the last snapshot's velocity.
func (a *SpacecraftAdapter) Velocity() vector.Vector3 { return a.snapshot.Velocity }

// Orientation returns the last snapshot's orientation.
func (a *SpacecraftAdapter) Orientation() quat.Quaternion { return a.snapshot.Orientation }

// AngularVelocity returns the last snapshot's angular velocity.
func (a *SpacecraftAdapter) AngularVelocity() vector.Vector3 { return a.snapshot.AngularVelocity }

// DockingPortPosition rotates the configured local offset into the
// world frame using the last snapshot's orientation and position.
func (a *SpacecraftAdapter) DockingPortPosition(port entity.DockingPort) vector.Vector3 {
	var local vector.Vector3
	switch port {
	case entity.PortFront:
		local = a.frontLocal
	case entity.PortBack:
		local = a.backLocal
	default:
		return a.Position()
	}
	return a.Position().Add(a.Orientation().RotateVector(local))
}

// Update is a deliberate no-op: the adapter never integrates physics,
// it only ever reflects the last snapshot pushed via an UpdateMsg.
func (a *SpacecraftAdapter) Update(dt float64) {}

// ReferenceVelocity returns the velocity of whatever reference frame
// the host supplied alongside the last snapshot.
func (a *SpacecraftAdapter) ReferenceVelocity() vector.Vector3 { return a.refVel }

func (a *SpacecraftAdapter) setSnapshot(s gnc.Snapshot, refVel vector.Vector3) {
	a.snapshot = s
	a.refVel = refVel
}

func (a *SpacecraftAdapter) setCapacities(caps [gnc.ThrusterCount]float64) {
	a.capacities = caps
}
