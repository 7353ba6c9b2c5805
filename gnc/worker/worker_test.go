package worker

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderi96/go-gnc-core/core/quat"
	"github.com/alexanderi96/go-gnc-core/core/vector"
	"github.com/alexanderi96/go-gnc-core/entity"
	"github.com/alexanderi96/go-gnc-core/gnc"
	"github.com/alexanderi96/go-gnc-core/gnc/autotune"
	"github.com/alexanderi96/go-gnc-core/gnc/config"
)

func testThrusters(t *testing.T) gnc.ThrusterConfig {
	t.Helper()
	specs := make([]gnc.ThrusterSpec, gnc.ThrusterCount)
	for i := range specs {
		specs[i] = gnc.ThrusterSpec{Position: vector.NewVector3(1, 1, 1), Direction: vector.NewVector3(0, 0, 1)}
	}
	groups := gnc.ThrusterGroups{
		PitchPositive: []int{0}, PitchNegative: []int{1},
		YawPositive: []int{2}, YawNegative: []int{3},
		RollPositive: []int{4}, RollNegative: []int{5},
		ForwardPositive: []int{6}, ForwardNegative: []int{7},
		UpPositive: []int{8}, UpNegative: []int{9},
		LeftPositive: []int{10}, LeftNegative: []int{11},
	}
	for i := 12; i < gnc.ThrusterCount; i++ {
		groups.RollPositive = append(groups.RollPositive, i)
	}
	cfg, err := gnc.NewThrusterConfig(specs, nil, 50, groups)
	require.NoError(t, err)
	return *cfg
}

func startWorker(t *testing.T) (*Worker, context.CancelFunc) {
	t.Helper()
	w := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	t.Cleanup(cancel)
	return w, cancel
}

func recvOutbound(t *testing.T, w *Worker) Outbound {
	t.Helper()
	select {
	case msg := <-w.Outbound():
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for outbound message")
		return nil
	}
}

func TestInitPostsReady(t *testing.T) {
	w, _ := startWorker(t)
	w.Send(InitMsg{
		Config:    config.New(),
		Thrusters: testThrusters(t),
		Mass:      gnc.MassProperties{Mass: 1000, Width: 2, Height: 2, Depth: 4},
	})

	msg := recvOutbound(t, w)
	_, ok := msg.(ReadyMsg)
	assert.True(t, ok)
}

func TestUpdateBeforeInitIsIgnored(t *testing.T) {
	w, _ := startWorker(t)
	w.Send(UpdateMsg{Dt: 0.033, Snapshot: restSnapshot()})

	select {
	case msg := <-w.Outbound():
		t.Fatalf("expected no outbound message, got %#v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUpdatePostsForcesWhenModeActive(t *testing.T) {
	w, _ := startWorker(t)
	w.Send(InitMsg{
		Config:    config.New(),
		Thrusters: testThrusters(t),
		Mass:      gnc.MassProperties{Mass: 1000, Width: 2, Height: 2, Depth: 4},
	})
	require.IsType(t, ReadyMsg{}, recvOutbound(t, w))

	snap := restSnapshot()
	snap.AngularVelocity = vector.NewVector3(0.4, 0, 0)
	w.Send(UpdateMsg{
		Dt:       0.05,
		Snapshot: snap,
		Active: ActiveModes{
			Rotational:    gnc.ModeCancelRotation,
			HasRotational: true,
		},
	})

	msg := recvOutbound(t, w)
	forces, ok := msg.(ForcesMsg)
	require.True(t, ok)
	assert.True(t, forces.RotationalActive)
	assert.False(t, forces.TranslationalActive)
}

func TestCalibrateQueuesMultipleDomains(t *testing.T) {
	w, _ := startWorker(t)
	w.Send(InitMsg{
		Config:    config.NewConfigBuilder().WithAutoTuneEnabled(true).Build(),
		Thrusters: testThrusters(t),
		Mass:      gnc.MassProperties{Mass: 1000, Width: 2, Height: 2, Depth: 4},
	})
	require.IsType(t, ReadyMsg{}, recvOutbound(t, w))

	w.Send(CalibrateMsg{Targets: []autotune.Domain{autotune.DomainRotCancel, autotune.DomainAttitude}})

	snap := restSnapshot()
	for i := 0; i < 200; i++ {
		w.Send(UpdateMsg{Dt: 0.02, Snapshot: snap})
		select {
		case <-w.Outbound():
		case <-time.After(time.Second):
			t.Fatal("timed out draining forces during calibration")
		}
	}
}

func TestPlanPathRoundTripsRequestID(t *testing.T) {
	w, _ := startWorker(t)
	w.Send(InitMsg{
		Config:    config.New(),
		Thrusters: testThrusters(t),
		Mass:      gnc.MassProperties{Mass: 1000, Width: 2, Height: 2, Depth: 4},
	})
	require.IsType(t, ReadyMsg{}, recvOutbound(t, w))

	w.Send(PlanPathMsg{ID: "dock-1", Start: vector.Zero3(), Goal: vector.NewVector3(10, 0, 0)})

	msg := recvOutbound(t, w)
	result, ok := msg.(PlanPathResultMsg)
	require.True(t, ok)
	assert.Equal(t, "dock-1", result.ID)
	assert.NoError(t, result.Err)
	assert.GreaterOrEqual(t, len(result.Waypoints), 6)
}

func TestSpacecraftAdapterReflectsLastSnapshot(t *testing.T) {
	a := NewSpacecraftAdapter()
	a.SetDockingPorts(vector.NewVector3(0, 0, 1), vector.NewVector3(0, 0, -1))

	snap := gnc.Snapshot{
		Position:        vector.NewVector3(5, 0, 0),
		Orientation:     quat.Identity(),
		Velocity:        vector.NewVector3(1, 0, 0),
		AngularVelocity: vector.Zero3(),
	}
	a.setSnapshot(snap, vector.NewVector3(1, 0, 0))

	assert.Equal(t, snap.Position, a.Position())
	assert.Equal(t, snap.Velocity, a.Velocity())
	assert.Equal(t, vector.NewVector3(1, 0, 0), a.ReferenceVelocity())

	front := a.DockingPortPosition(entity.PortFront)
	assert.InDelta(t, 5.0, front.X(), 1e-9)
	assert.InDelta(t, 1.0, front.Z(), 1e-9)
}

func restSnapshot() gnc.Snapshot {
	return gnc.Snapshot{
		Position:        vector.Zero3(),
		Orientation:     quat.Identity(),
		Velocity:        vector.Zero3(),
		AngularVelocity: vector.Zero3(),
	}
}
