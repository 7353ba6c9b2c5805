package gnc

import (
	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/alexanderi96/go-gnc-core/gnc/pathplan"
)

// The data types every GNC subpackage shares (snapshot, thruster
// geometry, mass properties, telemetry) live in gnctypes so that
// capability, allocator, modes, and autotune can depend on them
// without importing this package back. Aliased here so callers of
// the public API only ever see gnc.Snapshot, gnc.ThrusterConfig, etc.
type (
	Snapshot       = gnctypes.Snapshot
	MassProperties = gnctypes.MassProperties
	ThrusterSpec   = gnctypes.ThrusterSpec
	ThrusterGroups = gnctypes.ThrusterGroups
	ThrusterConfig = gnctypes.ThrusterConfig
	ModeID         = gnctypes.ModeID
	Telemetry      = gnctypes.Telemetry
	Obstacle       = pathplan.Obstacle
)

const ThrusterCount = gnctypes.ThrusterCount

const (
	ModeOrientationMatch   = gnctypes.ModeOrientationMatch
	ModeCancelRotation     = gnctypes.ModeCancelRotation
	ModePointToPosition    = gnctypes.ModePointToPosition
	ModeCancelLinearMotion = gnctypes.ModeCancelLinearMotion
	ModeGoToPosition       = gnctypes.ModeGoToPosition
)

var NewThrusterConfig = gnctypes.NewThrusterConfig

var (
	ErrInvalidInput         = gnctypes.ErrInvalidInput
	ErrDegenerateGeometry   = gnctypes.ErrDegenerateGeometry
	ErrInsufficientSamples  = gnctypes.ErrInsufficientSamples
)
