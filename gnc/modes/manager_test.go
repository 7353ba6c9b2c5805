package modes

import (
	"testing"

	"github.com/alexanderi96/go-gnc-core/gnc/gnctypes"
	"github.com/stretchr/testify/assert"
)

func TestEnablingRotationalModeDisablesOthersInGroup(t *testing.T) {
	mgr := NewManager()
	mgr.Enable(gnctypes.ModeCancelRotation, true)
	mgr.Enable(gnctypes.ModePointToPosition, true)

	assert.False(t, mgr.IsEnabled(gnctypes.ModeCancelRotation))
	assert.True(t, mgr.IsEnabled(gnctypes.ModePointToPosition))
}

func TestRotationalAndTranslationalGroupsAreIndependent(t *testing.T) {
	mgr := NewManager()
	mgr.Enable(gnctypes.ModeCancelRotation, true)
	mgr.Enable(gnctypes.ModeGoToPosition, true)

	assert.True(t, mgr.IsEnabled(gnctypes.ModeCancelRotation))
	assert.True(t, mgr.IsEnabled(gnctypes.ModeGoToPosition))
}

func TestDisableIsASimpleClear(t *testing.T) {
	mgr := NewManager()
	mgr.Enable(gnctypes.ModeCancelRotation, true)
	mgr.Enable(gnctypes.ModeCancelRotation, false)

	assert.False(t, mgr.IsEnabled(gnctypes.ModeCancelRotation))
}

func TestTransitionsNotifyObserver(t *testing.T) {
	mgr := NewManager()
	var events []gnctypes.ModeID
	mgr.SetObserver(func(mode gnctypes.ModeID, enabled bool) {
		if enabled {
			events = append(events, mode)
		}
	})

	mgr.Enable(gnctypes.ModeCancelRotation, true)
	mgr.Enable(gnctypes.ModePointToPosition, true)

	assert.Equal(t, []gnctypes.ModeID{gnctypes.ModeCancelRotation, gnctypes.ModePointToPosition}, events)
}

func TestActiveRotationalAndTranslationalQueries(t *testing.T) {
	mgr := NewManager()
	if _, ok := mgr.ActiveRotational(); ok {
		t.Fatal("expected no active rotational mode initially")
	}

	mgr.Enable(gnctypes.ModeOrientationMatch, true)
	got, ok := mgr.ActiveRotational()
	assert.True(t, ok)
	assert.Equal(t, gnctypes.ModeOrientationMatch, got)
}
