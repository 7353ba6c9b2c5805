package modes

import "github.com/alexanderi96/go-gnc-core/gnc/gnctypes"

// ChangeObserver is notified on every mode state transition driven
// through Manager.Enable.
type ChangeObserver func(mode gnctypes.ModeID, enabled bool)

var rotationalGroup = []gnctypes.ModeID{
	gnctypes.ModeOrientationMatch,
	gnctypes.ModeCancelRotation,
	gnctypes.ModePointToPosition,
}

var translationalGroup = []gnctypes.ModeID{
	gnctypes.ModeCancelLinearMotion,
	gnctypes.ModeGoToPosition,
}

func groupOf(mode gnctypes.ModeID) []gnctypes.ModeID {
	for _, m := range rotationalGroup {
		if m == mode {
			return rotationalGroup
		}
	}
	return translationalGroup
}

// Manager enforces mutual exclusion within the rotational group and
// within the translational group; the two groups are independent of
// each other.
type Manager struct {
	active   map[gnctypes.ModeID]bool
	observer ChangeObserver
}

// NewManager returns a manager with every mode disabled.
func NewManager() *Manager {
	return &Manager{active: make(map[gnctypes.ModeID]bool, 5)}
}

// SetObserver installs the callback invoked on every transition.
func (mgr *Manager) SetObserver(obs ChangeObserver) {
	mgr.observer = obs
}

// Enable turns mode on or off. Enabling a mode first disables every
// other member of its mutual-exclusion group; disabling is a simple
// clear with no side effects on other modes.
func (mgr *Manager) Enable(mode gnctypes.ModeID, enabled bool) {
	if !enabled {
		if mgr.active[mode] {
			delete(mgr.active, mode)
			mgr.notify(mode, false)
		}
		return
	}

	for _, other := range groupOf(mode) {
		if other != mode && mgr.active[other] {
			delete(mgr.active, other)
			mgr.notify(other, false)
		}
	}
	if !mgr.active[mode] {
		mgr.active[mode] = true
		mgr.notify(mode, true)
	}
}

// IsEnabled reports whether mode is currently active.
func (mgr *Manager) IsEnabled(mode gnctypes.ModeID) bool {
	return mgr.active[mode]
}

// ActiveRotational returns the single enabled rotational mode, if any.
func (mgr *Manager) ActiveRotational() (gnctypes.ModeID, bool) {
	for _, m := range rotationalGroup {
		if mgr.active[m] {
			return m, true
		}
	}
	return 0, false
}

// ActiveTranslational returns the single enabled translational mode, if any.
func (mgr *Manager) ActiveTranslational() (gnctypes.ModeID, bool) {
	for _, m := range translationalGroup {
		if mgr.active[m] {
			return m, true
		}
	}
	return 0, false
}

func (mgr *Manager) notify(mode gnctypes.ModeID, enabled bool) {
	if mgr.observer != nil {
		mgr.observer(mode, enabled)
	}
}
