// Package system provides domain adapters over OS facilities.
// This file contains the NetworkManager façade and the shared D-Bus
// plumbing used by the bus-backed adapters.
package system

import (
	"context"
	"errors"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/system-settings/common"
)

const (
	nmDest         = "org.freedesktop.NetworkManager"
	nmPath         = dbus.ObjectPath("/org/freedesktop/NetworkManager")
	nmSettingsPath = dbus.ObjectPath("/org/freedesktop/NetworkManager/Settings")

	nmIface         = "org.freedesktop.NetworkManager"
	nmSettingsIface = "org.freedesktop.NetworkManager.Settings"
	nmConnIface     = "org.freedesktop.NetworkManager.Settings.Connection"
	nmActiveIface   = "org.freedesktop.NetworkManager.Connection.Active"
)

// busObject is the slice of dbus.BusObject the adapters use. Tests
// substitute an in-memory implementation so no bus is ever dialed.
type busObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
	GetProperty(p string) (dbus.Variant, error)
	SetProperty(p string, v interface{}) error
}

// busConn hands out objects on a message bus.
type busConn interface {
	Object(dest string, path dbus.ObjectPath) busObject
	Close() error
}

// systemBus adapts *dbus.Conn to busConn.
type systemBus struct {
	conn *dbus.Conn
}

func (b systemBus) Object(dest string, path dbus.ObjectPath) busObject {
	return b.conn.Object(dest, path)
}

func (b systemBus) Close() error {
	return b.conn.Close()
}

// ConnectSystemBus dials the system message bus.
func ConnectSystemBus() (busConn, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, common.WrapError(common.ErrBackend, "system bus unavailable: "+err.Error())
	}
	return systemBus{conn: conn}, nil
}

// offlineBus stands in when the system bus could not be dialed. Every
// call fails with the original connect error, so the bus-backed pages
// degrade to an error banner instead of crashing.
type offlineBus struct {
	err error
}

func (b offlineBus) Object(dest string, path dbus.ObjectPath) busObject {
	return offlineObject{err: b.err}
}

func (b offlineBus) Close() error { return nil }

type offlineObject struct {
	err error
}

func (o offlineObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	return &dbus.Call{Err: o.err}
}

func (o offlineObject) GetProperty(p string) (dbus.Variant, error) {
	return dbus.Variant{}, o.err
}

func (o offlineObject) SetProperty(p string, v interface{}) error {
	return o.err
}

// OfflineBus returns a stub connection whose calls all fail with err.
func OfflineBus(err error) busConn {
	return offlineBus{err: err}
}

// classifyBus maps a D-Bus failure onto the sentinel taxonomy.
func classifyBus(err error) error {
	if err == nil {
		return nil
	}
	var busErr dbus.Error
	if errors.As(err, &busErr) {
		switch {
		case strings.Contains(busErr.Name, "AccessDenied"),
			strings.Contains(busErr.Name, "PermissionDenied"),
			strings.Contains(busErr.Name, "NotAuthorized"):
			return common.WrapError(common.ErrPermissionDenied, busErr.Name)
		case strings.Contains(busErr.Name, "ServiceUnknown"),
			strings.Contains(busErr.Name, "NameHasNoOwner"),
			strings.Contains(busErr.Name, "NoReply"),
			strings.Contains(busErr.Name, "Disconnected"):
			return common.WrapError(common.ErrBackend, "bus service unreachable: "+busErr.Name)
		case strings.Contains(busErr.Name, "UnknownObject"),
			strings.Contains(busErr.Name, "UnknownInterface"):
			return common.WrapError(common.ErrNotFound, busErr.Name)
		}
		return common.WrapError(common.ErrBackend, busErr.Error())
	}
	return common.WrapError(common.ErrBackend, err.Error())
}

// NetworkAdapter talks to NetworkManager over the system bus.
type NetworkAdapter struct {
	bus busConn
	log common.Logger
}

// NewNetworkAdapter creates a NetworkManager façade on the given bus.
func NewNetworkAdapter(bus busConn) *NetworkAdapter {
	return &NetworkAdapter{
		bus: bus,
		log: common.GetLogger(),
	}
}

// ListConnections enumerates the saved connection profiles, marking
// the currently active ones.
func (s *NetworkAdapter) ListConnections() ([]common.NetworkConnection, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.BusTimeout)
	defer cancel()

	var paths []dbus.ObjectPath
	settings := s.bus.Object(nmDest, nmSettingsPath)
	if err := settings.CallWithContext(ctx, nmSettingsIface+".ListConnections", 0).Store(&paths); err != nil {
		return nil, classifyBus(err)
	}

	active, err := s.activeSettingsPaths()
	if err != nil {
		// Activity marking is best-effort; the profile list is still
		// useful when the active query fails.
		s.log.Warn("Active connection query failed: %v", err)
		active = nil
	}

	conns := make([]common.NetworkConnection, 0, len(paths))
	for _, path := range paths {
		var cfg map[string]map[string]dbus.Variant
		obj := s.bus.Object(nmDest, path)
		if err := obj.CallWithContext(ctx, nmConnIface+".GetSettings", 0).Store(&cfg); err != nil {
			s.log.Warn("Skipping unreadable connection %s: %v", path, err)
			continue
		}
		conn := common.NetworkConnection{Active: active[path]}
		if section, ok := cfg["connection"]; ok {
			conn.ID, _ = section["uuid"].Value().(string)
			conn.Name, _ = section["id"].Value().(string)
			conn.Type, _ = section["type"].Value().(string)
		}
		if conn.Name == "" {
			continue
		}
		conns = append(conns, conn)
	}
	return conns, nil
}

// WirelessEnabled reports the Wi-Fi radio switch.
func (s *NetworkAdapter) WirelessEnabled() (bool, error) {
	obj := s.bus.Object(nmDest, nmPath)
	variant, err := obj.GetProperty(nmIface + ".WirelessEnabled")
	if err != nil {
		return false, classifyBus(err)
	}
	enabled, ok := variant.Value().(bool)
	if !ok {
		return false, common.WrapError(common.ErrBackend, "unexpected WirelessEnabled type")
	}
	return enabled, nil
}

// SetWirelessEnabled flips the Wi-Fi radio switch.
func (s *NetworkAdapter) SetWirelessEnabled(enabled bool) error {
	obj := s.bus.Object(nmDest, nmPath)
	if err := obj.SetProperty(nmIface+".WirelessEnabled", dbus.MakeVariant(enabled)); err != nil {
		return classifyBus(err)
	}
	s.log.Info("Wireless radio switched to %v", enabled)
	return nil
}

// activeSettingsPaths resolves the set of settings paths backing the
// currently active connections.
func (s *NetworkAdapter) activeSettingsPaths() (map[dbus.ObjectPath]bool, error) {
	nm := s.bus.Object(nmDest, nmPath)
	variant, err := nm.GetProperty(nmIface + ".ActiveConnections")
	if err != nil {
		return nil, classifyBus(err)
	}
	activePaths, ok := variant.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, common.WrapError(common.ErrBackend, "unexpected ActiveConnections type")
	}

	set := make(map[dbus.ObjectPath]bool, len(activePaths))
	for _, path := range activePaths {
		obj := s.bus.Object(nmDest, path)
		backing, err := obj.GetProperty(nmActiveIface + ".Connection")
		if err != nil {
			continue
		}
		if settingsPath, ok := backing.Value().(dbus.ObjectPath); ok {
			set[settingsPath] = true
		}
	}
	return set, nil
}
