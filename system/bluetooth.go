// Package system provides domain adapters over OS facilities.
// This file contains the BlueZ façade.
package system

import (
	"context"
	"sort"

	"github.com/godbus/dbus/v5"

	"github.com/yllada/system-settings/common"
)

const (
	bluezDest    = "org.bluez"
	bluezRoot    = dbus.ObjectPath("/")
	adapterIface = "org.bluez.Adapter1"
	deviceIface  = "org.bluez.Device1"

	objectManagerIface = "org.freedesktop.DBus.ObjectManager"
)

// managedObjects is the ObjectManager.GetManagedObjects reply shape:
// object path -> interface -> property -> value.
type managedObjects = map[dbus.ObjectPath]map[string]map[string]dbus.Variant

// BluetoothAdapter talks to the BlueZ daemon over the system bus.
type BluetoothAdapter struct {
	bus busConn
	log common.Logger
}

// NewBluetoothAdapter creates a BlueZ façade on the given bus.
func NewBluetoothAdapter(bus busConn) *BluetoothAdapter {
	return &BluetoothAdapter{
		bus: bus,
		log: common.GetLogger(),
	}
}

// ListDevices enumerates the devices known to the first bluetooth
// adapter, paired devices first, then alphabetically.
func (s *BluetoothAdapter) ListDevices() ([]common.BluetoothDevice, error) {
	objects, err := s.managed()
	if err != nil {
		return nil, err
	}

	var devices []common.BluetoothDevice
	for _, ifaces := range objects {
		props, ok := ifaces[deviceIface]
		if !ok {
			continue
		}
		dev := common.BluetoothDevice{}
		dev.Address, _ = props["Address"].Value().(string)
		dev.Name, _ = props["Alias"].Value().(string)
		if dev.Name == "" {
			dev.Name, _ = props["Name"].Value().(string)
		}
		if dev.Name == "" {
			dev.Name = dev.Address
		}
		dev.Paired, _ = props["Paired"].Value().(bool)
		dev.Connected, _ = props["Connected"].Value().(bool)
		if dev.Address == "" {
			continue
		}
		devices = append(devices, dev)
	}

	sort.Slice(devices, func(i, j int) bool {
		if devices[i].Paired != devices[j].Paired {
			return devices[i].Paired
		}
		if devices[i].Name != devices[j].Name {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].Address < devices[j].Address
	})
	return devices, nil
}

// Powered reports the power switch of the first bluetooth adapter.
func (s *BluetoothAdapter) Powered() (bool, error) {
	_, props, err := s.firstAdapter()
	if err != nil {
		return false, err
	}
	powered, _ := props["Powered"].Value().(bool)
	return powered, nil
}

// SetPowered flips the power switch of the first bluetooth adapter.
func (s *BluetoothAdapter) SetPowered(enabled bool) error {
	path, _, err := s.firstAdapter()
	if err != nil {
		return err
	}

	obj := s.bus.Object(bluezDest, path)
	if err := obj.SetProperty(adapterIface+".Powered", dbus.MakeVariant(enabled)); err != nil {
		return classifyBus(err)
	}
	s.log.Info("Bluetooth adapter %s powered %v", path, enabled)
	return nil
}

// managed fetches the BlueZ object tree.
func (s *BluetoothAdapter) managed() (managedObjects, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.BusTimeout)
	defer cancel()

	var objects managedObjects
	root := s.bus.Object(bluezDest, bluezRoot)
	call := root.CallWithContext(ctx, objectManagerIface+".GetManagedObjects", 0)
	if err := call.Store(&objects); err != nil {
		return nil, classifyBus(err)
	}
	return objects, nil
}

// firstAdapter locates the lowest-path bluetooth adapter (hci0 on a
// single-adapter machine).
func (s *BluetoothAdapter) firstAdapter() (dbus.ObjectPath, map[string]dbus.Variant, error) {
	objects, err := s.managed()
	if err != nil {
		return "", nil, err
	}

	var paths []dbus.ObjectPath
	for path, ifaces := range objects {
		if _, ok := ifaces[adapterIface]; ok {
			paths = append(paths, path)
		}
	}
	if len(paths) == 0 {
		return "", nil, common.WrapError(common.ErrNotFound, "no bluetooth adapter")
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths[0], objects[paths[0]][adapterIface], nil
}
