package pages

import (
	"testing"

	"github.com/yllada/system-settings/common"
)

func TestWirelessToggle(t *testing.T) {
	fake := &fakeNetwork{
		wifi: true,
		conns: []common.NetworkConnection{
			{ID: "aaaa", Name: "Home Wi-Fi", Type: "802-11-wireless", Active: true},
			{ID: "bbbb", Name: "Wired connection 1", Type: "802-3-ethernet"},
		},
	}
	page := NewNetworkPage(fake)
	p := drive(t, Page(page), page.Init())

	p, cmd := press(p, "t")
	p = drive(t, p, cmd)

	if len(fake.calls) != 1 || fake.calls[0] != "set_wireless false" {
		t.Fatalf("calls = %v, want set_wireless false", fake.calls)
	}
	if p.(*NetworkPage).wifiEnabled {
		t.Error("page still shows wi-fi on")
	}
}

func TestWirelessToggleDeniedRevertsOnReload(t *testing.T) {
	fake := &fakeNetwork{wifi: true}
	page := NewNetworkPage(fake)
	p := drive(t, Page(page), page.Init())

	fake.err = common.WrapError(common.ErrPermissionDenied, "not authorized")
	p, cmd := press(p, "t")
	// The commit fails; run only that command, not the reload.
	msg := cmd()
	fake.err = nil
	p, reload := p.Update(msg)
	p = drive(t, p, reload)

	np := p.(*NetworkPage)
	if np.errText == "" {
		t.Error("denied toggle produced no banner")
	}
	if !np.wifiEnabled {
		t.Error("optimistic toggle not reverted by the reload")
	}
}

func TestBluetoothPowerToggle(t *testing.T) {
	fake := &fakeBluetooth{
		powered: false,
		devices: []common.BluetoothDevice{
			{Address: "AA:AA", Name: "Headphones", Paired: true},
		},
	}
	page := NewBluetoothPage(fake)
	p := drive(t, Page(page), page.Init())

	p, cmd := press(p, "t")
	p = drive(t, p, cmd)

	if len(fake.calls) != 1 || fake.calls[0] != "set_powered true" {
		t.Fatalf("calls = %v, want set_powered true", fake.calls)
	}
	if !p.(*BluetoothPage).powered {
		t.Error("page still shows bluetooth off")
	}
}

func TestIconThemeApply(t *testing.T) {
	fake := &fakeAppearance{
		themes: []common.IconTheme{
			{Name: "Adwaita", Path: "/usr/share/icons/Adwaita"},
			{Name: "Papirus", Path: "/usr/share/icons/Papirus"},
		},
		current: "Adwaita",
	}
	page := NewAppearancePage(fake)
	p := drive(t, Page(page), page.Init())

	// Applying the already-active theme is a no-op.
	p, cmd := press(p, "enter")
	if cmd != nil {
		t.Fatal("re-applying the current theme emitted a command")
	}

	p, _ = press(p, "down")
	p, cmd = press(p, "enter")
	p = drive(t, p, cmd)

	if len(fake.calls) != 1 || fake.calls[0] != "set_icon_theme Papirus" {
		t.Fatalf("calls = %v, want set_icon_theme Papirus", fake.calls)
	}
	if p.(*AppearancePage).current != "Papirus" {
		t.Error("page does not show the new theme as current")
	}
}
