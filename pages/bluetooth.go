package pages

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

type bluetoothLoadedMsg struct {
	token   string
	devices []common.BluetoothDevice
	powered bool
	err     error
}

func (bluetoothLoadedMsg) Route() string { return PageBluetooth }

type bluetoothCommittedMsg struct {
	token string
	err   error
}

func (bluetoothCommittedMsg) Route() string { return PageBluetooth }

// BluetoothPage is a state container over the bluetooth daemon: the
// adapter power switch plus the list of known devices.
type BluetoothPage struct {
	svc common.BluetoothService
	log common.Logger

	devices []common.BluetoothDevice
	powered bool

	cursor  int
	loaded  bool
	pending string
	errText string
	notice  string
}

func NewBluetoothPage(svc common.BluetoothService) *BluetoothPage {
	return &BluetoothPage{svc: svc, log: common.GetLogger()}
}

func (p *BluetoothPage) ID() string    { return PageBluetooth }
func (p *BluetoothPage) Title() string { return "Bluetooth" }

func (p *BluetoothPage) Init() tea.Cmd {
	return p.loadCmd()
}

func (p *BluetoothPage) loadCmd() tea.Cmd {
	token := newToken()
	p.pending = token
	svc := p.svc
	return func() tea.Msg {
		devices, err := svc.ListDevices()
		if err != nil {
			return bluetoothLoadedMsg{token: token, err: err}
		}
		powered, err := svc.Powered()
		return bluetoothLoadedMsg{token: token, devices: devices, powered: powered, err: err}
	}
}

func (p *BluetoothPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case bluetoothLoadedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, nil
		}
		p.devices = msg.devices
		p.powered = msg.powered
		p.loaded = true
		p.errText = ""
		if p.cursor >= len(p.devices) {
			p.cursor = 0
		}
		return p, nil

	case bluetoothCommittedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, p.loadCmd()
		}
		p.errText = ""
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if p.cursor > 0 {
				p.cursor--
			}
		case "down", "j":
			if p.cursor < len(p.devices)-1 {
				p.cursor++
			}
		case "t":
			enabled := !p.powered
			p.powered = enabled
			token := newToken()
			p.pending = token
			svc := p.svc
			return p, func() tea.Msg {
				return bluetoothCommittedMsg{token: token, err: svc.SetPowered(enabled)}
			}
		case "r":
			return p, p.loadCmd()
		}
	}
	return p, nil
}

func (p *BluetoothPage) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title()))
	b.WriteString("\n\n")

	if !p.loaded {
		b.WriteString(dimStyle.Render("loading…") + "\n")
		return b.String()
	}

	power := "off"
	if p.powered {
		power = okStyle.Render("on")
	}
	b.WriteString("Bluetooth: " + power + "\n\n")

	for i, d := range p.devices {
		state := dimStyle.Render(d.Address)
		switch {
		case d.Connected:
			state = okStyle.Render("connected")
		case d.Paired:
			state = dimStyle.Render("paired")
		}
		line := fmt.Sprintf("%-28s %s", d.Name, state)
		if i == p.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(p.devices) == 0 {
		b.WriteString(dimStyle.Render("no known devices") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("t toggle power · r reload") + "\n")
	if line := banner(p.errText, p.notice); line != "" {
		b.WriteString(line + "\n")
	}
	return b.String()
}
