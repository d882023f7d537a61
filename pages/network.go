package pages

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

type networkLoadedMsg struct {
	token string
	conns []common.NetworkConnection
	wifi  bool
	err   error
}

func (networkLoadedMsg) Route() string { return PageNetwork }

type networkCommittedMsg struct {
	token string
	err   error
}

func (networkCommittedMsg) Route() string { return PageNetwork }

// NetworkPage is a state container over the network daemon: the
// wireless switch plus the list of known connections.
type NetworkPage struct {
	svc common.NetworkService
	log common.Logger

	conns       []common.NetworkConnection
	wifiEnabled bool

	cursor  int
	loaded  bool
	pending string
	errText string
	notice  string
}

func NewNetworkPage(svc common.NetworkService) *NetworkPage {
	return &NetworkPage{svc: svc, log: common.GetLogger()}
}

func (p *NetworkPage) ID() string    { return PageNetwork }
func (p *NetworkPage) Title() string { return "Network" }

func (p *NetworkPage) Init() tea.Cmd {
	return p.loadCmd()
}

func (p *NetworkPage) loadCmd() tea.Cmd {
	token := newToken()
	p.pending = token
	svc := p.svc
	return func() tea.Msg {
		conns, err := svc.ListConnections()
		if err != nil {
			return networkLoadedMsg{token: token, err: err}
		}
		wifi, err := svc.WirelessEnabled()
		return networkLoadedMsg{token: token, conns: conns, wifi: wifi, err: err}
	}
}

func (p *NetworkPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case networkLoadedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, nil
		}
		p.conns = msg.conns
		p.wifiEnabled = msg.wifi
		p.loaded = true
		p.errText = ""
		if p.cursor >= len(p.conns) {
			p.cursor = 0
		}
		return p, nil

	case networkCommittedMsg:
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
			if p.cursor < len(p.conns)-1 {
				p.cursor++
			}
		case "t":
			enabled := !p.wifiEnabled
			p.wifiEnabled = enabled
			token := newToken()
			p.pending = token
			svc := p.svc
			return p, func() tea.Msg {
				return networkCommittedMsg{token: token, err: svc.SetWirelessEnabled(enabled)}
			}
		case "r":
			return p, p.loadCmd()
		}
	}
	return p, nil
}

func (p *NetworkPage) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title()))
	b.WriteString("\n\n")

	if !p.loaded {
		b.WriteString(dimStyle.Render("loading…") + "\n")
		return b.String()
	}

	wifi := "off"
	if p.wifiEnabled {
		wifi = okStyle.Render("on")
	}
	b.WriteString("Wi-Fi: " + wifi + "\n\n")

	for i, c := range p.conns {
		state := dimStyle.Render(c.Type)
		if c.Active {
			state = okStyle.Render("connected")
		}
		line := fmt.Sprintf("%-28s %s", c.Name, state)
		if i == p.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(p.conns) == 0 {
		b.WriteString(dimStyle.Render("no known connections") + "\n")
	}

	b.WriteString("\n" + dimStyle.Render("t toggle wi-fi · r reload") + "\n")
	if line := banner(p.errText, p.notice); line != "" {
		b.WriteString(line + "\n")
	}
	return b.String()
}
