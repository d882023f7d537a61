package pages

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

type datetimeLoadedMsg struct {
	token  string
	status common.DateTimeStatus
	zones  []string
	err    error
}

func (datetimeLoadedMsg) Route() string { return PageDateTime }

type datetimeCommittedMsg struct {
	token  string
	action string
	err    error
}

func (datetimeCommittedMsg) Route() string { return PageDateTime }

const manualTimeLayout = "2006-01-02 15:04:05"

// datetimeMode names the active sub-view.
type datetimeMode int

const (
	datetimeModeStatus datetimeMode = iota
	datetimeModeZone
	datetimeModeManual
)

// DateTimePage shows the clock configuration: timezone, NTP switch
// and manual time entry. Manual entry implies switching NTP off.
type DateTimePage struct {
	svc common.LocaleService
	log common.Logger

	status common.DateTimeStatus
	zones  []string

	mode datetimeMode

	// Zone picker subflow, snapshot + filter like the language search.
	zoneSearch   textinput.Model
	zoneFiltered []string
	zoneCursor   int

	manual        textinput.Model
	manualChanged bool
	manualErr     string

	loaded  bool
	pending string
	errText string
	notice  string
}

func NewDateTimePage(svc common.LocaleService) *DateTimePage {
	return &DateTimePage{svc: svc, log: common.GetLogger()}
}

func (p *DateTimePage) ID() string    { return PageDateTime }
func (p *DateTimePage) Title() string { return "Date & Time" }

func (p *DateTimePage) Init() tea.Cmd {
	return p.loadCmd()
}

func (p *DateTimePage) loadCmd() tea.Cmd {
	token := newToken()
	p.pending = token
	svc := p.svc
	return func() tea.Msg {
		status, err := svc.Status()
		if err != nil {
			return datetimeLoadedMsg{token: token, err: err}
		}
		zones, err := svc.Timezones()
		return datetimeLoadedMsg{token: token, status: status, zones: zones, err: err}
	}
}

func (p *DateTimePage) commitCmd(action string, fn func() error) tea.Cmd {
	token := newToken()
	p.pending = token
	return func() tea.Msg {
		return datetimeCommittedMsg{token: token, action: action, err: fn()}
	}
}

func (p *DateTimePage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case datetimeLoadedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, nil
		}
		p.status = msg.status
		p.zones = msg.zones
		p.loaded = true
		p.errText = ""
		return p, nil

	case datetimeCommittedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, p.loadCmd()
		}
		p.errText = ""
		p.notice = msg.action + " applied"
		p.mode = datetimeModeStatus
		p.manualChanged = false
		return p, p.loadCmd()

	case tea.KeyMsg:
		switch p.mode {
		case datetimeModeZone:
			return p.updateZone(msg)
		case datetimeModeManual:
			return p.updateManual(msg)
		default:
			return p.updateStatus(msg)
		}
	}
	return p, nil
}

func (p *DateTimePage) updateStatus(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "t":
		enabled := !p.status.NTP
		p.status.NTP = enabled
		return p, p.commitCmd("automatic time", func() error {
			return p.svc.SetNTP(enabled)
		})
	case "z":
		p.enterZoneMode()
	case "m":
		p.enterManualMode()
	case "r":
		return p, p.loadCmd()
	}
	return p, nil
}

func (p *DateTimePage) enterZoneMode() {
	search := textinput.New()
	search.Placeholder = "search timezones"
	search.Focus()
	p.zoneSearch = search
	p.zoneFiltered = filterZones(p.zones, "")
	p.zoneCursor = 0
	p.mode = datetimeModeZone
}

func (p *DateTimePage) enterManualMode() {
	manual := textinput.New()
	manual.SetValue(p.status.LocalTime.Format(manualTimeLayout))
	manual.Focus()
	p.manual = manual
	p.manualChanged = false
	p.manualErr = ""
	p.mode = datetimeModeManual
}

func (p *DateTimePage) updateZone(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.mode = datetimeModeStatus
		return p, nil
	case "up":
		if p.zoneCursor > 0 {
			p.zoneCursor--
		}
		return p, nil
	case "down":
		if p.zoneCursor < len(p.zoneFiltered)-1 {
			p.zoneCursor++
		}
		return p, nil
	case "enter":
		if p.zoneCursor < 0 || p.zoneCursor >= len(p.zoneFiltered) {
			return p, nil
		}
		zone := p.zoneFiltered[p.zoneCursor]
		p.status.Timezone = zone
		return p, p.commitCmd("timezone", func() error {
			return p.svc.SetTimezone(zone)
		})
	}

	var cmd tea.Cmd
	p.zoneSearch, cmd = p.zoneSearch.Update(msg)
	p.zoneFiltered = filterZones(p.zones, p.zoneSearch.Value())
	if p.zoneCursor >= len(p.zoneFiltered) {
		p.zoneCursor = 0
	}
	return p, cmd
}

func (p *DateTimePage) updateManual(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.mode = datetimeModeStatus
		p.manualChanged = false
		return p, nil
	case "enter":
		if !p.manualChanged {
			return p, nil
		}
		t, err := time.ParseInLocation(manualTimeLayout, strings.TrimSpace(p.manual.Value()), time.Local)
		if err != nil {
			p.manualErr = "use YYYY-MM-DD HH:MM:SS"
			return p, nil
		}
		return p, p.commitCmd("clock", func() error {
			return p.svc.SetTime(t)
		})
	}

	var cmd tea.Cmd
	before := p.manual.Value()
	p.manual, cmd = p.manual.Update(msg)
	if p.manual.Value() != before {
		p.manualChanged = true
		p.manualErr = ""
	}
	return p, cmd
}

// filterZones keeps the zones containing the query,
// case-insensitively.
func filterZones(zones []string, query string) []string {
	if query == "" {
		out := make([]string, len(zones))
		copy(out, zones)
		return out
	}
	needle := strings.ToLower(query)
	var out []string
	for _, z := range zones {
		if strings.Contains(strings.ToLower(z), needle) {
			out = append(out, z)
		}
	}
	return out
}

func (p *DateTimePage) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title()))
	b.WriteString("\n\n")

	switch p.mode {
	case datetimeModeZone:
		p.viewZone(&b)
	case datetimeModeManual:
		p.viewManual(&b)
	default:
		p.viewStatus(&b)
	}

	if line := banner(p.errText, p.notice); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	return b.String()
}

func (p *DateTimePage) viewStatus(b *strings.Builder) {
	if !p.loaded {
		b.WriteString(dimStyle.Render("loading…") + "\n")
		return
	}
	b.WriteString("Time:     " + p.status.LocalTime.Format("2006-01-02 15:04:05") + "\n")
	b.WriteString("Timezone: " + p.status.Timezone + "\n")
	auto := "off"
	if p.status.NTP {
		auto = okStyle.Render("on")
	}
	b.WriteString("Automatic time (NTP): " + auto + "\n")
	b.WriteString("\n" + dimStyle.Render("t toggle NTP · z timezone · m set manually · r reload") + "\n")
}

func (p *DateTimePage) viewZone(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Timezone") + "\n\n")
	b.WriteString("Search: " + p.zoneSearch.View() + "\n\n")
	shown := p.zoneFiltered
	if len(shown) > 12 {
		shown = shown[:12]
	}
	for i, z := range shown {
		line := z
		if i == p.zoneCursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter apply · esc cancel") + "\n")
}

func (p *DateTimePage) viewManual(b *strings.Builder) {
	b.WriteString(headerStyle.Render("Set date & time") + "\n\n")
	b.WriteString(p.manual.View() + "\n")
	if p.manualErr != "" {
		b.WriteString("\n" + errStyle.Render(p.manualErr) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter apply (switches NTP off) · esc cancel") + "\n")
}
