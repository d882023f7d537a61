package pages

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

type soundLoadedMsg struct {
	token   string
	cards   []common.SoundCard
	sinks   []common.SoundDevice
	sources []common.SoundDevice
	err     error
}

func (soundLoadedMsg) Route() string { return PageSound }

type soundCommittedMsg struct {
	token  string
	action string
	err    error
}

func (soundCommittedMsg) Route() string { return PageSound }

// soundRowKind distinguishes the row families of the flattened list.
type soundRowKind int

const (
	rowCard soundRowKind = iota
	rowSink
	rowSource
)

type soundRow struct {
	kind soundRowKind
	// pos indexes into cards, sinks or sources respectively.
	pos int
}

// SoundPage lists sound cards with their profile pick lists and the
// sink/source sliders. Profile keys travel verbatim from the snapshot
// to the commit.
type SoundPage struct {
	svc common.SoundService
	log common.Logger

	cards   []common.SoundCard
	sinks   []common.SoundDevice
	sources []common.SoundDevice

	cursor  int
	loaded  bool
	pending string
	errText string
	notice  string
}

func NewSoundPage(svc common.SoundService) *SoundPage {
	return &SoundPage{svc: svc, log: common.GetLogger()}
}

func (p *SoundPage) ID() string    { return PageSound }
func (p *SoundPage) Title() string { return "Sound" }

func (p *SoundPage) Init() tea.Cmd {
	return p.loadCmd()
}

func (p *SoundPage) loadCmd() tea.Cmd {
	token := newToken()
	p.pending = token
	svc := p.svc
	return func() tea.Msg {
		cards, err := svc.ListCards()
		if err != nil {
			return soundLoadedMsg{token: token, err: err}
		}
		sinks, err := svc.ListSinks()
		if err != nil {
			return soundLoadedMsg{token: token, err: err}
		}
		sources, err := svc.ListSources()
		return soundLoadedMsg{token: token, cards: cards, sinks: sinks, sources: sources, err: err}
	}
}

func (p *SoundPage) commitCmd(action string, fn func() error) tea.Cmd {
	token := newToken()
	p.pending = token
	return func() tea.Msg {
		return soundCommittedMsg{token: token, action: action, err: fn()}
	}
}

// rows flattens cards, sinks and sources into the display order.
func (p *SoundPage) rows() []soundRow {
	rows := make([]soundRow, 0, len(p.cards)+len(p.sinks)+len(p.sources))
	for i := range p.cards {
		rows = append(rows, soundRow{kind: rowCard, pos: i})
	}
	for i := range p.sinks {
		rows = append(rows, soundRow{kind: rowSink, pos: i})
	}
	for i := range p.sources {
		rows = append(rows, soundRow{kind: rowSource, pos: i})
	}
	return rows
}

func (p *SoundPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case soundLoadedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, nil
		}
		p.cards = msg.cards
		p.sinks = msg.sinks
		p.sources = msg.sources
		p.loaded = true
		p.errText = ""
		if max := len(p.rows()) - 1; p.cursor > max && max >= 0 {
			p.cursor = max
		}
		return p, nil

	case soundCommittedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			// The optimistic state may be wrong now; resync.
			return p, p.loadCmd()
		}
		p.errText = ""
		return p, nil

	case tea.KeyMsg:
		return p.updateKey(msg)
	}
	return p, nil
}

func (p *SoundPage) updateKey(msg tea.KeyMsg) (Page, tea.Cmd) {
	rows := p.rows()
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(rows)-1 {
			p.cursor++
		}
	case "left", "h":
		return p.adjust(-1)
	case "right", "l":
		return p.adjust(1)
	case "m":
		return p.toggleMute()
	case "r":
		return p, p.loadCmd()
	}
	return p, nil
}

// adjust moves the pick list or slider under the cursor: profile
// cycling on a card row, a volume step on a device row.
func (p *SoundPage) adjust(dir int) (Page, tea.Cmd) {
	rows := p.rows()
	if p.cursor < 0 || p.cursor >= len(rows) {
		return p, nil
	}
	row := rows[p.cursor]

	if row.kind == rowCard {
		card := &p.cards[row.pos]
		if len(card.Profiles) == 0 {
			return p, nil
		}
		next := (p.activeProfilePos(*card) + dir + len(card.Profiles)) % len(card.Profiles)
		key := card.Profiles[next].Key
		if key == card.ActiveProfile {
			return p, nil
		}
		card.ActiveProfile = key
		index := card.Index
		return p, p.commitCmd("set profile", func() error {
			return p.svc.SetActiveProfile(index, key)
		})
	}

	dev := p.deviceAt(row)
	level := common.ClampVolume(dev.Volume + dir*common.VolumeStep)
	if level == dev.Volume {
		return p, nil
	}
	dev.Volume = level
	kind, index := dev.Kind, dev.Index
	return p, p.commitCmd("set volume", func() error {
		return p.svc.SetVolume(kind, index, level)
	})
}

func (p *SoundPage) toggleMute() (Page, tea.Cmd) {
	rows := p.rows()
	if p.cursor < 0 || p.cursor >= len(rows) || rows[p.cursor].kind == rowCard {
		return p, nil
	}
	dev := p.deviceAt(rows[p.cursor])
	dev.Muted = !dev.Muted
	kind, index, muted := dev.Kind, dev.Index, dev.Muted
	return p, p.commitCmd("set mute", func() error {
		return p.svc.SetMuted(kind, index, muted)
	})
}

func (p *SoundPage) deviceAt(row soundRow) *common.SoundDevice {
	if row.kind == rowSink {
		return &p.sinks[row.pos]
	}
	return &p.sources[row.pos]
}

func (p *SoundPage) activeProfilePos(card common.SoundCard) int {
	for i, prof := range card.Profiles {
		if prof.Key == card.ActiveProfile {
			return i
		}
	}
	return 0
}

func (p *SoundPage) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title()))
	b.WriteString("\n\n")

	if !p.loaded {
		b.WriteString(dimStyle.Render("loading…") + "\n")
		return b.String()
	}

	rows := p.rows()
	for i, row := range rows {
		selected := i == p.cursor
		switch row.kind {
		case rowCard:
			p.viewCard(&b, p.cards[row.pos], selected)
		case rowSink, rowSource:
			p.viewDevice(&b, *p.deviceAt(row), selected)
		}
	}

	b.WriteString("\n" + dimStyle.Render("←/→ adjust · m mute · r reload") + "\n")
	if line := banner(p.errText, p.notice); line != "" {
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (p *SoundPage) viewCard(b *strings.Builder, card common.SoundCard, selected bool) {
	label := p.activeProfileLabel(card)
	line := fmt.Sprintf("%s  ‹%s›", card.Name, label)
	if selected {
		line = cursorStyle.Render("> ") + line
	} else {
		line = "  " + line
	}
	b.WriteString(line + "\n")
}

// activeProfileLabel prefers the description and falls back to the
// key; backends may supply no description at all.
func (p *SoundPage) activeProfileLabel(card common.SoundCard) string {
	for _, prof := range card.Profiles {
		if prof.Key == card.ActiveProfile {
			if prof.Description != "" {
				return prof.Description
			}
			return prof.Key
		}
	}
	return card.ActiveProfile
}

func (p *SoundPage) viewDevice(b *strings.Builder, dev common.SoundDevice, selected bool) {
	bar := volumeBar(dev.Volume)
	mute := ""
	if dev.Muted {
		mute = warnStyle.Render(" muted")
	}
	line := fmt.Sprintf("%-10s %s %3d%%%s  %s", dev.Kind, bar, dev.Volume, mute, dimStyle.Render(dev.Description))
	if selected {
		line = cursorStyle.Render("> ") + line
	} else {
		line = "  " + line
	}
	b.WriteString(line + "\n")
}

// volumeBar renders a ten-segment level indicator.
func volumeBar(level int) string {
	filled := common.ClampVolume(level) / 10
	return "[" + strings.Repeat("■", filled) + strings.Repeat("·", 10-filled) + "]"
}
