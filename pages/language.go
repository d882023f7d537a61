package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

type languageLoadedMsg struct {
	token string
	langs []common.Language
	err   error
}

func (languageLoadedMsg) Route() string { return PageLanguage }

type languageCommittedMsg struct {
	token string
	err   error
}

func (languageCommittedMsg) Route() string { return PageLanguage }

// Fixed reference values for the formatting preview.
var (
	previewTime     = time.Date(2024, time.July, 26, 15, 4, 5, 0, time.UTC)
	previewInteger  = 1234567
	previewCurrency = 1234.56
)

// languageOption is one cycling option row: a label, the selectable
// values and the selected index.
type languageOption struct {
	label    string
	category string
	values   []common.LocaleOption
	selected int
}

func (o languageOption) current() common.LocaleOption {
	if o.selected < 0 || o.selected >= len(o.values) {
		return common.LocaleOption{}
	}
	return o.values[o.selected]
}

// addMode is the add-preferred-language subflow. Entering add mode
// snapshots the available list; each keystroke refilters; Okay appends
// the selection and the whole state is discarded.
type addMode struct {
	search   textinput.Model
	langs    []common.Language
	filtered []common.Language
	cursor   int
}

// LanguagePage is the language & region page: the ordered preferred
// language list plus the regional format options with a live preview.
type LanguagePage struct {
	svc common.LocaleService
	log common.Logger

	available []common.Language
	preferred []common.Language

	options []languageOption

	// cursor walks the preferred rows first, then the option rows.
	cursor int

	adding *addMode

	changed bool
	loaded  bool
	pending string
	errText string
	notice  string
}

func NewLanguagePage(svc common.LocaleService) *LanguagePage {
	return &LanguagePage{
		svc:     svc,
		log:     common.GetLogger(),
		options: defaultLanguageOptions(),
	}
}

// defaultLanguageOptions builds the format rows shown before the
// locale list arrives. The rows drive the on-page preview; the locale
// key committed for their LC_* categories comes from the Region row,
// which is prepended once the available list is known.
func defaultLanguageOptions() []languageOption {
	return []languageOption{
		{
			label:    "First day of week",
			category: "",
			values: []common.LocaleOption{
				{Key: "monday", Value: "Monday"},
				{Key: "sunday", Value: "Sunday"},
			},
		},
		{
			label:    "Time format",
			category: "LC_TIME",
			values: []common.LocaleOption{
				{Key: "24h", Value: "24-hour"},
				{Key: "12h", Value: "12-hour"},
			},
		},
		{
			label:    "Numbers",
			category: "LC_NUMERIC",
			values: []common.LocaleOption{
				{Key: "comma", Value: "1,234,567"},
				{Key: "dot", Value: "1.234.567"},
				{Key: "space", Value: "1 234 567"},
			},
		},
		{
			label:    "Currency",
			category: "LC_MONETARY",
			values: []common.LocaleOption{
				{Key: "prefix", Value: "$1,234.56"},
				{Key: "suffix", Value: "1.234,56 €"},
			},
		},
		{
			label:    "Measurement",
			category: "LC_MEASUREMENT",
			values: []common.LocaleOption{
				{Key: "metric", Value: "Metric"},
				{Key: "imperial", Value: "Imperial"},
			},
		},
	}
}

func (p *LanguagePage) ID() string    { return PageLanguage }
func (p *LanguagePage) Title() string { return "Language & Region" }

func (p *LanguagePage) Init() tea.Cmd {
	return p.loadCmd()
}

func (p *LanguagePage) loadCmd() tea.Cmd {
	token := newToken()
	p.pending = token
	svc := p.svc
	return func() tea.Msg {
		langs, err := svc.AvailableLanguages()
		return languageLoadedMsg{token: token, langs: langs, err: err}
	}
}

func (p *LanguagePage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case languageLoadedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, nil
		}
		p.available = msg.langs
		p.loaded = true
		p.errText = ""
		if len(p.preferred) == 0 {
			p.preferred = p.seedPreferred()
		}
		p.refreshRegionOption()
		return p, nil

	case languageCommittedMsg:
		if msg.token != p.pending {
			return p, nil
		}
		p.pending = ""
		if msg.err != nil {
			p.errText = describeError(msg.err)
			return p, nil
		}
		p.errText = ""
		p.notice = "locale applied"
		p.changed = false
		return p, nil

	case tea.KeyMsg:
		if p.adding != nil {
			return p.updateAdd(msg)
		}
		return p.updateMain(msg)
	}
	return p, nil
}

// seedPreferred derives the initial preferred list from the process
// locale, falling back to the first available language.
func (p *LanguagePage) seedPreferred() []common.Language {
	for _, l := range p.available {
		if l.LangCode() == "en_US" {
			return []common.Language{l}
		}
	}
	if len(p.available) > 0 {
		return []common.Language{p.available[0]}
	}
	return nil
}

// refreshRegionOption rebuilds the Region row from the available
// locale list, keeping the current selection when its key survives the
// reload. The selected region is the locale the LC_* categories commit
// to; it defaults to the primary preferred language.
func (p *LanguagePage) refreshRegionOption() {
	current := ""
	if len(p.options) > 0 && p.options[0].label == "Region" {
		current = p.options[0].current().Key
	}
	if current == "" && len(p.preferred) > 0 {
		current = p.preferred[0].Key
	}

	row := languageOption{label: "Region"}
	for i, l := range p.available {
		row.values = append(row.values, common.LocaleOption{Key: l.Key, Value: l.Display()})
		if l.Key == current {
			row.selected = i
		}
	}

	if len(p.options) > 0 && p.options[0].label == "Region" {
		p.options[0] = row
		return
	}
	p.options = append([]languageOption{row}, p.options...)
}

func (p *LanguagePage) updateMain(msg tea.KeyMsg) (Page, tea.Cmd) {
	total := len(p.preferred) + len(p.options)
	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < total-1 {
			p.cursor++
		}
	case "left", "h":
		p.cycleOption(-1)
	case "right", "l":
		p.cycleOption(1)
	case "a", "+":
		p.enterAddMode()
	case "x", "-":
		p.removePreferred()
	case "[":
		p.movePreferred(-1)
	case "]":
		p.movePreferred(1)
	case "enter":
		return p.apply()
	case "r":
		return p, p.loadCmd()
	}
	return p, nil
}

func (p *LanguagePage) cycleOption(dir int) {
	idx := p.cursor - len(p.preferred)
	if idx < 0 || idx >= len(p.options) {
		return
	}
	opt := &p.options[idx]
	opt.selected = (opt.selected + dir + len(opt.values)) % len(opt.values)
	p.changed = true
}

// enterAddMode snapshots the available list into the subflow state.
func (p *LanguagePage) enterAddMode() {
	search := textinput.New()
	search.Placeholder = "search languages"
	search.Focus()

	langs := make([]common.Language, len(p.available))
	copy(langs, p.available)
	filtered := make([]common.Language, len(langs))
	copy(filtered, langs)

	p.adding = &addMode{search: search, langs: langs, filtered: filtered}
}

func (p *LanguagePage) removePreferred() {
	if p.cursor >= len(p.preferred) || len(p.preferred) <= 1 {
		return
	}
	p.preferred = append(p.preferred[:p.cursor], p.preferred[p.cursor+1:]...)
	p.changed = true
	if p.cursor >= len(p.preferred) {
		p.cursor = len(p.preferred) - 1
	}
}

func (p *LanguagePage) movePreferred(dir int) {
	i := p.cursor
	j := i + dir
	if i < 0 || i >= len(p.preferred) || j < 0 || j >= len(p.preferred) {
		return
	}
	p.preferred[i], p.preferred[j] = p.preferred[j], p.preferred[i]
	p.cursor = j
	p.changed = true
}

func (p *LanguagePage) updateAdd(msg tea.KeyMsg) (Page, tea.Cmd) {
	add := p.adding
	switch msg.String() {
	case "esc":
		p.adding = nil
		return p, nil
	case "up":
		if add.cursor > 0 {
			add.cursor--
		}
		return p, nil
	case "down":
		if add.cursor < len(add.filtered)-1 {
			add.cursor++
		}
		return p, nil
	case "enter":
		p.confirmAdd()
		return p, nil
	}

	var cmd tea.Cmd
	add.search, cmd = add.search.Update(msg)
	add.filtered = filterLanguages(add.langs, add.search.Value())
	if add.cursor >= len(add.filtered) {
		add.cursor = 0
	}
	return p, cmd
}

// confirmAdd appends the selection to the preferred list unless it is
// already present, then discards the subflow state.
func (p *LanguagePage) confirmAdd() {
	add := p.adding
	if add == nil || add.cursor < 0 || add.cursor >= len(add.filtered) {
		return
	}
	chosen := add.filtered[add.cursor]
	p.adding = nil

	for _, l := range p.preferred {
		if l.Key == chosen.Key {
			return
		}
	}
	p.preferred = append(p.preferred, chosen)
	p.changed = true
}

// filterLanguages keeps the subsequence of langs whose display
// contains the query, case-insensitively.
func filterLanguages(langs []common.Language, query string) []common.Language {
	if query == "" {
		out := make([]common.Language, len(langs))
		copy(out, langs)
		return out
	}
	needle := strings.ToLower(query)
	var out []common.Language
	for _, l := range langs {
		if strings.Contains(strings.ToLower(l.Display()), needle) {
			out = append(out, l)
		}
	}
	return out
}

// formatPreferred joins the pre-dot key fragments with ":" in list
// order, the LANGUAGE environment convention.
func formatPreferred(langs []common.Language) string {
	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, l.LangCode())
	}
	return strings.Join(codes, ":")
}

// apply commits the locale selection.
func (p *LanguagePage) apply() (Page, tea.Cmd) {
	if !p.changed || len(p.preferred) == 0 {
		// Nothing to commit: the button stays disabled.
		return p, nil
	}
	primary := p.preferred[0].Key
	region := p.optionKey("Region")
	if region == "" {
		region = primary
	}
	categories := make(map[string]string)
	for _, opt := range p.options {
		if opt.category != "" {
			categories[opt.category] = region
		}
	}

	token := newToken()
	p.pending = token
	svc := p.svc
	return p, func() tea.Msg {
		return languageCommittedMsg{token: token, err: svc.SetSystemLocale(primary, categories)}
	}
}

func (p *LanguagePage) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title()))
	b.WriteString("\n\n")

	if p.adding != nil {
		p.viewAdd(&b)
		return b.String()
	}

	if !p.loaded {
		b.WriteString(dimStyle.Render("loading…") + "\n")
		return b.String()
	}

	b.WriteString(headerStyle.Render("Preferred languages") + "  " +
		dimStyle.Render(formatPreferred(p.preferred)) + "\n")
	for i, l := range p.preferred {
		line := fmt.Sprintf("%d. %s", i+1, l.Display())
		if i == p.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + headerStyle.Render("Formats") + "\n")
	for i, opt := range p.options {
		row := len(p.preferred) + i
		line := fmt.Sprintf("%-18s ‹%s›", opt.label, opt.current().Value)
		if row == p.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n" + headerStyle.Render("Preview") + "\n")
	b.WriteString("  " + p.previewLine() + "\n")

	b.WriteString("\n" + dimStyle.Render("a add · x remove · [/] reorder · ←/→ cycle · enter apply") + "\n")
	if line := banner(p.errText, p.notice); line != "" {
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (p *LanguagePage) viewAdd(b *strings.Builder) {
	add := p.adding
	b.WriteString(headerStyle.Render("Add language") + "\n\n")
	b.WriteString("Search: " + add.search.View() + "\n\n")
	for i, l := range add.filtered {
		line := l.Display()
		if i == add.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	if len(add.filtered) == 0 {
		b.WriteString(dimStyle.Render("no matches") + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter okay · esc cancel") + "\n")
}

// previewLine renders the reference values under the chosen formats.
func (p *LanguagePage) previewLine() string {
	timeStr := previewTime.Format("15:04")
	if p.optionKey("Time format") == "12h" {
		timeStr = previewTime.Format("3:04 PM")
	}

	number := groupDigits(previewInteger, p.numberSeparator())

	currency := fmt.Sprintf("$%s.%02d", groupDigits(int(previewCurrency), ","), int(previewCurrency*100)%100)
	if p.optionKey("Currency") == "suffix" {
		currency = fmt.Sprintf("%s,%02d €", groupDigits(int(previewCurrency), "."), int(previewCurrency*100)%100)
	}

	return timeStr + "   " + number + "   " + currency
}

func (p *LanguagePage) optionKey(label string) string {
	for _, opt := range p.options {
		if opt.label == label {
			return opt.current().Key
		}
	}
	return ""
}

func (p *LanguagePage) numberSeparator() string {
	switch p.optionKey("Numbers") {
	case "dot":
		return "."
	case "space":
		return " "
	default:
		return ","
	}
}

// groupDigits inserts a thousands separator into a non-negative
// integer.
func groupDigits(n int, sep string) string {
	digits := fmt.Sprintf("%d", n)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, sep)
}
