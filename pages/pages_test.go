package pages

import (
	"fmt"
	"sort"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

// key builds the KeyMsg for one keystroke.
func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// press applies one keystroke without running the returned command.
func press(p Page, s string) (Page, tea.Cmd) {
	return p.Update(key(s))
}

// typeString feeds a string rune by rune.
func typeString(p Page, s string) Page {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

// drive runs a command chain to quiescence, feeding every produced
// message back into the page.
func drive(t *testing.T, p Page, cmd tea.Cmd) Page {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 32 {
			t.Fatal("command chain did not quiesce")
		}
		msg := cmd()
		if msg == nil {
			break
		}
		p, cmd = p.Update(msg)
	}
	return p
}

// fakeAccounts is an in-memory AccountService recording every
// mutating call.
type fakeAccounts struct {
	users   []common.User
	groups  []common.Group
	calls   []string
	nextUID uint32
	nextGID uint32
	err     error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		users: []common.User{
			{UID: 1000, GID: 1000, Username: "alice", FullName: "Alice Doe", Home: "/home/alice", Groups: []string{"alice", "wheel"}},
			{UID: 1001, GID: 1001, Username: "bob", FullName: "Bob Roe", Home: "/home/bob", Groups: []string{"bob"}},
		},
		groups: []common.Group{
			{GID: 10, Name: "wheel", Members: []string{"alice"}},
			{GID: 1000, Name: "alice"},
			{GID: 1001, Name: "bob"},
		},
		nextUID: 1002,
		nextGID: 2000,
	}
}

func (f *fakeAccounts) ListUsers() ([]common.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]common.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeAccounts) ListGroups() ([]common.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]common.Group, len(f.groups))
	copy(out, f.groups)
	return out, nil
}

func (f *fakeAccounts) CreateUser(login, fullName, password string, admin bool) (common.User, error) {
	f.calls = append(f.calls, fmt.Sprintf("create_user %s admin=%v", login, admin))
	if f.err != nil {
		return common.User{}, f.err
	}
	user := common.User{UID: f.nextUID, GID: f.nextUID, Username: login, FullName: fullName, Groups: []string{login}}
	f.nextUID++
	f.users = append(f.users, user)
	f.groups = append(f.groups, common.Group{GID: user.GID, Name: login})
	return user, nil
}

func (f *fakeAccounts) DeleteUser(uid uint32) error {
	f.calls = append(f.calls, fmt.Sprintf("delete_user %d", uid))
	if f.err != nil {
		return f.err
	}
	for i, u := range f.users {
		if u.UID == uid {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeAccounts) SetUserGroups(uid uint32, groups []string) error {
	f.calls = append(f.calls, fmt.Sprintf("set_user_groups %d %v", uid, groups))
	if f.err != nil {
		return f.err
	}
	for i, u := range f.users {
		if u.UID == uid {
			merged := append([]string{}, groups...)
			if primary := f.groupNameByGID(u.GID); primary != "" && !common.StringInSlice(primary, merged) {
				merged = append(merged, primary)
			}
			sort.Strings(merged)
			f.users[i].Groups = merged
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeAccounts) ChangePassword(uid uint32, oldPassword, newPassword string) error {
	f.calls = append(f.calls, fmt.Sprintf("change_password %d %s %s", uid, oldPassword, newPassword))
	return f.err
}

func (f *fakeAccounts) CreateGroup(name string) (common.Group, error) {
	f.calls = append(f.calls, "create_group "+name)
	if f.err != nil {
		return common.Group{}, f.err
	}
	group := common.Group{GID: f.nextGID, Name: name}
	f.nextGID++
	f.groups = append(f.groups, group)
	return group, nil
}

func (f *fakeAccounts) DeleteGroup(gid uint32) error {
	f.calls = append(f.calls, fmt.Sprintf("delete_group %d", gid))
	if f.err != nil {
		return f.err
	}
	for i, g := range f.groups {
		if g.GID == gid {
			f.groups = append(f.groups[:i], f.groups[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeAccounts) SetGroupMembers(gid uint32, members []string) error {
	f.calls = append(f.calls, fmt.Sprintf("set_group_members %d %v", gid, members))
	if f.err != nil {
		return f.err
	}
	for i, g := range f.groups {
		if g.GID != gid {
			continue
		}
		f.groups[i].Members = append([]string{}, members...)
		for j, u := range f.users {
			in := common.StringInSlice(u.Username, members)
			has := u.InGroup(g.Name)
			switch {
			case in && !has:
				f.users[j].Groups = append(f.users[j].Groups, g.Name)
				sort.Strings(f.users[j].Groups)
			case !in && has:
				f.users[j].Groups = common.RemoveFromSlice(f.users[j].Groups, g.Name)
			}
		}
		return nil
	}
	return common.ErrNotFound
}

func (f *fakeAccounts) groupNameByGID(gid uint32) string {
	for _, g := range f.groups {
		if g.GID == gid {
			return g.Name
		}
	}
	return ""
}

func (f *fakeAccounts) callCount(prefix string) int {
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// fakeLocale is an in-memory LocaleService.
type fakeLocale struct {
	langs      []common.Language
	zones      []string
	status     common.DateTimeStatus
	calls      []string
	categories map[string]string
	err        error
}

func newFakeLocale() *fakeLocale {
	return &fakeLocale{
		langs: []common.Language{
			{Key: "en_US.UTF-8", Lang: "English", Region: "United States"},
			{Key: "fr_FR.UTF-8", Lang: "French", Region: "France"},
			{Key: "km_KH.UTF-8", Lang: "Khmer", Region: "Cambodia"},
		},
		zones: []string{"Asia/Phnom_Penh", "Europe/Berlin", "UTC"},
		status: common.DateTimeStatus{
			Timezone:  "UTC",
			NTP:       true,
			LocalTime: time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC),
		},
	}
}

func (f *fakeLocale) AvailableLanguages() ([]common.Language, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]common.Language, len(f.langs))
	copy(out, f.langs)
	return out, nil
}

func (f *fakeLocale) Timezones() ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]string{}, f.zones...), nil
}

func (f *fakeLocale) Status() (common.DateTimeStatus, error) {
	return f.status, f.err
}

func (f *fakeLocale) SetSystemLocale(lang string, categories map[string]string) error {
	f.calls = append(f.calls, "set_locale "+lang)
	f.categories = categories
	return f.err
}

func (f *fakeLocale) SetTimezone(zone string) error {
	f.calls = append(f.calls, "set_timezone "+zone)
	if f.err == nil {
		f.status.Timezone = zone
	}
	return f.err
}

func (f *fakeLocale) SetNTP(enabled bool) error {
	f.calls = append(f.calls, fmt.Sprintf("set_ntp %v", enabled))
	if f.err == nil {
		f.status.NTP = enabled
	}
	return f.err
}

func (f *fakeLocale) SetTime(t time.Time) error {
	f.calls = append(f.calls, "set_time "+t.Format("2006-01-02 15:04:05"))
	if f.err == nil {
		f.status.LocalTime = t
		f.status.NTP = false
	}
	return f.err
}

// fakeSound is an in-memory SoundService.
type fakeSound struct {
	cards   []common.SoundCard
	sinks   []common.SoundDevice
	sources []common.SoundDevice
	calls   []string
	err     error
}

func newFakeSound() *fakeSound {
	return &fakeSound{
		cards: []common.SoundCard{
			{
				Index: 0,
				Name:  "Built-in Audio",
				Profiles: []common.SoundProfile{
					{Key: "analog-stereo", Description: "Analog Stereo"},
					{Key: "hdmi-stereo", Description: "HDMI Stereo"},
				},
				ActiveProfile: "analog-stereo",
			},
		},
		sinks: []common.SoundDevice{
			{Kind: common.DeviceSink, Index: 0, Name: "alsa_output", Description: "Speakers", Volume: 50, CardIndex: 0},
		},
		sources: []common.SoundDevice{
			{Kind: common.DeviceSource, Index: 1, Name: "alsa_input", Description: "Microphone", Volume: 80, CardIndex: 0},
		},
	}
}

func (f *fakeSound) ListCards() ([]common.SoundCard, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]common.SoundCard, len(f.cards))
	copy(out, f.cards)
	return out, nil
}

func (f *fakeSound) SetActiveProfile(cardIndex uint32, profileKey string) error {
	f.calls = append(f.calls, fmt.Sprintf("set_active_profile %d %s", cardIndex, profileKey))
	if f.err != nil {
		return f.err
	}
	for i, c := range f.cards {
		if c.Index == cardIndex {
			f.cards[i].ActiveProfile = profileKey
		}
	}
	return nil
}

func (f *fakeSound) ListSinks() ([]common.SoundDevice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]common.SoundDevice{}, f.sinks...), nil
}

func (f *fakeSound) ListSources() ([]common.SoundDevice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]common.SoundDevice{}, f.sources...), nil
}

func (f *fakeSound) SetVolume(kind common.DeviceKind, index uint32, level int) error {
	f.calls = append(f.calls, fmt.Sprintf("set_volume %s %d %d", kind, index, level))
	return f.err
}

func (f *fakeSound) SetMuted(kind common.DeviceKind, index uint32, muted bool) error {
	f.calls = append(f.calls, fmt.Sprintf("set_muted %s %d %v", kind, index, muted))
	return f.err
}

// fakeNetwork is an in-memory NetworkService.
type fakeNetwork struct {
	conns []common.NetworkConnection
	wifi  bool
	calls []string
	err   error
}

func (f *fakeNetwork) ListConnections() ([]common.NetworkConnection, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]common.NetworkConnection{}, f.conns...), nil
}

func (f *fakeNetwork) WirelessEnabled() (bool, error) { return f.wifi, f.err }

func (f *fakeNetwork) SetWirelessEnabled(enabled bool) error {
	f.calls = append(f.calls, fmt.Sprintf("set_wireless %v", enabled))
	if f.err == nil {
		f.wifi = enabled
	}
	return f.err
}

// fakeBluetooth is an in-memory BluetoothService.
type fakeBluetooth struct {
	devices []common.BluetoothDevice
	powered bool
	calls   []string
	err     error
}

func (f *fakeBluetooth) ListDevices() ([]common.BluetoothDevice, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]common.BluetoothDevice{}, f.devices...), nil
}

func (f *fakeBluetooth) Powered() (bool, error) { return f.powered, f.err }

func (f *fakeBluetooth) SetPowered(enabled bool) error {
	f.calls = append(f.calls, fmt.Sprintf("set_powered %v", enabled))
	if f.err == nil {
		f.powered = enabled
	}
	return f.err
}

// fakeAppearance is an in-memory AppearanceService.
type fakeAppearance struct {
	themes  []common.IconTheme
	current string
	calls   []string
	err     error
}

func (f *fakeAppearance) ListIconThemes() ([]common.IconTheme, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]common.IconTheme{}, f.themes...), nil
}

func (f *fakeAppearance) CurrentIconTheme() (string, error) { return f.current, f.err }

func (f *fakeAppearance) SetIconTheme(name string) error {
	f.calls = append(f.calls, "set_icon_theme "+name)
	if f.err == nil {
		f.current = name
	}
	return f.err
}

// struct{} messages are outside every page's alphabet.
type strayMsg struct{}

// TestUnknownMessageIsNoOp exercises the universal rule: a message a
// page does not understand leaves it unchanged.
func TestUnknownMessageIsNoOp(t *testing.T) {
	build := map[string]func() Page{
		"users":      func() Page { return NewUsersPage(newFakeAccounts(), 1000, false, false, false) },
		"sound":      func() Page { return NewSoundPage(newFakeSound()) },
		"language":   func() Page { return NewLanguagePage(newFakeLocale()) },
		"datetime":   func() Page { return NewDateTimePage(newFakeLocale()) },
		"network":    func() Page { return NewNetworkPage(&fakeNetwork{wifi: true}) },
		"bluetooth":  func() Page { return NewBluetoothPage(&fakeBluetooth{powered: true}) },
		"appearance": func() Page { return NewAppearancePage(&fakeAppearance{current: "Adwaita"}) },
	}
	for name, mk := range build {
		t.Run(name, func(t *testing.T) {
			p := mk()
			p = drive(t, p, p.Init())
			before := p.View(80)

			p, cmd := p.Update(strayMsg{})
			if cmd != nil {
				t.Error("unknown message produced a command")
			}
			if after := p.View(80); after != before {
				t.Errorf("view changed after unknown message:\nbefore:\n%s\nafter:\n%s", before, after)
			}
		})
	}
}

// TestViewNeverCrashes renders every page before its snapshot loads.
func TestViewNeverCrashes(t *testing.T) {
	pages := []Page{
		NewUsersPage(newFakeAccounts(), 1000, false, false, false),
		NewSoundPage(newFakeSound()),
		NewLanguagePage(newFakeLocale()),
		NewDateTimePage(newFakeLocale()),
		NewNetworkPage(&fakeNetwork{}),
		NewBluetoothPage(&fakeBluetooth{}),
		NewAppearancePage(&fakeAppearance{}),
	}
	for _, p := range pages {
		if p.View(80) == "" {
			t.Errorf("page %s rendered empty before load", p.ID())
		}
	}
}
