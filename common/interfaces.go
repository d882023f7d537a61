// Package common provides shared constants, types, and utilities
// used across the System Settings application.
package common

import (
	"strings"
	"time"
)

// User represents one entry of the system user database.
type User struct {
	// UID is the numeric user identifier.
	UID uint32 `yaml:"uid"`
	// GID is the numeric identifier of the primary group.
	GID uint32 `yaml:"gid"`
	// Username is the unique, nonempty login name.
	Username string `yaml:"username"`
	// FullName is the formatted display name (GECOS field).
	FullName string `yaml:"full_name,omitempty"`
	// Home is the home directory path.
	Home string `yaml:"home,omitempty"`
	// Shell is the login shell.
	Shell string `yaml:"shell,omitempty"`
	// Groups lists the names of the groups this user belongs to,
	// primary group included. Every named group exists in the group
	// table of the same snapshot.
	Groups []string `yaml:"groups,omitempty"`
	// System marks daemon accounts outside the human UID range.
	System bool `yaml:"system,omitempty"`
}

// DisplayName returns the full name when set, the login name otherwise.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// InGroup reports whether the user belongs to the named group.
func (u User) InGroup(name string) bool {
	return StringInSlice(name, u.Groups)
}

// Group represents one entry of the system group database.
type Group struct {
	// GID is the numeric group identifier.
	GID uint32 `yaml:"gid"`
	// Name is the canonical group name.
	Name string `yaml:"name"`
	// Members lists login names of the group's members. Within a
	// snapshot every member is a known username.
	Members []string `yaml:"members,omitempty"`
}

// SoundProfile is one operating mode of a sound card.
type SoundProfile struct {
	// Key is the backend's opaque profile identifier. It must be
	// passed back verbatim when activating the profile.
	Key string
	// Description is the human-readable profile name. May be empty
	// when the backend supplies none.
	Description string
}

// SoundCard is an audio card with its selectable profiles.
type SoundCard struct {
	Index uint32
	Name  string
	// Profiles is ordered as reported by the backend.
	Profiles []SoundProfile
	// ActiveProfile is the key of the single active profile.
	ActiveProfile string
}

// DeviceKind distinguishes playback sinks from capture sources.
type DeviceKind int

const (
	DeviceSink DeviceKind = iota
	DeviceSource
)

// String returns the backend noun for the device kind.
func (k DeviceKind) String() string {
	switch k {
	case DeviceSink:
		return "sink"
	case DeviceSource:
		return "source"
	default:
		return "unknown"
	}
}

// SoundDevice is a sink or source with its level and mute state.
type SoundDevice struct {
	Kind        DeviceKind
	Index       uint32
	Name        string
	Description string
	// Volume is normalized to [0, 100].
	Volume int
	Muted  bool
	// CardIndex references the owning card, -1 when unknown.
	CardIndex int
}

// Language is a locale identified by a POSIX key of the form
// lang_REGION[.encoding].
type Language struct {
	Key    string
	Lang   string
	Region string
}

// Display renders the language for pick lists: "lang — region".
func (l Language) Display() string {
	if l.Region == "" {
		return l.Lang
	}
	return l.Lang + " — " + l.Region
}

// LangCode returns the portion of the key before the first dot,
// e.g. "en_US" for "en_US.UTF-8".
func (l Language) LangCode() string {
	if i := strings.IndexByte(l.Key, '.'); i >= 0 {
		return l.Key[:i]
	}
	return l.Key
}

// LocaleOption is a key/value pair: compared by key, displayed by value.
type LocaleOption struct {
	Key   string
	Value string
}

// DateTimeStatus is a snapshot of the system clock configuration.
type DateTimeStatus struct {
	Timezone  string
	NTP       bool
	LocalTime time.Time
}

// NetworkConnection is a known wired or wireless connection.
type NetworkConnection struct {
	ID     string
	Name   string
	Type   string
	Active bool
}

// BluetoothDevice is a device known to the bluetooth adapter.
type BluetoothDevice struct {
	Address   string
	Name      string
	Paired    bool
	Connected bool
}

// IconTheme is an installed icon theme.
type IconTheme struct {
	Name string
	Path string
}

// AccountService is the façade over the system user/group database.
// Implementations are stateless and re-entrant; every call reflects
// the database at call time.
type AccountService interface {
	// ListUsers enumerates users with their group memberships.
	ListUsers() ([]User, error)
	// ListGroups enumerates groups with their member sets.
	ListGroups() ([]Group, error)
	// CreateUser creates a login with an optional initial password.
	// When admin is true the user is added to the administrator group.
	CreateUser(login, fullName, password string, admin bool) (User, error)
	// DeleteUser removes the user and its home directory.
	DeleteUser(uid uint32) error
	// SetUserGroups replaces the user's supplementary groups with the
	// given set. The primary group is never touched.
	SetUserGroups(uid uint32, groups []string) error
	// ChangePassword sets a new password. The old password is ignored
	// when invoked with administrator authority.
	ChangePassword(uid uint32, oldPassword, newPassword string) error
	// CreateGroup creates an empty group.
	CreateGroup(name string) (Group, error)
	// DeleteGroup removes the group.
	DeleteGroup(gid uint32) error
	// SetGroupMembers replaces the group's member set.
	SetGroupMembers(gid uint32, members []string) error
}

// SoundService is the façade over the audio server.
type SoundService interface {
	// ListCards enumerates sound cards with profiles and the active
	// profile key.
	ListCards() ([]SoundCard, error)
	// SetActiveProfile activates a profile by its verbatim key.
	SetActiveProfile(cardIndex uint32, profileKey string) error
	// ListSinks enumerates playback devices.
	ListSinks() ([]SoundDevice, error)
	// ListSources enumerates capture devices.
	ListSources() ([]SoundDevice, error)
	// SetVolume sets a device level; values outside [0, 100] clamp.
	SetVolume(kind DeviceKind, index uint32, level int) error
	// SetMuted mutes or unmutes a device.
	SetMuted(kind DeviceKind, index uint32, muted bool) error
}

// LocaleService is the façade over the OS locale catalogue and the
// system clock configuration.
type LocaleService interface {
	// AvailableLanguages enumerates installed lang_REGION locales.
	AvailableLanguages() ([]Language, error)
	// Timezones enumerates IANA timezone names.
	Timezones() ([]string, error)
	// Status reports the current clock configuration.
	Status() (DateTimeStatus, error)
	// SetSystemLocale applies LANG and the LC_* categories.
	SetSystemLocale(lang string, categories map[string]string) error
	// SetTimezone applies an IANA timezone.
	SetTimezone(zone string) error
	// SetNTP enables or disables network time synchronisation.
	SetNTP(enabled bool) error
	// SetTime sets the clock manually; implies disabling NTP.
	SetTime(t time.Time) error
}

// NetworkService is the façade over the network management daemon.
type NetworkService interface {
	// ListConnections enumerates known connections.
	ListConnections() ([]NetworkConnection, error)
	// WirelessEnabled reports the Wi-Fi radio switch.
	WirelessEnabled() (bool, error)
	// SetWirelessEnabled flips the Wi-Fi radio switch.
	SetWirelessEnabled(enabled bool) error
}

// BluetoothService is the façade over the bluetooth daemon.
type BluetoothService interface {
	// ListDevices enumerates known devices.
	ListDevices() ([]BluetoothDevice, error)
	// Powered reports the adapter power switch.
	Powered() (bool, error)
	// SetPowered flips the adapter power switch.
	SetPowered(enabled bool) error
}

// AppearanceService is the façade over desktop appearance settings.
type AppearanceService interface {
	// ListIconThemes enumerates installed icon themes.
	ListIconThemes() ([]IconTheme, error)
	// CurrentIconTheme returns the active icon theme name.
	CurrentIconTheme() (string, error)
	// SetIconTheme activates an icon theme by name.
	SetIconTheme(name string) error
}

// Logger defines the interface for structured logging.
type Logger interface {
	// Debug logs a debug message.
	Debug(msg string, args ...interface{})
	// Info logs an informational message.
	Info(msg string, args ...interface{})
	// Warn logs a warning message.
	Warn(msg string, args ...interface{})
	// Error logs an error message.
	Error(msg string, args ...interface{})
}
