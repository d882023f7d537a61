// Package system provides the domain adapters over OS facilities for
// System Settings.
//
// This package implements the query/command façades the pages call into:
//
//   - AccountsService: the POSIX user/group database via getent and the
//     shadow-utils commands (useradd, usermod, gpasswd, chpasswd, ...)
//   - SoundService: the PulseAudio server via pactl
//   - LocaleService: the OS locale catalogue, timezone database and the
//     system clock via locale, localectl and timedatectl
//   - NetworkService: NetworkManager over the system D-Bus
//   - BluetoothService: BlueZ over the system D-Bus
//   - AppearanceService: installed icon themes and gsettings
//
// # Architecture
//
// Every adapter is a stateless, re-entrant façade: queries re-read OS
// state on each call and commands apply immediately. Mutating commands
// run through a Runner, which prefixes pkexec so that polkit prompts
// for elevation on the first privileged command of a session.
//
// Failures are classified into the sentinel taxonomy of the common
// package (ErrNotFound, ErrPermissionDenied, ErrConflict,
// ErrInvalidInput, ErrBackend) so that pages never branch on raw
// exec or D-Bus errors.
//
// # External Mutation
//
// The databases behind these adapters are shared with other processes.
// Mutating operations therefore refetch their prerequisite entity
// before committing and report ErrConflict or ErrNotFound when it
// changed or vanished underneath the caller's snapshot.
package system
