// Package system provides domain adapters over OS facilities.
// This file contains the PulseAudio façade. All control goes through
// pactl; card profile keys are opaque and passed back verbatim.
package system

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yllada/system-settings/common"
)

// PulseService controls the PulseAudio server through pactl.
type PulseService struct {
	run Runner
	log common.Logger
}

// NewPulseService creates a sound adapter using the given runner.
func NewPulseService(run Runner) *PulseService {
	return &PulseService{
		run: run,
		log: common.GetLogger(),
	}
}

// ListCards enumerates sound cards with their profiles and the active
// profile key.
func (s *PulseService) ListCards() ([]common.SoundCard, error) {
	out, err := s.query("cards")
	if err != nil {
		return nil, err
	}
	return parseCards(out), nil
}

// SetActiveProfile activates a card profile. The key must be one
// obtained from ListCards, unmodified.
func (s *PulseService) SetActiveProfile(cardIndex uint32, profileKey string) error {
	if profileKey == "" {
		return common.WrapError(common.ErrInvalidInput, "empty profile key")
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "pactl", "set-card-profile", strconv.FormatUint(uint64(cardIndex), 10), profileKey)
	if err != nil {
		return classifyPactl(err, out)
	}
	s.log.Info("Card %d profile set to %s", cardIndex, profileKey)
	return nil
}

// ListSinks enumerates playback devices.
func (s *PulseService) ListSinks() ([]common.SoundDevice, error) {
	out, err := s.query("sinks")
	if err != nil {
		return nil, err
	}
	return parseDevices(out, common.DeviceSink), nil
}

// ListSources enumerates capture devices.
func (s *PulseService) ListSources() ([]common.SoundDevice, error) {
	out, err := s.query("sources")
	if err != nil {
		return nil, err
	}
	return parseDevices(out, common.DeviceSource), nil
}

// SetVolume sets a device level. Values outside [0, 100] are clamped.
func (s *PulseService) SetVolume(kind common.DeviceKind, index uint32, level int) error {
	level = common.ClampVolume(level)

	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	verb := "set-" + kind.String() + "-volume"
	out, err := s.run.Run(ctx, "pactl", verb, strconv.FormatUint(uint64(index), 10), fmt.Sprintf("%d%%", level))
	if err != nil {
		return classifyPactl(err, out)
	}
	return nil
}

// SetMuted mutes or unmutes a device.
func (s *PulseService) SetMuted(kind common.DeviceKind, index uint32, muted bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	flag := "0"
	if muted {
		flag = "1"
	}
	verb := "set-" + kind.String() + "-mute"
	out, err := s.run.Run(ctx, "pactl", verb, strconv.FormatUint(uint64(index), 10), flag)
	if err != nil {
		return classifyPactl(err, out)
	}
	return nil
}

func (s *PulseService) query(noun string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "pactl", "list", noun)
	if err != nil {
		return "", classifyPactl(err, out)
	}
	return out, nil
}

// classifyPactl maps pactl failures. "No such entity" means the device
// or card vanished between the snapshot and the command.
func classifyPactl(err error, output string) error {
	if err == nil {
		return nil
	}
	lower := strings.ToLower(output)
	switch {
	case strings.Contains(lower, "no such entity"),
		strings.Contains(lower, "no such device"):
		return common.WrapError(common.ErrNotFound, strings.TrimSpace(output))
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "connection failure"):
		return common.WrapError(common.ErrBackend, "audio server unreachable")
	}
	return classifyExec(err, output)
}

// parseCards parses `pactl list cards` block output:
//
//	Card #0
//		Name: alsa_card.pci-0000_00_1f.3
//		Profiles:
//			output:analog-stereo: Analog Stereo Output (sinks: 1, ...)
//		Active Profile: output:analog-stereo
func parseCards(out string) []common.SoundCard {
	var cards []common.SoundCard
	var current *common.SoundCard
	inProfiles := false

	flush := func() {
		if current != nil {
			cards = append(cards, *current)
			current = nil
		}
	}

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)

		if idx, ok := parseBlockHeader(raw, "Card #"); ok {
			flush()
			current = &common.SoundCard{Index: idx}
			inProfiles = false
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Name:"):
			current.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			inProfiles = false
		case line == "Profiles:":
			inProfiles = true
		case strings.HasPrefix(line, "Active Profile:"):
			current.ActiveProfile = strings.TrimSpace(strings.TrimPrefix(line, "Active Profile:"))
			inProfiles = false
		case strings.HasPrefix(line, "Ports:"), strings.HasPrefix(line, "Properties:"):
			inProfiles = false
		case inProfiles:
			if p, ok := parseProfileLine(line); ok {
				current.Profiles = append(current.Profiles, p)
			}
		}
	}
	flush()
	return cards
}

// parseProfileLine splits "key: Description (sinks: 1, ...)" keeping
// the key verbatim. The description falls back to empty when the
// backend supplies none.
func parseProfileLine(line string) (common.SoundProfile, bool) {
	if line == "" {
		return common.SoundProfile{}, false
	}

	// The profile key may itself contain a colon (e.g.
	// "output:analog-stereo"); the key/description separator is the
	// first ": " sequence.
	sep := strings.Index(line, ": ")
	if sep < 0 {
		key := strings.TrimSuffix(line, ":")
		if key == "" {
			return common.SoundProfile{}, false
		}
		return common.SoundProfile{Key: key}, true
	}

	key := line[:sep]
	desc := strings.TrimSpace(line[sep+2:])
	// Trim the trailing availability annotation.
	if i := strings.LastIndex(desc, " (sinks:"); i >= 0 {
		desc = desc[:i]
	}
	return common.SoundProfile{Key: key, Description: desc}, true
}

// parseDevices parses `pactl list sinks` / `... sources` block output.
func parseDevices(out string, kind common.DeviceKind) []common.SoundDevice {
	noun := kind.String()
	header := strings.ToUpper(noun[:1]) + noun[1:] + " #"
	var devices []common.SoundDevice
	var current *common.SoundDevice

	flush := func() {
		if current != nil {
			devices = append(devices, *current)
			current = nil
		}
	}

	for _, raw := range strings.Split(out, "\n") {
		line := strings.TrimSpace(raw)

		if idx, ok := parseBlockHeader(raw, header); ok {
			flush()
			current = &common.SoundDevice{Kind: kind, Index: idx, CardIndex: -1}
			continue
		}
		if current == nil {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Name:"):
			current.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
		case strings.HasPrefix(line, "Description:"):
			current.Description = strings.TrimSpace(strings.TrimPrefix(line, "Description:"))
		case strings.HasPrefix(line, "Mute:"):
			current.Muted = strings.TrimSpace(strings.TrimPrefix(line, "Mute:")) == "yes"
		case strings.HasPrefix(line, "Volume:"):
			if v, ok := parseVolumePercent(line); ok {
				current.Volume = v
			}
		case strings.HasPrefix(line, "alsa.card = "):
			if n, err := strconv.Atoi(strings.Trim(strings.TrimPrefix(line, "alsa.card = "), `"`)); err == nil {
				current.CardIndex = n
			}
		}
	}
	flush()
	return devices
}

// parseBlockHeader matches top-level "Card #N" style headers. Headers
// start at column zero; indented occurrences are properties.
func parseBlockHeader(raw, prefix string) (uint32, bool) {
	if !strings.HasPrefix(raw, prefix) {
		return 0, false
	}
	n, err := strconv.ParseUint(strings.TrimSpace(strings.TrimPrefix(raw, prefix)), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// parseVolumePercent extracts the first percentage of a Volume line:
//
//	Volume: front-left: 43691 /  67% / -10.57 dB, front-right: ...
func parseVolumePercent(line string) (int, bool) {
	for _, field := range strings.Fields(line) {
		if !strings.HasSuffix(field, "%") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(field, "%"))
		if err != nil {
			continue
		}
		return common.ClampVolume(n), true
	}
	return 0, false
}
