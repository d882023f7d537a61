// Package system provides domain adapters over OS facilities.
// This file contains the locale catalogue and system clock façade,
// backed by locale, localectl and timedatectl.
package system

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/yllada/system-settings/common"
)

// zoneinfoDir is the IANA timezone database location used when
// timedatectl is unavailable.
const zoneinfoDir = "/usr/share/zoneinfo"

// timedatectl's TimeUSec property format.
const timeUSecLayout = "Mon 2006-01-02 15:04:05 MST"

// LocaleAdapter enumerates installed locales and controls the system
// clock configuration.
type LocaleAdapter struct {
	run Runner
	log common.Logger
}

// NewLocaleAdapter creates a locale adapter using the given runner.
func NewLocaleAdapter(run Runner) *LocaleAdapter {
	return &LocaleAdapter{
		run: run,
		log: common.GetLogger(),
	}
}

// AvailableLanguages enumerates installed lang_REGION locales with
// English display names. The C and POSIX pseudo-locales and bare
// language keys are excluded.
func (s *LocaleAdapter) AvailableLanguages() ([]common.Language, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "locale", "-a")
	if err != nil {
		return nil, classifyExec(err, out)
	}

	var langs []common.Language
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		key := strings.TrimSpace(line)
		lang, ok := ParseLocaleKey(key)
		if !ok || seen[lang.LangCode()] {
			continue
		}
		seen[lang.LangCode()] = true
		langs = append(langs, lang)
	}

	sort.Slice(langs, func(i, j int) bool { return langs[i].Display() < langs[j].Display() })
	return langs, nil
}

// Timezones enumerates IANA timezone names, preferring timedatectl and
// falling back to a zoneinfo walk.
func (s *LocaleAdapter) Timezones() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "timedatectl", "list-timezones")
	if err == nil {
		var zones []string
		for _, line := range strings.Split(out, "\n") {
			if zone := strings.TrimSpace(line); zone != "" {
				zones = append(zones, zone)
			}
		}
		if len(zones) > 0 {
			return zones, nil
		}
	}

	zones := walkZoneinfo(zoneinfoDir)
	if len(zones) == 0 {
		return nil, common.WrapError(common.ErrBackend, "no timezone database found")
	}
	return zones, nil
}

// Status reports the current clock configuration.
func (s *LocaleAdapter) Status() (common.DateTimeStatus, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "timedatectl", "show")
	if err != nil {
		return common.DateTimeStatus{}, classifyExec(err, out)
	}
	return parseTimedatectlShow(out), nil
}

// SetSystemLocale applies LANG and the LC_* categories through
// localectl.
func (s *LocaleAdapter) SetSystemLocale(lang string, categories map[string]string) error {
	if lang == "" {
		return common.WrapError(common.ErrInvalidInput, "empty locale")
	}

	args := []string{"set-locale", "LANG=" + lang}
	keys := make([]string, 0, len(categories))
	for k := range categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k+"="+categories[k])
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "localectl", args...)
	if err != nil {
		return classifyExec(err, out)
	}
	s.log.Info("System locale set to %s", lang)
	return nil
}

// SetTimezone applies an IANA timezone.
func (s *LocaleAdapter) SetTimezone(zone string) error {
	if zone == "" {
		return common.WrapError(common.ErrInvalidInput, "empty timezone")
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "timedatectl", "set-timezone", zone)
	if err != nil {
		return classifyExec(err, out)
	}
	s.log.Info("Timezone set to %s", zone)
	return nil
}

// SetNTP enables or disables network time synchronisation.
func (s *LocaleAdapter) SetNTP(enabled bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	flag := "false"
	if enabled {
		flag = "true"
	}
	out, err := s.run.RunElevated(ctx, "timedatectl", "set-ntp", flag)
	if err != nil {
		return classifyExec(err, out)
	}
	return nil
}

// SetTime sets the clock manually. timedatectl refuses manual time
// while NTP is active, so synchronisation is switched off first.
func (s *LocaleAdapter) SetTime(t time.Time) error {
	if err := s.SetNTP(false); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "timedatectl", "set-time", t.Format("2006-01-02 15:04:05"))
	if err != nil {
		return classifyExec(err, out)
	}
	s.log.Info("Clock set to %s", t.Format(time.RFC3339))
	return nil
}

// ParseLocaleKey turns a POSIX locale key of the form
// lang_REGION[.encoding] into a Language with English display names.
// Pseudo-locales and keys without a region are rejected.
func ParseLocaleKey(key string) (common.Language, bool) {
	if key == "" || key == "C" || key == "POSIX" || strings.HasPrefix(key, "C.") {
		return common.Language{}, false
	}

	code := key
	if i := strings.IndexByte(code, '.'); i >= 0 {
		code = code[:i]
	}
	// Modifier suffixes such as @euro are not selectable here.
	if i := strings.IndexByte(code, '@'); i >= 0 {
		code = code[:i]
	}

	parts := strings.SplitN(code, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return common.Language{}, false
	}

	lang := common.Language{Key: key, Lang: parts[0], Region: parts[1]}

	tag, err := language.Parse(parts[0] + "-" + parts[1])
	if err != nil {
		return lang, true
	}
	if base, conf := tag.Base(); conf != language.No {
		if name := display.English.Languages().Name(base); name != "" {
			lang.Lang = name
		}
	}
	if region, conf := tag.Region(); conf != language.No {
		if name := display.English.Regions().Name(region); name != "" {
			lang.Region = name
		}
	}
	return lang, true
}

// parseTimedatectlShow parses `timedatectl show` key=value output.
func parseTimedatectlShow(out string) common.DateTimeStatus {
	status := common.DateTimeStatus{LocalTime: time.Now()}
	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok {
			continue
		}
		switch key {
		case "Timezone":
			status.Timezone = value
		case "NTP":
			status.NTP = value == "yes"
		case "TimeUSec":
			if t, err := time.Parse(timeUSecLayout, value); err == nil {
				status.LocalTime = t
			}
		}
	}
	return status
}

// walkZoneinfo collects Area/Location zone names from the timezone
// database, skipping the posix/right duplicates and non-zone files.
func walkZoneinfo(root string) []string {
	var zones []string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
		if first == "posix" || first == "right" || first == "" {
			if info.IsDir() && first != "" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		// Zone names start with an uppercase area ("Europe/Berlin").
		if rel[0] < 'A' || rel[0] > 'Z' {
			return nil
		}
		zones = append(zones, filepath.ToSlash(rel))
		return nil
	})
	sort.Strings(zones)
	return zones
}
