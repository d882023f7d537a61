package system

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yllada/system-settings/common"
)

const sampleLocaleList = `C
C.utf8
POSIX
en_US.UTF-8
fr_FR.UTF-8
km_KH.UTF-8
de_DE@euro
en_US.utf8
`

const sampleTimedatectlShow = `Timezone=Europe/Berlin
LocalRTC=no
CanNTP=yes
NTP=yes
NTPSynchronized=yes
TimeUSec=Thu 2026-08-28 10:15:30 CEST
RTCTimeUSec=Thu 2026-08-28 08:15:30 UTC
`

// localeRunner serves canned output per command name and records
// elevated invocations.
type localeRunner struct {
	outputs  map[string]string
	failures map[string]error
	calls    []string
}

func (r *localeRunner) lookup(name string, args []string) (string, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	if err, ok := r.failures[key]; ok {
		return "", err
	}
	if out, ok := r.outputs[key]; ok {
		return out, nil
	}
	if err, ok := r.failures[name]; ok {
		return "", err
	}
	return r.outputs[name], nil
}

func (r *localeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, strings.Join(append([]string{name}, args...), " "))
	return r.lookup(name, args)
}

func (r *localeRunner) RunElevated(_ context.Context, name string, args ...string) (string, error) {
	r.calls = append(r.calls, strings.Join(append([]string{"pkexec", name}, args...), " "))
	return r.lookup(name, args)
}

func (r *localeRunner) RunElevatedInput(_ context.Context, _ string, name string, args ...string) (string, error) {
	r.calls = append(r.calls, strings.Join(append([]string{"pkexec", name}, args...), " "))
	return r.lookup(name, args)
}

func TestParseLocaleKey(t *testing.T) {
	tests := []struct {
		key    string
		ok     bool
		lang   string
		region string
	}{
		{"en_US.UTF-8", true, "English", "United States"},
		{"km_KH.UTF-8", true, "Khmer", "Cambodia"},
		{"fr_FR.UTF-8", true, "French", "France"},
		{"de_DE@euro", true, "German", "Germany"},
		{"C", false, "", ""},
		{"C.utf8", false, "", ""},
		{"POSIX", false, "", ""},
		{"en", false, "", ""},
		{"", false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			lang, ok := ParseLocaleKey(tt.key)
			if ok != tt.ok {
				t.Fatalf("ParseLocaleKey(%q) ok = %v, want %v", tt.key, ok, tt.ok)
			}
			if !ok {
				return
			}
			if lang.Key != tt.key {
				t.Errorf("key = %q, want %q", lang.Key, tt.key)
			}
			if lang.Lang != tt.lang || lang.Region != tt.region {
				t.Errorf("names = %q/%q, want %q/%q", lang.Lang, lang.Region, tt.lang, tt.region)
			}
		})
	}
}

func TestParseLocaleKeyUnknownCode(t *testing.T) {
	lang, ok := ParseLocaleKey("xx_XX.UTF-8")
	if !ok {
		t.Fatal("expected unknown code to be kept")
	}
	if lang.Lang != "xx" || lang.Region != "XX" {
		t.Errorf("fallback names = %q/%q, want raw code parts", lang.Lang, lang.Region)
	}
}

func TestAvailableLanguages(t *testing.T) {
	run := &localeRunner{outputs: map[string]string{"locale": sampleLocaleList}}
	svc := NewLocaleAdapter(run)

	langs, err := svc.AvailableLanguages()
	if err != nil {
		t.Fatalf("AvailableLanguages: %v", err)
	}

	var got []string
	for _, l := range langs {
		got = append(got, l.Display())
	}
	want := []string{
		"English — United States",
		"French — France",
		"German — Germany",
		"Khmer — Cambodia",
	}
	if len(got) != len(want) {
		t.Fatalf("languages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("languages[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAvailableLanguagesDeduplicatesEncodings(t *testing.T) {
	run := &localeRunner{outputs: map[string]string{"locale": "en_US.UTF-8\nen_US.utf8\n"}}
	svc := NewLocaleAdapter(run)

	langs, err := svc.AvailableLanguages()
	if err != nil {
		t.Fatalf("AvailableLanguages: %v", err)
	}
	if len(langs) != 1 {
		t.Fatalf("got %d languages, want 1 after deduplication", len(langs))
	}
	if langs[0].LangCode() != "en_US" {
		t.Errorf("LangCode = %q, want en_US", langs[0].LangCode())
	}
}

func TestTimezonesFromTimedatectl(t *testing.T) {
	run := &localeRunner{outputs: map[string]string{
		"timedatectl list-timezones": "Africa/Abidjan\nEurope/Berlin\nUTC\n",
	}}
	svc := NewLocaleAdapter(run)

	zones, err := svc.Timezones()
	if err != nil {
		t.Fatalf("Timezones: %v", err)
	}
	want := []string{"Africa/Abidjan", "Europe/Berlin", "UTC"}
	if len(zones) != len(want) {
		t.Fatalf("zones = %v, want %v", zones, want)
	}
	for i := range want {
		if zones[i] != want[i] {
			t.Errorf("zones[%d] = %q, want %q", i, zones[i], want[i])
		}
	}
}

func TestStatus(t *testing.T) {
	run := &localeRunner{outputs: map[string]string{"timedatectl": sampleTimedatectlShow}}
	svc := NewLocaleAdapter(run)

	status, err := svc.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Timezone != "Europe/Berlin" {
		t.Errorf("timezone = %q, want Europe/Berlin", status.Timezone)
	}
	if !status.NTP {
		t.Error("expected NTP enabled")
	}
	if status.LocalTime.Year() != 2026 || status.LocalTime.Hour() != 10 {
		t.Errorf("local time = %v, want parsed TimeUSec", status.LocalTime)
	}
}

func TestSetSystemLocale(t *testing.T) {
	run := &localeRunner{outputs: map[string]string{}}
	svc := NewLocaleAdapter(run)

	err := svc.SetSystemLocale("km_KH.UTF-8", map[string]string{
		"LC_TIME":    "km_KH.UTF-8",
		"LC_NUMERIC": "km_KH.UTF-8",
	})
	if err != nil {
		t.Fatalf("SetSystemLocale: %v", err)
	}

	want := "pkexec localectl set-locale LANG=km_KH.UTF-8 LC_NUMERIC=km_KH.UTF-8 LC_TIME=km_KH.UTF-8"
	if len(run.calls) != 1 || run.calls[0] != want {
		t.Errorf("calls = %v, want [%s]", run.calls, want)
	}
}

func TestSetSystemLocaleEmpty(t *testing.T) {
	svc := NewLocaleAdapter(&localeRunner{})
	if err := svc.SetSystemLocale("", nil); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestSetTimezoneDismissedPrompt(t *testing.T) {
	run := &localeRunner{failures: map[string]error{
		"timedatectl": &CommandError{Name: "timedatectl", Status: pkexecDismissed},
	}}
	svc := NewLocaleAdapter(run)

	if err := svc.SetTimezone("Asia/Phnom_Penh"); !errors.Is(err, common.ErrPermissionDenied) {
		t.Errorf("error = %v, want ErrPermissionDenied", err)
	}
}

func TestSetNTP(t *testing.T) {
	run := &localeRunner{outputs: map[string]string{}}
	svc := NewLocaleAdapter(run)

	if err := svc.SetNTP(true); err != nil {
		t.Fatalf("SetNTP: %v", err)
	}
	want := "pkexec timedatectl set-ntp true"
	if len(run.calls) != 1 || run.calls[0] != want {
		t.Errorf("calls = %v, want [%s]", run.calls, want)
	}
}

func TestParseTimedatectlShowDefaults(t *testing.T) {
	status := parseTimedatectlShow("NTP=no\n")
	if status.NTP {
		t.Error("expected NTP disabled")
	}
	if status.LocalTime.IsZero() {
		t.Error("expected fallback local time")
	}
}
