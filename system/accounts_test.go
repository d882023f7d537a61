package system

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/yllada/system-settings/common"
)

const samplePasswd = `root:x:0:0:root:/root:/bin/bash
daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin
alice:x:1000:1000:Alice Liddell,Room 101:/home/alice:/bin/bash
bob:x:1001:1001:Bob Martin:/home/bob:/bin/zsh
broken line without colons
`

const sampleGroup = `root:x:0:
daemon:x:1:
wheel:x:998:alice
alice:x:1000:
bob:x:1001:
developers:x:1002:alice,bob
audio:x:63:alice,ghost
`

// fakeRunner is an in-memory Runner with a tiny passwd/group database.
// Elevated commands are recorded and, where the tests need round trips,
// applied to the database.
type fakeRunner struct {
	passwd string
	group  string

	calls []string
	fail  map[string]error // command prefix -> injected error
	stdin []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		passwd: samplePasswd,
		group:  sampleGroup,
		fail:   make(map[string]error),
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	switch call {
	case "getent passwd":
		return f.passwd, nil
	case "getent group":
		return f.group, nil
	}
	return "", fmt.Errorf("unexpected query %q", call)
}

func (f *fakeRunner) RunElevated(_ context.Context, name string, args ...string) (string, error) {
	call := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, call)
	for prefix, err := range f.fail {
		if strings.HasPrefix(call, prefix) {
			return "", err
		}
	}
	f.apply(name, args)
	return "", nil
}

func (f *fakeRunner) RunElevatedInput(ctx context.Context, stdin, name string, args ...string) (string, error) {
	f.stdin = append(f.stdin, stdin)
	return f.RunElevated(ctx, name, args...)
}

// apply mirrors the handful of shadow-utils commands the tests commit.
func (f *fakeRunner) apply(name string, args []string) {
	switch {
	case name == "groupadd" && len(args) == 1:
		f.group += fmt.Sprintf("%s:x:%d:\n", args[0], 2000+strings.Count(f.group, "\n"))
	case name == "usermod" && len(args) == 3 && args[0] == "-aG":
		f.group = editGroupLine(f.group, args[1], func(members []string) []string {
			return append(members, args[2])
		})
	case name == "gpasswd" && len(args) == 3 && args[0] == "-d":
		f.group = editGroupLine(f.group, args[2], func(members []string) []string {
			return common.RemoveFromSlice(members, args[1])
		})
	case name == "gpasswd" && len(args) == 3 && args[0] == "-M":
		f.group = editGroupLine(f.group, args[2], func([]string) []string {
			if args[1] == "" {
				return nil
			}
			return strings.Split(args[1], ",")
		})
	}
}

func editGroupLine(db, group string, edit func([]string) []string) string {
	lines := strings.Split(db, "\n")
	for i, line := range lines {
		fields := strings.Split(line, ":")
		if len(fields) < 4 || fields[0] != group {
			continue
		}
		var members []string
		if fields[3] != "" {
			members = strings.Split(fields[3], ",")
		}
		fields[3] = strings.Join(edit(members), ",")
		lines[i] = strings.Join(fields, ":")
	}
	return strings.Join(lines, "\n")
}

func TestParsePasswd(t *testing.T) {
	users := parsePasswd(samplePasswd)

	if len(users) != 4 {
		t.Fatalf("parsed %d users, want 4 (malformed line skipped)", len(users))
	}

	alice := users[2]
	if alice.Username != "alice" || alice.UID != 1000 || alice.GID != 1000 {
		t.Errorf("unexpected alice record: %+v", alice)
	}
	if alice.FullName != "Alice Liddell" {
		t.Errorf("GECOS subfields should be trimmed, got %q", alice.FullName)
	}
	if alice.System {
		t.Error("uid 1000 should not be a system account")
	}
	if !users[1].System {
		t.Error("daemon should be a system account")
	}
	if users[0].System {
		t.Error("root is not treated as a system account")
	}
}

func TestParseGroups(t *testing.T) {
	groups := parseGroups(sampleGroup)

	if len(groups) != 7 {
		t.Fatalf("parsed %d groups, want 7", len(groups))
	}

	devs := groups[5]
	if devs.Name != "developers" || devs.GID != 1002 {
		t.Errorf("unexpected developers record: %+v", devs)
	}
	if !reflect.DeepEqual(devs.Members, []string{"alice", "bob"}) {
		t.Errorf("developers members = %v", devs.Members)
	}
	if len(groups[0].Members) != 0 {
		t.Errorf("root group should have no listed members, got %v", groups[0].Members)
	}
}

func TestListUsers_Memberships(t *testing.T) {
	svc := NewAccountsService(newFakeRunner())

	users, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}

	var alice common.User
	for _, u := range users {
		if u.Username == "alice" {
			alice = u
		}
	}
	want := []string{"alice", "audio", "developers", "wheel"}
	if !reflect.DeepEqual(alice.Groups, want) {
		t.Errorf("alice.Groups = %v, want %v", alice.Groups, want)
	}
}

func TestListGroups_MembersClosedUnderUsers(t *testing.T) {
	svc := NewAccountsService(newFakeRunner())

	groups, err := svc.ListGroups()
	if err != nil {
		t.Fatalf("ListGroups() error = %v", err)
	}

	for _, g := range groups {
		if g.Name == "audio" {
			if !reflect.DeepEqual(g.Members, []string{"alice"}) {
				t.Errorf("audio members = %v, want unknown user ghost dropped", g.Members)
			}
		}
	}
}

func TestPlanGroupChanges(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		desired []string
		primary string
		add     []string
		remove  []string
	}{
		{
			name:    "disjoint",
			current: []string{"alice", "audio"},
			desired: []string{"developers", "video"},
			primary: "alice",
			add:     []string{"developers", "video"},
			remove:  []string{"audio"},
		},
		{
			name:    "no change",
			current: []string{"alice", "wheel"},
			desired: []string{"wheel"},
			primary: "alice",
		},
		{
			name:    "primary never removed",
			current: []string{"alice"},
			desired: nil,
			primary: "alice",
		},
		{
			name:    "primary never added",
			current: nil,
			desired: []string{"alice"},
			primary: "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			add, remove := planGroupChanges(tt.current, tt.desired, tt.primary)
			if !reflect.DeepEqual(add, tt.add) {
				t.Errorf("add = %v, want %v", add, tt.add)
			}
			if !reflect.DeepEqual(remove, tt.remove) {
				t.Errorf("remove = %v, want %v", remove, tt.remove)
			}
		})
	}
}

func TestSetUserGroups_RoundTrip(t *testing.T) {
	run := newFakeRunner()
	svc := NewAccountsService(run)

	// bob: currently only developers (plus primary). Move him to wheel.
	if err := svc.SetUserGroups(1001, []string{"wheel"}); err != nil {
		t.Fatalf("SetUserGroups() error = %v", err)
	}

	wantCalls := []string{
		"usermod -aG wheel bob",
		"gpasswd -d bob developers",
	}
	if !reflect.DeepEqual(run.calls, wantCalls) {
		t.Errorf("calls = %v, want %v (additions before removals)", run.calls, wantCalls)
	}

	users, err := svc.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	for _, u := range users {
		if u.Username != "bob" {
			continue
		}
		want := []string{"bob", "wheel"}
		if !reflect.DeepEqual(u.Groups, want) {
			t.Errorf("bob.Groups = %v, want %v", u.Groups, want)
		}
	}
}

func TestSetUserGroups_UnknownGroupConflicts(t *testing.T) {
	svc := NewAccountsService(newFakeRunner())

	err := svc.SetUserGroups(1000, []string{"vanished"})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("SetUserGroups() error = %v, want ErrConflict", err)
	}
}

func TestSetUserGroups_UnknownUser(t *testing.T) {
	svc := NewAccountsService(newFakeRunner())

	err := svc.SetUserGroups(4242, []string{"wheel"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("SetUserGroups() error = %v, want ErrNotFound", err)
	}
}

func TestCreateUser_InvalidLogin(t *testing.T) {
	run := newFakeRunner()
	svc := NewAccountsService(run)

	for _, login := range []string{"", "Ada Lovelace", "9lives", "-flag"} {
		_, err := svc.CreateUser(login, "", "", false)
		if !errors.Is(err, common.ErrInvalidInput) {
			t.Errorf("CreateUser(%q) error = %v, want ErrInvalidInput", login, err)
		}
	}
	if len(run.calls) != 0 {
		t.Errorf("invalid input must not reach the backend, ran %v", run.calls)
	}
}

func TestCreateUser_DuplicateIsConflict(t *testing.T) {
	run := newFakeRunner()
	run.fail["useradd"] = &CommandError{Name: "useradd", Status: 9, Output: "useradd: user 'alice' already exists"}
	svc := NewAccountsService(run)

	_, err := svc.CreateUser("alice", "", "", false)
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("CreateUser() error = %v, want ErrConflict", err)
	}
}

func TestCreateUser_DismissedPromptIsPermissionDenied(t *testing.T) {
	run := newFakeRunner()
	run.fail["useradd"] = &CommandError{Name: "useradd", Status: pkexecDismissed}
	svc := NewAccountsService(run)

	_, err := svc.CreateUser("carol", "", "", false)
	if !errors.Is(err, common.ErrPermissionDenied) {
		t.Errorf("CreateUser() error = %v, want ErrPermissionDenied", err)
	}
}

func TestChangePassword(t *testing.T) {
	run := newFakeRunner()
	svc := NewAccountsService(run)

	if err := svc.ChangePassword(1000, "old", "new1"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	if len(run.stdin) != 1 || run.stdin[0] != "alice:new1\n" {
		t.Errorf("chpasswd stdin = %v, want [alice:new1\\n]", run.stdin)
	}
	if len(run.calls) != 1 || run.calls[0] != "chpasswd" {
		t.Errorf("calls = %v, want a single chpasswd", run.calls)
	}
}

func TestChangePassword_EmptyRejected(t *testing.T) {
	svc := NewAccountsService(newFakeRunner())

	if err := svc.ChangePassword(1000, "old", ""); !errors.Is(err, common.ErrInvalidInput) {
		t.Errorf("ChangePassword() error = %v, want ErrInvalidInput", err)
	}
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc := NewAccountsService(newFakeRunner())

	if err := svc.DeleteUser(4242); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("DeleteUser() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteGroup_PrimaryIsConflict(t *testing.T) {
	run := newFakeRunner()
	run.fail["groupdel"] = &CommandError{Name: "groupdel", Status: 8}
	svc := NewAccountsService(run)

	if err := svc.DeleteGroup(1000); !errors.Is(err, common.ErrConflict) {
		t.Errorf("DeleteGroup() error = %v, want ErrConflict", err)
	}
}

func TestSetGroupMembers_RoundTrip(t *testing.T) {
	run := newFakeRunner()
	svc := NewAccountsService(run)

	if err := svc.SetGroupMembers(1002, []string{"bob"}); err != nil {
		t.Fatalf("SetGroupMembers() error = %v", err)
	}

	groups, err := svc.ListGroups()
	if err != nil {
		t.Fatalf("ListGroups() error = %v", err)
	}
	for _, g := range groups {
		if g.Name == "developers" && !reflect.DeepEqual(g.Members, []string{"bob"}) {
			t.Errorf("developers members = %v, want [bob]", g.Members)
		}
	}
}

func TestSetGroupMembers_UnknownUserConflicts(t *testing.T) {
	svc := NewAccountsService(newFakeRunner())

	err := svc.SetGroupMembers(1002, []string{"ghost"})
	if !errors.Is(err, common.ErrConflict) {
		t.Errorf("SetGroupMembers() error = %v, want ErrConflict", err)
	}
}

func TestClassifyExec(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		output   string
		sentinel error
	}{
		{"nil", nil, "", nil},
		{"not authorized status", &CommandError{Status: pkexecNotAuthorized}, "", common.ErrPermissionDenied},
		{"denied in output", &CommandError{Status: 1}, "usermod: Permission denied.", common.ErrPermissionDenied},
		{"generic failure", &CommandError{Status: 1}, "something broke", common.ErrBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyExec(tt.err, tt.output)
			if tt.sentinel == nil {
				if got != nil {
					t.Errorf("classifyExec() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.sentinel) {
				t.Errorf("classifyExec() = %v, want %v", got, tt.sentinel)
			}
		})
	}
}
