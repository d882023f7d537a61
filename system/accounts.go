// Package system provides domain adapters over OS facilities.
// This file contains the AccountsService which manages the POSIX
// user and group databases through getent and the shadow-utils suite.
package system

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yllada/system-settings/common"
)

// adminGroups are checked in order; the first one present in the group
// database is treated as the administrator group for new users.
var adminGroups = []string{"wheel", "sudo"}

// loginPattern is the portable login name syntax accepted for new
// users and groups.
var loginPattern = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

// systemUIDMax is the last UID reserved for daemon accounts.
const systemUIDMax = 999

// AccountsService manages system users and groups.
// It is a stateless façade: every query re-reads the database and
// every mutation refetches its prerequisite before committing.
type AccountsService struct {
	run Runner
	log common.Logger
}

// NewAccountsService creates an accounts adapter using the given runner.
func NewAccountsService(run Runner) *AccountsService {
	return &AccountsService{
		run: run,
		log: common.GetLogger(),
	}
}

// ListUsers enumerates users with their group memberships resolved
// against the group database, primary group included.
func (s *AccountsService) ListUsers() ([]common.User, error) {
	users, groups, err := s.fetch()
	if err != nil {
		return nil, err
	}
	attachMemberships(users, groups)
	return users, nil
}

// ListGroups enumerates groups. Member sets are restricted to login
// names present in the user database so that a page snapshot is
// internally consistent.
func (s *AccountsService) ListGroups() ([]common.Group, error) {
	users, groups, err := s.fetch()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.Username] = true
	}
	for i := range groups {
		kept := groups[i].Members[:0]
		for _, m := range groups[i].Members {
			if known[m] {
				kept = append(kept, m)
			}
		}
		groups[i].Members = kept
	}
	return groups, nil
}

// IsAdmin reports whether the user belongs to an administrator group.
func (s *AccountsService) IsAdmin(uid uint32) (bool, error) {
	users, err := s.ListUsers()
	if err != nil {
		return false, err
	}
	for _, u := range users {
		if u.UID != uid {
			continue
		}
		for _, g := range adminGroups {
			if common.StringInSlice(g, u.Groups) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, common.WrapError(common.ErrNotFound, fmt.Sprintf("uid %d", uid))
}

// CreateUser creates a login with a home directory and an optional
// initial password. When admin is true the user joins the
// administrator group.
func (s *AccountsService) CreateUser(login, fullName, password string, admin bool) (common.User, error) {
	if !loginPattern.MatchString(login) {
		return common.User{}, common.WrapError(common.ErrInvalidInput, "invalid login name "+strconv.Quote(login))
	}

	args := []string{"-m"}
	if fullName != "" {
		args = append(args, "-c", fullName)
	}
	args = append(args, login)

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "useradd", args...)
	if err != nil {
		return common.User{}, classifyUseradd(err, out)
	}
	s.log.Info("Created user %s", login)

	if password != "" {
		if err := s.applyPassword(ctx, login, password); err != nil {
			return common.User{}, err
		}
	}

	if admin {
		if err := s.addToAdminGroup(ctx, login); err != nil {
			return common.User{}, err
		}
	}

	users, err := s.ListUsers()
	if err != nil {
		return common.User{}, err
	}
	for _, u := range users {
		if u.Username == login {
			return u, nil
		}
	}
	return common.User{}, common.WrapError(common.ErrBackend, "user vanished after creation")
}

// DeleteUser removes the user and its home directory.
func (s *AccountsService) DeleteUser(uid uint32) error {
	user, err := s.userByUID(uid)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "userdel", "-r", user.Username)
	if err != nil {
		// userdel 8: user is logged in; 12: home removal failed but
		// the account itself is gone.
		switch exitStatus(err) {
		case 8:
			return common.WrapError(common.ErrConflict, "user "+user.Username+" is logged in")
		case 12:
			s.log.Warn("Removed user %s but not its home directory", user.Username)
			return nil
		}
		return classifyExec(err, out)
	}
	s.log.Info("Deleted user %s (uid %d)", user.Username, uid)
	return nil
}

// SetUserGroups replaces the user's supplementary group set.
// Additions are applied before removals so the account never passes
// through a state with fewer rights than either endpoint.
func (s *AccountsService) SetUserGroups(uid uint32, groups []string) error {
	users, allGroups, err := s.fetch()
	if err != nil {
		return err
	}
	attachMemberships(users, allGroups)

	var user *common.User
	for i := range users {
		if users[i].UID == uid {
			user = &users[i]
			break
		}
	}
	if user == nil {
		return common.WrapError(common.ErrNotFound, fmt.Sprintf("uid %d", uid))
	}

	known := make(map[string]bool, len(allGroups))
	for _, g := range allGroups {
		known[g.Name] = true
	}
	for _, g := range groups {
		if !known[g] {
			return common.WrapError(common.ErrConflict, "group "+g+" no longer exists")
		}
	}

	primary := primaryGroupName(*user, allGroups)
	add, remove := planGroupChanges(user.Groups, groups, primary)

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	for _, g := range add {
		out, err := s.run.RunElevated(ctx, "usermod", "-aG", g, user.Username)
		if err != nil {
			return classifyExec(err, out)
		}
	}
	for _, g := range remove {
		out, err := s.run.RunElevated(ctx, "gpasswd", "-d", user.Username, g)
		if err != nil {
			return classifyExec(err, out)
		}
	}

	if len(add) > 0 || len(remove) > 0 {
		s.log.Info("Updated groups for %s: +%v -%v", user.Username, add, remove)
	}
	return nil
}

// ChangePassword sets a new password for the user. The old password is
// unused: commits run with administrator authority through pkexec, and
// chpasswd does not verify the previous secret. Pages still collect it
// to guard the submission locally.
func (s *AccountsService) ChangePassword(uid uint32, oldPassword, newPassword string) error {
	_ = oldPassword

	if newPassword == "" {
		return common.WrapError(common.ErrInvalidInput, "empty password")
	}

	user, err := s.userByUID(uid)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	if err := s.applyPassword(ctx, user.Username, newPassword); err != nil {
		return err
	}
	s.log.Info("Changed password for %s", user.Username)
	return nil
}

// CreateGroup creates an empty group.
func (s *AccountsService) CreateGroup(name string) (common.Group, error) {
	if !loginPattern.MatchString(name) {
		return common.Group{}, common.WrapError(common.ErrInvalidInput, "invalid group name "+strconv.Quote(name))
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "groupadd", name)
	if err != nil {
		// groupadd 9: name not unique, 4: gid not unique, 3: invalid
		// argument, 2: bad syntax.
		switch exitStatus(err) {
		case 9, 4:
			return common.Group{}, common.WrapError(common.ErrConflict, "group "+name+" already exists")
		case 2, 3:
			return common.Group{}, common.WrapError(common.ErrInvalidInput, strings.TrimSpace(out))
		}
		return common.Group{}, classifyExec(err, out)
	}
	s.log.Info("Created group %s", name)

	groups, err := s.ListGroups()
	if err != nil {
		return common.Group{}, err
	}
	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
	}
	return common.Group{}, common.WrapError(common.ErrBackend, "group vanished after creation")
}

// DeleteGroup removes the group.
func (s *AccountsService) DeleteGroup(gid uint32) error {
	group, err := s.groupByGID(gid)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "groupdel", group.Name)
	if err != nil {
		// groupdel 8: the group is someone's primary group.
		if exitStatus(err) == 8 {
			return common.WrapError(common.ErrConflict, group.Name+" is a primary group")
		}
		return classifyExec(err, out)
	}
	s.log.Info("Deleted group %s (gid %d)", group.Name, gid)
	return nil
}

// SetGroupMembers replaces the group's member set.
func (s *AccountsService) SetGroupMembers(gid uint32, members []string) error {
	users, groups, err := s.fetch()
	if err != nil {
		return err
	}

	var group *common.Group
	for i := range groups {
		if groups[i].GID == gid {
			group = &groups[i]
			break
		}
	}
	if group == nil {
		return common.WrapError(common.ErrNotFound, fmt.Sprintf("gid %d", gid))
	}

	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.Username] = true
	}
	for _, m := range members {
		if !known[m] {
			return common.WrapError(common.ErrConflict, "user "+m+" no longer exists")
		}
	}

	sorted := append([]string(nil), members...)
	sort.Strings(sorted)

	ctx, cancel := context.WithTimeout(context.Background(), common.ElevatedTimeout)
	defer cancel()

	out, err := s.run.RunElevated(ctx, "gpasswd", "-M", strings.Join(sorted, ","), group.Name)
	if err != nil {
		return classifyExec(err, out)
	}
	s.log.Info("Set members of %s to %v", group.Name, sorted)
	return nil
}

// classifyUseradd maps useradd exit statuses: 9 is "login not unique",
// 4 is "UID already in use", 3 and 2 are invalid arguments.
func classifyUseradd(err error, output string) error {
	switch exitStatus(err) {
	case 9, 4:
		return common.WrapError(common.ErrConflict, strings.TrimSpace(output))
	case 2, 3:
		return common.WrapError(common.ErrInvalidInput, strings.TrimSpace(output))
	}
	return classifyExec(err, output)
}

// applyPassword pipes "login:password" to chpasswd.
func (s *AccountsService) applyPassword(ctx context.Context, login, password string) error {
	stdin := login + ":" + password + "\n"
	out, err := s.run.RunElevatedInput(ctx, stdin, "chpasswd")
	if err != nil {
		return classifyExec(err, out)
	}
	return nil
}

// addToAdminGroup joins the first administrator group that exists.
func (s *AccountsService) addToAdminGroup(ctx context.Context, login string) error {
	groups, err := s.rawGroups()
	if err != nil {
		return err
	}

	for _, candidate := range adminGroups {
		for _, g := range groups {
			if g.Name != candidate {
				continue
			}
			out, err := s.run.RunElevated(ctx, "usermod", "-aG", candidate, login)
			if err != nil {
				return classifyExec(err, out)
			}
			return nil
		}
	}
	return common.WrapError(common.ErrBackend, "no administrator group found")
}

// fetch reads both databases in one logical snapshot.
func (s *AccountsService) fetch() ([]common.User, []common.Group, error) {
	users, err := s.rawUsers()
	if err != nil {
		return nil, nil, err
	}
	groups, err := s.rawGroups()
	if err != nil {
		return nil, nil, err
	}
	return users, groups, nil
}

func (s *AccountsService) rawUsers() ([]common.User, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "getent", "passwd")
	if err != nil {
		return nil, classifyExec(err, out)
	}
	return parsePasswd(out), nil
}

func (s *AccountsService) rawGroups() ([]common.Group, error) {
	ctx, cancel := context.WithTimeout(context.Background(), common.CommandTimeout)
	defer cancel()

	out, err := s.run.Run(ctx, "getent", "group")
	if err != nil {
		return nil, classifyExec(err, out)
	}
	return parseGroups(out), nil
}

func (s *AccountsService) userByUID(uid uint32) (common.User, error) {
	users, err := s.rawUsers()
	if err != nil {
		return common.User{}, err
	}
	for _, u := range users {
		if u.UID == uid {
			return u, nil
		}
	}
	return common.User{}, common.WrapError(common.ErrNotFound, fmt.Sprintf("uid %d", uid))
}

func (s *AccountsService) groupByGID(gid uint32) (common.Group, error) {
	groups, err := s.rawGroups()
	if err != nil {
		return common.Group{}, err
	}
	for _, g := range groups {
		if g.GID == gid {
			return g, nil
		}
	}
	return common.Group{}, common.WrapError(common.ErrNotFound, fmt.Sprintf("gid %d", gid))
}

// parsePasswd parses `getent passwd` output. Malformed lines are
// skipped; group memberships are left for attachMemberships.
func parsePasswd(out string) []common.User {
	var users []common.User
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 7 {
			continue
		}
		uid, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			continue
		}
		gid, err := strconv.ParseUint(fields[3], 10, 32)
		if err != nil {
			continue
		}
		// GECOS may carry office/phone subfields after commas.
		fullName := fields[4]
		if i := strings.IndexByte(fullName, ','); i >= 0 {
			fullName = fullName[:i]
		}
		users = append(users, common.User{
			UID:      uint32(uid),
			GID:      uint32(gid),
			Username: fields[0],
			FullName: fullName,
			Home:     fields[5],
			Shell:    fields[6],
			System:   uid <= systemUIDMax && fields[0] != "root",
		})
	}
	return users
}

// parseGroups parses `getent group` output.
func parseGroups(out string) []common.Group {
	var groups []common.Group
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 4 {
			continue
		}
		gid, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			continue
		}
		var members []string
		if fields[3] != "" {
			members = strings.Split(fields[3], ",")
		}
		groups = append(groups, common.Group{
			GID:     uint32(gid),
			Name:    fields[0],
			Members: members,
		})
	}
	return groups
}

// attachMemberships fills each user's Groups from the group table:
// the user's primary group plus every group listing it as a member.
// The resulting lists are sorted and closed under the group table.
func attachMemberships(users []common.User, groups []common.Group) {
	byMember := make(map[string][]string)
	for _, g := range groups {
		for _, m := range g.Members {
			byMember[m] = append(byMember[m], g.Name)
		}
	}

	for i := range users {
		names := append([]string(nil), byMember[users[i].Username]...)
		if primary := primaryGroupName(users[i], groups); primary != "" && !common.StringInSlice(primary, names) {
			names = append(names, primary)
		}
		sort.Strings(names)
		users[i].Groups = names
	}
}

// primaryGroupName resolves the user's primary group by GID.
func primaryGroupName(u common.User, groups []common.Group) string {
	for _, g := range groups {
		if g.GID == u.GID {
			return g.Name
		}
	}
	return ""
}

// planGroupChanges computes the additions and removals turning current
// into desired, both excluding the primary group. Additions come first
// in the commit order; the returned slices are sorted for determinism.
func planGroupChanges(current, desired []string, primary string) (add, remove []string) {
	want := make(map[string]bool, len(desired))
	for _, g := range desired {
		if g != primary {
			want[g] = true
		}
	}
	have := make(map[string]bool, len(current))
	for _, g := range current {
		if g != primary {
			have[g] = true
		}
	}

	for g := range want {
		if !have[g] {
			add = append(add, g)
		}
	}
	for g := range have {
		if !want[g] {
			remove = append(remove, g)
		}
	}
	sort.Strings(add)
	sort.Strings(remove)
	return add, remove
}
