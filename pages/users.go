package pages

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yllada/system-settings/common"
)

// usersMode names the active sub-page of the composite users page.
type usersMode int

const (
	usersModeList usersMode = iota
	usersModeNewUser
	usersModeUserInfo
	usersModePassword
	usersModeUserGroups
	usersModeGroupMembers
)

// usersTab is the inner list selector: user accounts or groups.
type usersTab int

const (
	tabUsers usersTab = iota
	tabGroups
)

// Completion messages of the users page family.

type usersLoadedMsg struct {
	token  string
	users  []common.User
	groups []common.Group
	err    error
}

func (usersLoadedMsg) Route() string { return PageUsers }

// usersCommittedMsg reports the outcome of one mutating command.
type usersCommittedMsg struct {
	token  string
	action string
	err    error
}

func (usersCommittedMsg) Route() string { return PageUsers }

// memberCheck is one toggleable row of a membership editor.
type memberCheck struct {
	name string
	on   bool
}

// newUserForm is the new-user sub-page state.
type newUserForm struct {
	login    textinput.Model
	fullName textinput.Model
	password textinput.Model
	admin    bool
	focus    int
	changed  bool
	errText  string
}

// passwordForm is the change-password sub-page state.
type passwordForm struct {
	old     textinput.Model
	next    textinput.Model
	verify  textinput.Model
	focus   int
	changed bool
	errText string
}

// UsersPage is the composite users & groups page. It owns the list
// snapshot, the inner tab selector and one state per sub-page; only
// the sub-page selected by mode receives messages.
type UsersPage struct {
	svc common.AccountService
	log common.Logger

	users  []common.User
	groups []common.Group

	mode   usersMode
	tab    usersTab
	cursor int

	// Sub-page states. newGroup lives on the list mode itself so its
	// text survives tab switches.
	newUser       newUserForm
	password      passwordForm
	checks        []memberCheck
	checksChanged bool
	checkCursor   int

	newGroup textinput.Model

	// selUID / selGID pin the entity a sub-page edits.
	selUID uint32
	selGID uint32

	// currentUID is the logged-in user; admin relaxes the password
	// guard.
	currentUID uint32
	admin      bool

	showSystem bool

	// confirmDestructive gates deletions behind a y/n prompt; the
	// pending request parks in confirmDel until answered.
	confirmDestructive bool
	confirmDel         *deleteRequest

	// pending is the token of the in-flight command; completions with
	// any other token are stale and dropped.
	pending       string
	pendingAction string

	loaded  bool
	errText string
	notice  string
}

// deleteRequest is a destructive command awaiting confirmation.
type deleteRequest struct {
	label string
	user  bool
	uid   uint32
	gid   uint32
}

// NewUsersPage creates the users page. currentUID is the logged-in
// user, admin whether that user holds administrator authority.
// confirmDestructive asks before deleting users or groups.
func NewUsersPage(svc common.AccountService, currentUID uint32, admin, showSystem, confirmDestructive bool) *UsersPage {
	newGroup := textinput.New()
	newGroup.Placeholder = "new group name"
	newGroup.CharLimit = 32

	return &UsersPage{
		svc:                svc,
		log:                common.GetLogger(),
		currentUID:         currentUID,
		admin:              admin,
		showSystem:         showSystem,
		confirmDestructive: confirmDestructive,
		newGroup:           newGroup,
	}
}

func (p *UsersPage) ID() string    { return PageUsers }
func (p *UsersPage) Title() string { return "Users & Groups" }

func (p *UsersPage) Init() tea.Cmd {
	return p.loadCmd()
}

// loadCmd refreshes the snapshot.
func (p *UsersPage) loadCmd() tea.Cmd {
	token := newToken()
	p.pending = token
	p.pendingAction = "load"
	svc := p.svc
	return func() tea.Msg {
		users, err := svc.ListUsers()
		if err != nil {
			return usersLoadedMsg{token: token, err: err}
		}
		groups, err := svc.ListGroups()
		return usersLoadedMsg{token: token, users: users, groups: groups, err: err}
	}
}

// commitCmd wraps a mutating adapter call into an effect command.
func (p *UsersPage) commitCmd(action string, fn func() error) tea.Cmd {
	token := newToken()
	p.pending = token
	p.pendingAction = action
	return func() tea.Msg {
		return usersCommittedMsg{token: token, action: action, err: fn()}
	}
}

func (p *UsersPage) Update(msg tea.Msg) (Page, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		return p.onLoaded(msg)
	case usersCommittedMsg:
		return p.onCommitted(msg)
	case tea.KeyMsg:
		if p.confirmDel != nil {
			return p.updateConfirm(msg)
		}
		switch p.mode {
		case usersModeList:
			return p.updateList(msg)
		case usersModeNewUser:
			return p.updateNewUser(msg)
		case usersModeUserInfo:
			return p.updateUserInfo(msg)
		case usersModePassword:
			return p.updatePassword(msg)
		case usersModeUserGroups, usersModeGroupMembers:
			return p.updateChecks(msg)
		}
	}
	return p, nil
}

func (p *UsersPage) onLoaded(msg usersLoadedMsg) (Page, tea.Cmd) {
	if msg.token != p.pending {
		return p, nil
	}
	p.pending = ""
	if msg.err != nil {
		p.errText = describeError(msg.err)
		return p, nil
	}
	p.users = msg.users
	p.groups = msg.groups
	p.loaded = true
	p.errText = ""
	p.clampCursor()
	return p, nil
}

func (p *UsersPage) onCommitted(msg usersCommittedMsg) (Page, tea.Cmd) {
	if msg.token != p.pending {
		return p, nil
	}
	p.pending = ""

	if msg.err != nil {
		switch {
		case errors.Is(msg.err, common.ErrNotFound):
			// The entity vanished: leave the sub-page and refresh.
			p.mode = usersModeList
			p.errText = describeError(msg.err)
			return p, p.loadCmd()
		case errors.Is(msg.err, common.ErrConflict):
			// Keep unsent edits, refresh the snapshot underneath.
			p.errText = describeError(msg.err)
			p.markPendingFormUnsaved()
			return p, p.loadCmd()
		default:
			p.errText = describeError(msg.err)
			return p, nil
		}
	}

	p.errText = ""
	p.notice = msg.action + " applied"
	switch msg.action {
	case "change password":
		// Back to the user info card, not the list.
		p.password = passwordForm{}
		p.mode = usersModeUserInfo
	case "create group":
		p.newGroup.Reset()
		p.newGroup.Blur()
		p.mode = usersModeList
	default:
		p.newUser = newUserForm{}
		p.checksChanged = false
		p.mode = usersModeList
	}
	return p, p.loadCmd()
}

// markPendingFormUnsaved keeps the is_changed flag up after a
// Conflict so the user sees the edits as unsaved.
func (p *UsersPage) markPendingFormUnsaved() {
	switch p.mode {
	case usersModeNewUser:
		p.newUser.changed = true
	case usersModePassword:
		p.password.changed = true
	case usersModeUserGroups, usersModeGroupMembers:
		p.checksChanged = true
	}
}

func (p *UsersPage) updateList(msg tea.KeyMsg) (Page, tea.Cmd) {
	// The new-group field captures keystrokes while focused.
	if p.newGroup.Focused() {
		switch msg.String() {
		case "enter":
			return p.createGroup()
		case "esc":
			p.newGroup.Blur()
			return p, nil
		default:
			var cmd tea.Cmd
			p.newGroup, cmd = p.newGroup.Update(msg)
			return p, cmd
		}
	}

	switch msg.String() {
	case "tab":
		if p.tab == tabUsers {
			p.tab = tabGroups
		} else {
			p.tab = tabUsers
		}
		p.cursor = 0
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < p.listLen()-1 {
			p.cursor++
		}
	case "n":
		if p.tab == tabUsers {
			p.mode = usersModeNewUser
			p.newUser = p.freshNewUserForm()
		} else {
			p.newGroup.Focus()
		}
	case "enter":
		return p.openSelected()
	case "d":
		return p.deleteSelected()
	case "r":
		return p, p.loadCmd()
	}
	return p, nil
}

func (p *UsersPage) freshNewUserForm() newUserForm {
	login := textinput.New()
	login.Placeholder = "login"
	login.CharLimit = 32
	login.Focus()
	fullName := textinput.New()
	fullName.Placeholder = "full name"
	password := textinput.New()
	password.Placeholder = "initial password"
	password.EchoMode = textinput.EchoPassword
	return newUserForm{login: login, fullName: fullName, password: password}
}

func (p *UsersPage) openSelected() (Page, tea.Cmd) {
	if p.tab == tabUsers {
		user, ok := p.selectedUser()
		if !ok {
			return p, nil
		}
		p.selUID = user.UID
		p.mode = usersModeUserInfo
		return p, nil
	}
	group, ok := p.selectedGroup()
	if !ok {
		return p, nil
	}
	p.selGID = group.GID
	p.checks = p.memberChecks(group)
	p.checksChanged = false
	p.checkCursor = 0
	p.mode = usersModeGroupMembers
	return p, nil
}

func (p *UsersPage) deleteSelected() (Page, tea.Cmd) {
	if p.tab == tabUsers {
		user, ok := p.selectedUser()
		if !ok || user.UID == p.currentUID {
			return p, nil
		}
		return p.requestDelete(deleteRequest{label: "user " + user.Username, user: true, uid: user.UID})
	}
	group, ok := p.selectedGroup()
	if !ok {
		return p, nil
	}
	return p.requestDelete(deleteRequest{label: "group " + group.Name, gid: group.GID})
}

// requestDelete either parks the request behind the confirmation
// prompt or commits it straight away, per configuration.
func (p *UsersPage) requestDelete(req deleteRequest) (Page, tea.Cmd) {
	if p.confirmDestructive {
		p.confirmDel = &req
		return p, nil
	}
	return p, p.deleteCmd(req)
}

func (p *UsersPage) deleteCmd(req deleteRequest) tea.Cmd {
	if req.user {
		uid := req.uid
		return p.commitCmd("delete user", func() error { return p.svc.DeleteUser(uid) })
	}
	gid := req.gid
	return p.commitCmd("delete group", func() error { return p.svc.DeleteGroup(gid) })
}

func (p *UsersPage) updateConfirm(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		req := *p.confirmDel
		p.confirmDel = nil
		return p, p.deleteCmd(req)
	case "n", "esc":
		p.confirmDel = nil
	}
	return p, nil
}

func (p *UsersPage) createGroup() (Page, tea.Cmd) {
	name := strings.TrimSpace(p.newGroup.Value())
	if name == "" {
		// Empty form: the commit stays disabled.
		return p, nil
	}
	return p, p.commitCmd("create group", func() error {
		_, err := p.svc.CreateGroup(name)
		return err
	})
}

func (p *UsersPage) updateNewUser(msg tea.KeyMsg) (Page, tea.Cmd) {
	form := &p.newUser
	switch msg.String() {
	case "esc":
		p.newUser = newUserForm{}
		p.mode = usersModeList
		return p, nil
	case "tab", "down":
		form.focus = (form.focus + 1) % 4
		p.syncNewUserFocus()
		return p, nil
	case "shift+tab", "up":
		form.focus = (form.focus + 3) % 4
		p.syncNewUserFocus()
		return p, nil
	case " ":
		if form.focus == 3 {
			form.admin = !form.admin
			form.changed = true
			return p, nil
		}
	case "enter":
		return p.submitNewUser()
	}

	var cmd tea.Cmd
	before := form.login.Value() + form.fullName.Value() + form.password.Value()
	switch form.focus {
	case 0:
		form.login, cmd = form.login.Update(msg)
	case 1:
		form.fullName, cmd = form.fullName.Update(msg)
	case 2:
		form.password, cmd = form.password.Update(msg)
	}
	if form.login.Value()+form.fullName.Value()+form.password.Value() != before {
		form.changed = true
		form.errText = ""
	}
	return p, cmd
}

func (p *UsersPage) syncNewUserFocus() {
	form := &p.newUser
	inputs := []*textinput.Model{&form.login, &form.fullName, &form.password}
	for i, in := range inputs {
		if i == form.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (p *UsersPage) submitNewUser() (Page, tea.Cmd) {
	form := &p.newUser
	login := strings.TrimSpace(form.login.Value())
	if login == "" {
		form.errText = "login must not be empty"
		return p, nil
	}
	fullName := strings.TrimSpace(form.fullName.Value())
	password := form.password.Value()
	admin := form.admin
	return p, p.commitCmd("create user", func() error {
		_, err := p.svc.CreateUser(login, fullName, password, admin)
		return err
	})
}

func (p *UsersPage) updateUserInfo(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.mode = usersModeList
	case "p":
		p.password = p.freshPasswordForm()
		p.mode = usersModePassword
	case "g":
		user, ok := p.userByUID(p.selUID)
		if !ok {
			p.mode = usersModeList
			return p, p.loadCmd()
		}
		p.checks = p.groupChecks(user)
		p.checksChanged = false
		p.checkCursor = 0
		p.mode = usersModeUserGroups
	case "d":
		if p.selUID != p.currentUID {
			return p.requestDelete(deleteRequest{label: "user " + p.selLogin(), user: true, uid: p.selUID})
		}
	}
	return p, nil
}

func (p *UsersPage) freshPasswordForm() passwordForm {
	old := textinput.New()
	old.Placeholder = "current password"
	old.EchoMode = textinput.EchoPassword
	next := textinput.New()
	next.Placeholder = "new password"
	next.EchoMode = textinput.EchoPassword
	verify := textinput.New()
	verify.Placeholder = "repeat new password"
	verify.EchoMode = textinput.EchoPassword

	form := passwordForm{old: old, next: next, verify: verify}
	if p.admin {
		// The current password is not asked for.
		form.focus = 1
		form.next.Focus()
	} else {
		form.old.Focus()
	}
	return form
}

// passwordGuard reports whether the form may be submitted: new and
// verify nonempty and equal, and the old password present unless the
// caller holds administrator authority.
func passwordGuard(old, next, verify string, admin bool) bool {
	if next == "" || next != verify {
		return false
	}
	if !admin && old == "" {
		return false
	}
	return true
}

func (p *UsersPage) updatePassword(msg tea.KeyMsg) (Page, tea.Cmd) {
	form := &p.password
	switch msg.String() {
	case "esc":
		p.password = passwordForm{}
		p.mode = usersModeUserInfo
		return p, nil
	case "tab", "down":
		form.focus = (form.focus + 1) % 3
		p.syncPasswordFocus()
		return p, nil
	case "shift+tab", "up":
		form.focus = (form.focus + 2) % 3
		p.syncPasswordFocus()
		return p, nil
	case "enter":
		return p.submitPassword()
	}

	var cmd tea.Cmd
	before := form.old.Value() + form.next.Value() + form.verify.Value()
	switch form.focus {
	case 0:
		form.old, cmd = form.old.Update(msg)
	case 1:
		form.next, cmd = form.next.Update(msg)
	case 2:
		form.verify, cmd = form.verify.Update(msg)
	}
	if form.old.Value()+form.next.Value()+form.verify.Value() != before {
		form.changed = true
		form.errText = ""
	}
	return p, cmd
}

func (p *UsersPage) syncPasswordFocus() {
	form := &p.password
	inputs := []*textinput.Model{&form.old, &form.next, &form.verify}
	for i, in := range inputs {
		if i == form.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (p *UsersPage) submitPassword() (Page, tea.Cmd) {
	form := &p.password
	old := form.old.Value()
	next := form.next.Value()
	if !passwordGuard(old, next, form.verify.Value(), p.admin) {
		form.errText = "fill all fields; new passwords must match"
		return p, nil
	}
	uid := p.selUID
	return p, p.commitCmd("change password", func() error {
		return p.svc.ChangePassword(uid, old, next)
	})
}

func (p *UsersPage) updateChecks(msg tea.KeyMsg) (Page, tea.Cmd) {
	switch msg.String() {
	case "esc":
		p.checksChanged = false
		if p.mode == usersModeUserGroups {
			p.mode = usersModeUserInfo
		} else {
			p.mode = usersModeList
		}
	case "up", "k":
		if p.checkCursor > 0 {
			p.checkCursor--
		}
	case "down", "j":
		if p.checkCursor < len(p.checks)-1 {
			p.checkCursor++
		}
	case " ":
		if p.checkCursor < len(p.checks) {
			p.checks[p.checkCursor].on = !p.checks[p.checkCursor].on
			p.checksChanged = true
		}
	case "enter":
		return p.submitChecks()
	}
	return p, nil
}

func (p *UsersPage) submitChecks() (Page, tea.Cmd) {
	if !p.checksChanged {
		// Nothing changed: the commit stays disabled.
		return p, nil
	}
	var chosen []string
	for _, c := range p.checks {
		if c.on {
			chosen = append(chosen, c.name)
		}
	}
	sort.Strings(chosen)

	if p.mode == usersModeUserGroups {
		uid := p.selUID
		return p, p.commitCmd("set groups", func() error {
			return p.svc.SetUserGroups(uid, chosen)
		})
	}
	gid := p.selGID
	return p, p.commitCmd("set members", func() error {
		return p.svc.SetGroupMembers(gid, chosen)
	})
}

// groupChecks builds the membership editor rows for a user: one row
// per known group, toggled on for current memberships.
func (p *UsersPage) groupChecks(user common.User) []memberCheck {
	checks := make([]memberCheck, 0, len(p.groups))
	for _, g := range p.groups {
		checks = append(checks, memberCheck{name: g.Name, on: user.InGroup(g.Name)})
	}
	return checks
}

// memberChecks builds the editor rows for a group: one row per
// visible user, toggled on for current members.
func (p *UsersPage) memberChecks(group common.Group) []memberCheck {
	members := make(map[string]bool, len(group.Members))
	for _, m := range group.Members {
		members[m] = true
	}
	checks := make([]memberCheck, 0, len(p.users))
	for _, u := range p.visibleUsers() {
		checks = append(checks, memberCheck{name: u.Username, on: members[u.Username]})
	}
	return checks
}

func (p *UsersPage) visibleUsers() []common.User {
	if p.showSystem {
		return p.users
	}
	var visible []common.User
	for _, u := range p.users {
		if !u.System {
			visible = append(visible, u)
		}
	}
	return visible
}

func (p *UsersPage) listLen() int {
	if p.tab == tabUsers {
		return len(p.visibleUsers())
	}
	return len(p.groups)
}

func (p *UsersPage) clampCursor() {
	if max := p.listLen() - 1; p.cursor > max {
		p.cursor = max
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.checkCursor >= len(p.checks) {
		p.checkCursor = 0
	}
}

func (p *UsersPage) selectedUser() (common.User, bool) {
	users := p.visibleUsers()
	if p.cursor < 0 || p.cursor >= len(users) {
		return common.User{}, false
	}
	return users[p.cursor], true
}

func (p *UsersPage) selectedGroup() (common.Group, bool) {
	if p.cursor < 0 || p.cursor >= len(p.groups) {
		return common.Group{}, false
	}
	return p.groups[p.cursor], true
}

func (p *UsersPage) userByUID(uid uint32) (common.User, bool) {
	for _, u := range p.users {
		if u.UID == uid {
			return u, true
		}
	}
	return common.User{}, false
}

func (p *UsersPage) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(p.Title()))
	b.WriteString("\n\n")

	switch p.mode {
	case usersModeList:
		p.viewList(&b)
	case usersModeNewUser:
		p.viewNewUser(&b)
	case usersModeUserInfo:
		p.viewUserInfo(&b)
	case usersModePassword:
		p.viewPassword(&b)
	case usersModeUserGroups:
		p.viewChecks(&b, "Groups for "+p.selLogin())
	case usersModeGroupMembers:
		p.viewChecks(&b, "Members of "+p.selGroupName())
	}

	if p.confirmDel != nil {
		b.WriteString("\n" + warnStyle.Render("Delete "+p.confirmDel.label+"? y confirm · n cancel") + "\n")
	}
	if line := banner(p.errText, p.notice); line != "" {
		b.WriteString("\n" + line + "\n")
	}
	return b.String()
}

func (p *UsersPage) selLogin() string {
	if u, ok := p.userByUID(p.selUID); ok {
		return u.Username
	}
	return "?"
}

func (p *UsersPage) selGroupName() string {
	for _, g := range p.groups {
		if g.GID == p.selGID {
			return g.Name
		}
	}
	return "?"
}

func (p *UsersPage) viewList(b *strings.Builder) {
	usersTabLabel := tabStyle.Render("Users")
	groupsTabLabel := tabStyle.Render("Groups")
	if p.tab == tabUsers {
		usersTabLabel = tabActive.Render("Users")
	} else {
		groupsTabLabel = tabActive.Render("Groups")
	}
	b.WriteString(usersTabLabel + groupsTabLabel + "\n\n")

	if !p.loaded {
		b.WriteString(dimStyle.Render("loading…") + "\n")
		return
	}

	if p.tab == tabUsers {
		for i, u := range p.visibleUsers() {
			marker := "  "
			line := fmt.Sprintf("%-16s %s", u.Username, dimStyle.Render(u.DisplayName()))
			if i == p.cursor {
				marker = cursorStyle.Render("> ")
				line = cursorStyle.Render(fmt.Sprintf("%-16s", u.Username)) + " " + dimStyle.Render(u.DisplayName())
			}
			b.WriteString(marker + line + "\n")
		}
		b.WriteString("\n" + dimStyle.Render("enter open · n new user · d delete · tab groups") + "\n")
		return
	}

	for i, g := range p.groups {
		marker := "  "
		line := fmt.Sprintf("%-16s %s", g.Name, dimStyle.Render(fmt.Sprintf("%d members", len(g.Members))))
		if i == p.cursor {
			marker = cursorStyle.Render("> ")
			line = cursorStyle.Render(fmt.Sprintf("%-16s", g.Name)) + " " + dimStyle.Render(fmt.Sprintf("%d members", len(g.Members)))
		}
		b.WriteString(marker + line + "\n")
	}
	b.WriteString("\n" + headerStyle.Render("New group: ") + p.newGroup.View() + "\n")
	b.WriteString(dimStyle.Render("enter open · n name field · d delete · tab users") + "\n")
}

func (p *UsersPage) viewNewUser(b *strings.Builder) {
	form := &p.newUser
	b.WriteString(headerStyle.Render("New user") + "\n\n")
	b.WriteString("Login:     " + form.login.View() + "\n")
	b.WriteString("Full name: " + form.fullName.View() + "\n")
	b.WriteString("Password:  " + form.password.View() + "\n")
	adminLine := checkbox(form.admin) + " administrator"
	if form.focus == 3 {
		adminLine = cursorStyle.Render(adminLine)
	}
	b.WriteString(adminLine + "\n")
	if form.errText != "" {
		b.WriteString("\n" + errStyle.Render(form.errText) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter create · esc cancel") + "\n")
}

func (p *UsersPage) viewUserInfo(b *strings.Builder) {
	user, ok := p.userByUID(p.selUID)
	if !ok {
		b.WriteString(dimStyle.Render("user no longer exists") + "\n")
		return
	}
	b.WriteString(headerStyle.Render(user.DisplayName()) + "\n\n")
	b.WriteString(fmt.Sprintf("Login:  %s (uid %d)\n", user.Username, user.UID))
	b.WriteString("Home:   " + user.Home + "\n")
	b.WriteString("Shell:  " + user.Shell + "\n")
	b.WriteString("Groups: " + strings.Join(user.Groups, ", ") + "\n")
	b.WriteString("\n" + dimStyle.Render("p password · g groups · d delete · esc back") + "\n")
}

func (p *UsersPage) viewPassword(b *strings.Builder) {
	form := &p.password
	b.WriteString(headerStyle.Render("Change password — "+p.selLogin()) + "\n\n")
	if !p.admin {
		b.WriteString("Current: " + form.old.View() + "\n")
	}
	b.WriteString("New:     " + form.next.View() + "\n")
	b.WriteString("Verify:  " + form.verify.View() + "\n")
	if form.errText != "" {
		b.WriteString("\n" + errStyle.Render(form.errText) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("enter apply · esc cancel") + "\n")
}

func (p *UsersPage) viewChecks(b *strings.Builder, header string) {
	b.WriteString(headerStyle.Render(header) + "\n\n")
	for i, c := range p.checks {
		line := checkbox(c.on) + " " + c.name
		if i == p.checkCursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("space toggle · enter apply · esc cancel") + "\n")
}
