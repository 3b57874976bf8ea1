package core

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"neonpm/internal/infra/persistence/memory"
	"neonpm/pkg/domain"
)

var fixedNow = time.Date(2024, 2, 16, 10, 0, 0, 0, time.UTC)

func newTestService(opts ...Option) *Service {
	store := memory.NewStore(
		memory.WithClock(func() time.Time { return fixedNow }),
		memory.WithIDGenerator(memory.SequentialIDs("id")),
		memory.WithState(domain.SeedState()),
	)
	base := []Option{WithClock(ClockFunc(func() time.Time { return fixedNow }))}
	return NewService(store, append(base, opts...)...)
}

func TestAddProjectDefaultsAndNotifies(t *testing.T) {
	svc := newTestService()
	project, res, err := svc.AddProject(context.Background(), domain.ProjectInput{Name: "Billing"})
	if err != nil {
		t.Fatalf("add project: %v", err)
	}
	if project.ID != "id-1" || project.Status != domain.ProjectPlanning || project.Priority != domain.PriorityMedium {
		t.Fatalf("unexpected project %+v", project)
	}
	if project.Team == nil || project.Comments == nil {
		t.Fatalf("expected empty collections, got %+v", project)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "New Project" || res.Notifications[0].Body != "Billing" {
		t.Fatalf("unexpected notifications %+v", res.Notifications)
	}
	projects := svc.Projects()
	if len(projects) != 6 || projects[5].ID != project.ID {
		t.Fatalf("expected project appended at tail, got %d projects", len(projects))
	}
}

func TestAddProjectRejectsInvalidInput(t *testing.T) {
	svc := newTestService()
	before := svc.Export()
	_, _, err := svc.AddProject(context.Background(), domain.ProjectInput{Name: "Bad", Progress: 150})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "progress" {
		t.Fatalf("expected progress validation error, got %v", err)
	}
	if _, _, err := svc.AddProject(context.Background(), domain.ProjectInput{Name: "Bad", Status: "archived"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unknown status rejected, got %v", err)
	}
	after := svc.Export()
	if len(after.Projects) != len(before.Projects) || len(after.Notifications) != 0 {
		t.Fatalf("state changed on invalid input")
	}
}

func TestUpdateProjectNotifiesOnTrackedKeys(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, res, err := svc.UpdateProject(ctx, "1", domain.ProjectPatch{Description: domain.Ptr("tweak")})
	if err != nil {
		t.Fatalf("update description: %v", err)
	}
	if len(res.Notifications) != 0 {
		t.Fatalf("description change must not notify, got %+v", res.Notifications)
	}

	updated, res, err := svc.UpdateProject(ctx, "1", domain.ProjectPatch{Name: domain.Ptr("Storefront"), Progress: domain.Ptr(80)})
	if err != nil {
		t.Fatalf("update progress: %v", err)
	}
	if updated.Name != "Storefront" || updated.Progress != 80 || !updated.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected update %+v", updated)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "Project Updated" || res.Notifications[0].Body != "E-commerce Platform" {
		t.Fatalf("expected one update notification with previous name, got %+v", res.Notifications)
	}

	if _, _, err := svc.UpdateProject(ctx, "missing", domain.ProjectPatch{Name: domain.Ptr("x")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProjectCascadesTasks(t *testing.T) {
	svc := newTestService()
	res, err := svc.DeleteProject(context.Background(), "5")
	if err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if len(res.Changes) != 3 {
		t.Fatalf("expected project and two task deletions, got %d", len(res.Changes))
	}
	if got := svc.TasksByProject("5"); len(got) != 0 {
		t.Fatalf("expected tasks removed, got %+v", got)
	}
	if _, err := svc.DeleteProject(context.Background(), "5"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestProjectTeamAssignment(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, res, err := svc.AssignUserToProject(ctx, "1", "john@company.com")
	if err != nil {
		t.Fatalf("assign existing: %v", err)
	}
	if len(p.Team) != 3 || len(res.Changes) != 0 {
		t.Fatalf("expected idempotent assign, got team %v changes %d", p.Team, len(res.Changes))
	}
	p, _, err = svc.AssignUserToProject(ctx, "1", " emma@company.com ")
	if err != nil {
		t.Fatalf("assign new: %v", err)
	}
	if p.Team[len(p.Team)-1] != "emma@company.com" {
		t.Fatalf("expected member appended at tail, got %v", p.Team)
	}
	p, _, err = svc.RemoveUserFromProject(ctx, "1", "mike@company.com")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if slices.Contains(p.Team, "mike@company.com") || len(p.Team) != 3 {
		t.Fatalf("expected member removed, got %v", p.Team)
	}
	if !p.UpdatedAt.Equal(domain.SeedState().Projects[0].UpdatedAt) {
		t.Fatalf("team changes must not refresh updatedAt")
	}
	if _, _, err := svc.AssignUserToProject(ctx, "1", ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected empty email rejected, got %v", err)
	}
	if _, _, err := svc.RemoveUserFromProject(ctx, "missing", "a@b.c"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProjectCommentUsesPlaceholderAuthor(t *testing.T) {
	svc := newTestService()
	c, res, err := svc.AddProjectComment(context.Background(), "2", domain.CommentInput{Text: "Looks good"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if c.Author != AnonymousEmail || !c.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected comment %+v", c)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "New Comment" || res.Notifications[0].Body != "Looks good" {
		t.Fatalf("unexpected notifications %+v", res.Notifications)
	}
	p, err := svc.ProjectByID(context.Background(), "2")
	if err != nil {
		t.Fatalf("project lookup: %v", err)
	}
	if len(p.Comments) != 1 {
		t.Fatalf("expected comment stored, got %+v", p.Comments)
	}
	if _, _, err := svc.AddProjectComment(context.Background(), "2", domain.CommentInput{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected empty comment rejected, got %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	task, res, err := svc.AddTask(ctx, domain.TaskInput{Title: "Write docs", ProjectID: "2"})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}
	if task.Status != domain.TaskTodo || task.Type != domain.TaskTask || task.StoryPoints != 1 {
		t.Fatalf("expected defaults, got %+v", task)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "New Task" {
		t.Fatalf("unexpected notifications %+v", res.Notifications)
	}
	done := domain.TaskDone
	updated, res, err := svc.UpdateTask(ctx, task.ID, domain.TaskPatch{Status: &done})
	if err != nil {
		t.Fatalf("update task: %v", err)
	}
	if updated.Status != domain.TaskDone || len(res.Notifications) != 0 {
		t.Fatalf("unexpected update %+v / %+v", updated, res.Notifications)
	}
	if _, _, err := svc.UpdateTask(ctx, task.ID, domain.TaskPatch{StoryPoints: domain.Ptr(4)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected story points rejected, got %v", err)
	}
	if _, err := svc.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if _, err := svc.DeleteTask(ctx, task.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStartMeetingGeneratesLinkOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	m, res, err := svc.StartMeeting(ctx, "2")
	if err != nil {
		t.Fatalf("start meeting: %v", err)
	}
	if m.MeetingLink != DefaultMeetingLinkBase+"/2" || len(res.Changes) != 1 {
		t.Fatalf("expected generated link, got %q (%d changes)", m.MeetingLink, len(res.Changes))
	}
	m, res, err = svc.StartMeeting(ctx, "1")
	if err != nil {
		t.Fatalf("start meeting: %v", err)
	}
	if m.MeetingLink != "https://meet.google.com/abc-defg-hij" || len(res.Changes) != 0 {
		t.Fatalf("expected existing link kept, got %q", m.MeetingLink)
	}
	if _, _, err := svc.StartMeeting(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	custom := newTestService(WithMeetingLinkBase(" https://rooms.example.test/ "))
	m, _, err = custom.StartMeeting(ctx, "2")
	if err != nil {
		t.Fatalf("start meeting: %v", err)
	}
	if m.MeetingLink != "https://rooms.example.test/2" {
		t.Fatalf("expected custom base, got %q", m.MeetingLink)
	}
}

func TestMeetingAttendeesAndUpdates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	m, _, err := svc.ToggleMeetingAttendee(ctx, "2", "emma@company.com")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if slices.Contains(m.Attendees, "emma@company.com") {
		t.Fatalf("expected attendee removed, got %v", m.Attendees)
	}
	m, _, err = svc.ToggleMeetingAttendee(ctx, "2", "emma@company.com")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if m.Attendees[len(m.Attendees)-1] != "emma@company.com" {
		t.Fatalf("expected attendee appended, got %v", m.Attendees)
	}

	created, res, err := svc.AddMeeting(ctx, domain.MeetingInput{Title: "Kickoff", Date: "2024-02-20"})
	if err != nil {
		t.Fatalf("add meeting: %v", err)
	}
	if created.Type != domain.MeetingOther || len(res.Notifications) != 1 || res.Notifications[0].Title != "New Meeting" {
		t.Fatalf("unexpected meeting %+v / %+v", created, res.Notifications)
	}
	if got := svc.UpcomingMeetings(); len(got) != 2 {
		t.Fatalf("expected two upcoming meetings, got %d", len(got))
	}
	updated, _, err := svc.UpdateMeeting(ctx, created.ID, domain.MeetingPatch{Location: domain.Ptr("Room 4")})
	if err != nil {
		t.Fatalf("update meeting: %v", err)
	}
	if updated.Location != "Room 4" || !updated.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected update %+v", updated)
	}
	if _, _, err := svc.AddMeeting(ctx, domain.MeetingInput{Title: "Bad", Date: "20-02-2024"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected bad date rejected, got %v", err)
	}
	if _, err := svc.DeleteMeeting(ctx, created.ID); err != nil {
		t.Fatalf("delete meeting: %v", err)
	}
}

func TestConversationFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	conv, res, err := svc.CreateConversation(ctx, []string{"a@x.io", "", "a@x.io", "b@x.io"}, "")
	if err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	if !slices.Equal(conv.ParticipantEmails, []string{"a@x.io", "b@x.io"}) {
		t.Fatalf("expected de-duplicated participants, got %v", conv.ParticipantEmails)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Body != "a@x.io, b@x.io" {
		t.Fatalf("unexpected notifications %+v", res.Notifications)
	}
	active, ok := svc.ActiveConversation()
	if !ok || active.ID != conv.ID {
		t.Fatalf("expected new conversation active")
	}

	_, res, err = svc.AddParticipantToConversation(ctx, conv.ID, "b@x.io")
	if err != nil || len(res.Changes) != 0 {
		t.Fatalf("expected no-op for present participant, err=%v changes=%d", err, len(res.Changes))
	}
	conv, _, err = svc.AddParticipantToConversation(ctx, conv.ID, "c@x.io")
	if err != nil || conv.ParticipantEmails[2] != "c@x.io" {
		t.Fatalf("expected participant appended, got %v (%v)", conv.ParticipantEmails, err)
	}
	conv, _, err = svc.RemoveParticipantFromConversation(ctx, conv.ID, "a@x.io")
	if err != nil || slices.Contains(conv.ParticipantEmails, "a@x.io") {
		t.Fatalf("expected participant removed, got %v (%v)", conv.ParticipantEmails, err)
	}

	msg, res, err := svc.AddConversationMessage(ctx, conv.ID, domain.ChatMessageInput{Text: "hello"})
	if err != nil {
		t.Fatalf("add message: %v", err)
	}
	if msg.Sender != AnonymousSender || msg.Type != domain.MessageText {
		t.Fatalf("unexpected message %+v", msg)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "New Message" || res.Notifications[0].Body != "hello" {
		t.Fatalf("unexpected notifications %+v", res.Notifications)
	}
	if n := len(svc.ChatMessages()); n != 3 {
		t.Fatalf("legacy chat log must be untouched, got %d", n)
	}

	if _, err := svc.SetActiveConversation(ctx, "stale"); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if _, ok := svc.ActiveConversation(); ok {
		t.Fatalf("stale pointer must resolve to none")
	}
	if _, err := svc.SetActiveConversation(ctx, conv.ID); err != nil {
		t.Fatalf("set active: %v", err)
	}
	if _, err := svc.DeleteConversation(ctx, conv.ID); err != nil {
		t.Fatalf("delete conversation: %v", err)
	}
	if svc.Export().ActiveConversationID != "" {
		t.Fatalf("expected active pointer cleared")
	}
	if _, _, err := svc.AddConversationMessage(ctx, conv.ID, domain.ChatMessageInput{Text: "late"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLegacyChatMessage(t *testing.T) {
	svc := newTestService()
	msg, res, err := svc.AddChatMessage(context.Background(), domain.ChatMessageInput{Text: "hi all", Sender: "Sarah"})
	if err != nil {
		t.Fatalf("add chat: %v", err)
	}
	if len(res.Notifications) != 0 {
		t.Fatalf("legacy chat must not notify")
	}
	msgs := svc.ChatMessages()
	if msgs[len(msgs)-1].ID != msg.ID || !msg.Timestamp.Equal(fixedNow) {
		t.Fatalf("expected message at tail, got %+v", msgs)
	}
	if _, _, err := svc.AddChatMessage(context.Background(), domain.ChatMessageInput{Type: domain.MessageFile}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected file message without url rejected, got %v", err)
	}
}

func TestNotificationsAndTimeLogs(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	entry, res, err := svc.AddTimeLog(ctx, domain.TimesheetInput{ProjectID: "1", Date: "2024-02-16", Hours: 2})
	if err != nil {
		t.Fatalf("add time log: %v", err)
	}
	if entry.UserEmail != AnonymousEmail {
		t.Fatalf("expected placeholder email, got %q", entry.UserEmail)
	}
	if len(res.Notifications) != 1 || res.Notifications[0].Body != "anonymous@example.com • 2h" {
		t.Fatalf("unexpected notifications %+v", res.Notifications)
	}
	if _, _, err := svc.AddTimeLog(ctx, domain.TimesheetInput{ProjectID: "1", Date: "2024-02-16", Hours: 0}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected zero hours rejected, got %v", err)
	}
	if _, _, err := svc.AddNotification(ctx, domain.NotificationInput{Type: domain.NotifyTask, Title: "Ping"}); err != nil {
		t.Fatalf("add notification: %v", err)
	}
	if head := svc.Notifications()[0]; head.Title != "Ping" || head.Read {
		t.Fatalf("expected unread notification at head, got %+v", head)
	}
	if got := svc.HoursByProject()["1"]; got != 2 {
		t.Fatalf("expected 2 hours on project 1, got %v", got)
	}

	marked, _, err := svc.MarkAllNotificationsRead(ctx)
	if err != nil || marked != 2 {
		t.Fatalf("expected two marked read, got %d (%v)", marked, err)
	}
	if len(svc.UnreadNotifications()) != 0 || len(svc.Notifications()) != 2 {
		t.Fatalf("mark read must keep notifications")
	}

	if _, err := svc.DeleteTimeLog(ctx, entry.ID); err != nil {
		t.Fatalf("delete time log: %v", err)
	}
	if len(svc.TimeLogsByProject("1")) != 0 {
		t.Fatalf("expected entry removed")
	}
}

func TestUserDirectory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	u, _, err := svc.AddUser(ctx, domain.UserInput{Name: "Zoë Park", Email: "zoe@company.com"})
	if err != nil {
		t.Fatalf("add user: %v", err)
	}
	if u.Role != domain.RoleDeveloper || u.Status != domain.UserActive {
		t.Fatalf("expected defaults, got %+v", u)
	}
	if svc.Users()[0].ID != u.ID {
		t.Fatalf("expected user prepended")
	}
	if got := svc.SearchUsers(domain.UserFilter{Query: "zoe"}); len(got) != 1 {
		t.Fatalf("expected accent-insensitive match, got %+v", got)
	}
	admin := domain.RoleAdmin
	u, _, err = svc.UpdateUser(ctx, u.ID, domain.UserPatch{Role: &admin})
	if err != nil || u.Role != domain.RoleAdmin {
		t.Fatalf("update user: %+v (%v)", u, err)
	}
	bad := domain.UserRole("owner")
	if _, _, err := svc.UpdateUser(ctx, u.ID, domain.UserPatch{Role: &bad}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected unknown role rejected, got %v", err)
	}
	if _, err := svc.DeleteUser(ctx, "u2"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if !slices.Contains(svc.AllUsers(), "john@company.com") {
		t.Fatalf("deleting a profile must not touch references")
	}
	if stats := svc.UserStats("john@company.com"); stats.Projects != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestDashboardUsesServiceClock(t *testing.T) {
	svc := newTestService()
	d := svc.Dashboard()
	if d.Projects != 5 || d.Tasks != 6 || d.ActiveProjects != 2 {
		t.Fatalf("unexpected dashboard %+v", d)
	}
	if d.UpcomingMeetings != 1 {
		t.Fatalf("expected one meeting on or after %s, got %d", svc.Today(), d.UpcomingMeetings)
	}
	cols := svc.TaskBoard("")
	if len(cols) != 4 || len(cols[0].Tasks) != 4 {
		t.Fatalf("unexpected board %+v", cols)
	}
}

func TestTodayUsesUTCDate(t *testing.T) {
	ahead := time.FixedZone("UTC+14", 14*60*60)
	local := time.Date(2024, 2, 16, 10, 0, 0, 0, ahead) // 2024-02-15 20:00 UTC
	svc := newTestService(WithClock(ClockFunc(func() time.Time { return local })))
	if got := svc.Today(); got != "2024-02-15" {
		t.Fatalf("expected UTC date 2024-02-15, got %s", got)
	}
	if n := len(svc.UpcomingMeetings()); n != 2 {
		t.Fatalf("expected the 2024-02-15 meeting to still be upcoming, got %d meetings", n)
	}
}

func TestProjectByIDNotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.ProjectByID(context.Background(), "missing")
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Entity != domain.EntityProject || nf.ID != "missing" {
		t.Fatalf("expected project not found, got %v", err)
	}
}

func TestResetAndSessionOnMemoryStore(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.DeleteProject(ctx, "1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if len(svc.Projects()) != 5 {
		t.Fatalf("expected seed restored")
	}
	if err := svc.SignIn(ctx, domain.CurrentUser{ID: "demo", Name: "Demo User", Email: "demo@neonpm.com"}); !errors.Is(err, ErrSessionUnsupported) {
		t.Fatalf("expected session unsupported, got %v", err)
	}
	u, err := svc.CurrentUser(ctx)
	if err != nil || !u.IsZero() {
		t.Fatalf("expected nobody signed in, got %+v (%v)", u, err)
	}
	if err := svc.Import(ctx, domain.EmptyState()); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(svc.Export().Projects) != 0 {
		t.Fatalf("expected empty document after import")
	}
}

func TestNewInMemoryServiceIsSeeded(t *testing.T) {
	svc := NewInMemoryService(WithClock(ClockFunc(func() time.Time { return fixedNow })))
	p, _, err := svc.AddProject(context.Background(), domain.ProjectInput{Name: "Fresh"})
	if err != nil {
		t.Fatalf("add project: %v", err)
	}
	if len(p.ID) != 9 || !p.CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected short id and service clock, got %+v", p)
	}
	if len(svc.Projects()) != 6 {
		t.Fatalf("expected seeded store")
	}
}
