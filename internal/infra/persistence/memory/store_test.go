package memory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"neonpm/pkg/domain"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(opts ...Option) *Store {
	base := []Option{WithClock(func() time.Time { return fixedNow }), WithIDGenerator(SequentialIDs("id"))}
	return NewStore(append(base, opts...)...)
}

func run(t *testing.T, store *Store, fn func(tx domain.Transaction) error) domain.Result {
	t.Helper()
	res, err := store.RunInTransaction(context.Background(), fn)
	if err != nil {
		t.Fatalf("run transaction: %v", err)
	}
	return res
}

func TestStoreRunInTransactionAndSnapshots(t *testing.T) {
	store := newTestStore()
	res := run(t, store, func(tx domain.Transaction) error {
		if _, ok := tx.Snapshot().FindProject("missing"); ok {
			t.Fatalf("expected missing project lookup")
		}
		created, err := tx.CreateProject(domain.Project{Name: "Alpha"})
		if err != nil {
			return err
		}
		if created.ID != "id-1" || !created.CreatedAt.Equal(fixedNow) || !created.UpdatedAt.Equal(fixedNow) {
			t.Fatalf("expected stamped project, got %+v", created)
		}
		if len(tx.Snapshot().State().Projects) != 1 {
			t.Fatalf("snapshot mismatch")
		}
		return nil
	})
	if len(res.Changes) != 1 || len(res.Notifications) != 1 {
		t.Fatalf("expected one change and one notification, got %+v", res)
	}
	if n := res.Notifications[0]; n.Title != "New Project" || n.Body != "Alpha" || n.Read {
		t.Fatalf("unexpected notification %+v", n)
	}
	snapshot := store.ExportState()
	if len(snapshot.Projects) != 1 || len(snapshot.Notifications) != 1 {
		t.Fatalf("expected committed state, got %+v", snapshot)
	}
	if err := store.ImportState(context.Background(), domain.State{}); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got := store.ExportState(); got.Projects == nil || len(got.Projects) != 0 {
		t.Fatalf("expected cleared, normalized state")
	}
	if err := store.ImportState(context.Background(), snapshot); err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(store.ExportState().Projects) != 1 {
		t.Fatalf("expected restored state")
	}
	if store.NowFunc() == nil || store.Policy() == nil {
		t.Fatalf("expected clock and policy")
	}
}

func TestFailedTransactionLeavesStateUntouched(t *testing.T) {
	store := newTestStore(WithState(domain.SeedState()))
	before := store.ExportState()
	_, err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateProject(domain.Project{Name: "Ghost"}); err != nil {
			return err
		}
		return fmt.Errorf("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	after := store.ExportState()
	if len(after.Projects) != len(before.Projects) || len(after.Notifications) != 0 {
		t.Fatalf("expected rollback, got %d projects", len(after.Projects))
	}
}

func TestUpdateNotFoundAndMutatorErrors(t *testing.T) {
	store := newTestStore()
	run(t, store, func(tx domain.Transaction) error {
		checks := map[string]error{
			"project":      func() error { _, err := tx.UpdateProject("nope", nil, func(*domain.Project) error { return nil }); return err }(),
			"team":         func() error { _, err := tx.SetProjectTeam("nope", nil); return err }(),
			"comment":      func() error { _, err := tx.AddProjectComment("nope", domain.Comment{}); return err }(),
			"task":         func() error { _, err := tx.UpdateTask("nope", nil, func(*domain.Task) error { return nil }); return err }(),
			"meeting":      func() error { _, err := tx.UpdateMeeting("nope", nil, func(*domain.Meeting) error { return nil }); return err }(),
			"conversation": func() error { _, err := tx.AppendConversationMessage("nope", domain.ChatMessage{}); return err }(),
			"user":         func() error { _, err := tx.UpdateUser("nope", nil, func(*domain.UserProfile) error { return nil }); return err }(),
			"delProject":   tx.DeleteProject("nope"),
			"delTask":      tx.DeleteTask("nope"),
			"delMeeting":   tx.DeleteMeeting("nope"),
			"delConv":      tx.DeleteConversation("nope"),
			"delTimesheet": tx.DeleteTimesheet("nope"),
			"delUser":      tx.DeleteUser("nope"),
		}
		for name, err := range checks {
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("%s: expected ErrNotFound, got %v", name, err)
			}
		}
		p, err := tx.CreateProject(domain.Project{Name: "P"})
		if err != nil {
			return err
		}
		if _, err := tx.UpdateProject(p.ID, nil, func(*domain.Project) error { return fmt.Errorf("boom") }); err == nil {
			t.Fatalf("expected mutator error")
		}
		if _, err := tx.CreateProject(domain.Project{ID: p.ID}); err == nil {
			t.Fatalf("expected duplicate id error")
		}
		return nil
	})
}

func TestProjectUpdateNotificationsUseKeyPresence(t *testing.T) {
	later := fixedNow.Add(time.Hour)
	clock := fixedNow
	store := NewStore(WithClock(func() time.Time { return clock }), WithIDGenerator(SequentialIDs("id")))
	var id string
	run(t, store, func(tx domain.Transaction) error {
		p, err := tx.CreateProject(domain.Project{Name: "Alpha", Progress: 10})
		id = p.ID
		return err
	})
	clock = later
	res := run(t, store, func(tx domain.Transaction) error {
		_, err := tx.UpdateProject(id, []string{"progress"}, func(p *domain.Project) error {
			p.Progress = 10
			return nil
		})
		return err
	})
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "Project Updated" || res.Notifications[0].Body != "Alpha" {
		t.Fatalf("expected update notification on key presence, got %+v", res.Notifications)
	}
	res = run(t, store, func(tx domain.Transaction) error {
		_, err := tx.UpdateProject(id, []string{"description"}, func(p *domain.Project) error {
			p.Description = "d"
			return nil
		})
		return err
	})
	if len(res.Notifications) != 0 {
		t.Fatalf("description-only update must not notify, got %+v", res.Notifications)
	}
	p := store.ExportState().Projects[0]
	if !p.UpdatedAt.Equal(later) || !p.CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected refreshed updatedAt only, got %+v", p)
	}
	if got := store.ExportState().Notifications; len(got) != 2 || got[0].Title != "Project Updated" {
		t.Fatalf("expected newest notification first, got %+v", got)
	}
}

func TestTeamAndCommentsDoNotRefreshUpdatedAt(t *testing.T) {
	clock := fixedNow
	store := NewStore(WithClock(func() time.Time { return clock }), WithIDGenerator(SequentialIDs("id")))
	var id string
	run(t, store, func(tx domain.Transaction) error {
		p, err := tx.CreateProject(domain.Project{Name: "Alpha", Team: []string{}})
		id = p.ID
		return err
	})
	clock = fixedNow.Add(24 * time.Hour)
	res := run(t, store, func(tx domain.Transaction) error {
		if _, err := tx.SetProjectTeam(id, []string{"a@x.io"}); err != nil {
			return err
		}
		c, err := tx.AddProjectComment(id, domain.Comment{Text: "hello", Author: "a@x.io"})
		if err != nil {
			return err
		}
		if !c.CreatedAt.Equal(clock) || c.ID == "" {
			t.Fatalf("expected stamped comment, got %+v", c)
		}
		return nil
	})
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "New Comment" || res.Notifications[0].Body != "hello" {
		t.Fatalf("expected comment notification only, got %+v", res.Notifications)
	}
	p := store.ExportState().Projects[0]
	if !p.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("team/comment must not refresh updatedAt, got %v", p.UpdatedAt)
	}
	if len(p.Team) != 1 || len(p.Comments) != 1 {
		t.Fatalf("unexpected project %+v", p)
	}
}

func TestDeleteProjectCascadesTasksOnly(t *testing.T) {
	store := newTestStore(WithState(domain.SeedState()))
	run(t, store, func(tx domain.Transaction) error {
		_, err := tx.CreateTimesheet(domain.TimesheetEntry{ProjectID: "5", UserEmail: "a@x.io", Date: "2024-03-01", Hours: 2})
		return err
	})
	res := run(t, store, func(tx domain.Transaction) error { return tx.DeleteProject("5") })
	state := store.ExportState()
	if _, ok := domain.ProjectByID(state, "5"); ok {
		t.Fatalf("project should be gone")
	}
	if len(domain.TasksByProject(state, "5")) != 0 {
		t.Fatalf("tasks of deleted project must be removed")
	}
	if len(state.Tasks) != 4 {
		t.Fatalf("expected four remaining seed tasks, got %d", len(state.Tasks))
	}
	if len(domain.TimeLogsByProject(state, "5")) != 1 {
		t.Fatalf("timesheets are not cascade-cleaned")
	}
	if len(res.Changes) != 3 || len(res.Notifications) != 0 {
		t.Fatalf("expected project + two task deletions and no notification, got %+v", res)
	}
}

func TestOrderingHeadAndTail(t *testing.T) {
	store := newTestStore()
	run(t, store, func(tx domain.Transaction) error {
		for _, name := range []string{"first", "second"} {
			if _, err := tx.CreateProject(domain.Project{Name: name}); err != nil {
				return err
			}
			if _, err := tx.CreateTask(domain.Task{Title: name}); err != nil {
				return err
			}
			if _, err := tx.CreateMeeting(domain.Meeting{Title: name}); err != nil {
				return err
			}
			if _, err := tx.AppendChatMessage(domain.ChatMessage{Text: name}); err != nil {
				return err
			}
			if _, err := tx.CreateConversation(domain.Conversation{Name: name}); err != nil {
				return err
			}
			if _, err := tx.CreateTimesheet(domain.TimesheetEntry{Note: name}); err != nil {
				return err
			}
			if _, err := tx.CreateUser(domain.UserProfile{Name: name}); err != nil {
				return err
			}
		}
		return nil
	})
	s := store.ExportState()
	tail := []string{s.Projects[1].Name, s.Tasks[1].Title, s.Meetings[1].Title, s.ChatMessages[1].Text}
	for _, got := range tail {
		if got != "second" {
			t.Fatalf("expected tail append, got %v", tail)
		}
	}
	head := []string{s.Conversations[0].Name, s.Timesheets[0].Note, s.Users[0].Name}
	for _, got := range head {
		if got != "second" {
			t.Fatalf("expected head prepend, got %v", head)
		}
	}
	if s.ActiveConversationID != s.Conversations[0].ID {
		t.Fatalf("newest conversation should be active")
	}
	// project, task, meeting, conversation and time-log rules fire twice each; newest first
	if len(s.Notifications) != 10 || s.Notifications[0].Title != "Time Logged" || s.Notifications[1].Title != "New Conversation" {
		t.Fatalf("unexpected notifications %+v", s.Notifications)
	}
}

func TestConversationLifecycle(t *testing.T) {
	store := newTestStore()
	var convID string
	res := run(t, store, func(tx domain.Transaction) error {
		c, err := tx.CreateConversation(domain.Conversation{ParticipantEmails: []string{"a@x.io", "b@x.io"}})
		convID = c.ID
		return err
	})
	if res.Notifications[0].Body != "a@x.io, b@x.io" {
		t.Fatalf("expected joined participants body, got %q", res.Notifications[0].Body)
	}
	res = run(t, store, func(tx domain.Transaction) error {
		if _, err := tx.UpdateConversation(convID, []string{"participantEmails"}, func(c *domain.Conversation) error {
			c.ParticipantEmails = append(c.ParticipantEmails, "c@x.io")
			return nil
		}); err != nil {
			return err
		}
		_, err := tx.AppendConversationMessage(convID, domain.ChatMessage{Text: "hi", Sender: "a@x.io"})
		return err
	})
	if len(res.Notifications) != 1 || res.Notifications[0].Title != "New Message" || res.Notifications[0].Body != "hi" {
		t.Fatalf("expected message notification, got %+v", res.Notifications)
	}
	run(t, store, func(tx domain.Transaction) error {
		tx.SetActiveConversation("does-not-exist")
		return nil
	})
	if store.ExportState().ActiveConversationID != "does-not-exist" {
		t.Fatalf("pointer is stored unvalidated")
	}
	run(t, store, func(tx domain.Transaction) error {
		tx.SetActiveConversation(convID)
		return tx.DeleteConversation(convID)
	})
	s := store.ExportState()
	if s.ActiveConversationID != "" || len(s.Conversations) != 0 {
		t.Fatalf("expected pointer cleared with deletion, got %+v", s)
	}
	if len(s.ChatMessages) != 0 {
		t.Fatalf("conversation messages must not leak into the legacy log")
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	store := newTestStore()
	run(t, store, func(tx domain.Transaction) error {
		if _, err := tx.CreateNotification(domain.NotificationItem{Type: domain.NotifyTask, Title: "a", Read: true}); err != nil {
			return err
		}
		_, err := tx.CreateNotification(domain.NotificationItem{Type: domain.NotifyTask, Title: "b"})
		return err
	})
	s := store.ExportState()
	if s.Notifications[0].Title != "b" || s.Notifications[1].Read {
		t.Fatalf("expected head insert with read=false, got %+v", s.Notifications)
	}
	var marked int
	run(t, store, func(tx domain.Transaction) error {
		marked = tx.MarkAllNotificationsRead()
		return nil
	})
	if marked != 2 {
		t.Fatalf("expected two marked, got %d", marked)
	}
	for _, n := range store.ExportState().Notifications {
		if !n.Read {
			t.Fatalf("expected all read")
		}
	}
}

func TestUserAndMeetingUpdates(t *testing.T) {
	store := newTestStore(WithState(domain.SeedState()))
	run(t, store, func(tx domain.Transaction) error {
		u, err := tx.UpdateUser("u1", []string{"title"}, func(u *domain.UserProfile) error {
			u.Title = "Principal"
			u.ID = "hijack"
			return nil
		})
		if err != nil {
			return err
		}
		if u.ID != "u1" || u.Title != "Principal" {
			t.Fatalf("unexpected user %+v", u)
		}
		m, err := tx.UpdateMeeting("1", []string{"location"}, func(m *domain.Meeting) error {
			m.Location = "Room 9"
			return nil
		})
		if err != nil {
			return err
		}
		if m.Location != "Room 9" {
			t.Fatalf("unexpected meeting %+v", m)
		}
		return tx.DeleteUser("u2")
	})
	s := store.ExportState()
	if len(s.Users) != 4 {
		t.Fatalf("expected one user removed, got %d", len(s.Users))
	}
}

func TestApplyIsPure(t *testing.T) {
	in := domain.SeedState()
	out, res, err := Apply(in, fixedNow, SequentialIDs("n"), domain.NewNotificationPolicy(domain.DefaultNotificationRules()...), func(tx domain.Transaction) error {
		_, err := tx.CreateTask(domain.Task{Title: "Extra", ProjectID: "1"})
		return err
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(in.Tasks) != 6 || len(in.Notifications) != 0 {
		t.Fatalf("input state must not change")
	}
	if len(out.Tasks) != 7 || len(out.Notifications) != 1 || len(res.Changes) != 1 {
		t.Fatalf("unexpected output %d tasks %d notifications", len(out.Tasks), len(out.Notifications))
	}
	kept, _, err := Apply(in, fixedNow, nil, nil, func(domain.Transaction) error { return fmt.Errorf("nope") })
	if err == nil || len(kept.Tasks) != 6 {
		t.Fatalf("expected error and original state")
	}
}

func TestWithPolicyNilDisablesNotifications(t *testing.T) {
	store := newTestStore(WithPolicy(nil))
	res := run(t, store, func(tx domain.Transaction) error {
		_, err := tx.CreateProject(domain.Project{Name: "Quiet"})
		return err
	})
	if len(res.Notifications) != 0 || len(store.ExportState().Notifications) != 0 {
		t.Fatalf("expected no notifications")
	}
}

func TestRunInTransactionHonoursCancelledContext(t *testing.T) {
	store := newTestStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.RunInTransaction(ctx, func(domain.Transaction) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestIDGenerators(t *testing.T) {
	short := regexp.MustCompile(`^[0-9a-z]{9}$`)
	for i := 0; i < 50; i++ {
		if id := ShortID(); !short.MatchString(id) {
			t.Fatalf("bad short id %q", id)
		}
	}
	if id := UUIDv7(); len(id) != 36 {
		t.Fatalf("bad uuid %q", id)
	}
	gen := SequentialIDs("t")
	if gen() != "t-1" || gen() != "t-2" {
		t.Fatalf("expected sequential ids")
	}
	for _, name := range []string{"", "short", "uuid"} {
		if _, err := IDStrategy(name); err != nil {
			t.Fatalf("strategy %q: %v", name, err)
		}
	}
	if _, err := IDStrategy("snowflake"); err == nil {
		t.Fatalf("expected unknown strategy error")
	}
}
