package memory

import (
	"fmt"
	"slices"
	"time"

	"neonpm/pkg/domain"
)

// transaction is a mutation set applied to a private clone of the document.
type transaction struct {
	state   State
	changes []Change
	now     time.Time
	newID   IDGenerator
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

// Now returns the timestamp every record in this transaction is stamped with.
func (tx *transaction) Now() time.Time { return tx.now }

func (tx *transaction) id(current string) string {
	if current != "" {
		return current
	}
	return tx.newID()
}

func notFound(entity domain.EntityType, id string) error {
	return &domain.NotFoundError{Entity: entity, ID: id}
}

func indexByID[T any](items []T, id string, key func(T) string) int {
	return slices.IndexFunc(items, func(v T) bool { return key(v) == id })
}

func projectID(p domain.Project) string           { return p.ID }
func taskID(t domain.Task) string                 { return t.ID }
func meetingID(m domain.Meeting) string           { return m.ID }
func conversationID(c domain.Conversation) string { return c.ID }
func timesheetID(e domain.TimesheetEntry) string  { return e.ID }
func userID(u domain.UserProfile) string          { return u.ID }

// CreateProject appends a project at the tail.
func (tx *transaction) CreateProject(p domain.Project) (domain.Project, error) {
	p.ID = tx.id(p.ID)
	if indexByID(tx.state.Projects, p.ID, projectID) >= 0 {
		return domain.Project{}, fmt.Errorf("project %q already exists", p.ID)
	}
	p.CreatedAt = tx.now
	p.UpdatedAt = tx.now
	p = domain.CloneProject(p)
	tx.state.Projects = append(tx.state.Projects, p)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionCreate, ID: p.ID, After: domain.CloneProject(p)})
	return domain.CloneProject(p), nil
}

// UpdateProject mutates a project in place and refreshes updatedAt.
func (tx *transaction) UpdateProject(id string, fields []string, mutator func(*domain.Project) error) (domain.Project, error) {
	idx := indexByID(tx.state.Projects, id, projectID)
	if idx < 0 {
		return domain.Project{}, notFound(domain.EntityProject, id)
	}
	before := domain.CloneProject(tx.state.Projects[idx])
	current := domain.CloneProject(before)
	if err := mutator(&current); err != nil {
		return domain.Project{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.Projects[idx] = current
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, ID: id, Fields: slices.Clone(fields), Before: before, After: domain.CloneProject(current)})
	return domain.CloneProject(current), nil
}

// SetProjectTeam replaces the team list without touching updatedAt.
func (tx *transaction) SetProjectTeam(id string, team []string) (domain.Project, error) {
	idx := indexByID(tx.state.Projects, id, projectID)
	if idx < 0 {
		return domain.Project{}, notFound(domain.EntityProject, id)
	}
	before := domain.CloneProject(tx.state.Projects[idx])
	current := domain.CloneProject(before)
	current.Team = append([]string{}, team...)
	tx.state.Projects[idx] = current
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionUpdate, ID: id, Fields: []string{"team"}, Before: before, After: domain.CloneProject(current)})
	return domain.CloneProject(current), nil
}

// AddProjectComment appends a comment to a project without touching updatedAt.
func (tx *transaction) AddProjectComment(id string, c domain.Comment) (domain.Comment, error) {
	idx := indexByID(tx.state.Projects, id, projectID)
	if idx < 0 {
		return domain.Comment{}, notFound(domain.EntityProject, id)
	}
	c.ID = tx.id(c.ID)
	c.CreatedAt = tx.now
	p := domain.CloneProject(tx.state.Projects[idx])
	p.Comments = append(p.Comments, c)
	tx.state.Projects[idx] = p
	tx.recordChange(Change{Entity: domain.EntityComment, Action: domain.ActionCreate, ID: c.ID, After: c})
	return c, nil
}

// DeleteProject removes a project and every task that references it.
func (tx *transaction) DeleteProject(id string) error {
	idx := indexByID(tx.state.Projects, id, projectID)
	if idx < 0 {
		return notFound(domain.EntityProject, id)
	}
	before := tx.state.Projects[idx]
	tx.state.Projects = slices.Delete(tx.state.Projects, idx, idx+1)
	tx.recordChange(Change{Entity: domain.EntityProject, Action: domain.ActionDelete, ID: id, Before: before})
	kept := tx.state.Tasks[:0:0]
	for _, t := range tx.state.Tasks {
		if t.ProjectID == id {
			tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionDelete, ID: t.ID, Before: t})
			continue
		}
		kept = append(kept, t)
	}
	tx.state.Tasks = kept
	return nil
}

// CreateTask appends a task at the tail. The project reference is not checked.
func (tx *transaction) CreateTask(t domain.Task) (domain.Task, error) {
	t.ID = tx.id(t.ID)
	if indexByID(tx.state.Tasks, t.ID, taskID) >= 0 {
		return domain.Task{}, fmt.Errorf("task %q already exists", t.ID)
	}
	t.CreatedAt = tx.now
	t.UpdatedAt = tx.now
	t = domain.CloneTask(t)
	tx.state.Tasks = append(tx.state.Tasks, t)
	tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionCreate, ID: t.ID, After: domain.CloneTask(t)})
	return domain.CloneTask(t), nil
}

// UpdateTask mutates a task in place and refreshes updatedAt.
func (tx *transaction) UpdateTask(id string, fields []string, mutator func(*domain.Task) error) (domain.Task, error) {
	idx := indexByID(tx.state.Tasks, id, taskID)
	if idx < 0 {
		return domain.Task{}, notFound(domain.EntityTask, id)
	}
	before := domain.CloneTask(tx.state.Tasks[idx])
	current := domain.CloneTask(before)
	if err := mutator(&current); err != nil {
		return domain.Task{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.Tasks[idx] = current
	tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionUpdate, ID: id, Fields: slices.Clone(fields), Before: before, After: domain.CloneTask(current)})
	return domain.CloneTask(current), nil
}

// DeleteTask removes a task.
func (tx *transaction) DeleteTask(id string) error {
	idx := indexByID(tx.state.Tasks, id, taskID)
	if idx < 0 {
		return notFound(domain.EntityTask, id)
	}
	before := tx.state.Tasks[idx]
	tx.state.Tasks = slices.Delete(tx.state.Tasks, idx, idx+1)
	tx.recordChange(Change{Entity: domain.EntityTask, Action: domain.ActionDelete, ID: id, Before: before})
	return nil
}

// CreateMeeting appends a meeting at the tail.
func (tx *transaction) CreateMeeting(m domain.Meeting) (domain.Meeting, error) {
	m.ID = tx.id(m.ID)
	if indexByID(tx.state.Meetings, m.ID, meetingID) >= 0 {
		return domain.Meeting{}, fmt.Errorf("meeting %q already exists", m.ID)
	}
	m.CreatedAt = tx.now
	m = domain.CloneMeeting(m)
	tx.state.Meetings = append(tx.state.Meetings, m)
	tx.recordChange(Change{Entity: domain.EntityMeeting, Action: domain.ActionCreate, ID: m.ID, After: domain.CloneMeeting(m)})
	return domain.CloneMeeting(m), nil
}

// UpdateMeeting mutates a meeting in place. Meetings carry no updatedAt.
func (tx *transaction) UpdateMeeting(id string, fields []string, mutator func(*domain.Meeting) error) (domain.Meeting, error) {
	idx := indexByID(tx.state.Meetings, id, meetingID)
	if idx < 0 {
		return domain.Meeting{}, notFound(domain.EntityMeeting, id)
	}
	before := domain.CloneMeeting(tx.state.Meetings[idx])
	current := domain.CloneMeeting(before)
	if err := mutator(&current); err != nil {
		return domain.Meeting{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	tx.state.Meetings[idx] = current
	tx.recordChange(Change{Entity: domain.EntityMeeting, Action: domain.ActionUpdate, ID: id, Fields: slices.Clone(fields), Before: before, After: domain.CloneMeeting(current)})
	return domain.CloneMeeting(current), nil
}

// DeleteMeeting removes a meeting.
func (tx *transaction) DeleteMeeting(id string) error {
	idx := indexByID(tx.state.Meetings, id, meetingID)
	if idx < 0 {
		return notFound(domain.EntityMeeting, id)
	}
	before := tx.state.Meetings[idx]
	tx.state.Meetings = slices.Delete(tx.state.Meetings, idx, idx+1)
	tx.recordChange(Change{Entity: domain.EntityMeeting, Action: domain.ActionDelete, ID: id, Before: before})
	return nil
}

// AppendChatMessage appends to the legacy broadcast log.
func (tx *transaction) AppendChatMessage(msg domain.ChatMessage) (domain.ChatMessage, error) {
	msg.ID = tx.id(msg.ID)
	msg.Timestamp = tx.now
	tx.state.ChatMessages = append(tx.state.ChatMessages, msg)
	tx.recordChange(Change{Entity: domain.EntityChatMessage, Action: domain.ActionCreate, ID: msg.ID, After: msg})
	return msg, nil
}

// CreateConversation prepends a conversation and makes it active.
func (tx *transaction) CreateConversation(c domain.Conversation) (domain.Conversation, error) {
	c.ID = tx.id(c.ID)
	if indexByID(tx.state.Conversations, c.ID, conversationID) >= 0 {
		return domain.Conversation{}, fmt.Errorf("conversation %q already exists", c.ID)
	}
	c.CreatedAt = tx.now
	c = domain.CloneConversation(c)
	if c.ParticipantEmails == nil {
		c.ParticipantEmails = []string{}
	}
	if c.Messages == nil {
		c.Messages = []domain.ChatMessage{}
	}
	tx.state.Conversations = prepend(tx.state.Conversations, c)
	tx.state.ActiveConversationID = c.ID
	tx.recordChange(Change{Entity: domain.EntityConversation, Action: domain.ActionCreate, ID: c.ID, After: domain.CloneConversation(c)})
	return domain.CloneConversation(c), nil
}

// UpdateConversation mutates a conversation's participants or name.
func (tx *transaction) UpdateConversation(id string, fields []string, mutator func(*domain.Conversation) error) (domain.Conversation, error) {
	idx := indexByID(tx.state.Conversations, id, conversationID)
	if idx < 0 {
		return domain.Conversation{}, notFound(domain.EntityConversation, id)
	}
	before := domain.CloneConversation(tx.state.Conversations[idx])
	current := domain.CloneConversation(before)
	if err := mutator(&current); err != nil {
		return domain.Conversation{}, err
	}
	current.ID = id
	current.CreatedAt = before.CreatedAt
	tx.state.Conversations[idx] = current
	tx.recordChange(Change{Entity: domain.EntityConversation, Action: domain.ActionUpdate, ID: id, Fields: slices.Clone(fields), Before: before, After: domain.CloneConversation(current)})
	return domain.CloneConversation(current), nil
}

// AppendConversationMessage appends msg to one conversation's log.
func (tx *transaction) AppendConversationMessage(id string, msg domain.ChatMessage) (domain.ChatMessage, error) {
	idx := indexByID(tx.state.Conversations, id, conversationID)
	if idx < 0 {
		return domain.ChatMessage{}, notFound(domain.EntityConversation, id)
	}
	msg.ID = tx.id(msg.ID)
	msg.Timestamp = tx.now
	c := domain.CloneConversation(tx.state.Conversations[idx])
	c.Messages = append(c.Messages, msg)
	tx.state.Conversations[idx] = c
	tx.recordChange(Change{Entity: domain.EntityConversationMessage, Action: domain.ActionCreate, ID: msg.ID, After: msg})
	return msg, nil
}

// DeleteConversation removes a conversation and clears the active pointer
// when it referenced it.
func (tx *transaction) DeleteConversation(id string) error {
	idx := indexByID(tx.state.Conversations, id, conversationID)
	if idx < 0 {
		return notFound(domain.EntityConversation, id)
	}
	before := tx.state.Conversations[idx]
	tx.state.Conversations = slices.Delete(tx.state.Conversations, idx, idx+1)
	if tx.state.ActiveConversationID == id {
		tx.state.ActiveConversationID = ""
	}
	tx.recordChange(Change{Entity: domain.EntityConversation, Action: domain.ActionDelete, ID: id, Before: before})
	return nil
}

// SetActiveConversation stores the pointer as given; it is not validated.
func (tx *transaction) SetActiveConversation(id string) {
	tx.state.ActiveConversationID = id
}

// CreateNotification prepends a notification, unread.
func (tx *transaction) CreateNotification(n domain.NotificationItem) (domain.NotificationItem, error) {
	n.ID = tx.id(n.ID)
	n.CreatedAt = tx.now
	n.Read = false
	tx.state.Notifications = prepend(tx.state.Notifications, n)
	tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionCreate, ID: n.ID, After: n})
	return n, nil
}

// MarkAllNotificationsRead flags every notification read and reports how
// many were unread.
func (tx *transaction) MarkAllNotificationsRead() int {
	marked := 0
	for i := range tx.state.Notifications {
		if !tx.state.Notifications[i].Read {
			marked++
		}
		tx.state.Notifications[i].Read = true
	}
	if marked > 0 {
		tx.recordChange(Change{Entity: domain.EntityNotification, Action: domain.ActionUpdate, Fields: []string{"read"}})
	}
	return marked
}

// CreateTimesheet prepends a timesheet entry.
func (tx *transaction) CreateTimesheet(e domain.TimesheetEntry) (domain.TimesheetEntry, error) {
	e.ID = tx.id(e.ID)
	if indexByID(tx.state.Timesheets, e.ID, timesheetID) >= 0 {
		return domain.TimesheetEntry{}, fmt.Errorf("timesheet %q already exists", e.ID)
	}
	e.CreatedAt = tx.now
	tx.state.Timesheets = prepend(tx.state.Timesheets, e)
	tx.recordChange(Change{Entity: domain.EntityTimesheet, Action: domain.ActionCreate, ID: e.ID, After: e})
	return e, nil
}

// DeleteTimesheet removes a timesheet entry.
func (tx *transaction) DeleteTimesheet(id string) error {
	idx := indexByID(tx.state.Timesheets, id, timesheetID)
	if idx < 0 {
		return notFound(domain.EntityTimesheet, id)
	}
	before := tx.state.Timesheets[idx]
	tx.state.Timesheets = slices.Delete(tx.state.Timesheets, idx, idx+1)
	tx.recordChange(Change{Entity: domain.EntityTimesheet, Action: domain.ActionDelete, ID: id, Before: before})
	return nil
}

// CreateUser prepends a user profile.
func (tx *transaction) CreateUser(u domain.UserProfile) (domain.UserProfile, error) {
	u.ID = tx.id(u.ID)
	if indexByID(tx.state.Users, u.ID, userID) >= 0 {
		return domain.UserProfile{}, fmt.Errorf("user %q already exists", u.ID)
	}
	tx.state.Users = prepend(tx.state.Users, u)
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionCreate, ID: u.ID, After: u})
	return u, nil
}

// UpdateUser mutates a user profile in place.
func (tx *transaction) UpdateUser(id string, fields []string, mutator func(*domain.UserProfile) error) (domain.UserProfile, error) {
	idx := indexByID(tx.state.Users, id, userID)
	if idx < 0 {
		return domain.UserProfile{}, notFound(domain.EntityUser, id)
	}
	before := tx.state.Users[idx]
	current := before
	if err := mutator(&current); err != nil {
		return domain.UserProfile{}, err
	}
	current.ID = id
	tx.state.Users[idx] = current
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionUpdate, ID: id, Fields: slices.Clone(fields), Before: before, After: current})
	return current, nil
}

// DeleteUser removes a user profile. References elsewhere are left alone.
func (tx *transaction) DeleteUser(id string) error {
	idx := indexByID(tx.state.Users, id, userID)
	if idx < 0 {
		return notFound(domain.EntityUser, id)
	}
	before := tx.state.Users[idx]
	tx.state.Users = slices.Delete(tx.state.Users, idx, idx+1)
	tx.recordChange(Change{Entity: domain.EntityUser, Action: domain.ActionDelete, ID: id, Before: before})
	return nil
}
