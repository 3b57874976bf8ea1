package domain

import (
	"context"
	"time"
)

// Transaction exposes the record mutations a persistence implementation must
// support within an atomic scope. Implementations stamp ids and timestamps,
// keep each collection's head/tail ordering, and record a Change for every
// mutation. Update and delete of an unknown id return a *NotFoundError.
type Transaction interface {
	Snapshot() TransactionView
	Now() time.Time

	CreateProject(Project) (Project, error)
	UpdateProject(id string, fields []string, mutator func(*Project) error) (Project, error)
	SetProjectTeam(id string, team []string) (Project, error)
	AddProjectComment(projectID string, comment Comment) (Comment, error)
	DeleteProject(id string) error

	CreateTask(Task) (Task, error)
	UpdateTask(id string, fields []string, mutator func(*Task) error) (Task, error)
	DeleteTask(id string) error

	CreateMeeting(Meeting) (Meeting, error)
	UpdateMeeting(id string, fields []string, mutator func(*Meeting) error) (Meeting, error)
	DeleteMeeting(id string) error

	AppendChatMessage(ChatMessage) (ChatMessage, error)

	CreateConversation(Conversation) (Conversation, error)
	UpdateConversation(id string, fields []string, mutator func(*Conversation) error) (Conversation, error)
	AppendConversationMessage(conversationID string, msg ChatMessage) (ChatMessage, error)
	DeleteConversation(id string) error
	SetActiveConversation(id string)

	CreateNotification(NotificationItem) (NotificationItem, error)
	MarkAllNotificationsRead() int

	CreateTimesheet(TimesheetEntry) (TimesheetEntry, error)
	DeleteTimesheet(id string) error

	CreateUser(UserProfile) (UserProfile, error)
	UpdateUser(id string, fields []string, mutator func(*UserProfile) error) (UserProfile, error)
	DeleteUser(id string) error
}

// TransactionView provides read-only access to snapshot data.
type TransactionView interface {
	State() State
	FindProject(id string) (Project, bool)
	FindTask(id string) (Task, bool)
	FindMeeting(id string) (Meeting, bool)
	FindConversation(id string) (Conversation, bool)
	FindUser(id string) (UserProfile, bool)
}

// PersistentStore is the abstraction the service layer runs against.
// ImportState replaces the whole document, which is how seeding and restore
// are expressed.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	ExportState() State
	ImportState(ctx context.Context, state State) error
}

// IdentityProvider resolves the signed-in user. A zero CurrentUser with a
// nil error means nobody is signed in.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (CurrentUser, error)
}
