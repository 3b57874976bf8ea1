// Package domain defines the persisted project-management records, the
// whole-document State, change records, and the pure view functions used by
// neonpm.
package domain

import "time"

// EntityType identifies the type of record stored in the document.
type EntityType string

// Supported entity type identifiers used in Change records and errors.
const (
	// EntityProject identifies a project record.
	EntityProject EntityType = "project"
	// EntityTask identifies a task record.
	EntityTask EntityType = "task"
	// EntityMeeting identifies a meeting record.
	EntityMeeting EntityType = "meeting"
	// EntityComment identifies a project comment sub-record.
	EntityComment EntityType = "comment"
	// EntityChatMessage identifies a message in the legacy broadcast log.
	EntityChatMessage EntityType = "chat_message"
	// EntityConversation identifies a conversation record.
	EntityConversation EntityType = "conversation"
	// EntityConversationMessage identifies a message appended to one conversation.
	EntityConversationMessage EntityType = "conversation_message"
	// EntityNotification identifies a notification record.
	EntityNotification EntityType = "notification"
	// EntityTimesheet identifies a timesheet entry.
	EntityTimesheet EntityType = "timesheet"
	EntityUser      EntityType = "user"
)

// ProjectStatus enumerates project workflow states.
type ProjectStatus string

// Canonical project statuses.
const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on-hold"
	ProjectCompleted ProjectStatus = "completed"
)

// Priority is shared by projects and tasks.
type Priority string

// Canonical priorities, lowest first.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// TaskStatus enumerates the task board columns.
type TaskStatus string

// Canonical task statuses in board order.
const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

// TaskType classifies a task.
type TaskType string

// Canonical task types.
const (
	TaskStory TaskType = "story"
	TaskBug   TaskType = "bug"
	TaskTask  TaskType = "task"
	TaskEpic  TaskType = "epic"
)

// MeetingType classifies a meeting.
type MeetingType string

// Canonical meeting types.
const (
	MeetingStandup       MeetingType = "standup"
	MeetingPlanning      MeetingType = "planning"
	MeetingReview        MeetingType = "review"
	MeetingRetrospective MeetingType = "retrospective"
	MeetingClient        MeetingType = "client"
	MeetingOther         MeetingType = "other"
)

// MessageType classifies a chat message.
type MessageType string

// Canonical chat message types.
const (
	MessageText   MessageType = "text"
	MessageFile   MessageType = "file"
	MessageSystem MessageType = "system"
)

// NotificationType identifies which area produced a notification.
type NotificationType string

// Canonical notification types.
const (
	NotifyProject NotificationType = "project"
	NotifyTask    NotificationType = "task"
	NotifyMeeting NotificationType = "meeting"
	NotifyChat    NotificationType = "chat"
)

// UserRole is the directory role of a user profile.
type UserRole string

// Canonical directory roles.
const (
	RoleAdmin     UserRole = "admin"
	RoleManager   UserRole = "manager"
	RoleDeveloper UserRole = "developer"
	RoleDesigner  UserRole = "designer"
	RoleQA        UserRole = "qa"
)

// UserStatus marks whether a profile is active.
type UserStatus string

// Canonical user statuses.
const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

// StoryPoints lists the estimates a task may carry.
var StoryPoints = []int{1, 2, 3, 5, 8, 13, 21}

// Comment is an append-only note attached to a project.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Project is a unit of planned work with a team and progress.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Status      ProjectStatus `json:"status"`
	Priority    Priority      `json:"priority"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate"`
	Assignee    string        `json:"assignee"`
	Reporter    string        `json:"reporter"`
	Team        []string      `json:"team"`
	Progress    int           `json:"progress"`
	Labels      []string      `json:"labels"`
	Attachments []string      `json:"attachments"`
	Comments    []Comment     `json:"comments"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// Task belongs to a project by ProjectID; the reference is not validated.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         TaskStatus `json:"status"`
	Priority       Priority   `json:"priority"`
	Type           TaskType   `json:"type"`
	Assignee       string     `json:"assignee"`
	Reporter       string     `json:"reporter"`
	ProjectID      string     `json:"projectId"`
	StoryPoints    int        `json:"storyPoints"`
	Labels         []string   `json:"labels"`
	DueDate        string     `json:"dueDate"`
	EstimatedHours float64    `json:"estimatedHours"`
	TimeLogged     float64    `json:"timeLogged"`
	Attachments    []string   `json:"attachments"`
	Comments       []Comment  `json:"comments"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Meeting is a scheduled event. It has no updatedAt field.
type Meeting struct {
	ID                string      `json:"id"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Date              string      `json:"date"`
	StartTime         string      `json:"startTime"`
	EndTime           string      `json:"endTime"`
	Attendees         []string    `json:"attendees"`
	Location          string      `json:"location"`
	Type              MeetingType `json:"type"`
	Agenda            []string    `json:"agenda"`
	MeetingLink       string      `json:"meetingLink"`
	IsRecurring       bool        `json:"isRecurring"`
	RecurrencePattern string      `json:"recurrencePattern,omitempty"`
	CreatedBy         string      `json:"createdBy"`
	CreatedAt         time.Time   `json:"createdAt"`
	AllDay            bool        `json:"allDay"`
}

// ChatMessage lives either in the legacy broadcast log or inside a Conversation.
type ChatMessage struct {
	ID        string      `json:"id"`
	Text      string      `json:"text"`
	Sender    string      `json:"sender"`
	Timestamp time.Time   `json:"timestamp"`
	Type      MessageType `json:"type"`
	FileURL   string      `json:"fileUrl,omitempty"`
	FileName  string      `json:"fileName,omitempty"`
}

// Conversation is a multi-party chat with its own message log.
type Conversation struct {
	ID                string        `json:"id"`
	Name              string        `json:"name,omitempty"`
	ParticipantEmails []string      `json:"participantEmails"`
	Messages          []ChatMessage `json:"messages"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// NotificationItem is produced as a side effect of mutations.
type NotificationItem struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"createdAt"`
	Read      bool             `json:"read"`
}

// TimesheetEntry records hours a user spent on a project. Never updated in place.
type TimesheetEntry struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserEmail string    `json:"userEmail"`
	Date      string    `json:"date"`
	Hours     float64   `json:"hours"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserProfile is an entry in the managed people directory.
type UserProfile struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       UserRole   `json:"role"`
	Title      string     `json:"title,omitempty"`
	Department string     `json:"department,omitempty"`
	Status     UserStatus `json:"status"`
	AvatarURL  string     `json:"avatarUrl,omitempty"`
}

// CurrentUser is the signed-in identity written by the authentication
// collaborator under its own key.
type CurrentUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IsZero reports whether no user is signed in.
func (u CurrentUser) IsZero() bool {
	return u.ID == "" && u.Name == "" && u.Email == ""
}
