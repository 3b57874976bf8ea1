package domain

// Inputs are the payloads accepted by the add operations: a record's shape
// minus the generated id and timestamps. WithDefaults fills the values the
// client forms preselect; Validate rejects anything the store must not hold.

// ProjectInput is the payload for AddProject.
type ProjectInput struct {
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
}

// WithDefaults returns a copy with empty enums set to planning/medium.
func (in ProjectInput) WithDefaults() ProjectInput {
	if in.Status == "" {
		in.Status = ProjectPlanning
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	return in
}

// Validate checks enum membership, progress range and date shape.
func (in ProjectInput) Validate() error {
	err := firstErr(
		checkRequired(EntityProject, "name", in.Name),
		checkProgress(EntityProject, in.Progress),
		checkDate(EntityProject, "startDate", in.StartDate),
		checkDate(EntityProject, "endDate", in.EndDate),
	)
	if err != nil {
		return err
	}
	if !in.Status.Valid() {
		return invalid(EntityProject, "status", "unknown status %q", in.Status)
	}
	if !in.Priority.Valid() {
		return invalid(EntityProject, "priority", "unknown priority %q", in.Priority)
	}
	return nil
}

// TaskInput is the payload for AddTask.
type TaskInput struct {
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
}

// WithDefaults returns a copy with todo/medium/task and one story point
// filled in where unset.
func (in TaskInput) WithDefaults() TaskInput {
	if in.Status == "" {
		in.Status = TaskTodo
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.Type == "" {
		in.Type = TaskTask
	}
	if in.StoryPoints == 0 {
		in.StoryPoints = 1
	}
	return in
}

// Validate checks enums, story points, hours and the due date.
func (in TaskInput) Validate() error {
	err := firstErr(
		checkRequired(EntityTask, "title", in.Title),
		checkStoryPoints(in.StoryPoints),
		checkDate(EntityTask, "dueDate", in.DueDate),
		checkNonNegative(EntityTask, "estimatedHours", in.EstimatedHours),
		checkNonNegative(EntityTask, "timeLogged", in.TimeLogged),
	)
	if err != nil {
		return err
	}
	switch {
	case !in.Status.Valid():
		return invalid(EntityTask, "status", "unknown status %q", in.Status)
	case !in.Priority.Valid():
		return invalid(EntityTask, "priority", "unknown priority %q", in.Priority)
	case !in.Type.Valid():
		return invalid(EntityTask, "type", "unknown type %q", in.Type)
	}
	return nil
}

// MeetingInput is the payload for AddMeeting.
type MeetingInput struct {
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
	AllDay            bool        `json:"allDay"`
}

// WithDefaults returns a copy with the meeting type defaulted to other.
func (in MeetingInput) WithDefaults() MeetingInput {
	if in.Type == "" {
		in.Type = MeetingOther
	}
	return in
}

// Validate checks the title, type and date.
func (in MeetingInput) Validate() error {
	err := firstErr(
		checkRequired(EntityMeeting, "title", in.Title),
		checkDate(EntityMeeting, "date", in.Date),
	)
	if err != nil {
		return err
	}
	if !in.Type.Valid() {
		return invalid(EntityMeeting, "type", "unknown type %q", in.Type)
	}
	return nil
}

// CommentInput is the payload for AddProjectComment.
type CommentInput struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

// Validate requires comment text.
func (in CommentInput) Validate() error {
	return checkRequired(EntityComment, "text", in.Text)
}

// ChatMessageInput is the payload for both chat pools.
type ChatMessageInput struct {
	Text     string      `json:"text"`
	Sender   string      `json:"sender"`
	Type     MessageType `json:"type"`
	FileURL  string      `json:"fileUrl,omitempty"`
	FileName string      `json:"fileName,omitempty"`
}

// WithDefaults returns a copy with the message type defaulted to text.
func (in ChatMessageInput) WithDefaults() ChatMessageInput {
	if in.Type == "" {
		in.Type = MessageText
	}
	return in
}

// Validate requires text, except for file messages which require a URL.
func (in ChatMessageInput) Validate() error {
	if !in.Type.Valid() {
		return invalid(EntityChatMessage, "type", "unknown type %q", in.Type)
	}
	if in.Type == MessageFile {
		return checkRequired(EntityChatMessage, "fileUrl", in.FileURL)
	}
	return checkRequired(EntityChatMessage, "text", in.Text)
}

// NotificationInput is the payload for AddNotification.
type NotificationInput struct {
	Type  NotificationType `json:"type"`
	Title string           `json:"title"`
	Body  string           `json:"body"`
}

// Validate checks the type and title.
func (in NotificationInput) Validate() error {
	if !in.Type.Valid() {
		return invalid(EntityNotification, "type", "unknown type %q", in.Type)
	}
	return checkRequired(EntityNotification, "title", in.Title)
}

// TimesheetInput is the payload for AddTimeLog.
type TimesheetInput struct {
	ProjectID string  `json:"projectId"`
	UserEmail string  `json:"userEmail"`
	Date      string  `json:"date"`
	Hours     float64 `json:"hours"`
	Note      string  `json:"note,omitempty"`
}

// Validate requires a project, a date and positive hours.
func (in TimesheetInput) Validate() error {
	err := firstErr(
		checkRequired(EntityTimesheet, "projectId", in.ProjectID),
		checkRequired(EntityTimesheet, "date", in.Date),
		checkDate(EntityTimesheet, "date", in.Date),
	)
	if err != nil {
		return err
	}
	if in.Hours <= 0 {
		return invalid(EntityTimesheet, "hours", "must be positive, got %v", in.Hours)
	}
	return nil
}

// UserInput is the payload for AddUser.
type UserInput struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       UserRole   `json:"role"`
	Title      string     `json:"title,omitempty"`
	Department string     `json:"department,omitempty"`
	Status     UserStatus `json:"status"`
	AvatarURL  string     `json:"avatarUrl,omitempty"`
}

// WithDefaults returns a copy defaulting to an active developer.
func (in UserInput) WithDefaults() UserInput {
	if in.Role == "" {
		in.Role = RoleDeveloper
	}
	if in.Status == "" {
		in.Status = UserActive
	}
	return in
}

// Validate checks name, email, role and status.
func (in UserInput) Validate() error {
	err := firstErr(
		checkRequired(EntityUser, "name", in.Name),
		checkRequired(EntityUser, "email", in.Email),
	)
	if err != nil {
		return err
	}
	if !in.Role.Valid() {
		return invalid(EntityUser, "role", "unknown role %q", in.Role)
	}
	if !in.Status.Valid() {
		return invalid(EntityUser, "status", "unknown status %q", in.Status)
	}
	return nil
}
