package domain

// Patches carry partial updates. A non-nil field is a key present in the
// update payload; Fields lists those keys by their JSON names, which is what
// the notification rules match on. Presence, not value change, is what
// counts: setting status to its current value is still a status update.

// ProjectPatch is the partial payload for UpdateProject.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
	Priority    *Priority      `json:"priority,omitempty"`
	StartDate   *string        `json:"startDate,omitempty"`
	EndDate     *string        `json:"endDate,omitempty"`
	Assignee    *string        `json:"assignee,omitempty"`
	Reporter    *string        `json:"reporter,omitempty"`
	Team        *[]string      `json:"team,omitempty"`
	Progress    *int           `json:"progress,omitempty"`
	Labels      *[]string      `json:"labels,omitempty"`
	Attachments *[]string      `json:"attachments,omitempty"`
}

// Fields lists the keys present in the patch.
func (p ProjectPatch) Fields() []string {
	var f fieldSet
	f.add("name", p.Name != nil)
	f.add("description", p.Description != nil)
	f.add("status", p.Status != nil)
	f.add("priority", p.Priority != nil)
	f.add("startDate", p.StartDate != nil)
	f.add("endDate", p.EndDate != nil)
	f.add("assignee", p.Assignee != nil)
	f.add("reporter", p.Reporter != nil)
	f.add("team", p.Team != nil)
	f.add("progress", p.Progress != nil)
	f.add("labels", p.Labels != nil)
	f.add("attachments", p.Attachments != nil)
	return f
}

// Validate checks only the present fields.
func (p ProjectPatch) Validate() error {
	if p.Name != nil {
		if err := checkRequired(EntityProject, "name", *p.Name); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid(EntityProject, "status", "unknown status %q", *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return invalid(EntityProject, "priority", "unknown priority %q", *p.Priority)
	}
	if p.Progress != nil {
		if err := checkProgress(EntityProject, *p.Progress); err != nil {
			return err
		}
	}
	if p.StartDate != nil {
		if err := checkDate(EntityProject, "startDate", *p.StartDate); err != nil {
			return err
		}
	}
	if p.EndDate != nil {
		return checkDate(EntityProject, "endDate", *p.EndDate)
	}
	return nil
}

// Apply merges the present fields into project.
func (p ProjectPatch) Apply(project *Project) {
	setIf(&project.Name, p.Name)
	setIf(&project.Description, p.Description)
	setIf(&project.Status, p.Status)
	setIf(&project.Priority, p.Priority)
	setIf(&project.StartDate, p.StartDate)
	setIf(&project.EndDate, p.EndDate)
	setIf(&project.Assignee, p.Assignee)
	setIf(&project.Reporter, p.Reporter)
	setSliceIf(&project.Team, p.Team)
	setIf(&project.Progress, p.Progress)
	setSliceIf(&project.Labels, p.Labels)
	setSliceIf(&project.Attachments, p.Attachments)
}

// TaskPatch is the partial payload for UpdateTask.
type TaskPatch struct {
	Title          *string     `json:"title,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Status         *TaskStatus `json:"status,omitempty"`
	Priority       *Priority   `json:"priority,omitempty"`
	Type           *TaskType   `json:"type,omitempty"`
	Assignee       *string     `json:"assignee,omitempty"`
	Reporter       *string     `json:"reporter,omitempty"`
	ProjectID      *string     `json:"projectId,omitempty"`
	StoryPoints    *int        `json:"storyPoints,omitempty"`
	Labels         *[]string   `json:"labels,omitempty"`
	DueDate        *string     `json:"dueDate,omitempty"`
	EstimatedHours *float64    `json:"estimatedHours,omitempty"`
	TimeLogged     *float64    `json:"timeLogged,omitempty"`
	Attachments    *[]string   `json:"attachments,omitempty"`
}

// Fields lists the keys present in the patch.
func (p TaskPatch) Fields() []string {
	var f fieldSet
	f.add("title", p.Title != nil)
	f.add("description", p.Description != nil)
	f.add("status", p.Status != nil)
	f.add("priority", p.Priority != nil)
	f.add("type", p.Type != nil)
	f.add("assignee", p.Assignee != nil)
	f.add("reporter", p.Reporter != nil)
	f.add("projectId", p.ProjectID != nil)
	f.add("storyPoints", p.StoryPoints != nil)
	f.add("labels", p.Labels != nil)
	f.add("dueDate", p.DueDate != nil)
	f.add("estimatedHours", p.EstimatedHours != nil)
	f.add("timeLogged", p.TimeLogged != nil)
	f.add("attachments", p.Attachments != nil)
	return f
}

// Validate checks only the present fields.
func (p TaskPatch) Validate() error {
	if p.Title != nil {
		if err := checkRequired(EntityTask, "title", *p.Title); err != nil {
			return err
		}
	}
	switch {
	case p.Status != nil && !p.Status.Valid():
		return invalid(EntityTask, "status", "unknown status %q", *p.Status)
	case p.Priority != nil && !p.Priority.Valid():
		return invalid(EntityTask, "priority", "unknown priority %q", *p.Priority)
	case p.Type != nil && !p.Type.Valid():
		return invalid(EntityTask, "type", "unknown type %q", *p.Type)
	}
	if p.StoryPoints != nil {
		if err := checkStoryPoints(*p.StoryPoints); err != nil {
			return err
		}
	}
	if p.DueDate != nil {
		if err := checkDate(EntityTask, "dueDate", *p.DueDate); err != nil {
			return err
		}
	}
	if p.EstimatedHours != nil {
		if err := checkNonNegative(EntityTask, "estimatedHours", *p.EstimatedHours); err != nil {
			return err
		}
	}
	if p.TimeLogged != nil {
		return checkNonNegative(EntityTask, "timeLogged", *p.TimeLogged)
	}
	return nil
}

// Apply merges the present fields into task.
func (p TaskPatch) Apply(task *Task) {
	setIf(&task.Title, p.Title)
	setIf(&task.Description, p.Description)
	setIf(&task.Status, p.Status)
	setIf(&task.Priority, p.Priority)
	setIf(&task.Type, p.Type)
	setIf(&task.Assignee, p.Assignee)
	setIf(&task.Reporter, p.Reporter)
	setIf(&task.ProjectID, p.ProjectID)
	setIf(&task.StoryPoints, p.StoryPoints)
	setSliceIf(&task.Labels, p.Labels)
	setIf(&task.DueDate, p.DueDate)
	setIf(&task.EstimatedHours, p.EstimatedHours)
	setIf(&task.TimeLogged, p.TimeLogged)
	setSliceIf(&task.Attachments, p.Attachments)
}

// MeetingPatch is the partial payload for UpdateMeeting.
type MeetingPatch struct {
	Title             *string      `json:"title,omitempty"`
	Description       *string      `json:"description,omitempty"`
	Date              *string      `json:"date,omitempty"`
	StartTime         *string      `json:"startTime,omitempty"`
	EndTime           *string      `json:"endTime,omitempty"`
	Attendees         *[]string    `json:"attendees,omitempty"`
	Location          *string      `json:"location,omitempty"`
	Type              *MeetingType `json:"type,omitempty"`
	Agenda            *[]string    `json:"agenda,omitempty"`
	MeetingLink       *string      `json:"meetingLink,omitempty"`
	IsRecurring       *bool        `json:"isRecurring,omitempty"`
	RecurrencePattern *string      `json:"recurrencePattern,omitempty"`
	AllDay            *bool        `json:"allDay,omitempty"`
}

// Fields lists the keys present in the patch.
func (p MeetingPatch) Fields() []string {
	var f fieldSet
	f.add("title", p.Title != nil)
	f.add("description", p.Description != nil)
	f.add("date", p.Date != nil)
	f.add("startTime", p.StartTime != nil)
	f.add("endTime", p.EndTime != nil)
	f.add("attendees", p.Attendees != nil)
	f.add("location", p.Location != nil)
	f.add("type", p.Type != nil)
	f.add("agenda", p.Agenda != nil)
	f.add("meetingLink", p.MeetingLink != nil)
	f.add("isRecurring", p.IsRecurring != nil)
	f.add("recurrencePattern", p.RecurrencePattern != nil)
	f.add("allDay", p.AllDay != nil)
	return f
}

// Validate checks only the present fields.
func (p MeetingPatch) Validate() error {
	if p.Title != nil {
		if err := checkRequired(EntityMeeting, "title", *p.Title); err != nil {
			return err
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return invalid(EntityMeeting, "type", "unknown type %q", *p.Type)
	}
	if p.Date != nil {
		return checkDate(EntityMeeting, "date", *p.Date)
	}
	return nil
}

// Apply merges the present fields into meeting.
func (p MeetingPatch) Apply(meeting *Meeting) {
	setIf(&meeting.Title, p.Title)
	setIf(&meeting.Description, p.Description)
	setIf(&meeting.Date, p.Date)
	setIf(&meeting.StartTime, p.StartTime)
	setIf(&meeting.EndTime, p.EndTime)
	setSliceIf(&meeting.Attendees, p.Attendees)
	setIf(&meeting.Location, p.Location)
	setIf(&meeting.Type, p.Type)
	setSliceIf(&meeting.Agenda, p.Agenda)
	setIf(&meeting.MeetingLink, p.MeetingLink)
	setIf(&meeting.IsRecurring, p.IsRecurring)
	setIf(&meeting.RecurrencePattern, p.RecurrencePattern)
	setIf(&meeting.AllDay, p.AllDay)
}

// UserPatch is the partial payload for UpdateUser.
type UserPatch struct {
	Name       *string     `json:"name,omitempty"`
	Email      *string     `json:"email,omitempty"`
	Role       *UserRole   `json:"role,omitempty"`
	Title      *string     `json:"title,omitempty"`
	Department *string     `json:"department,omitempty"`
	Status     *UserStatus `json:"status,omitempty"`
	AvatarURL  *string     `json:"avatarUrl,omitempty"`
}

// Fields lists the keys present in the patch.
func (p UserPatch) Fields() []string {
	var f fieldSet
	f.add("name", p.Name != nil)
	f.add("email", p.Email != nil)
	f.add("role", p.Role != nil)
	f.add("title", p.Title != nil)
	f.add("department", p.Department != nil)
	f.add("status", p.Status != nil)
	f.add("avatarUrl", p.AvatarURL != nil)
	return f
}

// Validate checks only the present fields.
func (p UserPatch) Validate() error {
	if p.Name != nil {
		if err := checkRequired(EntityUser, "name", *p.Name); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := checkRequired(EntityUser, "email", *p.Email); err != nil {
			return err
		}
	}
	if p.Role != nil && !p.Role.Valid() {
		return invalid(EntityUser, "role", "unknown role %q", *p.Role)
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalid(EntityUser, "status", "unknown status %q", *p.Status)
	}
	return nil
}

// Apply merges the present fields into user.
func (p UserPatch) Apply(user *UserProfile) {
	setIf(&user.Name, p.Name)
	setIf(&user.Email, p.Email)
	setIf(&user.Role, p.Role)
	setIf(&user.Title, p.Title)
	setIf(&user.Department, p.Department)
	setIf(&user.Status, p.Status)
	setIf(&user.AvatarURL, p.AvatarURL)
}

// Ptr returns a pointer to v; handy for building patches.
func Ptr[T any](v T) *T { return &v }

type fieldSet []string

func (f *fieldSet) add(name string, present bool) {
	if present {
		*f = append(*f, name)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setSliceIf(dst *[]string, src *[]string) {
	if src == nil {
		return
	}
	*dst = cloneStrings(*src)
}
