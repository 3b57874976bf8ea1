package domain

import "slices"

// State is the whole persisted document: every collection plus the active
// conversation pointer. Collection order is significant.
type State struct {
	Projects             []Project          `json:"projects"`
	Tasks                []Task             `json:"tasks"`
	Meetings             []Meeting          `json:"meetings"`
	ChatMessages         []ChatMessage      `json:"chatMessages"`
	Conversations        []Conversation     `json:"conversations"`
	ActiveConversationID string             `json:"activeConversationId,omitempty"`
	Notifications        []NotificationItem `json:"notifications"`
	Timesheets           []TimesheetEntry   `json:"timesheets"`
	Users                []UserProfile      `json:"users"`
}

// EmptyState returns a normalized state with no records.
func EmptyState() State {
	return State{}.Normalize()
}

// Normalize replaces nil collections and nested slices with empty ones so
// that documents missing a field, or written by older clients, behave the
// same as freshly created state.
func (s State) Normalize() State {
	s.Projects = nonNil(s.Projects)
	for i := range s.Projects {
		s.Projects[i] = normalizeProject(s.Projects[i])
	}
	s.Tasks = nonNil(s.Tasks)
	for i := range s.Tasks {
		s.Tasks[i] = normalizeTask(s.Tasks[i])
	}
	s.Meetings = nonNil(s.Meetings)
	for i := range s.Meetings {
		s.Meetings[i].Attendees = nonNil(s.Meetings[i].Attendees)
		s.Meetings[i].Agenda = nonNil(s.Meetings[i].Agenda)
	}
	s.ChatMessages = nonNil(s.ChatMessages)
	s.Conversations = nonNil(s.Conversations)
	for i := range s.Conversations {
		s.Conversations[i].ParticipantEmails = nonNil(s.Conversations[i].ParticipantEmails)
		s.Conversations[i].Messages = nonNil(s.Conversations[i].Messages)
	}
	s.Notifications = nonNil(s.Notifications)
	s.Timesheets = nonNil(s.Timesheets)
	s.Users = nonNil(s.Users)
	return s
}

// Clone returns a deep copy sharing no slices with s.
func (s State) Clone() State {
	out := State{
		ActiveConversationID: s.ActiveConversationID,
		Projects:             make([]Project, len(s.Projects)),
		Tasks:                make([]Task, len(s.Tasks)),
		Meetings:             make([]Meeting, len(s.Meetings)),
		ChatMessages:         slices.Clone(nonNil(s.ChatMessages)),
		Conversations:        make([]Conversation, len(s.Conversations)),
		Notifications:        slices.Clone(nonNil(s.Notifications)),
		Timesheets:           slices.Clone(nonNil(s.Timesheets)),
		Users:                slices.Clone(nonNil(s.Users)),
	}
	for i, p := range s.Projects {
		out.Projects[i] = CloneProject(p)
	}
	for i, t := range s.Tasks {
		out.Tasks[i] = CloneTask(t)
	}
	for i, m := range s.Meetings {
		out.Meetings[i] = CloneMeeting(m)
	}
	for i, c := range s.Conversations {
		out.Conversations[i] = CloneConversation(c)
	}
	return out
}

// CloneProject deep-copies a project.
func CloneProject(p Project) Project {
	p.Team = cloneStrings(p.Team)
	p.Labels = cloneStrings(p.Labels)
	p.Attachments = cloneStrings(p.Attachments)
	p.Comments = slices.Clone(nonNil(p.Comments))
	return p
}

// CloneTask deep-copies a task.
func CloneTask(t Task) Task {
	t.Labels = cloneStrings(t.Labels)
	t.Attachments = cloneStrings(t.Attachments)
	t.Comments = slices.Clone(nonNil(t.Comments))
	return t
}

// CloneMeeting deep-copies a meeting.
func CloneMeeting(m Meeting) Meeting {
	m.Attendees = cloneStrings(m.Attendees)
	m.Agenda = cloneStrings(m.Agenda)
	return m
}

// CloneConversation deep-copies a conversation and its message log.
func CloneConversation(c Conversation) Conversation {
	c.ParticipantEmails = cloneStrings(c.ParticipantEmails)
	c.Messages = slices.Clone(nonNil(c.Messages))
	return c
}

func normalizeProject(p Project) Project {
	p.Team = nonNil(p.Team)
	p.Labels = nonNil(p.Labels)
	p.Attachments = nonNil(p.Attachments)
	p.Comments = nonNil(p.Comments)
	return p
}

func normalizeTask(t Task) Task {
	t.Labels = nonNil(t.Labels)
	t.Attachments = nonNil(t.Attachments)
	t.Comments = nonNil(t.Comments)
	return t
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

func cloneStrings(values []string) []string {
	return slices.Clone(nonNil(values))
}

// DedupeStrings keeps the first occurrence of each non-empty value.
func DedupeStrings(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
