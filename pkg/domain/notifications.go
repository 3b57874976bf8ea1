package domain

import (
	"strconv"
	"strings"
)

// NotificationRule is one row of the side-effect table: when a change for
// Entity with Action commits, and (if Fields is non-empty) the change
// carries at least one of those keys, a notification of Type titled Title is
// emitted with the body produced by Body.
type NotificationRule struct {
	Name   string
	Entity EntityType
	Action Action
	Fields []string
	Type   NotificationType
	Title  string
	Body   func(Change) string
}

// Matches reports whether the rule fires for c.
func (r NotificationRule) Matches(c Change) bool {
	if c.Entity != r.Entity || c.Action != r.Action {
		return false
	}
	return len(r.Fields) == 0 || c.HasField(r.Fields...)
}

// NotificationPolicy evaluates a rule table against transaction changes.
type NotificationPolicy struct {
	rules []NotificationRule
}

// NewNotificationPolicy constructs a policy with the given rules. Use
// DefaultNotificationRules for the standard table.
func NewNotificationPolicy(rules ...NotificationRule) *NotificationPolicy {
	return &NotificationPolicy{rules: append([]NotificationRule(nil), rules...)}
}

// Register appends a rule.
func (p *NotificationPolicy) Register(rule NotificationRule) {
	p.rules = append(p.rules, rule)
}

// Rules returns a copy of the table.
func (p *NotificationPolicy) Rules() []NotificationRule {
	return append([]NotificationRule(nil), p.rules...)
}

// Evaluate returns one notification payload per matching (change, rule)
// pair, in change order. Callers prepend them in that order so the most
// recent mutation ends up at the head.
func (p *NotificationPolicy) Evaluate(changes []Change) []NotificationInput {
	if p == nil {
		return nil
	}
	var out []NotificationInput
	for _, c := range changes {
		for _, r := range p.rules {
			if !r.Matches(c) {
				continue
			}
			body := ""
			if r.Body != nil {
				body = r.Body(c)
			}
			out = append(out, NotificationInput{Type: r.Type, Title: r.Title, Body: body})
		}
	}
	return out
}

// DefaultNotificationRules is the standard side-effect table. Project
// updates fire on key presence of progress, status or name, not on value
// change.
func DefaultNotificationRules() []NotificationRule {
	return []NotificationRule{
		{
			Name: "project-created", Entity: EntityProject, Action: ActionCreate,
			Type: NotifyProject, Title: "New Project",
			Body: func(c Change) string { return projectOf(c.After).Name },
		},
		{
			Name: "project-updated", Entity: EntityProject, Action: ActionUpdate,
			Fields: []string{"progress", "status", "name"},
			Type:   NotifyProject, Title: "Project Updated",
			Body: func(c Change) string { return orDefault(projectOf(c.Before).Name, "Project") },
		},
		{
			Name: "comment-added", Entity: EntityComment, Action: ActionCreate,
			Type: NotifyProject, Title: "New Comment",
			Body: func(c Change) string {
				comment, _ := c.After.(Comment)
				return comment.Text
			},
		},
		{
			Name: "time-logged", Entity: EntityTimesheet, Action: ActionCreate,
			Type: NotifyProject, Title: "Time Logged",
			Body: func(c Change) string {
				entry, _ := c.After.(TimesheetEntry)
				return TimeLogSummary(entry)
			},
		},
		{
			Name: "task-created", Entity: EntityTask, Action: ActionCreate,
			Type: NotifyTask, Title: "New Task",
			Body: func(c Change) string {
				task, _ := c.After.(Task)
				return task.Title
			},
		},
		{
			Name: "meeting-created", Entity: EntityMeeting, Action: ActionCreate,
			Type: NotifyMeeting, Title: "New Meeting",
			Body: func(c Change) string {
				meeting, _ := c.After.(Meeting)
				return meeting.Title
			},
		},
		{
			Name: "conversation-created", Entity: EntityConversation, Action: ActionCreate,
			Type: NotifyChat, Title: "New Conversation",
			Body: func(c Change) string {
				conv, _ := c.After.(Conversation)
				return ConversationLabel(conv)
			},
		},
		{
			Name: "conversation-message", Entity: EntityConversationMessage, Action: ActionCreate,
			Type: NotifyChat, Title: "New Message",
			Body: func(c Change) string {
				msg, _ := c.After.(ChatMessage)
				return msg.Text
			},
		},
	}
}

// TimeLogSummary renders an entry as "<email> • <hours>h".
func TimeLogSummary(e TimesheetEntry) string {
	return e.UserEmail + " • " + strconv.FormatFloat(e.Hours, 'f', -1, 64) + "h"
}

// ConversationLabel is the name, else the joined participants, else "Empty".
func ConversationLabel(c Conversation) string {
	if c.Name != "" {
		return c.Name
	}
	return orDefault(strings.Join(c.ParticipantEmails, ", "), "Empty")
}

func projectOf(v any) Project {
	p, _ := v.(Project)
	return p
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
