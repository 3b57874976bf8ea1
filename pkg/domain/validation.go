package domain

import (
	"slices"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

// Valid reports whether t is a known task type.
func (t TaskType) Valid() bool {
	switch t {
	case TaskStory, TaskBug, TaskTask, TaskEpic:
		return true
	}
	return false
}

// Valid reports whether t is a known meeting type.
func (t MeetingType) Valid() bool {
	switch t {
	case MeetingStandup, MeetingPlanning, MeetingReview, MeetingRetrospective, MeetingClient, MeetingOther:
		return true
	}
	return false
}

// Valid reports whether t is a known message type.
func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageFile, MessageSystem:
		return true
	}
	return false
}

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotifyProject, NotifyTask, NotifyMeeting, NotifyChat:
		return true
	}
	return false
}

// Valid reports whether r is a known directory role.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDeveloper, RoleDesigner, RoleQA:
		return true
	}
	return false
}

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

// ValidDate reports whether s is empty or a zero-padded YYYY-MM-DD date.
// View functions compare dates as strings, so any other shape breaks ordering.
func ValidDate(s string) bool {
	if s == "" {
		return true
	}
	if len(s) != len(dateLayout) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func checkProgress(entity EntityType, progress int) error {
	if progress < 0 || progress > 100 {
		return invalid(entity, "progress", "must be within [0,100], got %d", progress)
	}
	return nil
}

func checkStoryPoints(points int) error {
	if !slices.Contains(StoryPoints, points) {
		return invalid(EntityTask, "storyPoints", "must be one of %v, got %d", StoryPoints, points)
	}
	return nil
}

func checkDate(entity EntityType, field, value string) error {
	if !ValidDate(value) {
		return invalid(entity, field, "must be YYYY-MM-DD, got %q", value)
	}
	return nil
}

func checkNonNegative(entity EntityType, field string, v float64) error {
	if v < 0 {
		return invalid(entity, field, "must not be negative, got %v", v)
	}
	return nil
}

func checkRequired(entity EntityType, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalid(entity, field, "is required")
	}
	return nil
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
