package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesProjectUpdateFiresOnKeyPresence(t *testing.T) {
	policy := NewNotificationPolicy(DefaultNotificationRules()...)
	before := Project{ID: "1", Name: "Alpha", Status: ProjectActive}

	// status already active; presence alone triggers
	out := policy.Evaluate([]Change{{
		Entity: EntityProject, Action: ActionUpdate, ID: "1",
		Fields: ProjectPatch{Status: Ptr(ProjectActive)}.Fields(),
		Before: before, After: before,
	}})
	require.Len(t, out, 1)
	assert.Equal(t, NotifyProject, out[0].Type)
	assert.Equal(t, "Project Updated", out[0].Title)
	assert.Equal(t, "Alpha", out[0].Body)

	out = policy.Evaluate([]Change{{
		Entity: EntityProject, Action: ActionUpdate, ID: "1",
		Fields: ProjectPatch{Description: Ptr("x")}.Fields(),
		Before: before, After: before,
	}})
	assert.Empty(t, out)
}

func TestDefaultRulesProjectUpdateFallsBackToGenericBody(t *testing.T) {
	policy := NewNotificationPolicy(DefaultNotificationRules()...)
	out := policy.Evaluate([]Change{{
		Entity: EntityProject, Action: ActionUpdate, Fields: []string{"progress"},
		Before: Project{ID: "1"},
	}})
	require.Len(t, out, 1)
	assert.Equal(t, "Project", out[0].Body)
}

func TestDefaultRulesBodies(t *testing.T) {
	policy := NewNotificationPolicy(DefaultNotificationRules()...)
	changes := []Change{
		{Entity: EntityProject, Action: ActionCreate, After: Project{Name: "P"}},
		{Entity: EntityComment, Action: ActionCreate, After: Comment{Text: "looks good"}},
		{Entity: EntityTimesheet, Action: ActionCreate, After: TimesheetEntry{UserEmail: "u@x.com", Hours: 2.5}},
		{Entity: EntityTask, Action: ActionCreate, After: Task{Title: "T"}},
		{Entity: EntityMeeting, Action: ActionCreate, After: Meeting{Title: "M"}},
		{Entity: EntityConversation, Action: ActionCreate, After: Conversation{ParticipantEmails: []string{"a@x.com", "b@x.com"}}},
		{Entity: EntityConversationMessage, Action: ActionCreate, After: ChatMessage{Text: "hi"}},
		{Entity: EntityChatMessage, Action: ActionCreate, After: ChatMessage{Text: "legacy"}},
		{Entity: EntityUser, Action: ActionCreate, After: UserProfile{Name: "U"}},
		{Entity: EntityTask, Action: ActionUpdate, Fields: []string{"status"}},
	}
	out := policy.Evaluate(changes)
	require.Len(t, out, 7)

	want := []NotificationInput{
		{Type: NotifyProject, Title: "New Project", Body: "P"},
		{Type: NotifyProject, Title: "New Comment", Body: "looks good"},
		{Type: NotifyProject, Title: "Time Logged", Body: "u@x.com • 2.5h"},
		{Type: NotifyTask, Title: "New Task", Body: "T"},
		{Type: NotifyMeeting, Title: "New Meeting", Body: "M"},
		{Type: NotifyChat, Title: "New Conversation", Body: "a@x.com, b@x.com"},
		{Type: NotifyChat, Title: "New Message", Body: "hi"},
	}
	assert.Equal(t, want, out)
}

func TestConversationLabel(t *testing.T) {
	assert.Equal(t, "Design", ConversationLabel(Conversation{Name: "Design", ParticipantEmails: []string{"a@x.com"}}))
	assert.Equal(t, "a@x.com", ConversationLabel(Conversation{ParticipantEmails: []string{"a@x.com"}}))
	assert.Equal(t, "Empty", ConversationLabel(Conversation{}))
}

func TestTimeLogSummaryFormatsWholeHours(t *testing.T) {
	assert.Equal(t, "u@x.com • 3h", TimeLogSummary(TimesheetEntry{UserEmail: "u@x.com", Hours: 3}))
}

func TestPolicyRegisterAndNil(t *testing.T) {
	var nilPolicy *NotificationPolicy
	assert.Nil(t, nilPolicy.Evaluate([]Change{{Entity: EntityTask, Action: ActionCreate}}))

	policy := NewNotificationPolicy()
	policy.Register(NotificationRule{Name: "user-added", Entity: EntityUser, Action: ActionCreate, Type: NotifyProject, Title: "New User"})
	out := policy.Evaluate([]Change{{Entity: EntityUser, Action: ActionCreate}})
	require.Len(t, out, 1)
	assert.Equal(t, "New User", out[0].Title)
	assert.Empty(t, out[0].Body)
	assert.Len(t, policy.Rules(), 1)
}
