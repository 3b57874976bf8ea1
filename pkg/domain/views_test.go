package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpcomingMeetingsInclusiveBoundary(t *testing.T) {
	s := State{Meetings: []Meeting{
		{ID: "a", Date: "2024-02-15"},
		{ID: "b", Date: "2024-02-16"},
		{ID: "c", Date: "2024-03-01"},
	}}
	got := UpcomingMeetings(s, "2024-02-16")
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestAllUsersIsUsageDerived(t *testing.T) {
	s := SeedState()
	emails := AllUsers(s)
	assert.Equal(t, []string{
		"john@company.com", "sarah@company.com", "mike@company.com",
		"emma@company.com", "alex@company.com",
	}, emails)

	s.Users = append(s.Users, UserProfile{ID: "u9", Email: "ghost@company.com"})
	assert.NotContains(t, AllUsers(s), "ghost@company.com")
}

func TestActiveConversationStalePointer(t *testing.T) {
	s := State{
		Conversations:        []Conversation{{ID: "c1"}},
		ActiveConversationID: "c2",
	}
	_, ok := ActiveConversation(s)
	assert.False(t, ok)

	s.ActiveConversationID = "c1"
	c, ok := ActiveConversation(s)
	require.True(t, ok)
	assert.Equal(t, "c1", c.ID)
}

func TestStatsForUser(t *testing.T) {
	s := SeedState()
	s.Timesheets = []TimesheetEntry{
		{ID: "t1", ProjectID: "1", UserEmail: "john@company.com", Hours: 2},
		{ID: "t2", ProjectID: "4", UserEmail: "john@company.com", Hours: 1.5},
		{ID: "t3", ProjectID: "4", UserEmail: "emma@company.com", Hours: 4},
	}
	stats := StatsForUser(s, "john@company.com")
	assert.Equal(t, 3, stats.Projects)
	assert.Equal(t, 2, stats.Tasks)
	assert.InDelta(t, 3.5, stats.Hours, 1e-9)

	assert.InDelta(t, 7.5, TotalHours(s.Timesheets), 1e-9)
	assert.Equal(t, map[string]float64{"1": 2, "4": 5.5}, HoursByProject(s))
}

func TestSearchUsersFoldsCaseAndAccents(t *testing.T) {
	users := []UserProfile{
		{ID: "1", Name: "José Núñez", Email: "jose@x.com", Role: RoleDeveloper, Status: UserActive},
		{ID: "2", Name: "Ana", Email: "ana@x.com", Department: "Design", Role: RoleDesigner, Status: UserInactive},
	}
	got := SearchUsers(users, UserFilter{Query: "NUNEZ"})
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = SearchUsers(users, UserFilter{Query: "design"})
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)

	assert.Len(t, SearchUsers(users, UserFilter{Status: UserActive}), 1)
	assert.Len(t, SearchUsers(users, UserFilter{Role: RoleQA}), 0)
	assert.Len(t, SearchUsers(users, UserFilter{}), 2)
}

func TestFilterProjectsSorts(t *testing.T) {
	projects := SeedState().Projects

	recent := FilterProjects(projects, ProjectFilter{})
	assert.Equal(t, []string{"5", "4", "3", "2", "1"}, projectIDs(recent))

	byProgress := FilterProjects(projects, ProjectFilter{Sort: SortProgress})
	assert.Equal(t, []string{"1", "4", "2", "5", "3"}, projectIDs(byProgress))

	byName := FilterProjects(projects, ProjectFilter{Sort: SortName})
	assert.Equal(t, []string{"4", "3", "1", "2", "5"}, projectIDs(byName))

	active := FilterProjects(projects, ProjectFilter{Status: ProjectActive, Sort: SortName})
	assert.Equal(t, []string{"4", "1"}, projectIDs(active))

	q := FilterProjects(projects, ProjectFilter{Query: "MOBILE"})
	assert.Equal(t, []string{"2"}, projectIDs(q))

	q = FilterProjects(projects, ProjectFilter{Query: "payments", Priority: PriorityHigh})
	assert.Equal(t, []string{"3"}, projectIDs(q))
}

func TestTaskBoardColumns(t *testing.T) {
	s := SeedState()
	board := TaskBoard(s, "")
	require.Len(t, board, 4)
	assert.Equal(t, TaskTodo, board[0].Status)
	assert.Len(t, board[0].Tasks, 4)
	assert.Len(t, board[1].Tasks, 2)
	assert.Empty(t, board[2].Tasks)
	assert.Empty(t, board[3].Tasks)

	board = TaskBoard(s, "5")
	assert.Len(t, board[0].Tasks, 2)
	assert.Empty(t, board[1].Tasks)
}

func TestDashboardStats(t *testing.T) {
	s := SeedState()
	s.Notifications = []NotificationItem{{ID: "n1"}, {ID: "n2", Read: true}}
	s.Timesheets = []TimesheetEntry{{ID: "t", Hours: 3}}
	d := DashboardStats(s, "2024-02-16")
	assert.Equal(t, 5, d.Projects)
	assert.Equal(t, 2, d.ActiveProjects)
	assert.Equal(t, 6, d.Tasks)
	assert.Equal(t, 0, d.CompletedTasks)
	assert.Equal(t, 4, d.TasksByStatus[TaskTodo])
	assert.Equal(t, 1, d.UpcomingMeetings)
	assert.Equal(t, 1, d.UnreadNotifications)
	assert.InDelta(t, 3.0, d.TotalHours, 1e-9)
	assert.Equal(t, 5, d.TeamMembers)
}

func TestStateCloneIsDeep(t *testing.T) {
	s := SeedState()
	c := s.Clone()
	c.Projects[0].Team[0] = "changed"
	c.Meetings[0].Agenda[0] = "changed"
	assert.Equal(t, "john@company.com", s.Projects[0].Team[0])
	assert.Equal(t, "Yesterday's progress", s.Meetings[0].Agenda[0])
	assert.Equal(t, s, s.Clone())
}

func TestNormalizeFillsMissingCollections(t *testing.T) {
	s := State{Projects: []Project{{ID: "1", CreatedAt: time.Unix(0, 0).UTC()}}}.Normalize()
	assert.NotNil(t, s.Tasks)
	assert.NotNil(t, s.Users)
	assert.NotNil(t, s.Projects[0].Comments)
	assert.NotNil(t, s.Projects[0].Team)
}

func TestSeedStateShape(t *testing.T) {
	s := SeedState()
	assert.Len(t, s.Projects, 5)
	assert.Len(t, s.Tasks, 6)
	assert.Len(t, s.Meetings, 2)
	assert.Len(t, s.ChatMessages, 3)
	assert.Len(t, s.Users, 5)
	assert.Empty(t, s.Conversations)
	assert.Empty(t, s.Notifications)
	assert.Empty(t, s.Timesheets)
	assert.Empty(t, s.ActiveConversationID)
	assert.Equal(t, "Client Review – Mobile UI", s.Meetings[1].Title)
	assert.Equal(t, UserInactive, s.Users[4].Status)
}

func TestDedupeStrings(t *testing.T) {
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, DedupeStrings([]string{"a@x.com", "", "a@x.com", "b@x.com"}))
	assert.Equal(t, []string{}, DedupeStrings(nil))
}

func projectIDs(projects []Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ID
	}
	return out
}
