package domain

import (
	"cmp"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// View functions are pure reads over a State. They never mutate their input
// and return fresh slices.

// ProjectByID resolves a project by id.
func ProjectByID(s State, id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return CloneProject(p), true
		}
	}
	return Project{}, false
}

// TasksByProject returns the tasks whose projectId equals projectID.
func TasksByProject(s State, projectID string) []Task {
	out := []Task{}
	for _, t := range s.Tasks {
		if t.ProjectID == projectID {
			out = append(out, CloneTask(t))
		}
	}
	return out
}

// TimeLogsByProject returns the timesheet entries for projectID in stored order.
func TimeLogsByProject(s State, projectID string) []TimesheetEntry {
	out := []TimesheetEntry{}
	for _, e := range s.Timesheets {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out
}

// UpcomingMeetings returns meetings dated on or after today. Both sides are
// YYYY-MM-DD so a string comparison orders them correctly.
func UpcomingMeetings(s State, today string) []Meeting {
	out := []Meeting{}
	for _, m := range s.Meetings {
		if m.Date >= today {
			out = append(out, CloneMeeting(m))
		}
	}
	return out
}

// AllUsers collects the distinct emails referenced by projects (assignee,
// reporter, team) and tasks (assignee, reporter) in first-seen order. It is
// derived from usage and is not the managed user directory.
func AllUsers(s State) []string {
	var emails []string
	for _, p := range s.Projects {
		emails = append(emails, p.Assignee, p.Reporter)
		emails = append(emails, p.Team...)
	}
	for _, t := range s.Tasks {
		emails = append(emails, t.Assignee, t.Reporter)
	}
	return DedupeStrings(emails)
}

// ActiveConversation resolves the pointer. It reports false when the
// pointer is unset or names a deleted conversation.
func ActiveConversation(s State) (Conversation, bool) {
	if s.ActiveConversationID == "" {
		return Conversation{}, false
	}
	for _, c := range s.Conversations {
		if c.ID == s.ActiveConversationID {
			return CloneConversation(c), true
		}
	}
	return Conversation{}, false
}

// TotalHours sums the hours of entries.
func TotalHours(entries []TimesheetEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

// HoursByProject sums logged hours per project id.
func HoursByProject(s State) map[string]float64 {
	out := make(map[string]float64)
	for _, e := range s.Timesheets {
		out[e.ProjectID] += e.Hours
	}
	return out
}

// UserStats summarises one person's involvement.
type UserStats struct {
	Email    string  `json:"email"`
	Projects int     `json:"projects"`
	Tasks    int     `json:"tasks"`
	Hours    float64 `json:"hours"`
}

// StatsForUser counts projects where email is on the team or is assignee or
// reporter, tasks where it is assignee or reporter, and its logged hours.
func StatsForUser(s State, email string) UserStats {
	stats := UserStats{Email: email}
	for _, p := range s.Projects {
		if p.Assignee == email || p.Reporter == email || slices.Contains(p.Team, email) {
			stats.Projects++
		}
	}
	for _, t := range s.Tasks {
		if t.Assignee == email || t.Reporter == email {
			stats.Tasks++
		}
	}
	for _, e := range s.Timesheets {
		if e.UserEmail == email {
			stats.Hours += e.Hours
		}
	}
	return stats
}

// UserFilter narrows the directory listing. Empty fields match everything.
type UserFilter struct {
	Query  string     `json:"query,omitempty"`
	Role   UserRole   `json:"role,omitempty"`
	Status UserStatus `json:"status,omitempty"`
}

// SearchUsers matches Query as a case- and accent-insensitive substring of
// name, email, title and department.
func SearchUsers(users []UserProfile, f UserFilter) []UserProfile {
	q := foldText(f.Query)
	out := []UserProfile{}
	for _, u := range users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		if q != "" {
			haystack := foldText(strings.Join([]string{u.Name, u.Email, u.Title, u.Department}, " "))
			if !strings.Contains(haystack, q) {
				continue
			}
		}
		out = append(out, u)
	}
	return out
}

// ProjectSort orders FilterProjects output.
type ProjectSort string

// Supported project orderings.
const (
	SortRecent   ProjectSort = "recent"
	SortProgress ProjectSort = "progress"
	SortName     ProjectSort = "name"
)

// Valid reports whether s is a known ordering.
func (s ProjectSort) Valid() bool {
	switch s {
	case "", SortRecent, SortProgress, SortName:
		return true
	}
	return false
}

// ProjectFilter narrows and orders the project list.
type ProjectFilter struct {
	Query    string        `json:"query,omitempty"`
	Status   ProjectStatus `json:"status,omitempty"`
	Priority Priority      `json:"priority,omitempty"`
	Sort     ProjectSort   `json:"sort,omitempty"`
}

// FilterProjects matches Query against name and description, then sorts by
// most recently updated (default), progress descending or name.
func FilterProjects(projects []Project, f ProjectFilter) []Project {
	q := foldText(f.Query)
	out := []Project{}
	for _, p := range projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Priority != "" && p.Priority != f.Priority {
			continue
		}
		if q != "" && !strings.Contains(foldText(p.Name), q) && !strings.Contains(foldText(p.Description), q) {
			continue
		}
		out = append(out, CloneProject(p))
	}
	switch f.Sort {
	case SortProgress:
		slices.SortStableFunc(out, func(a, b Project) int { return cmp.Compare(b.Progress, a.Progress) })
	case SortName:
		col := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(out, func(a, b Project) int { return col.CompareString(a.Name, b.Name) })
	default:
		slices.SortStableFunc(out, func(a, b Project) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	}
	return out
}

// BoardColumn is one status lane of the task board.
type BoardColumn struct {
	Status TaskStatus `json:"status"`
	Tasks  []Task     `json:"tasks"`
}

// BoardStatuses lists the board columns in display order.
var BoardStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskReview, TaskDone}

// TaskBoard groups tasks into the four status columns. An empty projectID
// includes every project.
func TaskBoard(s State, projectID string) []BoardColumn {
	cols := make([]BoardColumn, len(BoardStatuses))
	index := make(map[TaskStatus]int, len(BoardStatuses))
	for i, st := range BoardStatuses {
		cols[i] = BoardColumn{Status: st, Tasks: []Task{}}
		index[st] = i
	}
	for _, t := range s.Tasks {
		if projectID != "" && t.ProjectID != projectID {
			continue
		}
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, CloneTask(t))
		}
	}
	return cols
}

// UnreadNotifications returns notifications with read=false, head first.
func UnreadNotifications(s State) []NotificationItem {
	out := []NotificationItem{}
	for _, n := range s.Notifications {
		if !n.Read {
			out = append(out, n)
		}
	}
	return out
}

// Dashboard is the aggregate shown on the landing page.
type Dashboard struct {
	Projects            int                   `json:"projects"`
	ActiveProjects      int                   `json:"activeProjects"`
	ProjectsByStatus    map[ProjectStatus]int `json:"projectsByStatus"`
	Tasks               int                   `json:"tasks"`
	CompletedTasks      int                   `json:"completedTasks"`
	TasksByStatus       map[TaskStatus]int    `json:"tasksByStatus"`
	UpcomingMeetings    int                   `json:"upcomingMeetings"`
	UnreadNotifications int                   `json:"unreadNotifications"`
	TotalHours          float64               `json:"totalHours"`
	TeamMembers         int                   `json:"teamMembers"`
}

// DashboardStats computes the landing-page aggregate as of today.
func DashboardStats(s State, today string) Dashboard {
	d := Dashboard{
		Projects:         len(s.Projects),
		Tasks:            len(s.Tasks),
		ProjectsByStatus: make(map[ProjectStatus]int),
		TasksByStatus:    make(map[TaskStatus]int),
	}
	for _, p := range s.Projects {
		d.ProjectsByStatus[p.Status]++
	}
	for _, t := range s.Tasks {
		d.TasksByStatus[t.Status]++
	}
	d.ActiveProjects = d.ProjectsByStatus[ProjectActive]
	d.CompletedTasks = d.TasksByStatus[TaskDone]
	d.UpcomingMeetings = len(UpcomingMeetings(s, today))
	d.UnreadNotifications = len(UnreadNotifications(s))
	d.TotalHours = TotalHours(s.Timesheets)
	d.TeamMembers = len(AllUsers(s))
	return d
}

// foldText lowers case and strips combining marks so "José" matches "jose".
func foldText(s string) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
