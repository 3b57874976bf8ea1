package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"neonpm/pkg/domain"
)

// message is a one-line confirmation printed by mutating commands.
type message string

func renderText(w io.Writer, data any) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch v := data.(type) {
	case message:
		fmt.Fprintln(tw, string(v))
	case domain.Project:
		projectRows(tw, []domain.Project{v})
	case []domain.Project:
		projectRows(tw, v)
	case domain.Task:
		taskRows(tw, []domain.Task{v})
	case []domain.Task:
		taskRows(tw, v)
	case []domain.BoardColumn:
		for _, col := range v {
			fmt.Fprintf(tw, "== %s (%d)\n", col.Status, len(col.Tasks))
			for _, t := range col.Tasks {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Priority, t.Assignee)
			}
		}
	case domain.Meeting:
		meetingRows(tw, []domain.Meeting{v})
	case []domain.Meeting:
		meetingRows(tw, v)
	case domain.ChatMessage:
		chatRows(tw, []domain.ChatMessage{v})
	case []domain.ChatMessage:
		chatRows(tw, v)
	case domain.Conversation:
		conversationRows(tw, []domain.Conversation{v})
	case []domain.Conversation:
		conversationRows(tw, v)
	case domain.Comment:
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Author, v.Text)
	case domain.NotificationItem:
		notificationRows(tw, []domain.NotificationItem{v})
	case []domain.NotificationItem:
		notificationRows(tw, v)
	case domain.TimesheetEntry:
		timesheetRows(tw, []domain.TimesheetEntry{v})
	case []domain.TimesheetEntry:
		timesheetRows(tw, v)
	case map[string]float64:
		fmt.Fprintln(tw, "PROJECT\tHOURS")
		for _, k := range slices.Sorted(maps.Keys(v)) {
			fmt.Fprintf(tw, "%s\t%.2f\n", k, v[k])
		}
	case domain.UserProfile:
		userRows(tw, []domain.UserProfile{v})
	case []domain.UserProfile:
		userRows(tw, v)
	case []string:
		for _, s := range v {
			fmt.Fprintln(tw, s)
		}
	case domain.UserStats:
		fmt.Fprintf(tw, "Email:\t%s\nProjects:\t%d\nTasks:\t%d\nHours:\t%.2f\n", v.Email, v.Projects, v.Tasks, v.Hours)
	case domain.CurrentUser:
		if v.IsZero() {
			fmt.Fprintln(tw, "not signed in")
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", v.ID, v.Name, v.Email)
		}
	case domain.Dashboard:
		dashboardRows(tw, v)
	default:
		fmt.Fprintln(tw, v)
	}
	return tw.Flush()
}

func projectRows(w io.Writer, projects []domain.Project) {
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tPRIORITY\tPROGRESS\tTEAM")
	for _, p := range projects {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n", p.ID, p.Name, p.Status, p.Priority, p.Progress, strings.Join(p.Team, ","))
	}
}

func taskRows(w io.Writer, tasks []domain.Task) {
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tTYPE\tPROJECT\tASSIGNEE")
	for _, t := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority, t.Type, t.ProjectID, t.Assignee)
	}
}

func meetingRows(w io.Writer, meetings []domain.Meeting) {
	fmt.Fprintln(w, "ID\tTITLE\tDATE\tTIME\tTYPE\tATTENDEES\tLINK")
	for _, m := range meetings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s-%s\t%s\t%d\t%s\n", m.ID, m.Title, m.Date, m.StartTime, m.EndTime, m.Type, len(m.Attendees), m.MeetingLink)
	}
}

func chatRows(w io.Writer, msgs []domain.ChatMessage) {
	for _, m := range msgs {
		text := m.Text
		if m.Type == domain.MessageFile {
			text = fmt.Sprintf("[file %s] %s", m.FileName, m.FileURL)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Timestamp.Format("2006-01-02 15:04"), m.Sender, text)
	}
}

func conversationRows(w io.Writer, convs []domain.Conversation) {
	fmt.Fprintln(w, "ID\tNAME\tPARTICIPANTS\tMESSAGES")
	for _, c := range convs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.ID, domain.ConversationLabel(c), strings.Join(c.ParticipantEmails, ","), len(c.Messages))
	}
}

func notificationRows(w io.Writer, items []domain.NotificationItem) {
	fmt.Fprintln(w, "ID\tTYPE\tTITLE\tBODY\tREAD")
	for _, n := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", n.ID, n.Type, n.Title, n.Body, n.Read)
	}
}

func timesheetRows(w io.Writer, entries []domain.TimesheetEntry) {
	fmt.Fprintln(w, "ID\tPROJECT\tUSER\tDATE\tHOURS\tNOTE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n", e.ID, e.ProjectID, e.UserEmail, e.Date, e.Hours, e.Note)
	}
}

func userRows(w io.Writer, users []domain.UserProfile) {
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tSTATUS")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, u.Status)
	}
}

func dashboardRows(w io.Writer, d domain.Dashboard) {
	fmt.Fprintf(w, "Projects:\t%d (%d active)\n", d.Projects, d.ActiveProjects)
	fmt.Fprintf(w, "Tasks:\t%d (%d done)\n", d.Tasks, d.CompletedTasks)
	fmt.Fprintf(w, "Upcoming meetings:\t%d\n", d.UpcomingMeetings)
	fmt.Fprintf(w, "Unread notifications:\t%d\n", d.UnreadNotifications)
	fmt.Fprintf(w, "Hours logged:\t%.2f\n", d.TotalHours)
	fmt.Fprintf(w, "Team members:\t%d\n", d.TeamMembers)
}
