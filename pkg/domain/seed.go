package domain

import "time"

// SeedState returns the sample document loaded when nothing has been
// persisted yet: five projects, six tasks, two meetings, three broadcast
// chat messages and five directory users.
func SeedState() State {
	return State{
		Projects:      seedProjects(),
		Tasks:         seedTasks(),
		Meetings:      seedMeetings(),
		ChatMessages:  seedChat(),
		Conversations: []Conversation{},
		Notifications: []NotificationItem{},
		Timesheets:    []TimesheetEntry{},
		Users:         seedUsers(),
	}.Normalize()
}

func seedTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		panic(err)
	}
	return t
}

func seedProjects() []Project {
	return []Project{
		{
			ID:          "1",
			Name:        "E-commerce Platform",
			Description: "Building a modern e-commerce platform with React and Node.js",
			Status:      ProjectActive,
			Priority:    PriorityHigh,
			StartDate:   "2024-01-01",
			EndDate:     "2024-03-15",
			Assignee:    "john@company.com",
			Reporter:    "sarah@company.com",
			Team:        []string{"john@company.com", "mike@company.com", "sarah@company.com"},
			Progress:    75,
			Labels:      []string{"frontend", "backend", "urgent"},
			CreatedAt:   seedTime("2024-01-01T10:00:00Z"),
			UpdatedAt:   seedTime("2024-01-15T14:30:00Z"),
		},
		{
			ID:          "2",
			Name:        "Mobile App Redesign",
			Description: "Refresh the mobile UI with new design system and animations",
			Status:      ProjectPlanning,
			Priority:    PriorityMedium,
			StartDate:   "2024-02-01",
			EndDate:     "2024-04-30",
			Assignee:    "mike@company.com",
			Reporter:    "sarah@company.com",
			Team:        []string{"mike@company.com", "emma@company.com"},
			Progress:    30,
			Labels:      []string{"ui", "ux"},
			CreatedAt:   seedTime("2024-02-01T09:00:00Z"),
			UpdatedAt:   seedTime("2024-02-10T11:00:00Z"),
		},
		{
			ID:          "3",
			Name:        "API Integration",
			Description: "Integrate third-party payments and analytics APIs",
			Status:      ProjectOnHold,
			Priority:    PriorityHigh,
			StartDate:   "2024-02-10",
			EndDate:     "2024-05-20",
			Assignee:    "alex@company.com",
			Reporter:    "john@company.com",
			Team:        []string{"alex@company.com", "john@company.com"},
			Progress:    10,
			Labels:      []string{"api", "payments"},
			CreatedAt:   seedTime("2024-02-10T10:00:00Z"),
			UpdatedAt:   seedTime("2024-02-12T10:00:00Z"),
		},
		{
			ID:          "4",
			Name:        "Analytics Dashboard",
			Description: "Build analytics dashboards with charts and reporting for leadership.",
			Status:      ProjectActive,
			Priority:    PriorityMedium,
			StartDate:   "2024-02-05",
			EndDate:     "2024-04-10",
			Assignee:    "emma@company.com",
			Reporter:    "sarah@company.com",
			Team:        []string{"emma@company.com", "john@company.com"},
			Progress:    55,
			Labels:      []string{"charts", "reporting"},
			CreatedAt:   seedTime("2024-02-05T10:00:00Z"),
			UpdatedAt:   seedTime("2024-02-18T12:00:00Z"),
		},
		{
			ID:          "5",
			Name:        "QA Automation Suite",
			Description: "Set up E2E test automation and CI integration.",
			Status:      ProjectPlanning,
			Priority:    PriorityHigh,
			StartDate:   "2024-03-01",
			EndDate:     "2024-06-01",
			Assignee:    "mike@company.com",
			Reporter:    "sarah@company.com",
			Team:        []string{"mike@company.com", "alex@company.com"},
			Progress:    20,
			Labels:      []string{"qa", "automation", "ci"},
			CreatedAt:   seedTime("2024-03-01T08:30:00Z"),
			UpdatedAt:   seedTime("2024-03-05T09:00:00Z"),
		},
	}
}

func seedTasks() []Task {
	return []Task{
		{
			ID:             "1",
			Title:          "User Authentication System",
			Description:    "Implement JWT-based authentication with role management",
			Status:         TaskInProgress,
			Priority:       PriorityHigh,
			Type:           TaskStory,
			Assignee:       "john@company.com",
			Reporter:       "sarah@company.com",
			ProjectID:      "1",
			StoryPoints:    8,
			Labels:         []string{"backend", "security"},
			DueDate:        "2024-02-15",
			EstimatedHours: 24,
			TimeLogged:     16,
			CreatedAt:      seedTime("2024-01-05T09:00:00Z"),
			UpdatedAt:      seedTime("2024-01-10T16:00:00Z"),
		},
		{
			ID:             "2",
			Title:          "Product Listing Page",
			Description:    "Build responsive catalog with filters and sorting",
			Status:         TaskTodo,
			Priority:       PriorityMedium,
			Type:           TaskTask,
			Assignee:       "emma@company.com",
			Reporter:       "mike@company.com",
			ProjectID:      "2",
			StoryPoints:    5,
			Labels:         []string{"frontend"},
			DueDate:        "2024-03-01",
			EstimatedHours: 16,
			CreatedAt:      seedTime("2024-02-02T09:00:00Z"),
			UpdatedAt:      seedTime("2024-02-02T09:00:00Z"),
		},
		{
			ID:             "3",
			Title:          "Payments Service Integration",
			Description:    "Integrate Stripe payments with webhooks",
			Status:         TaskTodo,
			Priority:       PriorityHigh,
			Type:           TaskStory,
			Assignee:       "alex@company.com",
			Reporter:       "john@company.com",
			ProjectID:      "3",
			StoryPoints:    8,
			Labels:         []string{"api", "payments"},
			DueDate:        "2024-03-10",
			EstimatedHours: 24,
			CreatedAt:      seedTime("2024-02-11T10:00:00Z"),
			UpdatedAt:      seedTime("2024-02-11T10:00:00Z"),
		},
		{
			ID:             "4",
			Title:          "KPI Overview Cards",
			Description:    "Design and build KPI summary cards for analytics.",
			Status:         TaskInProgress,
			Priority:       PriorityMedium,
			Type:           TaskTask,
			Assignee:       "emma@company.com",
			Reporter:       "sarah@company.com",
			ProjectID:      "4",
			StoryPoints:    3,
			Labels:         []string{"charts", "ui"},
			DueDate:        "2024-03-05",
			EstimatedHours: 10,
			TimeLogged:     2,
			CreatedAt:      seedTime("2024-02-20T10:00:00Z"),
			UpdatedAt:      seedTime("2024-02-21T10:00:00Z"),
		},
		{
			ID:             "5",
			Title:          "CI Pipeline for E2E",
			Description:    "Configure CI workflows to run Playwright tests.",
			Status:         TaskTodo,
			Priority:       PriorityHigh,
			Type:           TaskTask,
			Assignee:       "mike@company.com",
			Reporter:       "sarah@company.com",
			ProjectID:      "5",
			StoryPoints:    5,
			Labels:         []string{"qa", "automation", "ci"},
			DueDate:        "2024-03-20",
			EstimatedHours: 18,
			CreatedAt:      seedTime("2024-03-02T09:00:00Z"),
			UpdatedAt:      seedTime("2024-03-02T09:00:00Z"),
		},
		{
			ID:             "6",
			Title:          "Smoke Test Suite",
			Description:    "Create initial smoke test coverage for core flows.",
			Status:         TaskTodo,
			Priority:       PriorityMedium,
			Type:           TaskTask,
			Assignee:       "alex@company.com",
			Reporter:       "mike@company.com",
			ProjectID:      "5",
			StoryPoints:    3,
			Labels:         []string{"qa"},
			DueDate:        "2024-03-25",
			EstimatedHours: 12,
			CreatedAt:      seedTime("2024-03-03T09:00:00Z"),
			UpdatedAt:      seedTime("2024-03-03T09:00:00Z"),
		},
	}
}

func seedMeetings() []Meeting {
	return []Meeting{
		{
			ID:                "1",
			Title:             "Daily Standup",
			Description:       "Daily team sync and progress updates",
			Date:              "2024-02-15",
			StartTime:         "09:00",
			EndTime:           "09:30",
			Attendees:         []string{"john@company.com", "mike@company.com", "sarah@company.com"},
			Location:          "Conference Room A",
			Type:              MeetingStandup,
			Agenda:            []string{"Yesterday's progress", "Today's goals", "Blockers"},
			MeetingLink:       "https://meet.google.com/abc-defg-hij",
			IsRecurring:       true,
			RecurrencePattern: "daily",
			CreatedBy:         "sarah@company.com",
			CreatedAt:         seedTime("2024-01-01T10:00:00Z"),
		},
		{
			ID:          "2",
			Title:       "Client Review – Mobile UI",
			Description: "Review wireframes with client stakeholders",
			Date:        "2024-02-18",
			StartTime:   "14:00",
			EndTime:     "15:00",
			Attendees:   []string{"sarah@company.com", "emma@company.com"},
			Location:    "Zoom",
			Type:        MeetingClient,
			Agenda:      []string{"Wireframes", "Feedback", "Next steps"},
			CreatedBy:   "sarah@company.com",
			CreatedAt:   seedTime("2024-02-10T08:00:00Z"),
		},
	}
}

func seedChat() []ChatMessage {
	return []ChatMessage{
		{
			ID:        "1",
			Text:      "Welcome to NeonPM! Start collaborating with your team.",
			Sender:    "System",
			Timestamp: seedTime("2024-01-01T10:00:00Z"),
			Type:      MessageSystem,
		},
		{
			ID:        "2",
			Text:      "Morning all! Today I will work on auth flows.",
			Sender:    "John",
			Timestamp: seedTime("2024-02-10T09:10:00Z"),
			Type:      MessageText,
		},
		{
			ID:        "3",
			Text:      "Uploaded latest mobile designs for your review.",
			Sender:    "Emma",
			Timestamp: seedTime("2024-02-10T09:30:00Z"),
			Type:      MessageText,
		},
	}
}

func seedUsers() []UserProfile {
	return []UserProfile{
		{ID: "u1", Name: "Sarah Chen", Email: "sarah@company.com", Role: RoleManager, Title: "Product Manager", Department: "Product", Status: UserActive},
		{ID: "u2", Name: "John Miller", Email: "john@company.com", Role: RoleDeveloper, Title: "Senior Engineer", Department: "Engineering", Status: UserActive},
		{ID: "u3", Name: "Mike Johnson", Email: "mike@company.com", Role: RoleDeveloper, Title: "Frontend Engineer", Department: "Engineering", Status: UserActive},
		{ID: "u4", Name: "Emma Davis", Email: "emma@company.com", Role: RoleDesigner, Title: "UI/UX Designer", Department: "Design", Status: UserActive},
		{ID: "u5", Name: "Alex Garcia", Email: "alex@company.com", Role: RoleDeveloper, Title: "Backend Engineer", Department: "Engineering", Status: UserInactive},
	}
}
