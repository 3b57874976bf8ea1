package memory

import "neonpm/pkg/domain"

// transactionView exposes a read-only snapshot of the document.
type transactionView struct {
	state *State
}

func newTransactionView(state *State) TransactionView {
	return transactionView{state: state}
}

// State returns a deep copy of the whole document.
func (v transactionView) State() State { return v.state.Clone() }

// FindProject looks a project up by id.
func (v transactionView) FindProject(id string) (domain.Project, bool) {
	if idx := indexByID(v.state.Projects, id, projectID); idx >= 0 {
		return domain.CloneProject(v.state.Projects[idx]), true
	}
	return domain.Project{}, false
}

// FindTask looks a task up by id.
func (v transactionView) FindTask(id string) (domain.Task, bool) {
	if idx := indexByID(v.state.Tasks, id, taskID); idx >= 0 {
		return domain.CloneTask(v.state.Tasks[idx]), true
	}
	return domain.Task{}, false
}

// FindMeeting looks a meeting up by id.
func (v transactionView) FindMeeting(id string) (domain.Meeting, bool) {
	if idx := indexByID(v.state.Meetings, id, meetingID); idx >= 0 {
		return domain.CloneMeeting(v.state.Meetings[idx]), true
	}
	return domain.Meeting{}, false
}

// FindConversation looks a conversation up by id.
func (v transactionView) FindConversation(id string) (domain.Conversation, bool) {
	if idx := indexByID(v.state.Conversations, id, conversationID); idx >= 0 {
		return domain.CloneConversation(v.state.Conversations[idx]), true
	}
	return domain.Conversation{}, false
}

// FindUser looks a user profile up by id.
func (v transactionView) FindUser(id string) (domain.UserProfile, bool) {
	if idx := indexByID(v.state.Users, id, userID); idx >= 0 {
		return v.state.Users[idx], true
	}
	return domain.UserProfile{}, false
}
