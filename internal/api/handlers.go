package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"neonpm/internal/api/middleware"
	"neonpm/internal/core"
	"neonpm/pkg/domain"
)

type handler struct {
	svc    *core.Service
	logger *slog.Logger
}

type emailRequest struct {
	Email string `json:"email"`
}

type conversationRequest struct {
	Emails []string `json:"emails"`
	Name   string   `json:"name"`
}

type activeConversationRequest struct {
	ID string `json:"id"`
}

type markReadResponse struct {
	Marked int `json:"marked"`
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := errorFor(err)
	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "request_id", middleware.RequestID(r.Context()), "path", r.URL.Path, "error", err)
	}
	JSONError(w, apiErr)
}

// bind decodes the body into dst and reports whether the handler should continue.
func (h *handler) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := decode(r, dst); err != nil {
		h.fail(w, r, err)
		return false
	}
	return true
}

func id(r *http.Request) string { return chi.URLParam(r, "id") }

// Projects

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ProjectFilter{
		Query:    q.Get("query"),
		Status:   domain.ProjectStatus(q.Get("status")),
		Priority: domain.Priority(q.Get("priority")),
		Sort:     domain.ProjectSort(q.Get("sort")),
	}
	if !f.Sort.Valid() {
		JSONError(w, badRequest("unknown sort "+strconv.Quote(string(f.Sort))))
		return
	}
	OK(w, h.svc.FilterProjects(f))
}

func (h *handler) addProject(w http.ResponseWriter, r *http.Request) {
	var in domain.ProjectInput
	if !h.bind(w, r, &in) {
		return
	}
	p, _, err := h.svc.AddProject(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, p)
}

func (h *handler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ProjectByID(r.Context(), id(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, p)
}

func (h *handler) updateProject(w http.ResponseWriter, r *http.Request) {
	var patch domain.ProjectPatch
	if !h.bind(w, r, &patch) {
		return
	}
	p, _, err := h.svc.UpdateProject(r.Context(), id(r), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, p)
}

func (h *handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteProject(r.Context(), id(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

func (h *handler) projectTasks(w http.ResponseWriter, r *http.Request) {
	OK(w, h.svc.TasksByProject(id(r)))
}

func (h *handler) projectTimeLogs(w http.ResponseWriter, r *http.Request) {
	OK(w, h.svc.TimeLogsByProject(id(r)))
}

func (h *handler) addProjectComment(w http.ResponseWriter, r *http.Request) {
	var in domain.CommentInput
	if !h.bind(w, r, &in) {
		return
	}
	c, _, err := h.svc.AddProjectComment(r.Context(), id(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, c)
}

func (h *handler) assignProjectUser(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.bind(w, r, &req) {
		return
	}
	p, _, err := h.svc.AssignUserToProject(r.Context(), id(r), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, p)
}

func (h *handler) removeProjectUser(w http.ResponseWriter, r *http.Request) {
	p, _, err := h.svc.RemoveUserFromProject(r.Context(), id(r), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, p)
}

// Tasks

func (h *handler) listTasks(w http.ResponseWriter, r *http.Request) {
	if projectID := r.URL.Query().Get("projectId"); projectID != "" {
		OK(w, h.svc.TasksByProject(projectID))
		return
	}
	OK(w, h.svc.Tasks())
}

func (h *handler) taskBoard(w http.ResponseWriter, r *http.Request) {
	OK(w, h.svc.TaskBoard(r.URL.Query().Get("projectId")))
}

func (h *handler) addTask(w http.ResponseWriter, r *http.Request) {
	var in domain.TaskInput
	if !h.bind(w, r, &in) {
		return
	}
	t, _, err := h.svc.AddTask(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, t)
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var patch domain.TaskPatch
	if !h.bind(w, r, &patch) {
		return
	}
	t, _, err := h.svc.UpdateTask(r.Context(), id(r), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, t)
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteTask(r.Context(), id(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

// Meetings

func (h *handler) listMeetings(w http.ResponseWriter, r *http.Request) {
	if upcoming, _ := strconv.ParseBool(r.URL.Query().Get("upcoming")); upcoming {
		OK(w, h.svc.UpcomingMeetings())
		return
	}
	OK(w, h.svc.Meetings())
}

func (h *handler) addMeeting(w http.ResponseWriter, r *http.Request) {
	var in domain.MeetingInput
	if !h.bind(w, r, &in) {
		return
	}
	m, _, err := h.svc.AddMeeting(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, m)
}

func (h *handler) updateMeeting(w http.ResponseWriter, r *http.Request) {
	var patch domain.MeetingPatch
	if !h.bind(w, r, &patch) {
		return
	}
	m, _, err := h.svc.UpdateMeeting(r.Context(), id(r), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, m)
}

func (h *handler) deleteMeeting(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteMeeting(r.Context(), id(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

func (h *handler) startMeeting(w http.ResponseWriter, r *http.Request) {
	m, _, err := h.svc.StartMeeting(r.Context(), id(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, m)
}

func (h *handler) toggleMeetingAttendee(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.bind(w, r, &req) {
		return
	}
	m, _, err := h.svc.ToggleMeetingAttendee(r.Context(), id(r), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, m)
}

// Chat and conversations

func (h *handler) listChat(w http.ResponseWriter, _ *http.Request) {
	OK(w, h.svc.ChatMessages())
}

func (h *handler) addChatMessage(w http.ResponseWriter, r *http.Request) {
	var in domain.ChatMessageInput
	if !h.bind(w, r, &in) {
		return
	}
	msg, _, err := h.svc.AddChatMessage(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, msg)
}

func (h *handler) listConversations(w http.ResponseWriter, _ *http.Request) {
	OK(w, h.svc.Conversations())
}

func (h *handler) createConversation(w http.ResponseWriter, r *http.Request) {
	var req conversationRequest
	if !h.bind(w, r, &req) {
		return
	}
	c, _, err := h.svc.CreateConversation(r.Context(), req.Emails, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, c)
}

func (h *handler) activeConversation(w http.ResponseWriter, r *http.Request) {
	c, ok := h.svc.ActiveConversation()
	if !ok {
		h.fail(w, r, &domain.NotFoundError{Entity: domain.EntityConversation, ID: h.svc.Export().ActiveConversationID})
		return
	}
	OK(w, c)
}

func (h *handler) setActiveConversation(w http.ResponseWriter, r *http.Request) {
	var req activeConversationRequest
	if !h.bind(w, r, &req) {
		return
	}
	if _, err := h.svc.SetActiveConversation(r.Context(), req.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

func (h *handler) deleteConversation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteConversation(r.Context(), id(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

func (h *handler) addParticipant(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !h.bind(w, r, &req) {
		return
	}
	c, _, err := h.svc.AddParticipantToConversation(r.Context(), id(r), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, c)
}

func (h *handler) removeParticipant(w http.ResponseWriter, r *http.Request) {
	c, _, err := h.svc.RemoveParticipantFromConversation(r.Context(), id(r), chi.URLParam(r, "email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, c)
}

func (h *handler) addConversationMessage(w http.ResponseWriter, r *http.Request) {
	var in domain.ChatMessageInput
	if !h.bind(w, r, &in) {
		return
	}
	msg, _, err := h.svc.AddConversationMessage(r.Context(), id(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, msg)
}

// Notifications

func (h *handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	if unread, _ := strconv.ParseBool(r.URL.Query().Get("unread")); unread {
		OK(w, h.svc.UnreadNotifications())
		return
	}
	OK(w, h.svc.Notifications())
}

func (h *handler) addNotification(w http.ResponseWriter, r *http.Request) {
	var in domain.NotificationInput
	if !h.bind(w, r, &in) {
		return
	}
	n, _, err := h.svc.AddNotification(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, n)
}

func (h *handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	marked, _, err := h.svc.MarkAllNotificationsRead(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, markReadResponse{Marked: marked})
}

// Time logs

func (h *handler) listTimeLogs(w http.ResponseWriter, r *http.Request) {
	if projectID := r.URL.Query().Get("projectId"); projectID != "" {
		OK(w, h.svc.TimeLogsByProject(projectID))
		return
	}
	OK(w, h.svc.TimeLogs())
}

func (h *handler) hoursByProject(w http.ResponseWriter, _ *http.Request) {
	OK(w, h.svc.HoursByProject())
}

func (h *handler) addTimeLog(w http.ResponseWriter, r *http.Request) {
	var in domain.TimesheetInput
	if !h.bind(w, r, &in) {
		return
	}
	e, _, err := h.svc.AddTimeLog(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, e)
}

func (h *handler) deleteTimeLog(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteTimeLog(r.Context(), id(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

// Users

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	OK(w, h.svc.SearchUsers(domain.UserFilter{
		Query:  q.Get("query"),
		Role:   domain.UserRole(q.Get("role")),
		Status: domain.UserStatus(q.Get("status")),
	}))
}

func (h *handler) allUserEmails(w http.ResponseWriter, _ *http.Request) {
	OK(w, h.svc.AllUsers())
}

func (h *handler) userStats(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		JSONError(w, badRequest("email query parameter is required"))
		return
	}
	OK(w, h.svc.UserStats(email))
}

func (h *handler) addUser(w http.ResponseWriter, r *http.Request) {
	var in domain.UserInput
	if !h.bind(w, r, &in) {
		return
	}
	u, _, err := h.svc.AddUser(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	Created(w, u)
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var patch domain.UserPatch
	if !h.bind(w, r, &patch) {
		return
	}
	u, _, err := h.svc.UpdateUser(r.Context(), id(r), patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, u)
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.DeleteUser(r.Context(), id(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

// Session

func (h *handler) currentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.CurrentUser(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, u)
}

func (h *handler) signIn(w http.ResponseWriter, r *http.Request) {
	var u domain.CurrentUser
	if !h.bind(w, r, &u) {
		return
	}
	if err := h.svc.SignIn(r.Context(), u); err != nil {
		h.fail(w, r, err)
		return
	}
	OK(w, u)
}

func (h *handler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.SignOut(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

// Document

func (h *handler) dashboard(w http.ResponseWriter, _ *http.Request) {
	OK(w, h.svc.Dashboard())
}

func (h *handler) export(w http.ResponseWriter, _ *http.Request) {
	OK(w, h.svc.Export())
}

func (h *handler) importState(w http.ResponseWriter, r *http.Request) {
	var state domain.State
	if !h.bind(w, r, &state) {
		return
	}
	if err := h.svc.Import(r.Context(), state.Normalize()); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	NoContent(w)
}
