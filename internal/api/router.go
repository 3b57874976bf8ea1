package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"neonpm/internal/api/middleware"
)

// setupRouter creates the chi router with all routes.
func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestLogger(s.logger, s.config.Verbose))
	r.Use(chimw.Recoverer)
	r.Use(middleware.NewHTTPMetrics(s.registry).Middleware)

	h := &handler{svc: s.svc, logger: s.logger}

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(middleware.RateLimitByIP(s.limiter))
		}

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.listProjects)
			r.Post("/", h.addProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getProject)
				r.Patch("/", h.updateProject)
				r.Delete("/", h.deleteProject)
				r.Get("/tasks", h.projectTasks)
				r.Get("/timelogs", h.projectTimeLogs)
				r.Post("/comments", h.addProjectComment)
				r.Post("/team", h.assignProjectUser)
				r.Delete("/team/{email}", h.removeProjectUser)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.listTasks)
			r.Post("/", h.addTask)
			r.Get("/board", h.taskBoard)
			r.Patch("/{id}", h.updateTask)
			r.Delete("/{id}", h.deleteTask)
		})

		r.Route("/meetings", func(r chi.Router) {
			r.Get("/", h.listMeetings)
			r.Post("/", h.addMeeting)
			r.Patch("/{id}", h.updateMeeting)
			r.Delete("/{id}", h.deleteMeeting)
			r.Post("/{id}/start", h.startMeeting)
			r.Post("/{id}/attendees/toggle", h.toggleMeetingAttendee)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Get("/", h.listChat)
			r.Post("/", h.addChatMessage)
		})

		r.Route("/conversations", func(r chi.Router) {
			r.Get("/", h.listConversations)
			r.Post("/", h.createConversation)
			r.Get("/active", h.activeConversation)
			r.Put("/active", h.setActiveConversation)
			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", h.deleteConversation)
				r.Post("/participants", h.addParticipant)
				r.Delete("/participants/{email}", h.removeParticipant)
				r.Post("/messages", h.addConversationMessage)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.listNotifications)
			r.Post("/", h.addNotification)
			r.Post("/read-all", h.markAllRead)
		})

		r.Route("/timelogs", func(r chi.Router) {
			r.Get("/", h.listTimeLogs)
			r.Post("/", h.addTimeLog)
			r.Get("/hours", h.hoursByProject)
			r.Delete("/{id}", h.deleteTimeLog)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.addUser)
			r.Get("/emails", h.allUserEmails)
			r.Get("/stats", h.userStats)
			r.Patch("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
		})

		r.Route("/session", func(r chi.Router) {
			r.Get("/", h.currentUser)
			r.Put("/", h.signIn)
			r.Delete("/", h.signOut)
		})

		r.Get("/dashboard", h.dashboard)
		r.Get("/export", h.export)
		r.Put("/import", h.importState)
		r.Post("/reset", h.reset)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		OK(w, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return r
}
