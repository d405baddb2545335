// Package web serves the HTML pages: thin template shells that the frontend
// scripts fill in via the JSON API, plus the form-based auth flows.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"balift/internal/auth"
	"balift/internal/workout"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves all non-/api routes.
type Handler struct {
	chi.Router

	log       *zap.Logger
	users     *auth.Service
	workouts  *workout.Service
	sessions  *auth.Sessions
	templates *template.Template
}

func NewHandler(log *zap.Logger, users *auth.Service, workouts *workout.Service, sessions *auth.Sessions) *Handler {
	h := &Handler{
		log:       log,
		users:     users,
		workouts:  workouts,
		sessions:  sessions,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/login", h.handleLoginForm)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireUserWeb("/login"))

		r.Get("/", h.page("index.html"))
		r.Get("/workouts", h.page("workouts_list.html"))
		r.Get("/workouts/add", h.page("workout_add.html"))
		r.Get("/workouts/{id}", h.page("workout_detail.html"))
		r.Get("/workouts/{id}/edit", h.page("workout_edit.html"))
		r.Get("/exercises", h.page("exercises_list.html"))
		r.Get("/exercises/add", h.page("exercise_add.html"))

		r.Get("/change-password", h.handleChangePasswordForm)
		r.Post("/change-password", h.handleChangePassword)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdminWeb)
			r.Get("/admin/add-user", h.handleAddUserForm)
			r.Post("/admin/add-user", h.handleAddUser)
		})
	})

	h.Router = r
	return h
}

// pageData is the template context shared by every page.
type pageData struct {
	Principal auth.Principal
	WorkoutID string
	Error     string
	Success   string
	Users     interface{}
}

// page renders a template shell. The workout id, when present in the URL, is
// passed through for the page scripts.
func (h *Handler) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := auth.PrincipalFromContext(r.Context())
		h.render(w, name, pageData{
			Principal: p,
			WorkoutID: chi.URLParam(r, "id"),
		})
	}
}

func (h *Handler) render(w http.ResponseWriter, name string, data pageData) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.log.Error("rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}
