// Package api maps the JSON API routes onto the auth and workout services
// and translates service errors into HTTP status codes.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"balift/internal/apperr"
	"balift/internal/auth"
	"balift/internal/workout"
)

// maxRequestBodySize limits POST/PUT body sizes.
const maxRequestBodySize = 1 << 20 // 1 MB

// Handler serves everything under /api.
type Handler struct {
	chi.Router

	log      *zap.Logger
	workouts *workout.Service
}

func NewHandler(log *zap.Logger, workouts *workout.Service, sessions *auth.Sessions) *Handler {
	h := &Handler{
		log:      log,
		workouts: workouts,
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
	)

	r.Group(func(r chi.Router) {
		r.Use(sessions.RequireUser)

		r.Get("/training_types", h.handleListTrainingTypes)
		r.Get("/exercise_categories", h.handleListExerciseCategories)

		r.Route("/exercises", func(r chi.Router) {
			r.Get("/", h.handleListExercises)
			r.Post("/", h.handleCreateExercise)
			r.Get("/{id}", h.handleGetExercise)
			r.Delete("/{id}", h.handleDeleteExercise)
		})

		r.Route("/workouts", func(r chi.Router) {
			r.Get("/", h.handleListWorkouts)
			r.Post("/", h.handleCreateWorkout)
			r.Get("/{id}", h.handleGetWorkout)
			r.Put("/{id}", h.handleUpdateWorkout)
			r.Delete("/{id}", h.handleDeleteWorkout)
			r.Post("/{id}/copy", h.handleCopyWorkout)
		})
	})

	h.Router = r
	return h
}

// respond writes v as the JSON response body.
func (h *Handler) respond(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encoding response", zap.Error(err))
	}
}

// err translates a service error into a status code and the legacy error
// body shapes: {"error": ...} for not-found, {"success": false, "error": ...}
// for everything else. Storage errors surface their raw text; this is an
// internal tool and the text is also logged server-side.
func (h *Handler) err(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.ErrorCode(err)
	if code == apperr.EInternal {
		h.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}

	switch code {
	case apperr.ENotFound:
		h.respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case apperr.EForbidden:
		h.respond(w, http.StatusForbidden, errorBody(err))
	case apperr.EUnauthorized:
		h.respond(w, http.StatusUnauthorized, errorBody(err))
	default:
		// EInvalid, EConflict and storage errors all map to 400
		h.respond(w, http.StatusBadRequest, errorBody(err))
	}
}

func errorBody(err error) map[string]interface{} {
	return map[string]interface{}{"success": false, "error": err.Error()}
}

// decode reads the request body into v with a size cap.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(err, apperr.EInvalid, "invalid request body")
	}
	return nil
}

// idParam parses the {id} route parameter. A non-numeric id behaves like a
// missing resource.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.New(apperr.ENotFound, "not found")
	}
	return id, nil
}

// principal returns the caller stored by the session middleware. The guard
// has already run, so a missing principal is a programming error.
func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFromContext(r.Context())
	return p
}
