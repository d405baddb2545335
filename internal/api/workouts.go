package api

import (
	"net/http"

	"balift/internal/apperr"
	"balift/internal/workout"
)

// workoutRequest is the body of POST /api/workouts and PUT /api/workouts/{id}.
// Pointer fields distinguish missing keys from zero values.
type workoutRequest struct {
	Date           *string             `json:"date"`
	TrainingTypeID *int64              `json:"training_type_id"`
	Notes          *string             `json:"notes"`
	Exercises      []workout.LineInput `json:"exercises"`
}

func (req *workoutRequest) toInput() (workout.Input, error) {
	if req.Date == nil {
		return workout.Input{}, apperr.New(apperr.EInvalid, "missing required field 'date'")
	}
	if req.TrainingTypeID == nil {
		return workout.Input{}, apperr.New(apperr.EInvalid, "missing required field 'training_type_id'")
	}

	in := workout.Input{
		Date:           *req.Date,
		TrainingTypeID: *req.TrainingTypeID,
		Exercises:      req.Exercises,
	}
	if req.Notes != nil {
		in.Notes = *req.Notes
	}
	return in, nil
}

func (h *Handler) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.workouts.List(r.Context(), principal(r))
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, summaries)
}

func (h *Handler) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.err(w, r, err)
		return
	}

	detail, err := h.workouts.Get(r.Context(), id, principal(r))
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, detail)
}

func (h *Handler) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req workoutRequest
	if err := h.decode(w, r, &req); err != nil {
		h.err(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.err(w, r, err)
		return
	}

	id, err := h.workouts.Create(r.Context(), in, principal(r).UserID)
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, map[string]interface{}{"success": true, "id": id})
}

func (h *Handler) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.err(w, r, err)
		return
	}

	var req workoutRequest
	if err := h.decode(w, r, &req); err != nil {
		h.err(w, r, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.err(w, r, err)
		return
	}

	if err := h.workouts.Update(r.Context(), id, in, principal(r)); err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.err(w, r, err)
		return
	}

	if err := h.workouts.Delete(r.Context(), id, principal(r)); err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) handleCopyWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.err(w, r, err)
		return
	}

	newID, err := h.workouts.Copy(r.Context(), id)
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, map[string]interface{}{"success": true, "id": newID})
}
