package api

import (
	"net/http"
	"strconv"

	"balift/internal/apperr"
)

func (h *Handler) handleListTrainingTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.workouts.TrainingTypes(r.Context())
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, types)
}

func (h *Handler) handleListExerciseCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.workouts.ExerciseCategories(r.Context())
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, categories)
}

func (h *Handler) handleListExercises(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.err(w, r, apperr.New(apperr.EInvalid, "invalid category_id"))
			return
		}
		categoryID = id
	}

	exercises, err := h.workouts.Exercises(r.Context(), categoryID)
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, exercises)
}

func (h *Handler) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.err(w, r, err)
		return
	}

	e, err := h.workouts.Exercise(r.Context(), id)
	if err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, e)
}

func (h *Handler) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		CategoryID  *int64  `json:"category_id"`
		Description string  `json:"description"`
	}
	if err := h.decode(w, r, &req); err != nil {
		h.err(w, r, err)
		return
	}
	if req.Name == nil || *req.Name == "" {
		h.err(w, r, apperr.New(apperr.EInvalid, "missing required field 'name'"))
		return
	}
	if req.CategoryID == nil {
		h.err(w, r, apperr.New(apperr.EInvalid, "missing required field 'category_id'"))
		return
	}

	if _, err := h.workouts.CreateExercise(r.Context(), *req.Name, *req.CategoryID, req.Description); err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusCreated, map[string]interface{}{"success": true})
}

func (h *Handler) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.err(w, r, err)
		return
	}

	if err := h.workouts.DeleteExercise(r.Context(), id); err != nil {
		h.err(w, r, err)
		return
	}
	h.respond(w, http.StatusOK, map[string]interface{}{"success": true})
}
