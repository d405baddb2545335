package workout

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"balift/internal/apperr"
	"balift/internal/model"
)

// TrainingTypes returns the seeded training type reference data.
func (s *Service) TrainingTypes(ctx context.Context) ([]model.TrainingType, error) {
	types := []model.TrainingType{}
	if err := s.store.DB.SelectContext(ctx, &types, "SELECT id, name FROM training_types"); err != nil {
		return nil, apperr.Wrap(err, apperr.EInternal, "list training types")
	}
	return types, nil
}

// ExerciseCategories returns the seeded category reference data.
func (s *Service) ExerciseCategories(ctx context.Context) ([]model.ExerciseCategory, error) {
	categories := []model.ExerciseCategory{}
	if err := s.store.DB.SelectContext(ctx, &categories, "SELECT id, name FROM exercise_categories"); err != nil {
		return nil, apperr.Wrap(err, apperr.EInternal, "list exercise categories")
	}
	return categories, nil
}

// Exercises lists exercises, optionally restricted to one category.
func (s *Service) Exercises(ctx context.Context, categoryID int64) ([]model.Exercise, error) {
	exercises := []model.Exercise{}
	var err error
	if categoryID > 0 {
		err = s.store.DB.SelectContext(ctx, &exercises,
			"SELECT id, name, category_id, description FROM exercises WHERE category_id = ?", categoryID)
	} else {
		err = s.store.DB.SelectContext(ctx, &exercises,
			"SELECT id, name, category_id, description FROM exercises")
	}
	if err != nil {
		return nil, apperr.Wrap(err, apperr.EInternal, "list exercises")
	}
	return exercises, nil
}

// Exercise returns one exercise with its category name.
func (s *Service) Exercise(ctx context.Context, id int64) (model.Exercise, error) {
	var e model.Exercise
	err := s.store.DB.GetContext(ctx, &e,
		`SELECT e.id, e.name, e.category_id, e.description, ec.name AS category_name
		FROM exercises e
		JOIN exercise_categories ec ON e.category_id = ec.id
		WHERE e.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Exercise{}, apperr.New(apperr.ENotFound, "exercise not found")
	}
	if err != nil {
		return model.Exercise{}, apperr.Wrap(err, apperr.EInternal, "look up exercise")
	}
	return e, nil
}

// CreateExercise adds an exercise to the catalog.
func (s *Service) CreateExercise(ctx context.Context, name string, categoryID int64, description string) (int64, error) {
	res, err := s.store.DB.ExecContext(ctx,
		"INSERT INTO exercises (name, category_id, description) VALUES (?, ?, ?)",
		name, categoryID, description)
	if err != nil {
		s.log.Error("create exercise", zap.String("name", name), zap.Error(err))
		return 0, apperr.Wrap(err, apperr.EInternal, "create exercise")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Wrap(err, apperr.EInternal, "create exercise")
	}
	return id, nil
}

// DeleteExercise removes an exercise from the catalog. Exercises referenced
// by any workout line item cannot be deleted.
func (s *Service) DeleteExercise(ctx context.Context, id int64) error {
	var refs int
	err := s.store.DB.GetContext(ctx, &refs,
		"SELECT COUNT(*) FROM workout_exercises WHERE exercise_id = ?", id)
	if err != nil {
		return apperr.Wrap(err, apperr.EInternal, "check exercise references")
	}
	if refs > 0 {
		return apperr.New(apperr.EConflict, "exercise is used by a workout and cannot be deleted")
	}

	res, err := s.store.DB.ExecContext(ctx, "DELETE FROM exercises WHERE id = ?", id)
	if err != nil {
		s.log.Error("delete exercise", zap.Int64("exercise_id", id), zap.Error(err))
		return apperr.Wrap(err, apperr.EInternal, "delete exercise")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.New(apperr.ENotFound, "exercise not found")
	}
	return nil
}
