// Package workout implements CRUD over workouts and their exercise line
// items, including the ownership rules that decide what a caller may see or
// change.
package workout

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"balift/internal/apperr"
	"balift/internal/auth"
	"balift/internal/model"
	"balift/internal/store"
)

// errWorkoutNotFound is returned both for missing ids and for workouts the
// caller does not own, so a non-owner cannot tell which ids exist.
var errWorkoutNotFound = apperr.New(apperr.ENotFound, "workout not found")

// Service is the workout repository.
type Service struct {
	store *store.Store
	log   *zap.Logger

	// now is swappable so tests can pin the date used by Copy.
	now func() time.Time
}

func NewService(store *store.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// LineInput is one exercise line item of a create or update request.
type LineInput struct {
	ExerciseID int64   `json:"exercise_id"`
	Sets       int     `json:"sets"`
	Reps       int     `json:"reps"`
	Weight     float64 `json:"weight"`
}

// Input carries the mutable fields of a workout. Exercises replaces the
// stored line items wholesale; an empty list is a valid workout with no
// logged exercises.
type Input struct {
	Date           string      `json:"date"`
	TrainingTypeID int64       `json:"training_type_id"`
	Notes          string      `json:"notes"`
	Exercises      []LineInput `json:"exercises"`
}

// normalizeDate rejects anything that does not parse as a calendar date and
// returns it re-rendered as YYYY-MM-DD, so stored dates are always in the
// padded form regardless of how the client wrote them.
func normalizeDate(date string) (string, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", apperr.New(apperr.EInvalid, "invalid date format, expected YYYY-MM-DD")
	}
	return parsed.Format("2006-01-02"), nil
}

// List returns workout summaries ordered by date descending. Admins see
// every user's workouts together with the owner's username; everyone else
// sees only their own.
func (s *Service) List(ctx context.Context, caller auth.Principal) ([]model.WorkoutSummary, error) {
	q := sq.Select("w.id", "w.date", "tt.name AS type_name").
		From("workouts w").
		Join("training_types tt ON w.training_type_id = tt.id").
		OrderBy("w.date DESC", "w.id DESC")

	if caller.IsAdmin {
		q = q.Columns("u.username").Join("users u ON w.user_id = u.id")
	} else {
		q = q.Where(sq.Eq{"w.user_id": caller.UserID})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.EInternal, "build workout listing")
	}

	summaries := []model.WorkoutSummary{}
	if err := s.store.DB.SelectContext(ctx, &summaries, query, args...); err != nil {
		s.log.Error("list workouts", zap.Error(err))
		return nil, apperr.Wrap(err, apperr.EInternal, "list workouts")
	}
	return summaries, nil
}

// Get returns the full workout with its line items. A workout owned by
// someone else looks exactly like a missing one to a non-admin caller.
func (s *Service) Get(ctx context.Context, id int64, caller auth.Principal) (model.Workout, error) {
	w, err := s.fetch(ctx, id)
	if err != nil {
		return model.Workout{}, err
	}
	if !caller.IsAdmin && w.UserID != caller.UserID {
		return model.Workout{}, errWorkoutNotFound
	}

	lines, err := s.lines(ctx, id)
	if err != nil {
		return model.Workout{}, err
	}
	w.Exercises = lines
	return w, nil
}

// Create validates the date before touching the database, then inserts the
// workout row and all of its line items in one transaction.
func (s *Service) Create(ctx context.Context, in Input, ownerID int64) (int64, error) {
	date, err := normalizeDate(in.Date)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.store.Tx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO workouts (date, training_type_id, notes, user_id) VALUES (?, ?, ?, ?)",
			date, in.TrainingTypeID, in.Notes, ownerID)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return insertLines(ctx, tx, id, in.Exercises)
	})
	if err != nil {
		s.log.Error("create workout", zap.Int64("owner_id", ownerID), zap.Error(err))
		return 0, apperr.Wrap(err, apperr.EInternal, "create workout")
	}
	return id, nil
}

// Update rewrites the workout's fields and replaces its line items with the
// supplied list, in one transaction. The ownership check precedes all
// mutation.
func (s *Service) Update(ctx context.Context, id int64, in Input, caller auth.Principal) error {
	if err := s.authorize(ctx, id, caller); err != nil {
		return err
	}

	date, err := normalizeDate(in.Date)
	if err != nil {
		return err
	}

	err = s.store.Tx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"UPDATE workouts SET date = ?, training_type_id = ?, notes = ? WHERE id = ?",
			date, in.TrainingTypeID, in.Notes, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM workout_exercises WHERE workout_id = ?", id); err != nil {
			return err
		}
		return insertLines(ctx, tx, id, in.Exercises)
	})
	if err != nil {
		s.log.Error("update workout", zap.Int64("workout_id", id), zap.Error(err))
		return apperr.Wrap(err, apperr.EInternal, "update workout")
	}
	return nil
}

// Delete removes the workout and its line items. The ownership check
// precedes deletion; admins bypass it.
func (s *Service) Delete(ctx context.Context, id int64, caller auth.Principal) error {
	if err := s.authorize(ctx, id, caller); err != nil {
		return err
	}

	err := s.store.Tx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM workout_exercises WHERE workout_id = ?", id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM workouts WHERE id = ?", id)
		return err
	})
	if err != nil {
		s.log.Error("delete workout", zap.Int64("workout_id", id), zap.Error(err))
		return apperr.Wrap(err, apperr.EInternal, "delete workout")
	}
	return nil
}

// Copy duplicates a workout's type, notes and line items under the same
// owner as the source, dated today. It performs no ownership check; any
// authenticated caller may copy any workout, matching the long-standing
// frontend behavior.
func (s *Service) Copy(ctx context.Context, id int64) (int64, error) {
	w, err := s.fetch(ctx, id)
	if err != nil {
		return 0, err
	}
	lines, err := s.lines(ctx, id)
	if err != nil {
		return 0, err
	}

	var newID int64
	err = s.store.Tx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO workouts (date, training_type_id, notes, user_id) VALUES (?, ?, ?, ?)",
			s.now().Format("2006-01-02"), w.TrainingTypeID, w.Notes, w.UserID)
		if err != nil {
			return err
		}
		if newID, err = res.LastInsertId(); err != nil {
			return err
		}

		in := make([]LineInput, 0, len(lines))
		for _, l := range lines {
			in = append(in, LineInput{ExerciseID: l.ExerciseID, Sets: l.Sets, Reps: l.Reps, Weight: l.Weight})
		}
		return insertLines(ctx, tx, newID, in)
	})
	if err != nil {
		s.log.Error("copy workout", zap.Int64("workout_id", id), zap.Error(err))
		return 0, apperr.Wrap(err, apperr.EInternal, "copy workout")
	}
	return newID, nil
}

// authorize resolves the workout's owner and masks both missing ids and
// foreign ownership behind the same not-found error.
func (s *Service) authorize(ctx context.Context, id int64, caller auth.Principal) error {
	var ownerID int64
	err := s.store.DB.GetContext(ctx, &ownerID,
		"SELECT user_id FROM workouts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return errWorkoutNotFound
	}
	if err != nil {
		return apperr.Wrap(err, apperr.EInternal, "look up workout")
	}
	if !caller.IsAdmin && ownerID != caller.UserID {
		return errWorkoutNotFound
	}
	return nil
}

func (s *Service) fetch(ctx context.Context, id int64) (model.Workout, error) {
	var w model.Workout
	err := s.store.DB.GetContext(ctx, &w,
		`SELECT w.id, w.date, w.training_type_id, tt.name AS type_name, w.notes, w.user_id
		FROM workouts w
		JOIN training_types tt ON w.training_type_id = tt.id
		WHERE w.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Workout{}, errWorkoutNotFound
	}
	if err != nil {
		return model.Workout{}, apperr.Wrap(err, apperr.EInternal, "look up workout")
	}
	return w, nil
}

func (s *Service) lines(ctx context.Context, workoutID int64) ([]model.WorkoutExercise, error) {
	lines := []model.WorkoutExercise{}
	err := s.store.DB.SelectContext(ctx, &lines,
		`SELECT we.id, e.id AS exercise_id, e.name AS exercise_name,
			ec.name AS category_name, we.sets, we.reps, we.weight
		FROM workout_exercises we
		JOIN exercises e ON we.exercise_id = e.id
		JOIN exercise_categories ec ON e.category_id = ec.id
		WHERE we.workout_id = ?
		ORDER BY we.id`, workoutID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.EInternal, "list workout exercises")
	}
	return lines, nil
}

// insertLines batch-inserts the line items for a workout inside the caller's
// transaction. No statement is issued for an empty list.
func insertLines(ctx context.Context, tx *sqlx.Tx, workoutID int64, lines []LineInput) error {
	if len(lines) == 0 {
		return nil
	}

	q := sq.Insert("workout_exercises").
		Columns("workout_id", "exercise_id", "sets", "reps", "weight")
	for _, l := range lines {
		q = q.Values(workoutID, l.ExerciseID, l.Sets, l.Reps, l.Weight)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
