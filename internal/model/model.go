// Package model holds the entity structs shared by the services and the
// HTTP layer. Field names in json tags follow the wire format the frontend
// consumes.
package model

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsAdmin      bool      `db:"is_admin" json:"is_admin"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type TrainingType struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type ExerciseCategory struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type Exercise struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	CategoryID   int64  `db:"category_id" json:"category_id"`
	Description  string `db:"description" json:"description"`
	CategoryName string `db:"category_name" json:"category_name,omitempty"`
}

// WorkoutSummary is one row of the workout listing. Username is only
// populated for admin listings, which span all owners.
type WorkoutSummary struct {
	ID       int64  `db:"id" json:"id"`
	Date     string `db:"date" json:"date"`
	TypeName string `db:"type_name" json:"type_name"`
	Username string `db:"username" json:"username,omitempty"`
}

// Workout is the full detail of one workout including its line items.
type Workout struct {
	ID             int64             `db:"id" json:"id"`
	Date           string            `db:"date" json:"date"`
	TrainingTypeID int64             `db:"training_type_id" json:"training_type_id"`
	TypeName       string            `db:"type_name" json:"type_name"`
	Notes          string            `db:"notes" json:"notes"`
	UserID         int64             `db:"user_id" json:"user_id"`
	Exercises      []WorkoutExercise `json:"exercises"`
}

// WorkoutExercise is a line item of a workout. ExerciseName and CategoryName
// are denormalized for display.
type WorkoutExercise struct {
	ID           int64   `db:"id" json:"id"`
	ExerciseID   int64   `db:"exercise_id" json:"exercise_id"`
	ExerciseName string  `db:"exercise_name" json:"exercise_name,omitempty"`
	CategoryName string  `db:"category_name" json:"category_name,omitempty"`
	Sets         int     `db:"sets" json:"sets"`
	Reps         int     `db:"reps" json:"reps"`
	Weight       float64 `db:"weight" json:"weight"`
}
