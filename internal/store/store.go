// Package store defines the persistence interface and entities for the
// LabTrack backend, with Firestore and in-memory implementations.
package store

import (
	"context"
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates the unique
	// (UserID, ParameterName, Value, TestDate, Unit) constraint.
	ErrDuplicate = errors.New("duplicate lab parameter")
)

// LabParameter is a single extracted lab result owned by a user.
// TestDate is a calendar date in YYYY-MM-DD form, not a timestamp.
type LabParameter struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	ParameterName string    `json:"parameterName"`
	Value         string    `json:"value"`
	Unit          string    `json:"unit"`
	NormalRange   string    `json:"normalRange"`
	Status        string    `json:"status"`
	TestDate      string    `json:"testDate"`
	SourceFile    string    `json:"sourceFile"`
	ExtractedAt   time.Time `json:"extractedAt"`
	CreatedAt     time.Time `json:"-"`
}

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the store layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Store defines the database operations used by the service layer.
// Every lab-parameter query is scoped to a single user.
type Store interface {
	// Lab parameter operations
	CreateLabParameter(ctx context.Context, param *LabParameter) error
	FindLabParameterByData(ctx context.Context, userID, parameterName, value, testDate, unit string) (*LabParameter, error)
	FindLabParameterBySource(ctx context.Context, userID, parameterName, sourceFile, testDate string) (*LabParameter, error)
	ListLabParameters(ctx context.Context, userID string) ([]*LabParameter, error)
	DeleteLabParameter(ctx context.Context, userID, paramID string) error
	DeleteAllLabParameters(ctx context.Context, userID string) (int, error)

	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// sortParameters orders a result set for the dashboard: newest test
// date first, newest extraction first within a date.
func sortParameters(params []*LabParameter) {
	sort.SliceStable(params, func(i, j int) bool {
		if params[i].TestDate != params[j].TestDate {
			return params[i].TestDate > params[j].TestDate
		}
		return params[i].ExtractedAt.After(params[j].ExtractedAt)
	})
}
