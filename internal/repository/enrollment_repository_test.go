package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/formation-enrollment/internal/model"
)

func validEnrollment() *model.Enrollment {
	return &model.Enrollment{
		UserID:              3,
		UserName:            "Nora",
		UserEmail:           "nora@example.com",
		FormationID:         7,
		FormationTitle:      "Go Fundamentals",
		FormationDate:       "12-14 March 2026",
		FormationLocation:   "Lyon",
		FormationDuration:   "3 days",
		FormationInstructor: "A. Martin",
		FormationPrice:      "1200 EUR",
		FormationSeats:      12,
		FormationLevel:      model.LevelBeginner,
	}
}

func TestExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT 1 FROM enrollments WHERE user_id = \? AND formation_id = \? LIMIT 1`).
		WithArgs(uint64(3), uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM enrollments WHERE user_id = \? AND formation_id = \? LIMIT 1`).
		WithArgs(uint64(3), uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := NewEnrollmentRepo(db)

	got, err := repo.Exists(context.Background(), 3, 7)
	require.NoError(t, err)
	require.True(t, got)

	got, err = repo.Exists(context.Background(), 3, 8)
	require.NoError(t, err)
	require.False(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSetsIDAndTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO enrollments`).
		WillReturnResult(sqlmock.NewResult(41, 1))

	repo := NewEnrollmentRepo(db)
	e := validEnrollment()
	require.NoError(t, repo.Create(context.Background(), e))
	require.Equal(t, uint64(41), e.ID)
	require.False(t, e.EnrolledAt.IsZero())
	require.WithinDuration(t, time.Now().UTC(), e.EnrolledAt, time.Minute)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO enrollments`).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry '3-7' for key 'uq_user_formation'"))

	repo := NewEnrollmentRepo(db)
	err = repo.Create(context.Background(), validEnrollment())
	require.ErrorIs(t, err, ErrAlreadyEnrolled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsIncompleteSnapshot(t *testing.T) {
	// validation fails before any statement reaches the database
	repo := NewEnrollmentRepo(nil)

	e := validEnrollment()
	e.FormationTitle = ""
	err := repo.Create(context.Background(), e)
	require.ErrorIs(t, err, ErrInvalidEnrollment)
	require.Contains(t, err.Error(), "formation title")
}

func TestGetByIDForUserEnforcesOwnership(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM enrollments WHERE id = \? AND user_id = \?`).
		WithArgs(uint64(41), uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewEnrollmentRepo(db)
	_, err = repo.GetByIDForUser(context.Background(), 41, 99)
	require.ErrorIs(t, err, ErrEnrollmentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
