package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/formation-enrollment/internal/model"
)

// EnrollmentRepo manages the append-only `enrollments` table.  Records
// are written exactly once at the end of a successful enrollment and are
// never updated or deleted.  The (user_id, formation_id) unique index is
// the hard guarantee against duplicate enrollments; the pre-check in the
// service layer is only an optimistic shortcut.
type EnrollmentRepo struct {
	db *sql.DB
}

// NewEnrollmentRepo constructs an EnrollmentRepo bound to the given DB.
func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

const enrollmentColumns = `id, user_id, user_name, user_email, formation_id, formation_title, formation_date,
    formation_location, formation_duration, formation_instructor, formation_price, formation_seats,
    formation_level, enrolled_at`

// Exists reports whether an enrollment already exists for the given
// (user, formation) pair.
func (r *EnrollmentRepo) Exists(ctx context.Context, userID, formationID uint64) (bool, error) {
	const q = `SELECT 1 FROM enrollments WHERE user_id = ? AND formation_id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, userID, formationID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// validate checks that every denormalized field required by the schema is
// present.  A failure here means the snapshot was built incorrectly.
func validateEnrollment(e *model.Enrollment) error {
	missing := ""
	switch {
	case e.UserID == 0:
		missing = "user id"
	case e.UserName == "":
		missing = "user name"
	case e.UserEmail == "":
		missing = "user email"
	case e.FormationID == 0:
		missing = "formation id"
	case e.FormationTitle == "":
		missing = "formation title"
	case e.FormationDate == "":
		missing = "formation date"
	case e.FormationLocation == "":
		missing = "formation location"
	case e.FormationDuration == "":
		missing = "formation duration"
	case e.FormationInstructor == "":
		missing = "formation instructor"
	case e.FormationPrice == "":
		missing = "formation price"
	case e.FormationLevel == "":
		missing = "formation level"
	}
	if missing != "" {
		return fmt.Errorf("%w: missing %s", ErrInvalidEnrollment, missing)
	}
	return nil
}

// Create inserts the enrollment record and populates the generated ID.
// It returns ErrAlreadyEnrolled when the unique (user_id, formation_id)
// index rejects the insert, and ErrInvalidEnrollment when a required
// denormalized field is missing.  EnrolledAt defaults to now (UTC).
func (r *EnrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	if err := validateEnrollment(e); err != nil {
		return err
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now().UTC()
	}
	const q = `INSERT INTO enrollments (user_id, user_name, user_email, formation_id, formation_title,
        formation_date, formation_location, formation_duration, formation_instructor, formation_price,
        formation_seats, formation_level, enrolled_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		e.UserID, e.UserName, e.UserEmail, e.FormationID, e.FormationTitle,
		e.FormationDate, e.FormationLocation, e.FormationDuration, e.FormationInstructor,
		e.FormationPrice, e.FormationSeats, e.FormationLevel, e.EnrolledAt)
	if err != nil {
		// 1062 = ER_DUP_ENTRY, raised by uq_user_formation
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrAlreadyEnrolled
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// ListByUser returns all enrollments for the given user, newest first.
// When none exist, an empty slice is returned.
func (r *EnrollmentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Enrollment, error) {
	const q = `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE user_id = ? ORDER BY enrolled_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Enrollment, 0)
	for rows.Next() {
		var e model.Enrollment
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.UserName, &e.UserEmail, &e.FormationID, &e.FormationTitle,
			&e.FormationDate, &e.FormationLocation, &e.FormationDuration, &e.FormationInstructor,
			&e.FormationPrice, &e.FormationSeats, &e.FormationLevel, &e.EnrolledAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// GetByIDForUser returns a single enrollment owned by the given user.
// Ownership is enforced in the query; a row belonging to someone else is
// indistinguishable from a missing one and yields ErrEnrollmentNotFound.
func (r *EnrollmentRepo) GetByIDForUser(ctx context.Context, id, userID uint64) (*model.Enrollment, error) {
	const q = `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = ? AND user_id = ?`
	var e model.Enrollment
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(
		&e.ID, &e.UserID, &e.UserName, &e.UserEmail, &e.FormationID, &e.FormationTitle,
		&e.FormationDate, &e.FormationLocation, &e.FormationDuration, &e.FormationInstructor,
		&e.FormationPrice, &e.FormationSeats, &e.FormationLevel, &e.EnrolledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, err
	}
	return &e, nil
}
