// Package service contains the enrollment transaction: the ordered,
// concurrency-sensitive flow that matches a verified user to a formation
// and claims one of its seats.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/iliyamo/formation-enrollment/internal/model"
	"github.com/iliyamo/formation-enrollment/internal/repository"
)

// Error kinds produced by Enroll.  Each step of the transaction resolves
// its failure into exactly one of these; the HTTP handler is the single
// place where kinds become status codes.
var (
	ErrUnauthenticated    = errors.New("missing credential")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrIdentityIncomplete = errors.New("credential has no subject id")
	ErrMissingFormationID = errors.New("formation id is required")
	ErrInvalidFormationID = errors.New("formation id is invalid")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this formation")
	ErrFormationNotFound  = errors.New("formation not found")
	ErrNoSeatsAvailable   = errors.New("no seats available for this formation")
	ErrValidation         = errors.New("enrollment record failed validation")
)

// CredentialVerifier validates a raw bearer credential and yields the
// user ID it identifies.  Implementations must fail with
// ErrInvalidCredential or ErrIdentityIncomplete and have no side effects.
type CredentialVerifier interface {
	Verify(raw string) (uint64, error)
}

// VerifierFunc adapts a plain function to the CredentialVerifier
// interface.
type VerifierFunc func(raw string) (uint64, error)

func (f VerifierFunc) Verify(raw string) (uint64, error) { return f(raw) }

// UserStore resolves verified user IDs to stored users.  Only the display
// name and email are needed here, for denormalization.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// FormationStore is the formation side of the transaction.  ReserveSeat
// must implement the atomic conditional-decrement contract: decrement
// seats by one and return the post-decrement row only if seats was
// strictly positive, otherwise change nothing and return
// repository.ErrNoSeatsAvailable.  FindByID is used solely to tell a
// missing formation apart from a sold-out one after a failed reserve.
type FormationStore interface {
	FindByID(ctx context.Context, id uint64) (*model.Formation, error)
	ReserveSeat(ctx context.Context, id uint64) (*model.Formation, error)
}

// EnrollmentStore persists enrollment receipts.  Create must enforce the
// (user, formation) uniqueness constraint itself and return
// repository.ErrAlreadyEnrolled on violation; the Exists pre-check alone
// is not race-safe.
type EnrollmentStore interface {
	Exists(ctx context.Context, userID, formationID uint64) (bool, error)
	Create(ctx context.Context, e *model.Enrollment) error
}

// EnrollmentService orchestrates the enroll request end to end.
type EnrollmentService struct {
	Verifier    CredentialVerifier
	Users       UserStore
	Formations  FormationStore
	Enrollments EnrollmentStore
}

func NewEnrollmentService(v CredentialVerifier, users UserStore, formations FormationStore, enrollments EnrollmentStore) *EnrollmentService {
	return &EnrollmentService{Verifier: v, Users: users, Formations: formations, Enrollments: enrollments}
}

// Enroll runs the enrollment transaction for the given raw bearer
// credential and formation id (as received in the request body).  On
// success it returns the persisted enrollment and a confirmation message
// referencing the formation title.
//
// The steps are strictly ordered and every failure is terminal; nothing
// is retried.  The seat reservation (step 6) mutates shared state exactly
// once per successful call and not at all on failure.  If the insert in
// step 7 fails after a successful reservation (a duplicate race slipping
// past the pre-check, or a store outage) the seat is NOT refunded; there
// is no compensating update.
func (s *EnrollmentService) Enroll(ctx context.Context, rawCredential, formationID string) (*model.Enrollment, string, error) {
	// 1. credential must be present
	if rawCredential == "" {
		return nil, "", ErrUnauthenticated
	}

	// 2. verify identity
	userID, err := s.Verifier.Verify(rawCredential)
	if err != nil {
		if errors.Is(err, ErrIdentityIncomplete) {
			return nil, "", ErrIdentityIncomplete
		}
		return nil, "", ErrInvalidCredential
	}

	// 3. validate input
	if formationID == "" {
		return nil, "", ErrMissingFormationID
	}
	fid, err := strconv.ParseUint(formationID, 10, 64)
	if err != nil || fid == 0 {
		return nil, "", ErrInvalidFormationID
	}

	// 4. resolve the user for denormalization
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Printf("enroll: user %d not found, aborting", userID)
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	log.Printf("enroll: user %q (id=%d) attempting formation %d", user.Email, userID, fid)

	// 5. optimistic duplicate pre-check; the unique index is the real guard
	exists, err := s.Enrollments.Exists(ctx, userID, fid)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrAlreadyEnrolled
	}

	// 6. atomic seat reservation
	formation, err := s.Formations.ReserveSeat(ctx, fid)
	if err != nil {
		if errors.Is(err, repository.ErrNoSeatsAvailable) {
			// the conditional update matched nothing: absent or full?
			if _, ferr := s.Formations.FindByID(ctx, fid); ferr != nil {
				if errors.Is(ferr, repository.ErrFormationNotFound) {
					return nil, "", ErrFormationNotFound
				}
				return nil, "", ferr
			}
			return nil, "", ErrNoSeatsAvailable
		}
		return nil, "", err
	}

	// 7. persist the receipt; formationSeats records the count at the
	// moment this seat was claimed (post-decrement + 1)
	enrollment := &model.Enrollment{
		UserID:              userID,
		UserName:            user.Name,
		UserEmail:           user.Email,
		FormationID:         formation.ID,
		FormationTitle:      formation.Title,
		FormationDate:       formation.Date,
		FormationLocation:   formation.Location,
		FormationDuration:   formation.Duration,
		FormationInstructor: formation.Instructor,
		FormationPrice:      formation.Price,
		FormationSeats:      formation.Seats + 1,
		FormationLevel:      formation.Level,
	}
	if err := s.Enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrAlreadyEnrolled) {
			// the seat reserved above stays consumed; see doc comment
			log.Printf("enroll: duplicate insert for user=%d formation=%d after reservation, seat not refunded", userID, fid)
			return nil, "", ErrAlreadyEnrolled
		}
		if errors.Is(err, repository.ErrInvalidEnrollment) {
			return nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, "", err
	}

	log.Printf("enroll: user %q enrolled in %q (enrollment id=%d, seats left=%d)",
		user.Email, formation.Title, enrollment.ID, formation.Seats)

	msg := fmt.Sprintf("You have been enrolled in the formation %q.", formation.Title)
	return enrollment, msg, nil
}
