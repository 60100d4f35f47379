package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/formation-enrollment/internal/model"
)

// FormationRepo manages persistence for formations.  Catalog reads are
// plain queries; the seat counter is only ever mutated through
// ReserveSeat, which performs the decrement as a single conditional
// UPDATE so concurrent enrollments cannot oversell a course.
type FormationRepo struct {
	db *sql.DB
}

// NewFormationRepo constructs a FormationRepo with the given DB handle.
func NewFormationRepo(db *sql.DB) *FormationRepo {
	return &FormationRepo{db: db}
}

const formationColumns = `id, title, description, date, location, duration, instructor, price, seats, level, image, created_at, updated_at`

func scanFormation(row *sql.Row, f *model.Formation) error {
	var image sql.NullString
	err := row.Scan(
		&f.ID, &f.Title, &f.Description, &f.Date, &f.Location, &f.Duration,
		&f.Instructor, &f.Price, &f.Seats, &f.Level, &image, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if image.Valid {
		f.Image = image.String
	}
	return nil
}

// Create inserts a new formation and populates the generated ID and the
// DB-default timestamps on the given struct.
func (r *FormationRepo) Create(ctx context.Context, f *model.Formation) error {
	const q = `INSERT INTO formations (title, description, date, location, duration, instructor, price, seats, level, image)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULLIF(?, ''))`
	res, err := r.db.ExecContext(ctx, q,
		f.Title, f.Description, f.Date, f.Location, f.Duration,
		f.Instructor, f.Price, f.Seats, f.Level, f.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	const sel = `SELECT ` + formationColumns + ` FROM formations WHERE id = ?`
	return scanFormation(r.db.QueryRowContext(ctx, sel, f.ID), f)
}

// FindByID retrieves a formation by its ID.  It returns
// ErrFormationNotFound if there is no matching row.
func (r *FormationRepo) FindByID(ctx context.Context, id uint64) (*model.Formation, error) {
	const q = `SELECT ` + formationColumns + ` FROM formations WHERE id = ?`
	var f model.Formation
	if err := scanFormation(r.db.QueryRowContext(ctx, q, id), &f); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFormationNotFound
		}
		return nil, err
	}
	return &f, nil
}

// ReserveSeat atomically claims one seat on the formation: it decrements
// the seats counter only when the current value is strictly positive and
// returns the post-decrement row.
//
// The decrement is a single conditional UPDATE (`... SET seats = seats - 1
// WHERE id = ? AND seats > 0`), never a read-then-write in application
// code.  Two concurrent callers racing for the last seat therefore cannot
// both succeed: the row lock serializes the updates and the seats > 0
// predicate stops the loser.  The re-read happens inside the same
// transaction, while the row lock is still held, so the returned snapshot
// is exactly the state this caller produced.
//
// When the UPDATE matches no row (formation absent or sold out) the
// counter is untouched and ErrNoSeatsAvailable is returned.
func (r *FormationRepo) ReserveSeat(ctx context.Context, id uint64) (*model.Formation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const upd = `UPDATE formations SET seats = seats - 1 WHERE id = ? AND seats > 0`
	res, err := tx.ExecContext(ctx, upd, id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNoSeatsAvailable
	}

	const sel = `SELECT ` + formationColumns + ` FROM formations WHERE id = ?`
	var f model.Formation
	var image sql.NullString
	if err := tx.QueryRowContext(ctx, sel, id).Scan(
		&f.ID, &f.Title, &f.Description, &f.Date, &f.Location, &f.Duration,
		&f.Instructor, &f.Price, &f.Seats, &f.Level, &image, &f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if image.Valid {
		f.Image = image.String
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &f, nil
}

// ListFilter carries the optional catalog filters and pagination window
// for List.  Zero values mean "no filter"; Limit falls back to 10.
type ListFilter struct {
	Level    string // exact level match
	Location string // case-insensitive substring match
	Search   string // substring match on title or description
	Limit    int
	Offset   int
}

// List returns formations matching the filter ordered by date ascending,
// plus the total number of matching rows for pagination.
func (r *FormationRepo) List(ctx context.Context, filter ListFilter) ([]model.Formation, int, error) {
	var conds []string
	var args []interface{}
	if filter.Level != "" {
		conds = append(conds, "level = ?")
		args = append(args, filter.Level)
	}
	if filter.Location != "" {
		conds = append(conds, "location LIKE ?")
		args = append(args, "%"+filter.Location+"%")
	}
	if filter.Search != "" {
		conds = append(conds, "(title LIKE ? OR description LIKE ?)")
		pat := "%" + filter.Search + "%"
		args = append(args, pat, pat)
	}
	clause := ""
	if len(conds) > 0 {
		clause = " WHERE " + strings.Join(conds, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := `SELECT ` + formationColumns + ` FROM formations` + clause + ` ORDER BY date ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, append(append([]interface{}{}, args...), limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	formations := make([]model.Formation, 0)
	for rows.Next() {
		var f model.Formation
		var image sql.NullString
		if err := rows.Scan(
			&f.ID, &f.Title, &f.Description, &f.Date, &f.Location, &f.Duration,
			&f.Instructor, &f.Price, &f.Seats, &f.Level, &image, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		if image.Valid {
			f.Image = image.String
		}
		formations = append(formations, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQ := `SELECT COUNT(*) FROM formations` + clause
	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return formations, total, nil
}
