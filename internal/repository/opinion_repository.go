package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/formation-enrollment/internal/model"
)

// OpinionRepo manages contact-form submissions.
type OpinionRepo struct {
	db *sql.DB
}

func NewOpinionRepo(db *sql.DB) *OpinionRepo { return &OpinionRepo{db: db} }

// Create inserts an opinion and populates the generated ID and the
// DB-default creation timestamp.
func (r *OpinionRepo) Create(ctx context.Context, o *model.Opinion) error {
	const q = `INSERT INTO opinions (name, email, subject, message) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, o.Name, o.Email, o.Subject, o.Message)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	const sel = `SELECT created_at FROM opinions WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, o.ID).Scan(&o.CreatedAt)
}

// ListAll returns every submission, newest first.
func (r *OpinionRepo) ListAll(ctx context.Context) ([]model.Opinion, error) {
	const q = `SELECT id, name, email, subject, message, created_at FROM opinions ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Opinion, 0)
	for rows.Next() {
		var o model.Opinion
		if err := rows.Scan(&o.ID, &o.Name, &o.Email, &o.Subject, &o.Message, &o.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}
