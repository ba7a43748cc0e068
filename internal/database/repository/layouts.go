package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/jask/tilework/internal/database"
)

// LayoutRepo handles stored layouts and their history.
type LayoutRepo struct {
	db *sql.DB
}

func NewLayoutRepo(db *sql.DB) *LayoutRepo { return &LayoutRepo{db: db} }

// Save upserts the layout and records the tree as a new revision. Only the
// newest keep revisions are retained; keep <= 0 retains all of them.
func (r *LayoutRepo) Save(ctx context.Context, l Layout, op string, keep int) error {
	return r.save(ctx, l, op, "", keep)
}

// Restore saves l as a revert to the revision with id restores. The new
// revision remembers that id so later reverts continue from it.
func (r *LayoutRepo) Restore(ctx context.Context, l Layout, restores string, keep int) error {
	return r.save(ctx, l, "revert", restores, keep)
}

func (r *LayoutRepo) save(ctx context.Context, l Layout, op, restores string, keep int) error {
	now := database.Now()
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO layouts(name, tree, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
		 tree=excluded.tree,
		 updated_at=excluded.updated_at;
		`, l.Name, string(l.Tree), now, now); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO layout_history(id, layout_name, op, tree, restores, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), l.Name, op, string(l.Tree), restores, now); err != nil {
			return err
		}
		if keep <= 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx, `
		DELETE FROM layout_history
		WHERE layout_name = ? AND rowid NOT IN (
			SELECT rowid FROM layout_history WHERE layout_name = ? ORDER BY rowid DESC LIMIT ?
		)`, l.Name, l.Name, keep)
		return err
	})
}

// Get returns the layout called name, or nil when there is none.
func (r *LayoutRepo) Get(ctx context.Context, name string) (*Layout, error) {
	row := r.db.QueryRowContext(ctx, `SELECT name, tree, created_at, updated_at FROM layouts WHERE name = ?`, name)
	var l Layout
	var tree string
	if err := row.Scan(&l.Name, &tree, &l.CreatedAt, &l.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	l.Tree = []byte(tree)
	return &l, nil
}

func (r *LayoutRepo) List(ctx context.Context) ([]Layout, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, tree, created_at, updated_at FROM layouts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Layout
	for rows.Next() {
		var l Layout
		var tree string
		if err := rows.Scan(&l.Name, &tree, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		l.Tree = []byte(tree)
		out = append(out, l)
	}
	return out, rows.Err()
}

// Delete removes the layout and its history. It reports whether a layout
// was removed.
func (r *LayoutRepo) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM layouts WHERE name = ?`, name)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// History lists the revisions of a layout, newest first.
func (r *LayoutRepo) History(ctx context.Context, name string, limit int) ([]LayoutRevision, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, layout_name, op, tree, restores, created_at FROM layout_history
	WHERE layout_name = ? ORDER BY rowid DESC LIMIT ?`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LayoutRevision
	for rows.Next() {
		var rev LayoutRevision
		var tree string
		if err := rows.Scan(&rev.ID, &rev.LayoutName, &rev.Op, &tree, &rev.Restores, &rev.CreatedAt); err != nil {
			return nil, err
		}
		rev.Tree = []byte(tree)
		out = append(out, rev)
	}
	return out, rows.Err()
}
