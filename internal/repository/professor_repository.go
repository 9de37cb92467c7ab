package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/unilab/lab-reservation-api/internal/model"
)

// ProfessorRepo persists professor records. Emails are normalized to
// lower case before every read or write; uniqueness is enforced by the
// table's unique key and surfaced as ErrEmailExists.
type ProfessorRepo struct {
	db *sql.DB
}

// NewProfessorRepo returns a ProfessorRepo bound to the given database.
func NewProfessorRepo(db *sql.DB) *ProfessorRepo { return &ProfessorRepo{db: db} }

const professorColumns = "id, nome, email, senha_hash, criado_em"

// Create inserts a professor and returns the assigned ID. The caller
// supplies an already-hashed password.
func (r *ProfessorRepo) Create(ctx context.Context, p *model.Professor) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO professores (nome, email, senha_hash) VALUES (?, ?, ?)",
		p.Name, p.Email, p.PasswordHash)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a professor by id or ErrNotFound.
func (r *ProfessorRepo) GetByID(ctx context.Context, id uint64) (model.Professor, error) {
	var p model.Professor
	err := r.db.QueryRowContext(ctx,
		"SELECT "+professorColumns+" FROM professores WHERE id = ? LIMIT 1", id).
		Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Professor{}, ErrNotFound
	}
	return p, err
}

// GetByEmail fetches a professor by normalized email or ErrNotFound.
func (r *ProfessorRepo) GetByEmail(ctx context.Context, email string) (model.Professor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var p model.Professor
	err := r.db.QueryRowContext(ctx,
		"SELECT "+professorColumns+" FROM professores WHERE email = ? LIMIT 1", email).
		Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Professor{}, ErrNotFound
	}
	return p, err
}

// ListAll returns every professor ordered by name.
func (r *ProfessorRepo) ListAll(ctx context.Context) ([]model.Professor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+professorColumns+" FROM professores ORDER BY nome")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Professor, 0)
	for rows.Next() {
		var p model.Professor
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update replaces name, email and password hash. ErrNotFound when the
// id does not exist.
func (r *ProfessorRepo) Update(ctx context.Context, p *model.Professor) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	result, err := r.db.ExecContext(ctx,
		"UPDATE professores SET nome = ?, email = ?, senha_hash = ? WHERE id = ?",
		p.Name, p.Email, p.PasswordHash, p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and for an identical
	// update, so confirm existence before reporting ErrNotFound.
	if n == 0 {
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a professor or reports ErrNotFound.
func (r *ProfessorRepo) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM professores WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
