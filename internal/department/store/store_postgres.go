package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"nadra/internal/department/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// Postgres persists departments in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func scanDepartment(row interface{ Scan(dest ...any) error }) (*models.Department, error) {
	var d models.Department
	var id string
	if err := row.Scan(&id, &d.Name, &d.Type, &d.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := domain.ParseDepartmentID(id)
	if err != nil {
		return nil, fmt.Errorf("stored department id invalid: %w", err)
	}
	d.ID = parsed
	return &d, nil
}

func (s *Postgres) Create(ctx context.Context, dept *models.Department) error {
	query := `INSERT INTO departments (id, name, type, created_at) VALUES ($1, $2, $3, $4)`
	_, err := s.db.ExecContext(ctx, query, dept.ID.String(), dept.Name, dept.Type, dept.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("department %q: %w", dept.Name, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.DepartmentID) (*models.Department, error) {
	query := `SELECT id, name, type, created_at FROM departments WHERE id = $1`
	d, err := scanDepartment(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("department %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return d, nil
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.Department, error) {
	query := `SELECT id, name, type, created_at FROM departments WHERE name = $1`
	d, err := scanDepartment(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("department %q: %w", name, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find department by name: %w", err)
	}
	return d, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Department, error) {
	query := `SELECT id, name, type, created_at FROM departments ORDER BY name ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []*models.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return out, nil
}
