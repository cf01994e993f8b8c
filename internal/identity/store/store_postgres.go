package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"nadra/internal/identity/models"
	"nadra/pkg/domain"
	"nadra/pkg/platform/sentinel"
)

const pgUniqueViolation = "23505"

// Postgres persists operator accounts in PostgreSQL. Roles are stored as a
// comma-joined list and re-validated through the closed role enum on scan.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func joinRoles(roles []domain.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

func splitRoles(joined string) ([]domain.Role, error) {
	if joined == "" {
		return nil, nil
	}
	parts := strings.Split(joined, ",")
	roles := make([]domain.Role, 0, len(parts))
	for _, p := range parts {
		r, err := domain.ParseRole(p)
		if err != nil {
			return nil, fmt.Errorf("stored role invalid: %w", err)
		}
		roles = append(roles, r)
	}
	return roles, nil
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	var u models.User
	var id, roles string
	var deptID sql.NullString
	if err := row.Scan(&id, &u.Email, &u.FullName, &u.PasswordHash, &roles, &deptID, &u.CreatedAt); err != nil {
		return nil, err
	}

	parsedID, err := domain.ParseUserID(id)
	if err != nil {
		return nil, fmt.Errorf("stored user id invalid: %w", err)
	}
	u.ID = parsedID

	if u.Roles, err = splitRoles(roles); err != nil {
		return nil, err
	}
	if deptID.Valid {
		parsed, err := domain.ParseDepartmentID(deptID.String)
		if err != nil {
			return nil, fmt.Errorf("stored department id invalid: %w", err)
		}
		u.DepartmentID = &parsed
	}
	return &u, nil
}

func (s *Postgres) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, full_name, password_hash, roles, department_id, created_at)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
	`
	var deptID any
	if user.DepartmentID != nil {
		deptID = user.DepartmentID.String()
	}
	_, err := s.db.ExecContext(ctx, query,
		user.ID.String(), user.Email, user.FullName, user.PasswordHash,
		joinRoles(user.Roles), deptID, user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("email %s: %w", user.Email, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

const userColumns = `id, email, full_name, password_hash, roles, department_id, created_at`

func (s *Postgres) FindByID(ctx context.Context, id domain.UserID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	u, err := scanUser(s.db.QueryRowContext(ctx, query, strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("email %s: %w", email, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}
