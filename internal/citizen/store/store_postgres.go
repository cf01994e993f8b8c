package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"nadra/internal/citizen/models"
	"nadra/pkg/domain"
	dErrors "nadra/pkg/domain-errors"
	"nadra/pkg/platform/sentinel"
	"nadra/pkg/platform/tx"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint hits.
const pgUniqueViolation = "23505"

// Postgres persists citizens in PostgreSQL. This store is pure I/O; defaults
// and format validation belong to the model and service layers.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed citizen store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// querier is satisfied by *sql.DB and *sql.Tx so reads and writes can join an
// ambient adjudication transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

const citizenColumns = `id, full_name, cnic, father_name, date_of_birth, gender, address, marital_status, nationality, alive, created_at`

func scanCitizen(row interface{ Scan(dest ...any) error }) (*models.Citizen, error) {
	var c models.Citizen
	var id string
	err := row.Scan(&id, &c.FullName, &c.CNIC, &c.FatherName, &c.DateOfBirth,
		&c.Gender, &c.Address, &c.MaritalStatus, &c.Nationality, &c.Alive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := domain.ParseCitizenID(id)
	if err != nil {
		return nil, fmt.Errorf("stored citizen id invalid: %w", err)
	}
	c.ID = parsed
	return &c, nil
}

func (s *Postgres) Create(ctx context.Context, citizen *models.Citizen) error {
	query := `
		INSERT INTO citizens (` + citizenColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		citizen.ID.String(), citizen.FullName, citizen.CNIC, citizen.FatherName,
		citizen.DateOfBirth, citizen.Gender, citizen.Address, citizen.MaritalStatus,
		citizen.Nationality, citizen.Alive, citizen.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("cnic %s: %w", citizen.CNIC, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create citizen: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id domain.CitizenID) (*models.Citizen, error) {
	query := `SELECT ` + citizenColumns + ` FROM citizens WHERE id = $1`
	c, err := scanCitizen(s.q(ctx).QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("citizen %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find citizen: %w", err)
	}
	return c, nil
}

func (s *Postgres) FindByCNIC(ctx context.Context, cnic string) (*models.Citizen, error) {
	query := `SELECT ` + citizenColumns + ` FROM citizens WHERE cnic = $1`
	c, err := scanCitizen(s.q(ctx).QueryRowContext(ctx, query, cnic))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cnic %s: %w", cnic, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find citizen by cnic: %w", err)
	}
	return c, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Citizen, error) {
	query := `SELECT ` + citizenColumns + ` FROM citizens ORDER BY created_at ASC`
	rows, err := s.q(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list citizens: %w", err)
	}
	defer rows.Close()

	var out []*models.Citizen
	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, fmt.Errorf("scan citizen: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list citizens: %w", err)
	}
	return out, nil
}

func (s *Postgres) Update(ctx context.Context, citizen *models.Citizen) error {
	query := `
		UPDATE citizens
		SET full_name = $2, father_name = $3, date_of_birth = $4, gender = $5,
		    address = $6, marital_status = $7, nationality = $8, alive = $9
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		citizen.ID.String(), citizen.FullName, citizen.FatherName, citizen.DateOfBirth,
		citizen.Gender, citizen.Address, citizen.MaritalStatus, citizen.Nationality, citizen.Alive,
	)
	if err != nil {
		return fmt.Errorf("update citizen: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update citizen: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("citizen %s: %w", citizen.ID, sentinel.ErrNotFound)
	}
	return nil
}

// fieldColumns maps each mutable field to its column. Immutable fields have
// no entry here, mirroring the model's accessor table.
var fieldColumns = map[models.MutableField]string{
	models.FieldFullName:      "full_name",
	models.FieldFatherName:    "father_name",
	models.FieldGender:        "gender",
	models.FieldAddress:       "address",
	models.FieldMaritalStatus: "marital_status",
	models.FieldNationality:   "nationality",
	models.FieldAlive:         "alive",
}

// ApplyField writes one field. When called inside an adjudication it joins
// the transaction carried by the context, so the field write and the request
// status transition commit together.
func (s *Postgres) ApplyField(ctx context.Context, id domain.CitizenID, field models.MutableField, value string) error {
	column, ok := fieldColumns[field]
	if !ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "unknown field in accessor table lookup")
	}

	var arg any = value
	if field == models.FieldAlive {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "IsAlive must be true or false")
		}
		arg = b
	}

	query := fmt.Sprintf(`UPDATE citizens SET %s = $2 WHERE id = $1`, column)
	res, err := s.q(ctx).ExecContext(ctx, query, id.String(), arg)
	if err != nil {
		return fmt.Errorf("apply field %s: %w", field, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("apply field %s: %w", field, err)
	}
	if affected == 0 {
		return fmt.Errorf("citizen %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}
